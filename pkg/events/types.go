package events

import "encoding/json"

// Event name constants
const (
	PropertyChanged = "property.changed"
	SurfaceReset    = "surface.reset"
)

// Event is a generic SSE event from daemon.
type Event struct {
	ID   string          // SSE event id
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// PropertyChangedEvent is the typed payload for property.changed.
type PropertyChangedEvent struct {
	Property string `json:"property"`
	Value    string `json:"value"`
	Ts       int64  `json:"ts"`
}

// SurfaceResetEvent is the typed payload for surface.reset.
type SurfaceResetEvent struct {
	Ts int64 `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
