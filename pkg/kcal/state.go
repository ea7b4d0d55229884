// Package kcal holds the calibration state of a single display pipeline:
// per-channel gain correction and global hue/saturation/value/contrast
// adjustment, together with the rules that keep every field in range.
//
// State never talks to hardware. Callers push it through hwsync after a
// successful update.
package kcal

import (
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrInvalidValue is returned when a value is malformed or out of range.
// The state is left untouched whenever it is returned.
var ErrInvalidValue = pkgerrors.New("invalid value")

// Defaults installed by Reset.
const (
	DefaultEnabled  = true
	DefaultMinFloor = 35
	DefaultGain     = 256
	DefaultHue      = 0
	DefaultAdjust   = 255
)

// Field names a single calibration field.
type Field string

const (
	FieldEnable     Field = "enable"
	FieldFloor      Field = "floor"
	FieldRed        Field = "red"
	FieldGreen      Field = "green"
	FieldBlue       Field = "blue"
	FieldHue        Field = "hue"
	FieldSaturation Field = "saturation"
	FieldValue      Field = "value"
	FieldContrast   Field = "contrast"
)

// Range is an inclusive range of accepted values.
type Range struct {
	Min uint32 `json:"min"`
	Max uint32 `json:"max"`
}

// Contains reports whether v lies within r.
func (r Range) Contains(v uint32) bool {
	return v >= r.Min && v <= r.Max
}

var (
	GainRange   = Range{Min: 1, Max: 256}
	HueRange    = Range{Min: 0, Max: 1536}
	AdjustRange = Range{Min: 128, Max: 383}
	EnableRange = Range{Min: 0, Max: 1}
)

var ranges = map[Field]Range{
	FieldEnable:     EnableRange,
	FieldFloor:      GainRange,
	FieldRed:        GainRange,
	FieldGreen:      GainRange,
	FieldBlue:       GainRange,
	FieldHue:        HueRange,
	FieldSaturation: AdjustRange,
	FieldValue:      AdjustRange,
	FieldContrast:   AdjustRange,
}

// Gains is the per-channel gain correction. 256 is unity.
type Gains struct {
	Red   uint32 `json:"red"`
	Green uint32 `json:"green"`
	Blue  uint32 `json:"blue"`
}

// Tone is the global tone adjustment. 256 is neutral for everything but hue.
type Tone struct {
	Hue        uint32 `json:"hue"`
	Saturation uint32 `json:"saturation"`
	Value      uint32 `json:"value"`
	Contrast   uint32 `json:"contrast"`
}

// State is the calibration record of one display pipeline.
//
// MinFloor is only applied to the values written to hardware. It never
// rewrites Gain.
type State struct {
	Enabled  bool   `json:"enabled"`
	MinFloor uint32 `json:"minFloor"`
	Gain     Gains  `json:"gain"`
	Tone     Tone   `json:"tone"`
}

// NewState returns a State holding the defaults.
func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset installs the defaults.
func (s *State) Reset() {
	s.Enabled = DefaultEnabled
	s.MinFloor = DefaultMinFloor
	s.Gain = Gains{Red: DefaultGain, Green: DefaultGain, Blue: DefaultGain}
	s.Tone = Tone{
		Hue:        DefaultHue,
		Saturation: DefaultAdjust,
		Value:      DefaultAdjust,
		Contrast:   DefaultAdjust,
	}
}

// RangeOf returns the accepted range of f.
func RangeOf(f Field) (Range, bool) {
	r, ok := ranges[f]
	return r, ok
}

// Set parses raw as an unsigned decimal integer and stores it in f.
func (s *State) Set(f Field, raw string) error {
	r, ok := ranges[f]
	if !ok {
		return pkgerrors.Wrapf(ErrInvalidValue, "unknown field %q", f)
	}

	v, err := parseUint(raw, r)
	if err != nil {
		return pkgerrors.Wrapf(err, "%s", f)
	}

	if f == FieldEnable {
		s.Enabled = v == 1
		return nil
	}
	*s.ref(f) = v

	return nil
}

// SetGains parses three whitespace-separated unsigned integers and stores
// them as red, green and blue. Either all three are stored or none.
func (s *State) SetGains(raw string) error {
	parts := strings.Fields(raw)
	if len(parts) != 3 {
		return pkgerrors.Wrapf(ErrInvalidValue, "expected 3 values, got %d", len(parts))
	}

	var v [3]uint32
	for i, p := range parts {
		n, err := parseUint(p, GainRange)
		if err != nil {
			return pkgerrors.Wrapf(err, "gain %d", i)
		}
		v[i] = n
	}

	s.Gain = Gains{Red: v[0], Green: v[1], Blue: v[2]}

	return nil
}

// Get returns the current value of f. The enable flag reads as 0 or 1.
// Unknown fields read as 0.
func (s *State) Get(f Field) uint32 {
	if f == FieldEnable {
		if s.Enabled {
			return 1
		}
		return 0
	}
	if p := s.ref(f); p != nil {
		return *p
	}
	return 0
}

// ref returns a pointer to the storage of f, or nil for the enable flag.
func (s *State) ref(f Field) *uint32 {
	switch f {
	case FieldFloor:
		return &s.MinFloor
	case FieldRed:
		return &s.Gain.Red
	case FieldGreen:
		return &s.Gain.Green
	case FieldBlue:
		return &s.Gain.Blue
	case FieldHue:
		return &s.Tone.Hue
	case FieldSaturation:
		return &s.Tone.Saturation
	case FieldValue:
		return &s.Tone.Value
	case FieldContrast:
		return &s.Tone.Contrast
	}
	return nil
}

func parseUint(raw string, r Range) (uint32, error) {
	s := strings.TrimSpace(raw)

	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, pkgerrors.Wrapf(ErrInvalidValue, "%q is not an unsigned integer", s)
	}

	v := uint32(n)
	if !r.Contains(v) {
		return 0, pkgerrors.Wrapf(ErrInvalidValue, "%d is out of range [%d,%d]", v, r.Min, r.Max)
	}

	return v, nil
}
