package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/kcal/pkg/attr"
	"github.com/charlie0129/kcal/pkg/config"
	"github.com/charlie0129/kcal/pkg/events"
	"github.com/charlie0129/kcal/pkg/kcal"
)

func (c *Client) GetProperty(name string) (string, error) {
	ret, err := c.Get("/properties/" + name)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get %s", name)
	}
	return parseStringResponse(ret)
}

// SetProperty writes the raw attribute text of a property.
func (c *Client) SetProperty(name string, value string) (string, error) {
	ret, err := c.Put("/properties/"+name, value)
	if err != nil {
		return "", err
	}
	return parseStringResponse(ret)
}

func (c *Client) SetGains(r, g, b int) (string, error) {
	return c.SetProperty(attr.Calibration, fmt.Sprintf("%d %d %d", r, g, b))
}

func (c *Client) SetEnabled(enabled bool) (string, error) {
	v := "0"
	if enabled {
		v = "1"
	}
	return c.SetProperty(attr.Enable, v)
}

func (c *Client) ListProperties() ([]attr.Info, error) {
	ret, err := c.Get("/properties")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list properties")
	}

	var infos []attr.Info
	if err := json.Unmarshal([]byte(ret), &infos); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal properties")
	}
	return infos, nil
}

func (c *Client) GetState() (*kcal.State, error) {
	ret, err := c.Get("/state")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get calibration state")
	}

	var s kcal.State
	if err := json.Unmarshal([]byte(ret), &s); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal calibration state")
	}
	return &s, nil
}

func (c *Client) Reset() (string, error) {
	ret, err := c.Send("POST", "/reset", "")
	if err != nil {
		return "", err
	}
	return parseStringResponse(ret)
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	return parseStringResponse(ret)
}

// SubscribeEvents streams daemon events until ctx is done or the daemon
// closes the stream. The returned channel is closed afterwards.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan events.Event, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", "http://unix/events", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("got %d subscribing to events", resp.StatusCode)
	}

	ch := make(chan events.Event, 16)
	go func() {
		defer close(ch)
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logrus.Debugf("failed to close event stream: %v", err)
			}
		}()

		err := readEvents(bufio.NewScanner(resp.Body), func(ev events.Event) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && ctx.Err() == nil {
			logrus.Warnf("event stream ended: %v", err)
		}
	}()

	return ch, nil
}

// readEvents parses a server-sent event stream and hands every complete
// event to emit until emit returns false.
func readEvents(sc *bufio.Scanner, emit func(events.Event) bool) error {
	var ev events.Event
	var data []string

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if ev.Name != "" || len(data) > 0 {
				ev.Data = json.RawMessage(strings.Join(data, "\n"))
				if !emit(ev) {
					return nil
				}
			}
			ev, data = events.Event{}, nil
			continue
		}

		key, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch key {
		case "id":
			ev.ID = value
		case "event":
			ev.Name = value
		case "data":
			data = append(data, value)
		}
	}

	return sc.Err()
}

func parseStringResponse(resp string) (string, error) {
	var s string
	if err := json.Unmarshal([]byte(resp), &s); err != nil {
		return "", pkgerrors.Errorf("unexpected response: %s", resp)
	}
	return s, nil
}
