package daemon

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/kcal/pkg/attr"
	"github.com/charlie0129/kcal/pkg/config"
	"github.com/charlie0129/kcal/pkg/events"
	"github.com/charlie0129/kcal/pkg/kcal"
	"github.com/charlie0129/kcal/pkg/version"
)

// statusOf maps surface errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, kcal.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, attr.ErrUnknownProperty):
		return http.StatusNotFound
	case errors.Is(err, attr.ErrWithdrawn):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (d *Daemon) listProperties(c *gin.Context) {
	d.mu.Lock()
	infos, err := d.surface.List()
	d.mu.Unlock()
	if err != nil {
		abort(c, statusOf(err), err)
		return
	}

	c.IndentedJSON(http.StatusOK, infos)
}

func (d *Daemon) getProperty(c *gin.Context) {
	name := c.Param("name")

	d.mu.Lock()
	v, err := d.surface.Get(name)
	d.mu.Unlock()
	if err != nil {
		abort(c, statusOf(err), err)
		return
	}

	c.IndentedJSON(http.StatusOK, v)
}

// setProperty takes the raw attribute text as body. A JSON string or number
// is accepted as well.
func (d *Daemon) setProperty(c *gin.Context) {
	name := c.Param("name")

	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	raw := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}

	d.mu.Lock()
	err = d.surface.Set(name, raw)
	var value string
	if err == nil {
		value = d.storedValue(name)
	}
	d.mu.Unlock()
	if err != nil {
		abort(c, statusOf(err), err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"property": name,
		"value":    value,
	}).Info("property set")

	d.hub.Publish(events.PropertyChanged, events.PropertyChangedEvent{
		Property: name,
		Value:    value,
		Ts:       time.Now().Unix(),
	})

	c.IndentedJSON(http.StatusCreated, "ok")
}

// storedValue formats the in-memory value of a property. Unlike Get it
// never reads the hardware back. Callers hold d.mu.
func (d *Daemon) storedValue(name string) string {
	s := d.surface.State()
	if name == attr.Calibration {
		return strconv.FormatUint(uint64(s.Gain.Red), 10) + " " +
			strconv.FormatUint(uint64(s.Gain.Green), 10) + " " +
			strconv.FormatUint(uint64(s.Gain.Blue), 10)
	}
	return strconv.FormatUint(uint64(s.Get(kcal.Field(name))), 10)
}

func (d *Daemon) getState(c *gin.Context) {
	d.mu.Lock()
	s := d.surface.State()
	d.mu.Unlock()

	c.IndentedJSON(http.StatusOK, s)
}

func (d *Daemon) reset(c *gin.Context) {
	d.mu.Lock()
	err := d.surface.Init()
	d.mu.Unlock()
	if err != nil {
		abort(c, statusOf(err), err)
		return
	}

	logrus.Info("calibration reset to defaults")

	d.hub.Publish(events.SurfaceReset, events.SurfaceResetEvent{
		Ts: time.Now().Unix(),
	})

	c.IndentedJSON(http.StatusCreated, "ok")
}

func (d *Daemon) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(d.conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (d *Daemon) streamEvents(c *gin.Context) {
	ch := d.hub.Subscribe()
	defer d.hub.Unsubscribe(ch)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{
				Id:    ev.ID,
				Event: ev.Name,
				Data:  string(ev.Data),
			})
			return true
		case <-c.Request.Context().Done():
			return false
		case <-d.done:
			return false
		}
	})
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
