// Package attr exposes a kcal.State as a set of named, text-valued
// properties and keeps the hardware in sync on every accepted write.
//
// The properties are declared once in a table. Each entry names the field
// it edits, its range and which register blocks are pushed after a write.
// Surface does no locking: callers must serialize Get and Set.
package attr

import (
	"errors"
	"fmt"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/kcal/pkg/hwsync"
	"github.com/charlie0129/kcal/pkg/kcal"
)

var (
	// ErrUnknownProperty is returned for names that are not registered.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrWithdrawn is returned once the surface has been closed.
	ErrWithdrawn = errors.New("property surface withdrawn")
)

// Push selects register blocks to write after a property changes.
type Push uint8

const (
	PushGain Push = 1 << iota
	PushTone
)

// Property names.
const (
	Calibration = "calibration"
	Enable      = "enable"
	Floor       = "floor"
	Hue         = "hue"
	Saturation  = "saturation"
	Value       = "value"
	Contrast    = "contrast"
)

// Syncer is the hardware side of a Surface. *hwsync.Syncer implements it.
type Syncer interface {
	PushGainCorrection(s *kcal.State)
	PushToneAdjustment(s *kcal.State)
	ReadGainCorrection(s *kcal.State)
}

var _ Syncer = &hwsync.Syncer{}

type entry struct {
	name   string
	rng    kcal.Range
	arity  int
	get    func(s *kcal.State, y Syncer) string
	set    func(s *kcal.State, raw string) error
	pushes Push
}

func field(name string, f kcal.Field, pushes Push) entry {
	rng, _ := kcal.RangeOf(f)
	return entry{
		name:  name,
		rng:   rng,
		arity: 1,
		get: func(s *kcal.State, _ Syncer) string {
			return strconv.FormatUint(uint64(s.Get(f)), 10)
		},
		set: func(s *kcal.State, raw string) error {
			return s.Set(f, raw)
		},
		pushes: pushes,
	}
}

var table = []entry{
	{
		name:  Calibration,
		rng:   kcal.GainRange,
		arity: 3,
		get: func(s *kcal.State, y Syncer) string {
			// Report what the hardware holds rather than what was last written.
			y.ReadGainCorrection(s)
			return fmt.Sprintf("%d %d %d", s.Gain.Red, s.Gain.Green, s.Gain.Blue)
		},
		set: func(s *kcal.State, raw string) error {
			return s.SetGains(raw)
		},
		pushes: PushGain,
	},
	field(Enable, kcal.FieldEnable, PushGain|PushTone),
	field(Floor, kcal.FieldFloor, PushGain),
	field(Hue, kcal.FieldHue, PushGain|PushTone),
	field(Saturation, kcal.FieldSaturation, PushGain|PushTone),
	field(Value, kcal.FieldValue, PushGain|PushTone),
	field(Contrast, kcal.FieldContrast, PushGain|PushTone),
}

// Info describes a property.
type Info struct {
	Name  string     `json:"name"`
	Range kcal.Range `json:"range"`
	// Arity is the number of values a write carries.
	Arity int    `json:"arity"`
	Value string `json:"value"`
}

// Surface is the property view of one display's calibration.
type Surface struct {
	state   *kcal.State
	syncer  Syncer
	entries map[string]*entry
	order   []string
	closed  bool
}

// New registers every property of the table against state and syncer.
func New(state *kcal.State, syncer Syncer) *Surface {
	s := &Surface{
		state:   state,
		syncer:  syncer,
		entries: make(map[string]*entry, len(table)),
	}
	for i := range table {
		e := &table[i]
		s.entries[e.name] = e
		s.order = append(s.order, e.name)
	}
	return s
}

// Init installs the defaults and pushes both register blocks once. A closed
// surface stays closed and Init returns ErrWithdrawn without touching state
// or hardware.
func (s *Surface) Init() error {
	if s.closed {
		return ErrWithdrawn
	}

	s.state.Reset()
	s.push(PushGain | PushTone)

	logrus.WithFields(logrus.Fields{
		"properties": s.order,
	}).Debug("property surface initialized")

	return nil
}

// Close withdraws the surface. The hardware is left as it is.
func (s *Surface) Close() {
	s.closed = true
}

func (s *Surface) lookup(name string) (*entry, error) {
	if s.closed {
		return nil, ErrWithdrawn
	}
	e, ok := s.entries[name]
	if !ok {
		return nil, pkgerrors.Wrapf(ErrUnknownProperty, "%q", name)
	}
	return e, nil
}

// Get returns the textual value of a property.
func (s *Surface) Get(name string) (string, error) {
	e, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	return e.get(s.state, s.syncer), nil
}

// Set parses raw into a property. On success the register blocks listed for
// the property are pushed. A rejected value leaves the state untouched and
// pushes nothing.
func (s *Surface) Set(name, raw string) error {
	e, err := s.lookup(name)
	if err != nil {
		return err
	}

	if err := e.set(s.state, raw); err != nil {
		return err
	}

	s.push(e.pushes)

	return nil
}

// Info describes a property, including its current value.
func (s *Surface) Info(name string) (Info, error) {
	e, err := s.lookup(name)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Name:  e.name,
		Range: e.rng,
		Arity: e.arity,
		Value: e.get(s.state, s.syncer),
	}, nil
}

// List describes every property.
func (s *Surface) List() ([]Info, error) {
	infos := make([]Info, 0, len(s.order))
	for _, name := range s.order {
		i, err := s.Info(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, i)
	}
	return infos, nil
}

// State returns a copy of the calibration state.
func (s *Surface) State() kcal.State {
	return *s.state
}

func (s *Surface) push(p Push) {
	if p&PushGain != 0 {
		s.syncer.PushGainCorrection(s.state)
	}
	if p&PushTone != 0 {
		s.syncer.PushToneAdjustment(s.state)
	}
}
