package mdp

import (
	"sync"
)

// Registers is the content of the PCC and PA blocks of one display.
type Registers struct {
	PCCOps Ops
	R      uint32
	G      uint32
	B      uint32

	PAFlags    Ops
	Hue        uint32
	Saturation uint32
	Value      uint32
	Contrast   uint32
}

// Mock is an in-memory Locator. Every attached display owns a set of
// registers, and every payload it receives is recorded.
type Mock struct {
	mu       sync.Mutex
	displays map[int]*Registers
	pcc      []PCCConfig
	pa       []PAConfig
	lookups  int
}

var _ Locator = &Mock{}

// NewMock returns a Mock with the given displays attached.
func NewMock(displays ...int) *Mock {
	m := &Mock{displays: make(map[int]*Registers)}
	for _, d := range displays {
		m.Attach(d)
	}
	return m
}

// Attach makes a display reachable. Registers of a display that was
// attached before are kept.
func (m *Mock) Attach(display int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.displays[display]; !ok {
		m.displays[display] = &Registers{}
	}
}

// Detach makes a display unreachable.
func (m *Mock) Detach(display int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.displays, display)
}

// Lookup implements Locator.
func (m *Mock) Lookup(display int) (Pipeline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lookups++
	if _, ok := m.displays[display]; !ok {
		return nil, ErrUnavailable
	}
	return &mockPipeline{m: m, display: display}, nil
}

// Registers returns a copy of the registers of a display.
func (m *Mock) Registers(display int) (Registers, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.displays[display]
	if !ok {
		return Registers{}, false
	}
	return *r, true
}

// Poke overwrites the registers of an attached display, e.g. to emulate a
// second writer such as colour inversion.
func (m *Mock) Poke(display int, fn func(r *Registers)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.displays[display]; ok {
		fn(r)
	}
}

// PCCHistory returns every PCC payload written so far.
func (m *Mock) PCCHistory() []PCCConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]PCCConfig(nil), m.pcc...)
}

// PAHistory returns every PA payload written so far.
func (m *Mock) PAHistory() []PAConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]PAConfig(nil), m.pa...)
}

// Lookups returns how many times Lookup was called.
func (m *Mock) Lookups() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lookups
}

// ClearHistory forgets recorded payloads and lookups.
func (m *Mock) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pcc = nil
	m.pa = nil
	m.lookups = 0
}

type mockPipeline struct {
	m       *Mock
	display int
}

func (p *mockPipeline) ConfigPCC(cfg *PCCConfig) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()

	r, ok := p.m.displays[p.display]
	if !ok {
		return ErrUnavailable
	}

	if cfg.Ops.Has(OpsRead) {
		cfg.R, cfg.G, cfg.B = r.R, r.G, r.B
		return nil
	}

	p.m.pcc = append(p.m.pcc, *cfg)
	r.PCCOps = cfg.Ops
	r.R = keepHigh(r.R, cfg.R)
	r.G = keepHigh(r.G, cfg.G)
	r.B = keepHigh(r.B, cfg.B)

	return nil
}

func (p *mockPipeline) ConfigPA(cfg *PAConfig) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()

	r, ok := p.m.displays[p.display]
	if !ok {
		return ErrUnavailable
	}

	p.m.pa = append(p.m.pa, *cfg)
	r.PAFlags = cfg.Flags
	r.Hue = cfg.Hue
	r.Saturation = cfg.Saturation
	r.Value = cfg.Value
	r.Contrast = cfg.Contrast

	return nil
}

func (p *mockPipeline) Close() error {
	return nil
}

// keepHigh replaces the gain half of a PCC word and keeps the inversion half.
func keepHigh(old, v uint32) uint32 {
	return old&^PCCLowMask | v&PCCLowMask
}
