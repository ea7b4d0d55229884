package attr

import (
	"errors"
	"reflect"
	"testing"

	"github.com/charlie0129/kcal/pkg/hwsync"
	"github.com/charlie0129/kcal/pkg/kcal"
	"github.com/charlie0129/kcal/pkg/mdp"
)

// recorder is a Syncer that only remembers what it was asked to do.
type recorder struct {
	calls []string
}

func (r *recorder) PushGainCorrection(*kcal.State) { r.calls = append(r.calls, "gain") }
func (r *recorder) PushToneAdjustment(*kcal.State) { r.calls = append(r.calls, "tone") }
func (r *recorder) ReadGainCorrection(*kcal.State) { r.calls = append(r.calls, "read") }

func TestSurface_Init(t *testing.T) {
	rec := &recorder{}
	state := &kcal.State{}
	s := New(state, rec)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	if *state != *kcal.NewState() {
		t.Errorf("state after Init() = %+v", *state)
	}
	if want := []string{"gain", "tone"}; !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
}

func TestSurface_SetTriggers(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCalls []string
	}{
		{name: Calibration, raw: "1 2 3", wantCalls: []string{"gain"}},
		{name: Enable, raw: "0", wantCalls: []string{"gain", "tone"}},
		{name: Floor, raw: "40", wantCalls: []string{"gain"}},
		{name: Hue, raw: "800", wantCalls: []string{"gain", "tone"}},
		{name: Saturation, raw: "300", wantCalls: []string{"gain", "tone"}},
		{name: Value, raw: "128", wantCalls: []string{"gain", "tone"}},
		{name: Contrast, raw: "383", wantCalls: []string{"gain", "tone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s := New(kcal.NewState(), rec)

			if err := s.Set(tt.name, tt.raw); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if !reflect.DeepEqual(rec.calls, tt.wantCalls) {
				t.Errorf("calls = %v, want %v", rec.calls, tt.wantCalls)
			}
		})
	}
}

func TestSurface_SetRejected(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: Calibration, raw: "0 10 300"},
		{name: Calibration, raw: "10 10"},
		{name: Enable, raw: "2"},
		{name: Floor, raw: "0"},
		{name: Hue, raw: "1537"},
		{name: Saturation, raw: "127"},
		{name: Value, raw: "x"},
		{name: Contrast, raw: "384"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"="+tt.raw, func(t *testing.T) {
			rec := &recorder{}
			state := kcal.NewState()
			s := New(state, rec)

			err := s.Set(tt.name, tt.raw)
			if !errors.Is(err, kcal.ErrInvalidValue) {
				t.Fatalf("Set() error = %v, want ErrInvalidValue", err)
			}
			if *state != *kcal.NewState() {
				t.Errorf("state changed: %+v", *state)
			}
			if len(rec.calls) != 0 {
				t.Errorf("calls = %v, want none", rec.calls)
			}
		})
	}
}

func TestSurface_GetSetRoundTrip(t *testing.T) {
	s := New(kcal.NewState(), &recorder{})

	for _, tt := range []struct{ name, raw string }{
		{Enable, "0"},
		{Floor, "1"},
		{Hue, "1536"},
		{Saturation, "128"},
		{Value, "383"},
		{Contrast, "256"},
	} {
		if err := s.Set(tt.name, tt.raw); err != nil {
			t.Fatalf("Set(%s) error = %v", tt.name, err)
		}
		got, err := s.Get(tt.name)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", tt.name, err)
		}
		if got != tt.raw {
			t.Errorf("Get(%s) = %q, want %q", tt.name, got, tt.raw)
		}
	}
}

func TestSurface_GetCalibrationReadsBack(t *testing.T) {
	m := mdp.NewMock(0)
	state := kcal.NewState()
	s := New(state, hwsync.New(m, 0))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	if err := s.Set(Calibration, "10 200 256"); err != nil {
		t.Fatal(err)
	}
	// Stored value is the raw write.
	if state.Gain.Red != 10 {
		t.Fatalf("Gain.Red = %d, want 10", state.Gain.Red)
	}

	got, err := s.Get(Calibration)
	if err != nil {
		t.Fatal(err)
	}
	// Hardware holds the floored value.
	if got != "35 200 256" {
		t.Errorf("Get(calibration) = %q, want %q", got, "35 200 256")
	}
}

func TestSurface_HueResendsWholeToneBlock(t *testing.T) {
	m := mdp.NewMock(0)
	s := New(kcal.NewState(), hwsync.New(m, 0))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	if err := s.Set(Saturation, "300"); err != nil {
		t.Fatal(err)
	}
	m.ClearHistory()

	if err := s.Set(Hue, "800"); err != nil {
		t.Fatal(err)
	}

	h := m.PAHistory()
	if len(h) != 1 {
		t.Fatalf("len(PAHistory()) = %d, want 1", len(h))
	}
	if h[0].Hue != 800 || h[0].Saturation != 300 || h[0].Value != 255 || h[0].Contrast != 255 {
		t.Errorf("PA payload = %+v", h[0])
	}
	if len(m.PCCHistory()) != 1 {
		t.Errorf("len(PCCHistory()) = %d, want 1", len(m.PCCHistory()))
	}
}

func TestSurface_NoPipeline(t *testing.T) {
	m := mdp.NewMock()
	state := &kcal.State{}
	s := New(state, hwsync.New(m, 0))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	if *state != *kcal.NewState() {
		t.Fatalf("state after Init() = %+v", *state)
	}
	if err := s.Set(Hue, "100"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if state.Tone.Hue != 100 {
		t.Errorf("Tone.Hue = %d, want 100", state.Tone.Hue)
	}

	got, err := s.Get(Calibration)
	if err != nil {
		t.Fatal(err)
	}
	if got != "256 256 256" {
		t.Errorf("Get(calibration) = %q, want stored gains", got)
	}
}

func TestSurface_UnknownAndWithdrawn(t *testing.T) {
	s := New(kcal.NewState(), &recorder{})

	if _, err := s.Get("gamma"); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("Get(gamma) error = %v, want ErrUnknownProperty", err)
	}
	if err := s.Set("gamma", "1"); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("Set(gamma) error = %v, want ErrUnknownProperty", err)
	}

	s.Close()
	if _, err := s.Get(Hue); !errors.Is(err, ErrWithdrawn) {
		t.Errorf("Get() after Close error = %v, want ErrWithdrawn", err)
	}
	if err := s.Set(Hue, "1"); !errors.Is(err, ErrWithdrawn) {
		t.Errorf("Set() after Close error = %v, want ErrWithdrawn", err)
	}
}

func TestSurface_InitAfterClose(t *testing.T) {
	rec := &recorder{}
	state := kcal.NewState()
	s := New(state, rec)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	state.Tone.Hue = 800
	s.Close()
	rec.calls = nil

	if err := s.Init(); !errors.Is(err, ErrWithdrawn) {
		t.Errorf("Init() after Close error = %v, want ErrWithdrawn", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("Init() after Close pushed %v", rec.calls)
	}
	if state.Tone.Hue != 800 {
		t.Errorf("Init() after Close reset state: %+v", *state)
	}
	if _, err := s.Get(Hue); !errors.Is(err, ErrWithdrawn) {
		t.Errorf("Get() after re-Init error = %v, want ErrWithdrawn", err)
	}
}

func TestSurface_GetCalibrationRejectsOutOfRangeReadBack(t *testing.T) {
	m := mdp.NewMock(0)
	state := kcal.NewState()
	s := New(state, hwsync.New(m, 0))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	m.Poke(0, func(r *mdp.Registers) {
		r.R, r.G, r.B = 0x10000, 0xFFFF, 0x7F
	})

	got, err := s.Get(Calibration)
	if err != nil {
		t.Fatal(err)
	}
	if got != "256 256 256" {
		t.Errorf("Get(calibration) = %q, want %q", got, "256 256 256")
	}
	if state.Gain != (kcal.Gains{Red: 256, Green: 256, Blue: 256}) {
		t.Errorf("Gain = %+v, want defaults", state.Gain)
	}
}

func TestSurface_List(t *testing.T) {
	s := New(kcal.NewState(), &recorder{})

	infos, err := s.List()
	if err != nil {
		t.Fatal(err)
	}

	names := make([]string, 0, len(infos))
	for _, i := range infos {
		names = append(names, i.Name)
	}
	want := []string{Calibration, Enable, Floor, Hue, Saturation, Value, Contrast}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if infos[0].Arity != 3 || infos[0].Range != kcal.GainRange {
		t.Errorf("calibration info = %+v", infos[0])
	}
	if infos[3].Range != kcal.HueRange || infos[3].Value != "0" {
		t.Errorf("hue info = %+v", infos[3])
	}
}
