package mdp

import (
	"errors"
	"testing"
)

func TestMock_Unavailable(t *testing.T) {
	m := NewMock()

	if _, err := m.Lookup(0); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Lookup() error = %v, want ErrUnavailable", err)
	}

	m.Attach(0)
	p, err := m.Lookup(0)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	m.Detach(0)
	if err := p.ConfigPA(&PAConfig{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ConfigPA() on detached display error = %v, want ErrUnavailable", err)
	}
	if got := m.Lookups(); got != 2 {
		t.Errorf("Lookups() = %d, want 2", got)
	}
}

func TestMock_PCCKeepsHighHalf(t *testing.T) {
	m := NewMock(0)
	m.Poke(0, func(r *Registers) {
		r.R = 0xABCD0000
	})

	p, err := Traced(m).Lookup(0)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if err := p.ConfigPCC(&PCCConfig{Ops: OpsWrite | OpsEnable, R: 4480, G: 32768, B: 128}); err != nil {
		t.Fatal(err)
	}

	read := &PCCConfig{Ops: OpsRead}
	if err := p.ConfigPCC(read); err != nil {
		t.Fatal(err)
	}
	if read.R != 0xABCD0000|4480 || read.G != 32768 || read.B != 128 {
		t.Errorf("read back %#x %#x %#x", read.R, read.G, read.B)
	}

	if n := len(m.PCCHistory()); n != 1 {
		t.Errorf("len(PCCHistory()) = %d, want 1 (reads are not recorded)", n)
	}
}

func TestOps_Has(t *testing.T) {
	o := OpsWrite | OpsDisable | PAHueMask
	if !o.Has(OpsWrite | PAHueMask) {
		t.Errorf("Has() = false for set bits")
	}
	if o.Has(OpsEnable) {
		t.Errorf("Has(OpsEnable) = true")
	}
}

func TestWindow_Path(t *testing.T) {
	tests := []struct {
		pattern string
		display int
		want    string
	}{
		{pattern: "/dev/uio%d", display: 2, want: "/dev/uio2"},
		{pattern: "/dev/uio0", display: 3, want: "/dev/uio0"},
		{pattern: "/dev/foo%x", display: 0, want: "/dev/foo%x"},
		{pattern: "/dev/100%/uio%d", display: 1, want: "/dev/100%/uio1"},
	}
	for _, tt := range tests {
		if got := NewWindow(tt.pattern).Path(tt.display); got != tt.want {
			t.Errorf("Path(%q, %d) = %q, want %q", tt.pattern, tt.display, got, tt.want)
		}
	}
}
