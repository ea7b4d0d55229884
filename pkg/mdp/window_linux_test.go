//go:build linux

package mdp

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newWindowFile(t *testing.T, size int64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "disp0")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(size); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWindow_Missing(t *testing.T) {
	w := NewWindow(filepath.Join(t.TempDir(), "disp%d"))
	if _, err := w.Lookup(0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Lookup() error = %v, want ErrUnavailable", err)
	}
}

func TestWindow_TooSmall(t *testing.T) {
	w := NewWindow(newWindowFile(t, 16))
	if _, err := w.Lookup(0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Lookup() error = %v, want ErrUnavailable", err)
	}
}

func TestWindow_RoundTrip(t *testing.T) {
	path := newWindowFile(t, windowSize)
	w := NewWindow(path)

	p, err := w.Lookup(0)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	if err := p.ConfigPCC(&PCCConfig{Ops: OpsWrite | OpsEnable, R: 4480, G: 32768, B: 256}); err != nil {
		t.Fatal(err)
	}
	if err := p.ConfigPA(&PAConfig{Flags: OpsWrite | OpsEnable | PAHueMask, Hue: 800, Saturation: 255, Value: 255, Contrast: 255}); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	words := map[int]uint32{
		pccOpsOffset:  uint32(OpsWrite | OpsEnable),
		pccROffset:    4480,
		pccGOffset:    32768,
		pccBOffset:    256,
		paFlagsOffset: uint32(OpsWrite | OpsEnable | PAHueMask),
		paHueOffset:   800,
		paContOffset:  255,
	}
	for off, want := range words {
		if got := binary.LittleEndian.Uint32(raw[off:]); got != want {
			t.Errorf("word at %#x = %d, want %d", off, got, want)
		}
	}

	// A second mapping sees what the first one wrote.
	p, err = w.Lookup(0)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	read := &PCCConfig{Ops: OpsRead}
	if err := p.ConfigPCC(read); err != nil {
		t.Fatal(err)
	}
	if read.R != 4480 || read.G != 32768 || read.B != 256 {
		t.Errorf("read back %d %d %d", read.R, read.G, read.B)
	}
}
