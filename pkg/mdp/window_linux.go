//go:build linux

package mdp

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Lookup maps the register window of a display. The mapping lives until the
// returned Pipeline is closed.
func (w *Window) Lookup(display int) (Pipeline, error) {
	path := w.Path(display)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// Touching a mapping past the end of a regular file raises SIGBUS.
	if st.Mode().IsRegular() && st.Size() < windowSize {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is smaller than a register window", ErrUnavailable, path)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, windowSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: mmap %s: %v", ErrUnavailable, path, err)
	}

	return &windowPipeline{f: f, mem: mem}, nil
}

type windowPipeline struct {
	f   *os.File
	mem []byte
}

func (p *windowPipeline) load(off int) uint32 {
	return binary.LittleEndian.Uint32(p.mem[off:])
}

func (p *windowPipeline) store(off int, v uint32) {
	binary.LittleEndian.PutUint32(p.mem[off:], v)
}

func (p *windowPipeline) ConfigPCC(cfg *PCCConfig) error {
	if cfg.Ops.Has(OpsRead) {
		cfg.R = p.load(pccROffset)
		cfg.G = p.load(pccGOffset)
		cfg.B = p.load(pccBOffset)
		return nil
	}

	p.store(pccROffset, keepHigh(p.load(pccROffset), cfg.R))
	p.store(pccGOffset, keepHigh(p.load(pccGOffset), cfg.G))
	p.store(pccBOffset, keepHigh(p.load(pccBOffset), cfg.B))
	// The ops word latches the coefficients, so it goes last.
	p.store(pccOpsOffset, uint32(cfg.Ops))

	return nil
}

func (p *windowPipeline) ConfigPA(cfg *PAConfig) error {
	p.store(paHueOffset, cfg.Hue)
	p.store(paSatOffset, cfg.Saturation)
	p.store(paValOffset, cfg.Value)
	p.store(paContOffset, cfg.Contrast)
	p.store(paFlagsOffset, uint32(cfg.Flags))

	return nil
}

func (p *windowPipeline) Close() error {
	err := unix.Munmap(p.mem)
	if cerr := p.f.Close(); err == nil {
		err = cerr
	}
	return err
}
