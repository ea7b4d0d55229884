// Package mdp describes the post-processing register blocks of a display
// pipeline and the backends that reach them.
//
// Two blocks are modelled: PCC (polynomial colour correction, used here as
// per-channel gain) and PA (picture adjustment: global hue, saturation,
// value and contrast). A Locator resolves a display index to a Pipeline
// handle. Resolution may fail with ErrUnavailable, which is an ordinary
// outcome rather than a fault.
package mdp

import (
	"errors"
)

// ErrUnavailable is returned by Locator.Lookup when the pipeline of a
// display cannot be reached.
var ErrUnavailable = errors.New("display pipeline unavailable")

// Ops is the operation word of a register payload.
type Ops uint32

// Operation bits shared by all post-processing blocks.
const (
	OpsEnable  Ops = 0x1
	OpsRead    Ops = 0x2
	OpsWrite   Ops = 0x4
	OpsDisable Ops = 0x8
)

// PA parameter bits. The enable bit turns a parameter on, the mask bit marks
// it as carried by the payload.
const (
	PAHueEnable  Ops = 0x10
	PASatEnable  Ops = 0x20
	PAValEnable  Ops = 0x40
	PAContEnable Ops = 0x80

	PAHueMask  Ops = 0x1000
	PASatMask  Ops = 0x2000
	PAValMask  Ops = 0x4000
	PAContMask Ops = 0x8000
)

// Has reports whether all bits of b are set in o.
func (o Ops) Has(b Ops) bool {
	return o&b == b
}

// Block selects the logical display a payload targets.
type Block uint32

// BlockDisp0 is the primary display.
const BlockDisp0 Block = 0x10

// PCCScale converts a gain in [1,256] to the PCC coefficient domain.
const PCCScale = 128

// PCCLowMask selects the gain coefficient. The high half-word is used by
// colour inversion and is not ours.
const PCCLowMask = 0xFFFF

// PCCConfig is a PCC payload. For OpsRead requests the backend fills R, G
// and B with the current register contents.
type PCCConfig struct {
	Block Block
	Ops   Ops
	R     uint32
	G     uint32
	B     uint32
}

// PAConfig is a PA payload.
type PAConfig struct {
	Block      Block
	Flags      Ops
	Hue        uint32
	Saturation uint32
	Value      uint32
	Contrast   uint32
}

// Pipeline is a resolved handle to the post-processing blocks of a display.
type Pipeline interface {
	ConfigPCC(cfg *PCCConfig) error
	ConfigPA(cfg *PAConfig) error
	Close() error
}

// Locator resolves display indexes to pipeline handles.
type Locator interface {
	Lookup(display int) (Pipeline, error)
}
