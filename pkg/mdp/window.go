package mdp

import (
	"strconv"
	"strings"
)

// Word offsets inside a register window.
const (
	pccOpsOffset = 0x00
	pccROffset   = 0x04
	pccGOffset   = 0x08
	pccBOffset   = 0x0C

	paFlagsOffset = 0x20
	paHueOffset   = 0x24
	paSatOffset   = 0x28
	paValOffset   = 0x2C
	paContOffset  = 0x30

	windowSize = 4096
)

// Window is a Locator backed by memory-mapped register windows, one node
// per display, e.g. a UIO device exposing the post-processing blocks.
type Window struct {
	pattern string
}

var _ Locator = &Window{}

// NewWindow returns a Window. pattern is the path of the register node and
// may contain a single %d that is replaced by the display index.
func NewWindow(pattern string) *Window {
	return &Window{pattern: pattern}
}

// Path returns the node of a display. Only the first %d is substituted;
// any other % is kept as is.
func (w *Window) Path(display int) string {
	return strings.Replace(w.pattern, "%d", strconv.Itoa(display), 1)
}
