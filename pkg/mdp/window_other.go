//go:build !linux

package mdp

// Lookup always fails: register windows are only mapped on Linux.
func (w *Window) Lookup(_ int) (Pipeline, error) {
	return nil, ErrUnavailable
}
