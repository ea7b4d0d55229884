package config

// Backend names.
const (
	BackendWindow = "window"
	BackendMock   = "mock"
)

// Config is the daemon's own settings. Calibration values are not part of
// it: they are volatile and start from defaults on every start.
type Config interface {
	AllowNonRootAccess() bool
	Display() int
	Backend() string
	WindowPath() string

	SetAllowNonRootAccess(bool)
	SetDisplay(int)
	SetBackend(string)
	SetWindowPath(string)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
