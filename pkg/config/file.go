package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/charlie0129/kcal/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		AllowNonRootAccess: ptr.To(false),
		Display:            ptr.To(0),
		Backend:            ptr.To(BackendWindow),
		WindowPath:         ptr.To("/dev/uio%d"),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	AllowNonRootAccess *bool   `json:"allowNonRootAccess,omitempty" yaml:"allowNonRootAccess,omitempty"`
	Display            *int    `json:"display,omitempty" yaml:"display,omitempty"`
	Backend            *string `json:"backend,omitempty" yaml:"backend,omitempty"`
	// WindowPath is the register node of the window backend. A %d is
	// replaced by the display index.
	WindowPath *string `json:"windowPath,omitempty" yaml:"windowPath,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
		Display:            ptr.To(c.Display()),
		Backend:            ptr.To(c.Backend()),
		WindowPath:         ptr.To(c.WindowPath()),
	}

	return rawConfig, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (f *File) AllowNonRootAccess() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.AllowNonRootAccess != nil {
		return *f.c.AllowNonRootAccess
	}
	return *defaultFileConfig.AllowNonRootAccess
}

func (f *File) Display() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Display != nil {
		return *f.c.Display
	}
	return *defaultFileConfig.Display
}

func (f *File) Backend() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Backend != nil && *f.c.Backend != "" {
		return *f.c.Backend
	}
	return *defaultFileConfig.Backend
}

func (f *File) WindowPath() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.WindowPath != nil && *f.c.WindowPath != "" {
		return *f.c.WindowPath
	}
	return *defaultFileConfig.WindowPath
}

func (f *File) SetAllowNonRootAccess(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.AllowNonRootAccess = &b
}

func (f *File) SetDisplay(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	if i < 0 {
		panic("display index must not be negative")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.Display = &i
}

func (f *File) SetBackend(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	if s != BackendWindow && s != BackendMock {
		panic("unknown backend " + s)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.Backend = &s
}

func (f *File) SetWindowPath(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.WindowPath = &s
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if len(bytes.TrimSpace(b)) == 0 {
		// If the file is empty, return the empty config.
		// Do not make f.c a nil.
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	if isYAML(f.filepath) {
		err = yaml.Unmarshal(b, &conf)
	} else {
		err = json.Unmarshal(b, &conf)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}

	if conf.Backend != nil && *conf.Backend != "" && *conf.Backend != BackendWindow && *conf.Backend != BackendMock {
		return pkgerrors.Errorf("unknown backend %q in file %s", *conf.Backend, f.filepath)
	}
	if conf.Display != nil && *conf.Display < 0 {
		return pkgerrors.Errorf("negative display index %d in file %s", *conf.Display, f.filepath)
	}

	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	if isYAML(f.filepath) {
		enc := yaml.NewEncoder(fp)
		enc.SetIndent(2)
		err = enc.Encode(f.c)
		if err == nil {
			err = enc.Close()
		}
	} else {
		enc := json.NewEncoder(fp)
		enc.SetIndent("", "  ")
		err = enc.Encode(f.c)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"allowNonRootAccess": f.AllowNonRootAccess(),
		"display":            f.Display(),
		"backend":            f.Backend(),
		"windowPath":         f.WindowPath(),
	}
}
