package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFile_Defaults(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	if f.AllowNonRootAccess() {
		t.Errorf("AllowNonRootAccess() = true, want false")
	}
	if f.Display() != 0 {
		t.Errorf("Display() = %d, want 0", f.Display())
	}
	if f.Backend() != BackendWindow {
		t.Errorf("Backend() = %q, want %q", f.Backend(), BackendWindow)
	}
	if f.WindowPath() != "/dev/uio%d" {
		t.Errorf("WindowPath() = %q", f.WindowPath())
	}
}

func TestFile_SaveLoad(t *testing.T) {
	for _, name := range []string{"kcal.json", "kcal.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			f, err := NewFile(path)
			if err != nil {
				t.Fatal(err)
			}
			f.SetAllowNonRootAccess(true)
			f.SetDisplay(1)
			f.SetBackend(BackendMock)
			f.SetWindowPath("/dev/uio3")
			if err := f.Save(); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			g, err := NewFile(path)
			if err != nil {
				t.Fatalf("NewFile() error = %v", err)
			}
			if !g.AllowNonRootAccess() || g.Display() != 1 || g.Backend() != BackendMock || g.WindowPath() != "/dev/uio3" {
				t.Errorf("loaded %+v", g.LogrusFields())
			}
		})
	}
}

func TestFile_Load(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr bool
		backend string
	}{
		{name: "empty", file: "c.json", content: "  \n", backend: BackendWindow},
		{name: "json", file: "c.json", content: `{"backend":"mock"}`, backend: BackendMock},
		{name: "yaml", file: "c.yml", content: "backend: mock\ndisplay: 2\n", backend: BackendMock},
		{name: "bad json", file: "c.json", content: "{", wantErr: true},
		{name: "unknown backend", file: "c.json", content: `{"backend":"drm"}`, wantErr: true},
		{name: "negative display", file: "c.yaml", content: "display: -1\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			f, err := NewFile(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if f.Backend() != tt.backend {
				t.Errorf("Backend() = %q, want %q", f.Backend(), tt.backend)
			}
		})
	}
}

func TestNewRawFileConfigFromConfig(t *testing.T) {
	raw, err := NewRawFileConfigFromConfig(NewFileFromConfig(nil, ""))
	if err != nil {
		t.Fatal(err)
	}
	if *raw.Backend != BackendWindow || *raw.Display != 0 || *raw.AllowNonRootAccess {
		t.Errorf("raw = %+v", raw)
	}

	if _, err := NewRawFileConfigFromConfig(nil); err == nil {
		t.Errorf("expected error for nil config")
	}
}
