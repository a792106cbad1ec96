package rendercore

import (
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFrameFormatFollowsExtension(t *testing.T) {
	e, _, _ := newTestEngine(t)
	dir := t.TempDir()
	tests := []struct {
		name, want string
	}{
		{"frame.png", "png"},
		{"frame.BMP", "bmp"},
		{"frame.tiff", "tiff"},
		{"frame.jpg", "jpeg"},
		{"frame.out", "png"},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		if err := e.WriteFrame(path); err != nil {
			t.Fatalf("WriteFrame(%s): %v", tt.name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		cfg, format, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if format != tt.want {
			t.Errorf("%s: format = %s, want %s", tt.name, format, tt.want)
		}
		if cfg.Width != 100 || cfg.Height != 80 {
			t.Errorf("%s: size = %dx%d, want 100x80", tt.name, cfg.Width, cfg.Height)
		}
	}
}

func TestWriteFrameLeavesNoTempFiles(t *testing.T) {
	e, _, _ := newTestEngine(t)
	dir := t.TempDir()
	if err := e.WriteFrame(filepath.Join(dir, "a.png")); err != nil {
		t.Fatal(err)
	}
	if err := e.WriteFrame(filepath.Join(dir, "missing", "b.png")); err == nil {
		t.Error("expected error for missing directory")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.png" {
		var names []string
		for _, en := range entries {
			names = append(names, en.Name())
		}
		t.Errorf("dir = %v, want [a.png]", names)
	}
}
