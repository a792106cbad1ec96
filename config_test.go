package rendercore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("width: 1024\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1024 || cfg.Height != 600 {
		t.Errorf("size = %dx%d, want 1024x600", cfg.Width, cfg.Height)
	}
	if cfg.DPR != 1 || cfg.LogLevel != "warn" || cfg.Backend != BackendRaster {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestParseConfigFull(t *testing.T) {
	data := []byte(`
width: 640
height: 480
dpr: 2
debug: [stats, no_cache]
image_cache_capacity: 32
log_level: debug
backend: ebiten
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Width:              640,
		Height:             480,
		DPR:                2,
		Debug:              DebugStats | DebugNoCache,
		ImageCacheCapacity: 32,
		LogLevel:           "debug",
		Backend:            BackendEbiten,
	}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestParseConfigNumericDebug(t *testing.T) {
	cfg, err := ParseConfig([]byte("debug: 5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Debug != DebugStats|DebugShapeBounds {
		t.Errorf("debug = %b, want 101", cfg.Debug)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"negative width", "width: -1\n"},
		{"negative dpr", "dpr: -2\n"},
		{"bad level", "log_level: shouty\n"},
		{"bad backend", "backend: vulkan\n"},
		{"bad debug flag", "debug: [everything]\n"},
		{"malformed", "width: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigValidateSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Height = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc.yaml")
	if err := os.WriteFile(path, []byte("width: 320\nheight: 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 320 || cfg.Height != 200 {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DPR = 2
	cfg.Debug = DebugNoCache
	cfg.ImageCacheCapacity = 8
	cfg.MaxDepth = 32
	e, _, _ := newTestEngine(t, cfg.Options()...)
	rs := e.RenderState()
	if rs.DPR != 2 || rs.Debug != DebugNoCache {
		t.Errorf("dpr %v debug %v", rs.DPR, rs.Debug)
	}
	if _, ok := rs.Images.(*lruImageCache); !ok {
		t.Errorf("image cache = %T, want LRU", rs.Images)
	}
	if e.render.maxDepth != 32 {
		t.Errorf("max depth = %d, want 32", e.render.maxDepth)
	}
	if d, _, _ := newTestEngine(t, DefaultConfig().Options()...); d.render.maxDepth != DefaultMaxDepth {
		t.Errorf("default max depth = %d", d.render.maxDepth)
	}
}
