package rendercore

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestDebugFlagsHas(t *testing.T) {
	f := DebugStats | DebugShapeBounds
	if !f.Has(DebugStats) || !f.Has(DebugShapeBounds) {
		t.Error("set flags not reported")
	}
	if f.Has(DebugNoCache) {
		t.Error("unset flag reported")
	}
	if f.Has(DebugStats | DebugNoCache) {
		t.Error("Has should require every bit")
	}
}

func statsEntries(entries []*logrus.Entry) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range entries {
		if e.Message == "render" {
			out = append(out, e)
		}
	}
	return out
}

func TestStatsLoggedOnlyWithFlag(t *testing.T) {
	e, _, hook := newTestEngine(t)
	rect(e, 1, 0, 0, 10, 10, ColorBlack)

	_ = e.Render(false)
	if n := len(statsEntries(hook.AllEntries())); n != 0 {
		t.Fatalf("stats entries = %d without DebugStats, want 0", n)
	}

	e.ConfigureRender(DebugStats, 1)
	hook.Reset()
	_ = e.Render(true)
	_ = e.Render(true)
	got := statsEntries(hook.AllEntries())
	if len(got) != 2 {
		t.Fatalf("stats entries = %d, want 2", len(got))
	}
	if got[0].Data["mode"] != "full" || got[1].Data["mode"] != "cached" {
		t.Errorf("modes = %v, %v, want full, cached", got[0].Data["mode"], got[1].Data["mode"])
	}
	if got[0].Data["shapes"] != 1 || got[0].Data["fills"] != 1 {
		t.Errorf("counts = %v shapes, %v fills, want 1, 1", got[0].Data["shapes"], got[0].Data["fills"])
	}
}

func TestStatsCountRevisitsAndMissing(t *testing.T) {
	e, _, hook := newTestEngine(t, WithDebugFlags(DebugStats))
	rect(e, 0, 0, 0, 10, 10, ColorBlack)
	e.AddShapeChild(id(0))
	e.AddShapeChild(id(42))
	e.SetOpacity(0.5)

	_ = e.Render(false)
	got := statsEntries(hook.AllEntries())
	if len(got) != 1 {
		t.Fatalf("stats entries = %d, want 1", len(got))
	}
	d := got[0].Data
	if d["revisits"] != 1 || d["missing"] != 1 || d["layers"] != 1 {
		t.Errorf("revisits %v, missing %v, layers %v, want 1, 1, 1", d["revisits"], d["missing"], d["layers"])
	}
}

func TestStatsResetBetweenRenders(t *testing.T) {
	e, _, hook := newTestEngine(t, WithDebugFlags(DebugStats|DebugNoCache))
	rect(e, 1, 0, 0, 10, 10, ColorBlack)

	_ = e.Render(true)
	_ = e.Render(true)
	got := statsEntries(hook.AllEntries())
	if len(got) != 2 {
		t.Fatalf("stats entries = %d, want 2", len(got))
	}
	if got[1].Data["shapes"] != 1 {
		t.Errorf("second render shapes = %v, want 1", got[1].Data["shapes"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logrus.Level
		wantErr bool
	}{
		{"", logrus.WarnLevel, false},
		{"debug", logrus.DebugLevel, false},
		{"error", logrus.ErrorLevel, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultLoggerLevel(t *testing.T) {
	if DefaultLogger().GetLevel() != logrus.WarnLevel {
		t.Errorf("default level = %v, want warn", DefaultLogger().GetLevel())
	}
}

func TestBoundsOverlayOutlinesSelrect(t *testing.T) {
	ov := BoundsOverlay{Color: ColorWhite, Width: 2}
	e, c, _ := newTestEngine(t, WithOverlay(ov), WithDebugFlags(DebugShapeBounds))
	rect(e, 1, 10, 10, 50, 30, ColorBlack)

	_ = e.Render(false)
	if len(c.fills) != 5 {
		t.Fatalf("fills = %d, want the shape fill plus 4 strips", len(c.fills))
	}
	top := c.fills[1]
	if top.rect != RectLTRB(10, 10, 50, 12) || top.paint.Color != ColorWhite {
		t.Errorf("top strip = %+v", top)
	}
	right := c.fills[4]
	if right.rect != RectLTRB(48, 10, 50, 30) {
		t.Errorf("right strip = %v", right.rect)
	}
}
