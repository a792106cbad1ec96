package rendercore

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ScriptStep is one boundary call in a call-trace script. Call is the entry
// point name; the remaining fields carry its arguments.
type ScriptStep struct {
	Call  string     `yaml:"call"`
	ID    string     `yaml:"id,omitempty"`
	Args  []float64  `yaml:"args,omitempty"`
	Color uint32     `yaml:"color,omitempty"` // host 0xRRGGBBAA
	Stops [][5]uint8 `yaml:"stops,omitempty"` // r, g, b, a, offset (0-100)
	File  string     `yaml:"file,omitempty"`  // encoded image, relative to the script
	Data  string     `yaml:"data,omitempty"`  // encoded image, base64
	Label string     `yaml:"label,omitempty"`
}

// Script is a recorded sequence of boundary calls. Replaying it drives an
// Engine the way a host does, buffers included.
type Script struct {
	Steps []ScriptStep `yaml:"steps"`

	dir string
}

// ParseScript decodes a YAML script. Relative image files resolve against
// dir.
func ParseScript(data []byte, dir string) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	s.dir = dir
	return &s, nil
}

// LoadScript reads a YAML script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data, filepath.Dir(path))
}

// Run replays every step against e. Screenshot steps write PNGs into outDir
// and their paths are returned. Run stops at the first failing step.
func (s *Script) Run(e *Engine, outDir string) ([]string, error) {
	var shots []string
	for i, st := range s.Steps {
		e.log.WithFields(logrus.Fields{"op": st.Call, "step": i}).Debug("script step")
		path, err := s.step(e, st, outDir)
		if err != nil {
			return shots, fmt.Errorf("script step %d (%s): %w", i, st.Call, err)
		}
		if path != "" {
			shots = append(shots, path)
		}
	}
	return shots, nil
}

func (s *Script) step(e *Engine, st ScriptStep, outDir string) (string, error) {
	arg := func(i int) float64 {
		if i < len(st.Args) {
			return st.Args[i]
		}
		return 0
	}
	need := func(n int) error {
		if len(st.Args) < n {
			return fmt.Errorf("need %d args, got %d", n, len(st.Args))
		}
		return nil
	}
	id := func() (ID, error) {
		if st.ID == "" {
			return ID{}, fmt.Errorf("missing id")
		}
		return ParseID(st.ID)
	}

	switch st.Call {
	case "set_render_options":
		if err := need(2); err != nil {
			return "", err
		}
		e.ConfigureRender(DebugFlags(arg(0)), arg(1))
	case "resize_viewbox":
		if err := need(2); err != nil {
			return "", err
		}
		return "", e.Resize(int(arg(0)), int(arg(1)))
	case "render":
		return "", e.Render(true)
	case "render_without_cache":
		return "", e.Render(false)
	case "navigate":
		return "", e.Navigate()
	case "reset_canvas":
		e.ResetCanvas()

	case "set_view":
		if err := need(3); err != nil {
			return "", err
		}
		e.SetView(arg(0), arg(1), arg(2))
	case "set_view_zoom":
		if err := need(1); err != nil {
			return "", err
		}
		e.SetViewZoom(arg(0))
	case "set_view_xy":
		if err := need(2); err != nil {
			return "", err
		}
		e.SetViewPan(arg(0), arg(1))
	case "animate_view":
		if err := need(4); err != nil {
			return "", err
		}
		e.AnimateView(arg(0), arg(1), arg(2), float32(arg(3)), nil)
	case "tick_view":
		if err := need(1); err != nil {
			return "", err
		}
		e.Tick(float32(arg(0)))

	case "use_shape":
		sid, err := id()
		if err != nil {
			return "", err
		}
		e.SelectShape(sid)
	case "clear_selection":
		e.ClearSelection()
	case "set_shape_selrect":
		if err := need(4); err != nil {
			return "", err
		}
		e.SetShapeBounds(arg(0), arg(1), arg(2), arg(3))
	case "set_shape_rotation":
		if err := need(1); err != nil {
			return "", err
		}
		e.SetShapeRotation(arg(0))
	case "set_shape_transform":
		if err := need(6); err != nil {
			return "", err
		}
		e.SetShapeTransform(arg(0), arg(1), arg(2), arg(3), arg(4), arg(5))
	case "add_shape_child":
		sid, err := id()
		if err != nil {
			return "", err
		}
		e.AddShapeChild(sid)
	case "clear_shape_children":
		e.ClearShapeChildren()
	case "set_shape_blend_mode":
		if err := need(1); err != nil {
			return "", err
		}
		e.SetBlendMode(int32(arg(0)))
	case "set_shape_opacity":
		if err := need(1); err != nil {
			return "", err
		}
		e.SetOpacity(arg(0))

	case "add_shape_solid_fill":
		e.AddSolidFill(FromRGBA32(st.Color))
	case "add_shape_linear_fill":
		if err := need(5); err != nil {
			return "", err
		}
		e.AddLinearGradientFill(arg(0), arg(1), arg(2), arg(3), arg(4))
	case "add_shape_fill_stop":
		if err := need(1); err != nil {
			return "", err
		}
		return "", e.AddGradientStop(FromRGBA32(st.Color), arg(0))
	case "add_shape_fill_stops":
		if len(st.Stops) == 0 {
			return "", fmt.Errorf("no stops")
		}
		buf := make([]byte, 0, len(st.Stops)*gradientStopSize)
		for _, rec := range st.Stops {
			buf = append(buf, rec[:]...)
		}
		ptr, err := hostCopy(e.arena, buf)
		if err != nil {
			return "", err
		}
		return "", e.AddGradientStops(ptr, len(st.Stops))
	case "clear_shape_fills":
		e.ClearFills()

	case "store_image":
		sid, err := id()
		if err != nil {
			return "", err
		}
		data, err := s.imageBytes(st)
		if err != nil {
			return "", err
		}
		ptr, err := hostCopy(e.arena, data)
		if err != nil {
			return "", err
		}
		return "", e.StoreImage(sid, ptr, len(data))
	case "add_shape_image_fill":
		sid, err := id()
		if err != nil {
			return "", err
		}
		if err := need(3); err != nil {
			return "", err
		}
		e.AddImageFill(sid, arg(0), arg(1), arg(2))

	case "screenshot":
		return e.Screenshot(outDir, st.Label)
	default:
		return "", fmt.Errorf("unknown call %q", st.Call)
	}
	return "", nil
}

func (s *Script) imageBytes(st ScriptStep) ([]byte, error) {
	switch {
	case st.Data != "":
		return base64.StdEncoding.DecodeString(st.Data)
	case st.File != "":
		path := st.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		return os.ReadFile(path)
	}
	return nil, fmt.Errorf("store_image needs file or data")
}

// hostCopy allocates an arena buffer and fills it with data, as a host does
// before handing a buffer to an entry point.
func hostCopy(a *Arena, data []byte) (uintptr, error) {
	ptr, err := a.Alloc(len(data))
	if err != nil {
		return 0, err
	}
	copy(a.Bytes(ptr), data)
	return ptr, nil
}
