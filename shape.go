package rendercore

// Shape is the drawable scene element. Children are held as ID references
// into the Store rather than owned nodes, so the child graph may share
// nodes or contain cycles; render walks guard against both.
type Shape struct {
	// Identity
	ID   ID
	Kind Kind

	// Hierarchy
	Children []ID

	// Geometry
	Selrect   Rect
	Transform Matrix
	Rotation  float64 // degrees; informational, Transform is authoritative

	// Paint
	BlendMode BlendMode
	Opacity   float64

	fills []Fill
}

// NewShape creates a rectangle shape with identity transform, normal blend
// mode and full opacity.
func NewShape(id ID) *Shape {
	return &Shape{
		ID:        id,
		Kind:      KindRect,
		Transform: Identity(),
		BlendMode: BlendNormal,
		Opacity:   1,
	}
}

// Translation returns the translation component of the transform.
func (s *Shape) Translation() (x, y float64) { return s.Transform.Translation() }

// Scale returns the scale component of the transform.
func (s *Shape) Scale() (x, y float64) { return s.Transform.Scale() }

// Skew returns the skew component of the transform.
func (s *Shape) Skew() (x, y float64) { return s.Transform.Skew() }

// LocalMatrix returns the transform applied about the selrect center, the
// matrix the renderer concatenates for this shape.
func (s *Shape) LocalMatrix() Matrix {
	return s.Transform.aboutPoint(s.Selrect.Center())
}

// SetSelrect sets the untransformed bounding box.
func (s *Shape) SetSelrect(left, top, right, bottom float64) {
	s.Selrect = RectLTRB(left, top, right, bottom)
}

// SetRotation sets the rotation in degrees.
func (s *Shape) SetRotation(deg float64) {
	s.Rotation = deg
}

// SetTransform replaces the affine transform.
func (s *Shape) SetTransform(m Matrix) {
	s.Transform = m
}

// AddChild appends a child reference. The child need not exist yet.
func (s *Shape) AddChild(id ID) {
	s.Children = append(s.Children, id)
}

// ClearChildren removes every child reference.
func (s *Shape) ClearChildren() {
	s.Children = s.Children[:0]
}

// SetBlendMode sets the compositing mode used for this shape.
func (s *Shape) SetBlendMode(mode BlendMode) {
	s.BlendMode = mode
}

// SetOpacity sets the shape opacity. Values outside [0, 1] are stored as
// given.
func (s *Shape) SetOpacity(o float64) {
	s.Opacity = o
}

// Fills returns the fills in paint order. The returned slice MUST NOT be
// mutated.
func (s *Shape) Fills() []Fill {
	return s.fills
}

// NumFills returns the number of fills.
func (s *Shape) NumFills() int {
	return len(s.fills)
}

// AddFill appends f on top of the existing fills.
func (s *Shape) AddFill(f Fill) {
	s.fills = append(s.fills, f)
}

// ClearFills removes every fill.
func (s *Shape) ClearFills() {
	s.fills = s.fills[:0]
}

// AddGradientStop appends a stop to the most recently added fill, which must
// be a *LinearGradient.
func (s *Shape) AddGradientStop(c Color, offset float64) error {
	if len(s.fills) == 0 {
		return ErrNoFills
	}
	g, ok := s.fills[len(s.fills)-1].(*LinearGradient)
	if !ok {
		return ErrNotAGradient
	}
	g.AddStop(c, offset)
	return nil
}

// needsLayer reports whether the shape must be composited through an
// offscreen layer.
func (s *Shape) needsLayer() bool {
	return s.BlendMode != BlendNormal || s.Opacity < 1
}
