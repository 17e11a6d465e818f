package boardfx

import "image"

// TextStyle describes how DrawText lays out a string around its anchor.
type TextStyle struct {
	Size     float64 // nominal line height in pixels; zero means the backend default
	Color    Color
	Align    TextAlign
	Baseline TextBaseline
}

// Surface is the mutable 2D drawing context the compositor renders onto.
//
// Coordinates pass through the current transform, set with Translate and
// Rotate. SetAlpha multiplies the alpha of everything drawn afterwards.
// Save pushes the transform and alpha; Restore pops them. Restore with an
// empty stack is a no-op.
type Surface interface {
	Size() (w, h int)
	Resize(w, h int)
	Clear()

	FillRect(r Rect, c Color)
	StrokeRect(r Rect, width float64, c Color)
	FillCircle(cx, cy, radius float64, c Color)
	StrokeCircle(cx, cy, radius, width float64, c Color)
	FillPolygon(points []Vec2, c Color)
	DrawText(s string, x, y float64, style TextStyle)
	DrawImage(img image.Image, dst Rect)

	Save()
	Restore()
	SetAlpha(a float64)
	Translate(dx, dy float64)
	Rotate(radians float64)
}

// surfaceState is the save/restore state shared by the bundled backends.
type surfaceState struct {
	transform [6]float64
	alpha     float64
}

// StateStack implements the Save/Restore/SetAlpha/Translate/Rotate half of
// Surface over an affine [6]float64 matrix. Backends embed it and map their
// geometry through Apply.
type StateStack struct {
	cur   surfaceState
	saved []surfaceState
}

// NewStateStack returns a stack holding the identity transform and full alpha.
func NewStateStack() StateStack {
	return StateStack{cur: surfaceState{transform: identityTransform, alpha: 1}}
}

// Save pushes the current transform and alpha.
func (st *StateStack) Save() {
	st.saved = append(st.saved, st.cur)
}

// Restore pops the most recently saved transform and alpha.
func (st *StateStack) Restore() {
	if len(st.saved) == 0 {
		return
	}
	st.cur = st.saved[len(st.saved)-1]
	st.saved = st.saved[:len(st.saved)-1]
}

// SetAlpha multiplies the current alpha by a.
func (st *StateStack) SetAlpha(a float64) {
	st.cur.alpha *= clamp01(a)
}

// Translate moves the origin by (dx, dy) in the current coordinate space.
func (st *StateStack) Translate(dx, dy float64) {
	st.cur.transform = multiplyAffine(st.cur.transform, [6]float64{1, 0, 0, 1, dx, dy})
}

// Rotate rotates the coordinate space clockwise (Y down) by radians.
func (st *StateStack) Rotate(radians float64) {
	st.cur.transform = multiplyAffine(st.cur.transform, rotationTransform(radians))
}

// Alpha returns the current global alpha.
func (st *StateStack) Alpha() float64 {
	return st.cur.alpha
}

// Transform returns the current affine matrix.
func (st *StateStack) Transform() [6]float64 {
	return st.cur.transform
}

// Apply maps a point through the current transform.
func (st *StateStack) Apply(x, y float64) (float64, float64) {
	return transformPoint(st.cur.transform, x, y)
}

// Scale returns the average linear scale of the current transform.
func (st *StateStack) Scale() float64 {
	return transformScale(st.cur.transform)
}

// ApplyAll maps points through the current transform into a new slice.
func (st *StateStack) ApplyAll(points []Vec2) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i].X, out[i].Y = st.Apply(p.X, p.Y)
	}
	return out
}
