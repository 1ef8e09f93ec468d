// Package layout computes window geometry. It is a pure function of
// the current window list, screen dimensions, and reserved edges - no
// I/O, no mutation, so it is trivial to test and to run twice for an
// idempotence check.
package layout

import "github.com/kvark-wm/bunnuafeth/store"

// BorderWidth is the server-side window border every tiled window
// carries; it is not a drawn frame.
const BorderWidth = 5

// Kind tags the two layouts the core supports.
type Kind int

const (
	Floating Kind = iota
	Tiled
)

// TiledKind tags the tiling algorithms available under Tiled. MainStack
// is the only one the spec names; it is a closed variant on purpose
// (see DESIGN.md on why the teacher's proportion-adjustable layouts
// were not carried over).
type TiledKind int

const (
	MainStack TiledKind = iota
)

// Diff is a requested geometry change for one window. A field is
// present (non-nil) iff it differs from the window's current value -
// this is what lets the core suppress redundant ConfigureWindow
// requests.
type Diff struct {
	Window store.Window
	X, Y   *int16
	W, H   *uint16
}

// HasChange reports whether the diff carries any field.
func (d Diff) HasChange() bool {
	return d.X != nil || d.Y != nil || d.W != nil || d.H != nil
}

// Commit writes the diff's changed fields into w's recorded geometry.
// Callers apply this only after the corresponding ConfigureWindow
// request has actually been issued, so a second Compute call against
// unmodified state reports no further changes.
func (d Diff) Commit(w *store.WindowState) {
	if d.X != nil {
		w.X = *d.X
	}
	if d.Y != nil {
		w.Y = *d.Y
	}
	if d.W != nil {
		w.Width = *d.W
	}
	if d.H != nil {
		w.Height = *d.H
	}
}

// Engine computes geometry diffs for the active layout.
type Engine struct {
	Kind      Kind
	Tiled     TiledKind
	Reserved  store.ReservedEdges
}

// NewEngine returns an engine defaulting to Tiled(MainStack), the
// layout new windows tile into until a user toggles floating.
func NewEngine() *Engine {
	return &Engine{Kind: Tiled, Tiled: MainStack}
}

// Compute returns the geometry diffs needed to bring every Normal,
// non-floating window in windows (in registry/insertion order) into
// the active layout. Returns nil for Floating - the layout never
// touches floating windows.
func (e *Engine) Compute(windows []*store.WindowState, screenW, screenH uint16) []Diff {
	if e.Kind == Floating {
		return nil
	}

	switch e.Tiled {
	case MainStack:
		return e.mainStack(windows, screenW, screenH)
	default:
		return nil
	}
}

func (e *Engine) tileable(windows []*store.WindowState) []*store.WindowState {
	out := make([]*store.WindowState, 0, len(windows))
	for _, w := range windows {
		if w.Type.Kind == store.Normal && !w.IsFloating && !w.Properties.Fullscreen {
			out = append(out, w)
		}
	}
	return out
}

// mainStack implements spec.md §4.4's Tiled(MainStack): the first
// window (in registry order) is the main pane, the rest are stacked in
// equal-height rows on the right half. N=1 collapses to a single full-
// area tile.
func (e *Engine) mainStack(windows []*store.WindowState, screenW, screenH uint16) []Diff {
	tiles := e.tileable(windows)
	n := len(tiles)
	if n == 0 {
		return nil
	}

	r := e.Reserved
	availW := int(screenW) - int(r.Left.Width) - int(r.Right.Width)
	availH := int(screenH) - int(r.Top.Width) - int(r.Bottom.Width)

	diffs := make([]Diff, 0, n)

	if n == 1 {
		x := int16(r.Left.Width)
		y := int16(r.Top.Width)
		w := uint16(availW - 2*BorderWidth)
		h := uint16(availH - 2*BorderWidth)
		diffs = append(diffs, geometryDiff(tiles[0], x, y, w, h))
		return diffs
	}

	main := tiles[0]
	stack := tiles[1:]

	// Reserved edges are subtracted before halving: the half is taken
	// out of the available area, not the raw screen width.
	half := availW / 2
	mainW := uint16(half - 2*BorderWidth)
	mainX := int16(r.Left.Width)
	mainY := int16(r.Top.Width)
	mainH := uint16(availH - 2*BorderWidth)
	diffs = append(diffs, geometryDiff(main, mainX, mainY, mainW, mainH))

	stackCount := len(stack)
	rowH := availH/stackCount - 2*BorderWidth
	stackX := int16(r.Left.Width) + int16(half)
	stackW := uint16(availW - half - 2*BorderWidth)

	for i, s := range stack {
		y := int16(int(r.Top.Width) + i*(rowH+2*BorderWidth))
		diffs = append(diffs, geometryDiff(s, stackX, y, stackW, uint16(rowH)))
	}

	return diffs
}

// geometryDiff compares the target geometry against w's last-known
// geometry (as recorded in the registry), producing a Diff with only
// the fields that actually change. w's recorded geometry is left
// untouched here - the caller (wm core) commits the new geometry into
// the registry only once the ConfigureWindow request has actually been
// issued - so a Compute call after the previous diffs were committed
// yields an empty diff, while calling Compute again without committing
// returns the same diff once more.
func geometryDiff(w *store.WindowState, x, y int16, width, height uint16) Diff {
	d := Diff{Window: w.Window}
	if w.X != x {
		v := x
		d.X = &v
	}
	if w.Y != y {
		v := y
		d.Y = &v
	}
	if w.Width != width {
		v := width
		d.W = &v
	}
	if w.Height != height {
		v := height
		d.H = &v
	}
	return d
}
