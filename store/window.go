// Package store holds the authoritative model of managed and unmanaged
// top-level windows: their geometry, EWMH type, and property set, plus
// the ordered registry that tracks them.
package store

import "github.com/jezek/xgb/xproto"

// Window is the opaque server-issued handle identifying a top-level
// client window.
type Window = xproto.Window

// WindowTypeKind tags the closed set of EWMH window types the core
// distinguishes.
type WindowTypeKind int

const (
	Normal WindowTypeKind = iota
	Desktop
	Dialog
	Dock
	Menu
	Splash
	Toolbar
	Utility
)

func (k WindowTypeKind) String() string {
	switch k {
	case Desktop:
		return "Desktop"
	case Dialog:
		return "Dialog"
	case Dock:
		return "Dock"
	case Menu:
		return "Menu"
	case Splash:
		return "Splash"
	case Toolbar:
		return "Toolbar"
	case Utility:
		return "Utility"
	default:
		return "Normal"
	}
}

// EdgeDimensions is one side of a strut: how many pixels it reserves,
// and the start/end span (in the perpendicular axis) it covers.
type EdgeDimensions struct {
	Width uint32
	Start uint32
	End   uint32
}

// Max returns the componentwise max of two edges, used to fold a new
// dock's strut into the layout's running reservation.
func (e EdgeDimensions) Max(o EdgeDimensions) EdgeDimensions {
	out := e
	if o.Width > out.Width {
		out.Width = o.Width
	}
	if o.Start > out.Start {
		out.Start = o.Start
	}
	if o.End > out.End {
		out.End = o.End
	}
	return out
}

// ReservedEdges is the screen-edge space withheld from tiling, one
// EdgeDimensions per side.
type ReservedEdges struct {
	Top, Right, Left, Bottom EdgeDimensions
}

// Max folds another dock's reservation into this one, componentwise.
func (r ReservedEdges) Max(o ReservedEdges) ReservedEdges {
	return ReservedEdges{
		Top:    r.Top.Max(o.Top),
		Right:  r.Right.Max(o.Right),
		Left:   r.Left.Max(o.Left),
		Bottom: r.Bottom.Max(o.Bottom),
	}
}

// ParseStrutPartial decodes the twelve _NET_WM_STRUT_PARTIAL cardinals
// into ReservedEdges, in the wire order EWMH defines: left, right, top,
// bottom, left_start_y, left_end_y, right_start_y, right_end_y,
// top_start_x, top_end_x, bottom_start_x, bottom_end_x.
func ParseStrutPartial(c []uint32) ReservedEdges {
	get := func(i int) uint32 {
		if i < len(c) {
			return c[i]
		}
		return 0
	}
	return ReservedEdges{
		Left:   EdgeDimensions{Width: get(0), Start: get(4), End: get(5)},
		Right:  EdgeDimensions{Width: get(1), Start: get(6), End: get(7)},
		Top:    EdgeDimensions{Width: get(2), Start: get(8), End: get(9)},
		Bottom: EdgeDimensions{Width: get(3), Start: get(10), End: get(11)},
	}
}

// WindowType tags a window's EWMH type; Dock additionally carries the
// strut it reserves.
type WindowType struct {
	Kind   WindowTypeKind
	Strut  ReservedEdges // only meaningful when Kind == Dock
}

// Properties mirrors the twelve EWMH _NET_WM_STATE_* booleans a window
// can carry. Zero value is "no state set".
type Properties struct {
	Modal             bool
	Sticky            bool
	MaximizedVert     bool
	MaximizedHorz     bool
	Shaded            bool
	SkipTaskbar       bool
	SkipPager         bool
	Hidden            bool
	Fullscreen        bool
	Above             bool
	Below             bool
	DemandsAttention  bool
}

// stateAtoms pairs each property with the _NET_WM_STATE_* atom name
// that represents it, in EWMH enumeration order.
var stateAtoms = []struct {
	name string
	get  func(*Properties) bool
	set  func(*Properties, bool)
}{
	{"_NET_WM_STATE_MODAL", func(p *Properties) bool { return p.Modal }, func(p *Properties, v bool) { p.Modal = v }},
	{"_NET_WM_STATE_STICKY", func(p *Properties) bool { return p.Sticky }, func(p *Properties, v bool) { p.Sticky = v }},
	{"_NET_WM_STATE_MAXIMIZED_VERT", func(p *Properties) bool { return p.MaximizedVert }, func(p *Properties, v bool) { p.MaximizedVert = v }},
	{"_NET_WM_STATE_MAXIMIZED_HORZ", func(p *Properties) bool { return p.MaximizedHorz }, func(p *Properties, v bool) { p.MaximizedHorz = v }},
	{"_NET_WM_STATE_SHADED", func(p *Properties) bool { return p.Shaded }, func(p *Properties, v bool) { p.Shaded = v }},
	{"_NET_WM_STATE_SKIP_TASKBAR", func(p *Properties) bool { return p.SkipTaskbar }, func(p *Properties, v bool) { p.SkipTaskbar = v }},
	{"_NET_WM_STATE_SKIP_PAGER", func(p *Properties) bool { return p.SkipPager }, func(p *Properties, v bool) { p.SkipPager = v }},
	{"_NET_WM_STATE_HIDDEN", func(p *Properties) bool { return p.Hidden }, func(p *Properties, v bool) { p.Hidden = v }},
	{"_NET_WM_STATE_FULLSCREEN", func(p *Properties) bool { return p.Fullscreen }, func(p *Properties, v bool) { p.Fullscreen = v }},
	{"_NET_WM_STATE_ABOVE", func(p *Properties) bool { return p.Above }, func(p *Properties, v bool) { p.Above = v }},
	{"_NET_WM_STATE_BELOW", func(p *Properties) bool { return p.Below }, func(p *Properties, v bool) { p.Below = v }},
	{"_NET_WM_STATE_DEMANDS_ATTENTION", func(p *Properties) bool { return p.DemandsAttention }, func(p *Properties, v bool) { p.DemandsAttention = v }},
}

// PropertyAction is the tagged action a _NET_WM_STATE ClientMessage
// carries in data32[0].
type PropertyAction int

const (
	ActionRemove PropertyAction = 0
	ActionAdd    PropertyAction = 1
	ActionToggle PropertyAction = 2
)

// Apply mutates the properties named by the given atom names according
// to action, matching the three-valued EWMH semantics.
func (p *Properties) Apply(action PropertyAction, names ...string) {
	for _, n := range names {
		for _, sa := range stateAtoms {
			if sa.name != n {
				continue
			}
			switch action {
			case ActionAdd:
				sa.set(p, true)
			case ActionRemove:
				sa.set(p, false)
			case ActionToggle:
				sa.set(p, !sa.get(p))
			}
		}
	}
}

// AtomNames returns the _NET_WM_STATE_* names currently set, in
// enumeration order - the set written back to _NET_WM_STATE on the
// window after every mutation.
func (p *Properties) AtomNames() []string {
	var out []string
	for _, sa := range stateAtoms {
		if sa.get(p) {
			out = append(out, sa.name)
		}
	}
	return out
}

// Geometry is a window's position and size in root coordinates.
type Geometry struct {
	X, Y          int16
	Width, Height uint16
}

// WindowState is the per-window record the registry owns. Mutated only
// by the core, never by callers reaching in directly.
type WindowState struct {
	Window Window
	Geometry
	Type       WindowType
	Properties Properties
	IsFloating bool

	// BorderWidth tracks the window's current server-side border,
	// separate from the layout.BorderWidth constant so fullscreen
	// restore can put back the pre-fullscreen value even if a future
	// per-window override existed.
	BorderWidth uint32

	// LastFloatingGeometry is the geometry recorded on entering
	// fullscreen and restored when fullscreen is left. Floating toggles
	// neither record nor restore it.
	LastFloatingGeometry Geometry
}
