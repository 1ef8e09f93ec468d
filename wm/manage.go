package wm

import (
	"github.com/jezek/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/kvark-wm/bunnuafeth/layout"
	"github.com/kvark-wm/bunnuafeth/store"
)

// windowTypeKindFor maps the EWMH _NET_WM_WINDOW_TYPE atom names to the
// closed set the registry distinguishes. Defaults to Normal, matching
// spec.md §4.6's "Normal (and all others default)".
func windowTypeKindFor(names []string) store.WindowTypeKind {
	for _, n := range names {
		switch n {
		case "_NET_WM_WINDOW_TYPE_DESKTOP":
			return store.Desktop
		case "_NET_WM_WINDOW_TYPE_DOCK":
			return store.Dock
		case "_NET_WM_WINDOW_TYPE_DIALOG":
			return store.Dialog
		case "_NET_WM_WINDOW_TYPE_MENU":
			return store.Menu
		case "_NET_WM_WINDOW_TYPE_SPLASH":
			return store.Splash
		case "_NET_WM_WINDOW_TYPE_TOOLBAR":
			return store.Toolbar
		case "_NET_WM_WINDOW_TYPE_UTILITY":
			return store.Utility
		}
	}
	return store.Normal
}

// Manage brings a newly-mapped (or pre-existing) top-level window under
// management, following spec.md §4.6's "Manage a window" steps.
func (c *Core) Manage(w xproto.Window) error {
	if c.registry.Contains(w) {
		return nil
	}

	mask := uint32(xproto.EventMaskEnterWindow | xproto.EventMaskFocusChange |
		xproto.EventMaskPropertyChange | xproto.EventMaskVisibilityChange |
		xproto.EventMaskExposure | xproto.EventMaskStructureNotify)
	if err := c.conn.ChangeWindowAttributes(w, xproto.CwEventMask, []uint32{mask}); err != nil {
		return err
	}

	extents := []uint32{layout.BorderWidth, layout.BorderWidth, layout.BorderWidth, layout.BorderWidth}
	if err := c.conn.ChangeProperty32(w, c.conn.Atoms.Atom("_NET_FRAME_EXTENTS"), xproto.AtomCardinal, extents); err != nil {
		return err
	}

	typeNames, err := c.conn.EwmhWmWindowTypeGet(w)
	if err != nil {
		typeNames = nil
	}
	kind := windowTypeKindFor(typeNames)

	geom, err := c.conn.GetGeometry(w)
	if err != nil {
		return err
	}

	wt := store.WindowType{Kind: kind}
	if kind == store.Dock {
		sp, err := c.conn.EwmhWmStrutPartialGet(w)
		if err == nil {
			wt.Strut = store.ParseStrutPartial([]uint32{
				sp.Left, sp.Right, sp.Top, sp.Bottom,
				sp.LeftStartY, sp.LeftEndY, sp.RightStartY, sp.RightEndY,
				sp.TopStartX, sp.TopEndX, sp.BottomStartX, sp.BottomEndX,
			})
		}
	}

	state := &store.WindowState{
		Window: w,
		Geometry: store.Geometry{
			X: geom.X, Y: geom.Y, Width: geom.Width, Height: geom.Height,
		},
		Type:        wt,
		IsFloating:  false,
		BorderWidth: layout.BorderWidth,
	}

	switch kind {
	case store.Dock, store.Desktop:
		c.registry.AddUnmanaged(state)
		if kind == store.Dock {
			c.layout.Reserved = c.registry.ReservedEdges()
		}
	default:
		c.registry.AddManaged(w, state)
		if fullscreen := c.registry.FindBy(func(s *store.WindowState) bool { return s.Properties.Fullscreen }); fullscreen != nil {
			c.conn.RaiseWindow(fullscreen.Window)
		} else {
			c.Focus(w)
		}
		c.conn.SetBorderWidth(w, layout.BorderWidth)
	}

	c.applyLayout()

	if err := c.conn.GrabServer(); err != nil {
		return err
	}
	defer c.conn.UngrabServer()

	if err := c.conn.ChangeSaveSetInsert(w); err != nil {
		return err
	}
	if err := c.conn.EwmhClientListSet(c.registry.ManagedHandles()); err != nil {
		return err
	}

	seq, err := c.conn.MapWindowSeq(w)
	if err != nil {
		return err
	}
	c.ignore.Add(seq)

	return nil
}

// AdoptDock registers a window the core itself created (the bar's own
// placeholder window, not a client arriving via MapRequest) as an
// unmanaged Dock, folding its strut into the reserved edges and
// recomputing layout and the EWMH workarea. Manage is reserved for
// windows that arrive through the map-request path.
func (c *Core) AdoptDock(w xproto.Window, strut store.ReservedEdges) {
	c.registry.AddUnmanaged(&store.WindowState{
		Window: w,
		Type:   store.WindowType{Kind: store.Dock, Strut: strut},
	})
	c.layout.Reserved = c.registry.ReservedEdges()
	c.applyLayout()
	c.writeWorkarea()
}

// Unmanage removes w from management, following spec.md §4.6's
// "Unmanage" steps: save-set removal, reparent back to root,
// unfocus/refocus, _NET_CLIENT_LIST rewrite, layout recompute, and
// reserved-edge recompute if the removed window was a dock.
func (c *Core) Unmanage(w xproto.Window) {
	focused, ok := c.registry.FocusedHandle()
	wasFocused := ok && focused == w

	if state := c.registry.Remove(w); state != nil {
		c.conn.ChangeSaveSetInsert(w) // best effort; errors ignored on teardown
		if err := c.conn.ReparentWindow(w, c.conn.Root, state.X, state.Y); err != nil {
			log.WithError(err).WithField("window", w).Debug("wm: reparent on unmanage failed")
		}

		// Remove already shifted focus (with wraparound) internally if w
		// was focused; re-surface whatever it landed on to the X server.
		if wasFocused {
			if next, ok := c.registry.FocusedHandle(); ok {
				c.Focus(next)
			} else {
				c.Unfocus()
			}
		}

		c.conn.EwmhClientListSet(c.registry.ManagedHandles())
		c.applyLayout()
		return
	}

	if unmanaged := c.registry.RemoveUnmanaged(w); unmanaged != nil {
		if unmanaged.Type.Kind == store.Dock {
			c.layout.Reserved = c.registry.ReservedEdges()
			c.applyLayout()
			c.writeWorkarea()
		}
	}
}

// applyLayout recomputes and applies the geometry diff for the active
// layout, in registry order, then raises floating windows in registry
// order (so floating windows always stack above tiled ones).
func (c *Core) applyLayout() {
	w, h := c.screenSize()
	diffs := c.layout.Compute(c.registry.Managed(), w, h)

	for _, d := range diffs {
		if !d.HasChange() {
			continue
		}
		mask, values := configureValues(d)
		c.conn.ConfigureWindow(d.Window, mask, values)
		if state := c.registry.Get(d.Window); state != nil {
			d.Commit(state)
		}
	}

	for _, f := range c.registry.Floating() {
		c.conn.RaiseWindow(f.Window)
	}
}

func configureValues(d layout.Diff) (uint16, []uint32) {
	var mask uint16
	var values []uint32
	if d.X != nil {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(*d.X))
	}
	if d.Y != nil {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(*d.Y))
	}
	if d.W != nil {
		mask |= xproto.ConfigWindowWidth
		values = append(values, uint32(*d.W))
	}
	if d.H != nil {
		mask |= xproto.ConfigWindowHeight
		values = append(values, uint32(*d.H))
	}
	return mask, values
}

// Focus sets w as the input focus, painting its border cyan and the
// previously focused Normal window's border black, per spec.md §4.6
// "Focus transitions".
func (c *Core) Focus(w xproto.Window) {
	prev := c.registry.Focused()

	if err := c.registry.Focus(w); err != nil {
		return
	}
	c.conn.SetBorderPixel(w, borderFocused)
	c.conn.SetInputFocus(w)

	if prev != nil && prev.Window != w && prev.Type.Kind == store.Normal {
		c.conn.SetBorderPixel(prev.Window, borderUnfocused)
	}

	c.conn.EwmhActiveWindowSet(w)
	c.bar.Redraw(c.registry.Get(w))
	c.conn.Flush()
}

// Unfocus clears the focus, painting the previously focused Normal
// window's border black and setting input focus to root.
func (c *Core) Unfocus() {
	prev := c.registry.Focused()
	c.registry.Unfocus()

	if prev != nil && prev.Type.Kind == store.Normal {
		c.conn.SetBorderPixel(prev.Window, borderUnfocused)
	}
	c.conn.SetInputFocus(c.conn.Root)
	c.conn.EwmhActiveWindowSet(0)
	c.bar.Redraw(nil)
	c.conn.Flush()
}
