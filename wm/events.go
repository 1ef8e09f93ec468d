package wm

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/kvark-wm/bunnuafeth/store"
)

const motionIntervalMs = 1000 / 60

// HandleEvent is the single entry point the event loop driver calls for
// every event off the wire. It applies the sequence-ignore filter first,
// then dispatches by concrete event type per spec.md §4.6's table.
func (c *Core) HandleEvent(ev xgb.Event) {
	if seq, ok := eventSequence(ev); ok && c.ignore.Consume(seq) {
		return
	}

	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		if err := c.Manage(e.Window); err != nil {
			log.WithError(err).WithField("window", e.Window).Warn("wm: manage failed")
		}
	case xproto.ExposeEvent:
		c.bar.Redraw(c.registry.Focused())
	case xproto.ConfigureRequestEvent:
		c.handleConfigureRequest(e)
	case xproto.DestroyNotifyEvent:
		c.Unmanage(e.Window)
	case xproto.UnmapNotifyEvent:
		c.Unmanage(e.Window)
	case xproto.EnterNotifyEvent:
		if state := c.registry.Get(e.Event); state != nil && state.Type.Kind == store.Normal {
			c.Focus(e.Event)
		}
	case xproto.LeaveNotifyEvent:
		if focused, ok := c.registry.FocusedHandle(); ok && focused == e.Event {
			c.Unfocus()
		}
	case xproto.ButtonPressEvent:
		c.handleButtonPress(e)
	case xproto.ButtonReleaseEvent:
		c.handleButtonRelease()
	case xproto.MotionNotifyEvent:
		c.handleMotionNotify(e)
	case xproto.KeyPressEvent:
		c.handleKeyPress(e)
	case xproto.ClientMessageEvent:
		c.handleClientMessage(e)
	}
}

// eventSequence extracts the wire sequence number the ignore protocol
// matches against. xgb's generated event structs don't share an
// interface for this field, so a type switch backs it.
func eventSequence(ev xgb.Event) (uint16, bool) {
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		return e.Sequence, true
	case xproto.ExposeEvent:
		return e.Sequence, true
	case xproto.ConfigureRequestEvent:
		return e.Sequence, true
	case xproto.DestroyNotifyEvent:
		return e.Sequence, true
	case xproto.UnmapNotifyEvent:
		return e.Sequence, true
	case xproto.EnterNotifyEvent:
		return e.Sequence, true
	case xproto.LeaveNotifyEvent:
		return e.Sequence, true
	case xproto.ButtonPressEvent:
		return e.Sequence, true
	case xproto.ButtonReleaseEvent:
		return e.Sequence, true
	case xproto.MotionNotifyEvent:
		return e.Sequence, true
	case xproto.KeyPressEvent:
		return e.Sequence, true
	case xproto.ClientMessageEvent:
		return e.Sequence, true
	default:
		return 0, false
	}
}

func (c *Core) handleConfigureRequest(e xproto.ConfigureRequestEvent) {
	var mask uint16
	var values []uint32
	if e.ValueMask&xproto.ConfigWindowX != 0 {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(e.X))
	}
	if e.ValueMask&xproto.ConfigWindowY != 0 {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(e.Y))
	}
	if e.ValueMask&xproto.ConfigWindowWidth != 0 {
		mask |= xproto.ConfigWindowWidth
		values = append(values, uint32(e.Width))
	}
	if e.ValueMask&xproto.ConfigWindowHeight != 0 {
		mask |= xproto.ConfigWindowHeight
		values = append(values, uint32(e.Height))
	}
	if e.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
		mask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(e.BorderWidth))
	}
	// sibling and stack-mode are deliberately dropped: clients do not
	// get to reorder themselves in the stack.
	c.conn.ConfigureWindow(e.Window, mask, values)
}

func (c *Core) handleButtonPress(e xproto.ButtonPressEvent) {
	cmd, ok := c.binder.Button(e.Detail, e.State)
	if !ok {
		return
	}
	c.execute(cmd, commandContext{
		window:    e.Child,
		rootX:     e.RootX,
		rootY:     e.RootY,
		eventX:    e.EventX,
		eventY:    e.EventY,
		fromMouse: true,
	})
}

func (c *Core) handleKeyPress(e xproto.KeyPressEvent) {
	cmd, ok := c.binder.Key(e.Detail, e.State)
	if !ok {
		return
	}
	c.execute(cmd, commandContext{
		window:    e.Event,
		fromMouse: false,
	})
}

func (c *Core) handleButtonRelease() {
	if c.drag != nil {
		c.conn.ChangeWindowAttributes(c.drag.Window, xproto.CwCursor, []uint32{uint32(c.cursorNormal)})
	}
	if c.resize != nil {
		c.conn.ChangeWindowAttributes(c.resize.Window, xproto.CwCursor, []uint32{uint32(c.cursorNormal)})
	}
	c.drag = nil
	c.resize = nil
	c.pointerGrabbed = false
	c.conn.UngrabPointer()
}

func (c *Core) handleMotionNotify(e xproto.MotionNotifyEvent) {
	if uint32(e.Time)-uint32(c.lastTimestamp) <= motionIntervalMs && c.lastTimestamp != 0 {
		return
	}
	c.lastTimestamp = e.Time

	switch {
	case c.drag != nil:
		x := c.drag.AnchorX + e.RootX
		y := c.drag.AnchorY + e.RootY
		c.conn.ConfigureWindow(c.drag.Window, xproto.ConfigWindowX|xproto.ConfigWindowY,
			[]uint32{uint32(x), uint32(y)})
		if state := c.registry.Get(c.drag.Window); state != nil {
			state.X, state.Y = x, y
		}
	case c.resize != nil:
		w := uint16(int16(c.resize.StartWidth) + c.resize.AnchorX + e.EventX)
		h := uint16(int16(c.resize.StartHeight) + c.resize.AnchorY + e.EventY)
		c.conn.ConfigureWindow(c.resize.Window, xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
			[]uint32{uint32(w), uint32(h)})
		if state := c.registry.Get(c.resize.Window); state != nil {
			state.Width, state.Height = w, h
		}
	}
}

// handleClientMessage applies a _NET_WM_STATE request, per spec.md §7's
// MalformedClientMessage kind: an invalid action/property is logged and
// the message dropped rather than acted on.
func (c *Core) handleClientMessage(e xproto.ClientMessageEvent) {
	if e.Type != c.conn.Atoms.Atom("_NET_WM_STATE") {
		return
	}
	state := c.registry.Get(e.Window)
	if state == nil {
		return
	}

	data := e.Data.Data32
	if len(data) < 3 {
		log.WithField("window", e.Window).Warn("wm: malformed _NET_WM_STATE client message, too few data values")
		return
	}
	action := store.PropertyAction(data[0])
	if action != store.ActionRemove && action != store.ActionAdd && action != store.ActionToggle {
		log.WithField("window", e.Window).WithField("action", data[0]).Warn("wm: malformed _NET_WM_STATE client message, unknown action")
		return
	}
	var atomNames []string
	for _, a := range []xproto.Atom{xproto.Atom(data[1]), xproto.Atom(data[2])} {
		if a == 0 {
			continue
		}
		if n := c.conn.Atoms.Name(a); n != "" {
			atomNames = append(atomNames, n)
		}
	}
	if len(atomNames) == 0 {
		log.WithField("window", e.Window).Warn("wm: malformed _NET_WM_STATE client message, no recognized property atom")
		return
	}

	state.Properties.Apply(action, atomNames...)
	c.conn.EwmhWmStateSet(e.Window, state.Properties.AtomNames())
}
