package wm

import (
	"bufio"
	"io"
	"os/exec"
	"strings"

	"github.com/jezek/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/kvark-wm/bunnuafeth/input"
	"github.com/kvark-wm/bunnuafeth/store"
)

// commandContext carries the per-invocation detail a command needs:
// which window the triggering event targeted, and (for mouse-bound
// commands) the pointer position at the time of the press.
type commandContext struct {
	window    xproto.Window
	rootX, rootY int16
	eventX, eventY int16
	fromMouse bool
}

// execute runs cmd against the given context, per spec.md §4.6
// "Commands (from bindings)".
func (c *Core) execute(cmd input.Command, ctx commandContext) {
	switch cmd.Kind {
	case input.CommandExecute:
		c.commandExecute(cmd.Str)
	case input.CommandCloseWindow:
		c.commandCloseWindow()
	case input.CommandMoveWindow:
		c.commandMoveWindow(ctx)
	case input.CommandResizeWindow:
		c.commandResizeWindow(ctx, cmd.Step)
	case input.CommandToggleFullscreen:
		c.commandToggleFullscreen()
	case input.CommandToggleFloating:
		c.commandToggleFloating()
	case input.CommandFocusNext:
		c.commandFocusNext()
	case input.CommandFocusPrevious:
		c.commandFocusPrevious()
	}
}

// commandExecute spawns line as a program with arguments, split on
// spaces. Spawn failure is logged, not fatal. The spawned process's
// stdout is drained by a dedicated goroutine into the log sink - the
// one auxiliary thread the core's otherwise single-threaded model
// permits, since it never touches Core state.
func (c *Core) commandExecute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	cmd := exec.Command(fields[0], fields[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.WithError(err).WithField("command", line).Error("wm: failed to open stdout pipe")
		return
	}

	if err := cmd.Start(); err != nil {
		log.WithError(err).WithField("command", line).Error("wm: failed to spawn command")
		return
	}

	go drainStdout(cmd, stdout)
}

func drainStdout(cmd *exec.Cmd, r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.WithField("command", cmd.Path).Info(scanner.Text())
	}
	if err := cmd.Wait(); err != nil {
		log.WithError(err).WithField("command", cmd.Path).Debug("wm: spawned command exited")
	}
}

// commandCloseWindow asks the focused window to close by sending it a
// WM_DELETE_WINDOW client message, per spec.md §4.6.
func (c *Core) commandCloseWindow() {
	w, ok := c.registry.FocusedHandle()
	if !ok || w == c.conn.Root {
		return
	}

	data := [5]uint32{uint32(c.conn.Atoms.Atom("WM_DELETE_WINDOW")), 0, 0, 0, 0}
	if err := c.conn.SendClientMessage(w, w, c.conn.Atoms.Atom("WM_PROTOCOLS"), data, 0); err != nil {
		log.WithError(err).WithField("window", w).Warn("wm: WM_DELETE_WINDOW send failed")
	}
}

func canMove(state *store.WindowState) bool   { return !state.Properties.Fullscreen }
func canResize(state *store.WindowState) bool { return !state.Properties.Fullscreen }

func (c *Core) commandMoveWindow(ctx commandContext) {
	if ctx.fromMouse {
		state := c.registry.Get(ctx.window)
		if state == nil || !canMove(state) {
			return
		}
		state.IsFloating = true
		c.conditionallyGrabPointer(state.Window)
		c.conn.ChangeWindowAttributes(state.Window, xproto.CwCursor, []uint32{uint32(c.cursorMove)})
		c.drag = &DragSession{Window: state.Window, AnchorX: state.X - ctx.eventX, AnchorY: state.Y - ctx.eventY}
		c.conn.RaiseWindow(state.Window)
		c.Focus(state.Window)
		c.applyLayout()
		return
	}

	// Keyboard-bound MoveWindow only ever applies to the already-
	// floating focused window.
	state := c.registry.Focused()
	if state == nil || !state.IsFloating || !canMove(state) {
		return
	}
	c.conn.ChangeWindowAttributes(state.Window, xproto.CwCursor, []uint32{uint32(c.cursorMove)})
	if c.drag == nil {
		c.drag = &DragSession{Window: state.Window, AnchorX: -ctx.eventX, AnchorY: -ctx.eventY}
	}
}

func (c *Core) commandResizeWindow(ctx commandContext, step int16) {
	state := c.registry.Get(ctx.window)
	if state == nil {
		state = c.registry.Focused()
	}
	if state == nil || !canResize(state) {
		return
	}

	if !ctx.fromMouse {
		// Keyboard binding: apply a fixed pixel step immediately rather
		// than starting a drag session.
		if !state.IsFloating {
			return
		}
		w := uint16(int16(state.Width) + step)
		h := uint16(int16(state.Height) + step)
		state.Width, state.Height = w, h
		c.conn.ConfigureWindow(state.Window, xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
			[]uint32{uint32(w), uint32(h)})
		return
	}

	c.conditionallyGrabPointer(state.Window)
	c.conn.ChangeWindowAttributes(state.Window, xproto.CwCursor, []uint32{uint32(c.cursorResize)})
	c.resize = &ResizeSession{
		Window:      state.Window,
		StartWidth:  state.Width,
		StartHeight: state.Height,
		AnchorX:     state.X - ctx.eventX,
		AnchorY:     state.Y - ctx.eventY,
	}
	c.conn.RaiseWindow(state.Window)
}

func (c *Core) conditionallyGrabPointer(w xproto.Window) {
	if c.pointerGrabbed {
		return
	}
	mask := uint16(xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease |
		xproto.EventMaskButtonMotion | xproto.EventMaskPointerMotion)
	if err := c.conn.GrabPointer(w, mask, 0); err != nil {
		log.WithError(err).Warn("wm: grab pointer failed")
		return
	}
	c.pointerGrabbed = true
}

// commandToggleFullscreen enters or exits fullscreen on the focused
// window. At most one window is ever fullscreen (spec.md §3): entering
// fullscreen first restores whichever other window currently holds it,
// so the invariant never lapses even across consecutive toggles.
func (c *Core) commandToggleFullscreen() {
	state := c.registry.Focused()
	if state == nil {
		return
	}

	if state.Properties.Fullscreen {
		c.restoreFromFullscreen(state)
		return
	}

	if other := c.registry.FindBy(func(s *store.WindowState) bool {
		return s.Properties.Fullscreen && s.Window != state.Window
	}); other != nil {
		c.restoreFromFullscreen(other)
	}

	state.LastFloatingGeometry = state.Geometry
	state.IsFloating = true
	w, h := c.screenSize()
	state.Properties.Fullscreen = true
	state.X, state.Y, state.Width, state.Height = 0, 0, w, h
	c.conn.SetBorderWidth(state.Window, 0)
	c.conn.ConfigureWindow(state.Window,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{0, 0, uint32(w), uint32(h), xproto.StackModeAbove})
	c.conn.EwmhWmStateSet(state.Window, state.Properties.AtomNames())
}

// restoreFromFullscreen clears state's fullscreen flag and puts its
// last floating geometry back, without touching focus.
func (c *Core) restoreFromFullscreen(state *store.WindowState) {
	state.Properties.Fullscreen = false
	state.Geometry = state.LastFloatingGeometry
	c.conn.SetBorderWidth(state.Window, state.BorderWidth)
	c.conn.ConfigureWindow(state.Window,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(state.X), uint32(state.Y), uint32(state.Width), uint32(state.Height)})
	c.conn.EwmhWmStateSet(state.Window, state.Properties.AtomNames())
}

func (c *Core) commandToggleFloating() {
	state := c.registry.Focused()
	if state == nil {
		return
	}
	state.IsFloating = !state.IsFloating
	c.applyLayout()
}

func (c *Core) commandFocusNext() {
	w, ok := c.registry.FocusedHandle()
	if !ok {
		return
	}
	if next, ok := c.registry.NextWindow(w); ok {
		c.Focus(next)
	}
}

func (c *Core) commandFocusPrevious() {
	w, ok := c.registry.FocusedHandle()
	if !ok {
		return
	}
	if prev, ok := c.registry.PreviousWindow(w); ok {
		c.Focus(prev)
	}
}
