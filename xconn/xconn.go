// Package xconn is the thin connection facade the rest of the window
// manager talks to. It owns the X11 connection, the atom registry and
// the root window handle, and presents request/reply/event primitives
// as simple Go calls. Every call that can fail returns a *WmError;
// nothing panics except on genuine programmer error.
package xconn

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/ewmh"

	log "github.com/sirupsen/logrus"

	"github.com/kvark-wm/bunnuafeth/atom"
	"github.com/kvark-wm/bunnuafeth/store"
)

// Conn wraps the xgbutil connection, the interned atom table, and the
// root window. It is the only thing in the codebase that talks to the
// X server directly.
type Conn struct {
	X     *xgbutil.XUtil
	Atoms *atom.Registry
	Root  xproto.Window
}

// Connect dials the display named by $DISPLAY, interns the atom table,
// and returns a ready-to-use facade. Retries a handful of times before
// giving up, the way the teacher's store.Connected does.
func Connect() (*Conn, error) {
	var lastErr error
	const retries = 10
	for i := 0; i <= retries; i++ {
		xu, err := xgbutil.NewConn()
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("xconn: connection attempt failed")
			continue
		}

		atoms, err := atom.Intern(xu.Conn())
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("xconn: atom intern failed")
			continue
		}

		return &Conn{X: xu, Atoms: atoms, Root: xu.RootWin()}, nil
	}
	return nil, newErr(KindConnectionLost, "connect", lastErr)
}

func (c *Conn) conn() *xgb.Conn { return c.X.Conn() }

// Screen returns the default screen's setup info - geometry, root
// depth/visual. Single-screen only, per the Non-goal on multi-monitor
// RandR tracking.
func (c *Conn) Screen() *xproto.ScreenInfo {
	return c.X.Conn().DefaultScreen()
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(xproto.WindowError); ok {
		return newErr(KindWindowGone, op, err)
	}
	return newErr(KindProtocolRequestError, op, err)
}

// --- window lifecycle ---

func (c *Conn) CreateWindow(parent xproto.Window, x, y int16, w, h uint16, mask uint32, values []uint32) (xproto.Window, error) {
	wid, err := xproto.NewWindowId(c.conn())
	if err != nil {
		return 0, wrap("create-window/id", err)
	}
	screen := c.Screen()
	err = xproto.CreateWindowChecked(c.conn(), screen.RootDepth, wid, parent,
		x, y, w, h, 0, xproto.WindowClassInputOutput, screen.RootVisual,
		mask, values).Check()
	return wid, wrap("create-window", err)
}

func (c *Conn) DestroyWindow(w xproto.Window) error {
	return wrap("destroy-window", xproto.DestroyWindowChecked(c.conn(), w).Check())
}

func (c *Conn) MapWindow(w xproto.Window) error {
	return wrap("map-window", xproto.MapWindowChecked(c.conn(), w).Check())
}

// MapWindowSeq issues MapWindow and returns the request's sequence
// number, so callers can feed it to the sequence-ignore heap to
// suppress the server-synthesized reparent/map echo events.
func (c *Conn) MapWindowSeq(w xproto.Window) (uint16, error) {
	cookie := xproto.MapWindowChecked(c.conn(), w)
	err := cookie.Check()
	return uint16(cookie.Cookie.Sequence), wrap("map-window", err)
}

func (c *Conn) UnmapWindow(w xproto.Window) error {
	return wrap("unmap-window", xproto.UnmapWindowChecked(c.conn(), w).Check())
}

func (c *Conn) ReparentWindow(w, parent xproto.Window, x, y int16) error {
	return wrap("reparent-window", xproto.ReparentWindowChecked(c.conn(), w, parent, x, y).Check())
}

// ConfigureWindowSeq issues ConfigureWindow and returns the request's
// sequence number so callers can feed it to the sequence-ignore heap.
func (c *Conn) ConfigureWindowSeq(w xproto.Window, mask uint16, values []uint32) (uint16, error) {
	cookie := xproto.ConfigureWindowChecked(c.conn(), w, mask, values)
	err := cookie.Check()
	return uint16(cookie.Cookie.Sequence), wrap("configure-window", err)
}

func (c *Conn) ConfigureWindow(w xproto.Window, mask uint16, values []uint32) error {
	_, err := c.ConfigureWindowSeq(w, mask, values)
	return err
}

func (c *Conn) ChangeWindowAttributes(w xproto.Window, mask uint32, values []uint32) error {
	return wrap("change-window-attributes", xproto.ChangeWindowAttributesChecked(c.conn(), w, mask, values).Check())
}

func (c *Conn) SetBorderWidth(w xproto.Window, width uint32) error {
	return c.ConfigureWindow(w, xproto.ConfigWindowBorderWidth, []uint32{width})
}

func (c *Conn) SetBorderPixel(w xproto.Window, pixel uint32) error {
	return c.ChangeWindowAttributes(w, xproto.CwBorderPixel, []uint32{pixel})
}

// --- geometry/attributes/tree ---

func (c *Conn) GetGeometry(w xproto.Window) (*xproto.GetGeometryReply, error) {
	reply, err := xproto.GetGeometry(c.conn(), xproto.Drawable(w)).Reply()
	return reply, wrap("get-geometry", err)
}

func (c *Conn) GetWindowAttributes(w xproto.Window) (*xproto.GetWindowAttributesReply, error) {
	reply, err := xproto.GetWindowAttributes(c.conn(), w).Reply()
	return reply, wrap("get-window-attributes", err)
}

func (c *Conn) QueryTree(w xproto.Window) (*xproto.QueryTreeReply, error) {
	reply, err := xproto.QueryTree(c.conn(), w).Reply()
	return reply, wrap("query-tree", err)
}

// --- properties ---

func (c *Conn) ChangeProperty32(w xproto.Window, prop, typ xproto.Atom, data []uint32) error {
	b := make([]byte, 0, len(data)*4)
	for _, v := range data {
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return wrap("change-property32", xproto.ChangePropertyChecked(c.conn(), xproto.PropModeReplace, w, prop, typ, 32, uint32(len(data)), b).Check())
}

func (c *Conn) ChangeProperty8(w xproto.Window, prop, typ xproto.Atom, data []byte) error {
	return wrap("change-property8", xproto.ChangePropertyChecked(c.conn(), xproto.PropModeReplace, w, prop, typ, 8, uint32(len(data)), data).Check())
}

func (c *Conn) AppendProperty32(w xproto.Window, prop, typ xproto.Atom, data []uint32) error {
	b := make([]byte, 0, len(data)*4)
	for _, v := range data {
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return wrap("append-property32", xproto.ChangePropertyChecked(c.conn(), xproto.PropModeAppend, w, prop, typ, 32, uint32(len(data)), b).Check())
}

func (c *Conn) GetProperty(w xproto.Window, prop xproto.Atom) (*xproto.GetPropertyReply, error) {
	reply, err := xproto.GetProperty(c.conn(), false, w, prop, xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
	return reply, wrap("get-property", err)
}

func (c *Conn) DeleteProperty(w xproto.Window, prop xproto.Atom) error {
	return wrap("delete-property", xproto.DeletePropertyChecked(c.conn(), w, prop).Check())
}

// --- grabs ---

func (c *Conn) GrabServer() error   { return wrap("grab-server", xproto.GrabServerChecked(c.conn()).Check()) }
func (c *Conn) UngrabServer() error {
	return wrap("ungrab-server", xproto.UngrabServerChecked(c.conn()).Check())
}

func (c *Conn) ChangeSaveSetInsert(w xproto.Window) error {
	return wrap("change-save-set", xproto.ChangeSaveSetChecked(c.conn(), xproto.SetModeInsert, w).Check())
}

func (c *Conn) GrabKey(w xproto.Window, mods uint16, key xproto.Keycode) error {
	return wrap("grab-key", xproto.GrabKeyChecked(c.conn(), true, w, mods, key, xproto.GrabModeAsync, xproto.GrabModeAsync).Check())
}

func (c *Conn) GrabButton(w xproto.Window, mods uint16, button xproto.Button, eventMask uint16) error {
	return wrap("grab-button", xproto.GrabButtonChecked(c.conn(), false, w, eventMask,
		xproto.GrabModeAsync, xproto.GrabModeAsync, 0, 0, button, mods).Check())
}

func (c *Conn) GrabPointer(w xproto.Window, eventMask uint16, cursor xproto.Cursor) error {
	reply, err := xproto.GrabPointer(c.conn(), false, w, eventMask,
		xproto.GrabModeAsync, xproto.GrabModeAsync, 0, cursor, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return wrap("grab-pointer", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return wrap("grab-pointer", fmt.Errorf("grab status %d", reply.Status))
	}
	return nil
}

func (c *Conn) UngrabPointer() error {
	return wrap("ungrab-pointer", xproto.UngrabPointerChecked(c.conn(), xproto.TimeCurrentTime).Check())
}

// --- focus/events ---

func (c *Conn) SetInputFocus(w xproto.Window) error {
	return wrap("set-input-focus", xproto.SetInputFocusChecked(c.conn(), xproto.InputFocusNone, w, xproto.TimeCurrentTime).Check())
}

// SendClientMessage delivers a synthetic ClientMessage with up to five
// 32-bit data words; the core uses it to send WM_DELETE_WINDOW.
func (c *Conn) SendClientMessage(dest, target xproto.Window, messageType xproto.Atom, data [5]uint32, eventMask uint32) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: target,
		Type:   messageType,
		Data:   xproto.ClientMessageDataUnionData32New(data[:]),
	}
	return wrap("send-event", xproto.SendEventChecked(c.conn(), false, dest, eventMask, string(ev.Bytes())).Check())
}

func (c *Conn) ConfigureStacking(w, sibling xproto.Window, mode byte) error {
	mask := uint16(xproto.ConfigWindowSibling | xproto.ConfigWindowStackMode)
	return c.ConfigureWindow(w, mask, []uint32{uint32(sibling), uint32(mode)})
}

func (c *Conn) RaiseWindow(w xproto.Window) error {
	return c.ConfigureWindow(w, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

// --- flushing / events ---

func (c *Conn) Flush() { c.X.Conn().Sync() }

func (c *Conn) WaitForEvent() (xgb.Event, xgb.Error) {
	return c.conn().WaitForEvent()
}

func (c *Conn) PollForEvent() (xgb.Event, xgb.Error) {
	return c.conn().PollForEvent()
}

// --- EWMH root properties ---
//
// These lean on xgbutil/ewmh rather than hand-rolled ChangeProperty
// calls, the way the teacher's store.root.go does for every EWMH
// write - the wire format for atom lists, cardinal lists and UTF-8
// strings is exactly the kind of bookkeeping that library exists to
// get right once.

func (c *Conn) EwmhSupportedSet(names []string) error {
	return wrap("ewmh-supported-set", ewmh.SupportedSet(c.X, names))
}

func (c *Conn) EwmhSupportingWmCheckSet(win, wmWin xproto.Window) error {
	return wrap("ewmh-supporting-wm-check-set", ewmh.SupportingWmCheckSet(c.X, win, wmWin))
}

func (c *Conn) EwmhWmNameSet(win xproto.Window, name string) error {
	return wrap("ewmh-wm-name-set", ewmh.WmNameSet(c.X, win, name))
}

func (c *Conn) EwmhNumberOfDesktopsSet(n uint) error {
	return wrap("ewmh-number-of-desktops-set", ewmh.NumberOfDesktopsSet(c.X, n))
}

func (c *Conn) EwmhCurrentDesktopSet(i uint) error {
	return wrap("ewmh-current-desktop-set", ewmh.CurrentDesktopSet(c.X, i))
}

func (c *Conn) EwmhDesktopViewportSet(x, y uint) error {
	return wrap("ewmh-desktop-viewport-set", ewmh.DesktopViewportSet(c.X, []ewmh.DesktopViewport{{X: x, Y: y}}))
}

func (c *Conn) EwmhDesktopGeometrySet(w, h uint) error {
	return wrap("ewmh-desktop-geometry-set", ewmh.DesktopGeometrySet(c.X, ewmh.DesktopGeometry{Width: w, Height: h}))
}

func (c *Conn) EwmhWorkareaSet(x, y, w, h uint) error {
	return wrap("ewmh-workarea-set", ewmh.WorkareaSet(c.X, []ewmh.Workarea{{X: x, Y: y, Width: w, Height: h}}))
}

func (c *Conn) EwmhClientListSet(wins []xproto.Window) error {
	return wrap("ewmh-client-list-set", ewmh.ClientListSet(c.X, wins))
}

func (c *Conn) EwmhActiveWindowSet(win xproto.Window) error {
	return wrap("ewmh-active-window-set", ewmh.ActiveWindowSet(c.X, win))
}

func (c *Conn) EwmhWmStateSet(win xproto.Window, names []string) error {
	return wrap("ewmh-wm-state-set", ewmh.WmStateSet(c.X, win, names))
}

func (c *Conn) EwmhWmStrutPartialGet(win xproto.Window) (ewmh.WmStrutPartial, error) {
	sp, err := ewmh.WmStrutPartialGet(c.X, win)
	return sp, wrap("ewmh-wm-strut-partial-get", err)
}

func (c *Conn) EwmhWmWindowTypeGet(win xproto.Window) ([]string, error) {
	names, err := ewmh.WmWindowTypeGet(c.X, win)
	return names, wrap("ewmh-wm-window-type-get", err)
}

func (c *Conn) EwmhWmWindowTypeSet(win xproto.Window, names []string) error {
	return wrap("ewmh-wm-window-type-set", ewmh.WmWindowTypeSet(c.X, win, names))
}

func (c *Conn) EwmhWmStrutPartialSet(win xproto.Window, r store.ReservedEdges) error {
	sp := ewmh.WmStrutPartial{
		Left: uint32(r.Left.Width), Right: uint32(r.Right.Width),
		Top: uint32(r.Top.Width), Bottom: uint32(r.Bottom.Width),
		LeftStartY: r.Left.Start, LeftEndY: r.Left.End,
		RightStartY: r.Right.Start, RightEndY: r.Right.End,
		TopStartX: r.Top.Start, TopEndX: r.Top.End,
		BottomStartX: r.Bottom.Start, BottomEndX: r.Bottom.End,
	}
	return wrap("ewmh-wm-strut-partial-set", ewmh.WmStrutPartialSet(c.X, win, sp))
}

// --- keyboard / cursor ---

func (c *Conn) Setup() *xproto.SetupInfo { return xproto.Setup(c.conn()) }

func (c *Conn) GetKeyboardMapping(first xproto.Keycode, count byte) (*xproto.GetKeyboardMappingReply, error) {
	reply, err := xproto.GetKeyboardMapping(c.conn(), first, count).Reply()
	return reply, wrap("get-keyboard-mapping", err)
}

// CreateFontCursor opens the standard cursor font and builds a glyph
// cursor from it - used for the drag/resize pointer swap.
func (c *Conn) CreateFontCursor(glyph uint16) (xproto.Cursor, error) {
	fid, err := xproto.NewFontId(c.conn())
	if err != nil {
		return 0, wrap("open-font/id", err)
	}
	if err := xproto.OpenFontChecked(c.conn(), fid, uint16(len("cursor")), "cursor").Check(); err != nil {
		return 0, wrap("open-font", err)
	}

	cid, err := xproto.NewCursorId(c.conn())
	if err != nil {
		return 0, wrap("create-glyph-cursor/id", err)
	}
	err = xproto.CreateGlyphCursorChecked(c.conn(), cid, fid, fid, glyph, glyph+1,
		0, 0, 0, 0xffff, 0xffff, 0xffff).Check()
	return cid, wrap("create-glyph-cursor", err)
}
