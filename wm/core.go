// Package wm is the window manager core: it owns the registry, layout
// engine, hotkey/button binder, and drag/resize sessions, and drives
// every state transition spec'd in the event dispatch table. It is the
// only package that mutates store.Registry.
package wm

import (
	"fmt"

	"github.com/jezek/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/kvark-wm/bunnuafeth/input"
	"github.com/kvark-wm/bunnuafeth/layout"
	"github.com/kvark-wm/bunnuafeth/store"
	"github.com/kvark-wm/bunnuafeth/xconn"
)

// WmName is written to _NET_WM_NAME on the supporting window.
const WmName = "Bunnuafeth"

const (
	borderFocused   = 0x00ffff // cyan
	borderUnfocused = 0x000000 // black
)

// Core is the single-threaded window manager state machine. No field
// is ever touched from more than one goroutine; the event loop driver
// in cmd/bunnuafeth is the only caller.
type Core struct {
	conn   *xconn.Conn
	binder *input.Binder
	bar    Bar

	registry *store.Registry
	layout   *layout.Engine

	supporting xproto.Window

	ignore *ignoreSet

	drag          *DragSession
	resize        *ResizeSession
	pointerGrabbed bool

	lastTimestamp xproto.Timestamp

	cursorNormal xproto.Cursor
	cursorMove   xproto.Cursor
	cursorResize xproto.Cursor
}

// Bar is the subset of bar.Bar the core needs; kept as an interface so
// wm does not import bar (bar imports wm's exported types instead).
// Redraw is a no-op hook today - actual glyph rendering is out of
// scope - but it is called on every focus transition so the bar
// collaborator can keep whatever state it tracks current.
type Bar interface {
	Redraw(focused *store.WindowState)
}

type nopBar struct{}

func (nopBar) Redraw(*store.WindowState) {}

// NewCore builds a core over an already-connected facade and a
// resolved binder. Call Setup before entering the event loop.
func NewCore(conn *xconn.Conn, binder *input.Binder) *Core {
	return &Core{
		conn:     conn,
		binder:   binder,
		bar:      nopBar{},
		registry: store.NewRegistry(),
		layout:   layout.NewEngine(),
		ignore:   newIgnoreSet(),
	}
}

// SetBar installs the bar collaborator once it has been constructed
// (it needs the core's registry to register its own dock window, so
// it is wired in after NewCore).
func (c *Core) SetBar(b Bar) { c.bar = b }

func (c *Core) screenSize() (uint16, uint16) {
	screen := c.conn.Screen()
	return screen.WidthInPixels, screen.HeightInPixels
}

// Setup performs the startup sequence from spec.md §4.6: claims
// substructure redirection (fatal if another WM already holds it),
// advertises EWMH compliance, resolves and grabs hotkeys, scans
// existing top-level windows, and unfocuses.
func (c *Core) Setup() error {
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify |
		xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease)
	if err := c.conn.ChangeWindowAttributes(c.conn.Root, xproto.CwEventMask, []uint32{mask}); err != nil {
		if xconn.IsWindowGone(err) {
			return err
		}
		return fmt.Errorf("wm: another window manager is already running: %w", err)
	}

	if err := c.setupCursors(); err != nil {
		return err
	}

	if err := c.advertiseEwmh(); err != nil {
		return err
	}

	if err := c.binder.Resolve(c.conn); err != nil {
		return fmt.Errorf("wm: resolving hotkeys: %w", err)
	}
	if err := c.binder.Grab(c.conn, c.conn.Root); err != nil {
		return fmt.Errorf("wm: grabbing hotkeys: %w", err)
	}

	if err := c.scanExisting(); err != nil {
		return err
	}

	c.Unfocus()
	return nil
}

func (c *Core) setupCursors() error {
	var err error
	// XC_left_ptr, XC_fleur, XC_sizing - standard cursor-font glyphs.
	if c.cursorNormal, err = c.conn.CreateFontCursor(68); err != nil {
		return err
	}
	if c.cursorMove, err = c.conn.CreateFontCursor(52); err != nil {
		return err
	}
	if c.cursorResize, err = c.conn.CreateFontCursor(120); err != nil {
		return err
	}
	return nil
}

func (c *Core) advertiseEwmh() error {
	wid, err := c.conn.CreateWindow(c.conn.Root, -1, -1, 1, 1, 0, nil)
	if err != nil {
		return fmt.Errorf("wm: creating supporting window: %w", err)
	}
	c.supporting = wid

	if err := c.conn.EwmhSupportingWmCheckSet(c.conn.Root, wid); err != nil {
		return err
	}
	if err := c.conn.EwmhSupportingWmCheckSet(wid, wid); err != nil {
		return err
	}
	if err := c.conn.EwmhWmNameSet(wid, WmName); err != nil {
		return err
	}
	if err := c.conn.EwmhSupportedSet(c.conn.Atoms.SupportedNames()); err != nil {
		return err
	}
	if err := c.conn.EwmhNumberOfDesktopsSet(1); err != nil {
		return err
	}
	if err := c.conn.EwmhCurrentDesktopSet(0); err != nil {
		return err
	}
	if err := c.conn.EwmhDesktopViewportSet(0, 0); err != nil {
		return err
	}

	w, h := c.screenSize()
	if err := c.conn.EwmhDesktopGeometrySet(uint(w), uint(h)); err != nil {
		return err
	}
	if err := c.writeWorkarea(); err != nil {
		return err
	}
	if err := c.conn.EwmhClientListSet(nil); err != nil {
		return err
	}
	if err := c.conn.EwmhActiveWindowSet(0); err != nil {
		return err
	}

	return c.conn.MapWindow(wid)
}

func (c *Core) writeWorkarea() error {
	w, h := c.screenSize()
	r := c.registry.ReservedEdges()
	return c.conn.EwmhWorkareaSet(
		0, uint(r.Top.Width),
		uint(int(w)-int(r.Left.Width)-int(r.Right.Width)),
		uint(int(h)-int(r.Top.Width)-int(r.Bottom.Width)),
	)
}

func (c *Core) scanExisting() error {
	tree, err := c.conn.QueryTree(c.conn.Root)
	if err != nil {
		return err
	}
	for _, w := range tree.Children {
		attrs, err := c.conn.GetWindowAttributes(w)
		if err != nil {
			continue
		}
		if attrs.OverrideRedirect || attrs.MapState == xproto.MapStateUnmapped {
			continue
		}
		if err := c.Manage(w); err != nil {
			log.WithError(err).WithField("window", w).Warn("wm: failed to manage pre-existing window")
		}
	}
	return nil
}
