// Package bar is the managed dock collaborator spec.md §1 describes: a
// window that reserves a strip of screen edge via EWMH struts, with no
// pixel-level drawing of its own.
package bar

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	log "github.com/sirupsen/logrus"

	"github.com/jezek/xgb/xproto"

	"github.com/kvark-wm/bunnuafeth/store"
	"github.com/kvark-wm/bunnuafeth/wm"
	"github.com/kvark-wm/bunnuafeth/xconn"
)

const (
	fontSize   = 16 // matches overlay.go's status text size
	fontMargin = 4
)

// Bar owns a single placeholder window docked at the top edge of the
// screen. It renders nothing - actual glyph drawing is out of scope -
// but the window is a real managed dock: it carries
// _NET_WM_WINDOW_TYPE_DOCK, contributes a real _NET_WM_STRUT_PARTIAL,
// and is mapped for the lifetime of the window manager.
type Bar struct {
	conn   *xconn.Conn
	window xproto.Window
	height uint16
}

// New creates, types, struts and maps the bar's window at the top of
// the screen, then registers it with core as a dock so the layout
// engine withholds its strip from tiling.
func New(conn *xconn.Conn, core *wm.Core) (*Bar, error) {
	height := preferredHeight()
	screen := conn.Screen()

	w, err := conn.CreateWindow(conn.Root, 0, 0, screen.WidthInPixels, height, 0, nil)
	if err != nil {
		return nil, err
	}

	if err := conn.EwmhWmWindowTypeSet(w, []string{"_NET_WM_WINDOW_TYPE_DOCK"}); err != nil {
		return nil, err
	}

	strut := store.ReservedEdges{
		Top: store.EdgeDimensions{Width: uint32(height), Start: 0, End: uint32(screen.WidthInPixels)},
	}
	if err := conn.EwmhWmStrutPartialSet(w, strut); err != nil {
		return nil, err
	}

	if err := conn.MapWindow(w); err != nil {
		return nil, err
	}

	core.AdoptDock(w, strut)

	return &Bar{conn: conn, window: w, height: height}, nil
}

// Redraw is the no-op hook the core calls on every focus transition.
func (b *Bar) Redraw(focused *store.WindowState) {}

// preferredHeight derives the bar's pixel height from the embedded
// default font face's line metrics, rather than a bare magic constant -
// the way overlay.go sizes its canvas off fontSize/fontMargin.
func preferredHeight() uint16 {
	fallback := uint16(fontSize + 2*fontMargin)

	f, err := sfnt.Parse(goregular.TTF)
	if err != nil {
		log.WithError(err).Warn("bar: parsing embedded font failed, using fallback height")
		return fallback
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     96,
		Hinting: font.HintingNone,
	})
	if err != nil {
		log.WithError(err).Warn("bar: building font face failed, using fallback height")
		return fallback
	}
	defer face.Close()

	h := face.Metrics().Height.Round()
	if h <= 0 {
		return fallback
	}
	return uint16(h + 2*fontMargin)
}
