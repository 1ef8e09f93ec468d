// Package atom interns the fixed set of EWMH and ICCCM atoms the window
// manager needs and caches them for the lifetime of the connection.
package atom

import (
	"fmt"

	"github.com/jezek/xgb/xproto"
)

// Registry holds every interned atom required by the core, keyed by its
// X11 name. It is populated once at startup via Intern and never mutated
// afterwards.
type Registry struct {
	conn  *xproto.Conn
	atoms map[string]xproto.Atom
}

// names lists every atom the window manager interns, grouped the way
// the EWMH spec groups them.
var names = []string{
	// Root/session
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_CURRENT_DESKTOP",
	"_NET_DESKTOP_VIEWPORT",
	"_NET_DESKTOP_GEOMETRY",
	"_NET_DESKTOP_NAMES",
	"_NET_WORKAREA",

	// Window identity
	"_NET_WM_PID",
	"_NET_WM_DESKTOP",
	"_NET_WM_STRUT",
	"_NET_WM_STRUT_PARTIAL",
	"_NET_FRAME_EXTENTS",

	// _NET_WM_WINDOW_TYPE_*
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DESKTOP",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_TOOLBAR",
	"_NET_WM_WINDOW_TYPE_MENU",
	"_NET_WM_WINDOW_TYPE_UTILITY",
	"_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_WM_WINDOW_TYPE_NORMAL",

	// _NET_WM_STATE_*
	"_NET_WM_STATE",
	"_NET_WM_STATE_MODAL",
	"_NET_WM_STATE_STICKY",
	"_NET_WM_STATE_MAXIMIZED_VERT",
	"_NET_WM_STATE_MAXIMIZED_HORZ",
	"_NET_WM_STATE_SHADED",
	"_NET_WM_STATE_SKIP_TASKBAR",
	"_NET_WM_STATE_SKIP_PAGER",
	"_NET_WM_STATE_HIDDEN",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_STATE_ABOVE",
	"_NET_WM_STATE_BELOW",
	"_NET_WM_STATE_DEMANDS_ATTENTION",

	// _NET_WM_ACTION_*
	"_NET_WM_ALLOWED_ACTIONS",
	"_NET_WM_ACTION_MOVE",
	"_NET_WM_ACTION_RESIZE",
	"_NET_WM_ACTION_MINIMIZE",
	"_NET_WM_ACTION_SHADE",
	"_NET_WM_ACTION_STICK",
	"_NET_WM_ACTION_MAXIMIZE_HORZ",
	"_NET_WM_ACTION_MAXIMIZE_VERT",
	"_NET_WM_ACTION_FULLSCREEN",
	"_NET_WM_ACTION_CHANGE_DESKTOP",
	"_NET_WM_ACTION_CLOSE",

	// ICCCM
	"WM_PROTOCOLS",
	"WM_DELETE_WINDOW",
}

// Intern requests every atom in one batch of InternAtom cookies, then
// collects the replies. A single round trip per session, grounded on
// the original's x11rb::atom_manager! macro (also a one-shot intern).
func Intern(conn *xproto.Conn) (*Registry, error) {
	cookies := make(map[string]xproto.InternAtomCookie, len(names))
	for _, n := range names {
		cookies[n] = xproto.InternAtom(conn, false, uint16(len(n)), n)
	}

	atoms := make(map[string]xproto.Atom, len(names))
	for _, n := range names {
		reply, err := cookies[n].Reply()
		if err != nil {
			return nil, fmt.Errorf("intern atom %s: %w", n, err)
		}
		atoms[n] = reply.Atom
	}

	return &Registry{conn: conn, atoms: atoms}, nil
}

// Atom looks up an interned atom by its X11 name. Panics if called with
// a name that was not interned - that is a programming error, not a
// runtime condition.
func (r *Registry) Atom(name string) xproto.Atom {
	a, ok := r.atoms[name]
	if !ok {
		panic("atom: not interned: " + name)
	}
	return a
}

// Name reverses the lookup: X11 atom number to the name the registry
// knows it under. Returns "" if the atom was never interned locally;
// no server request is made to resolve it.
func (r *Registry) Name(a xproto.Atom) string {
	for n, v := range r.atoms {
		if v == a {
			return n
		}
	}
	return ""
}

// SupportedNames returns the _NET_SUPPORTED vocabulary by atom name,
// in the form ewmh.SupportedSet expects.
func (r *Registry) SupportedNames() []string {
	return supportedNames
}

// Supported returns the _NET_SUPPORTED vocabulary, written verbatim
// into the root window's _NET_SUPPORTED property at setup.
func (r *Registry) Supported() []xproto.Atom {
	out := make([]xproto.Atom, 0, len(supportedNames))
	for _, n := range supportedNames {
		out = append(out, r.Atom(n))
	}
	return out
}

var supportedNames = []string{
	"_NET_WM_STATE",
	"_NET_WM_STATE_MODAL",
	"_NET_WM_STATE_STICKY",
	"_NET_WM_STATE_MAXIMIZED_VERT",
	"_NET_WM_STATE_MAXIMIZED_HORZ",
	"_NET_WM_STATE_SHADED",
	"_NET_WM_STATE_SKIP_TASKBAR",
	"_NET_WM_STATE_SKIP_PAGER",
	"_NET_WM_STATE_HIDDEN",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_STATE_ABOVE",
	"_NET_WM_STATE_BELOW",
	"_NET_WM_STATE_DEMANDS_ATTENTION",
	"_NET_WM_ACTION_MOVE",
	"_NET_WM_ACTION_RESIZE",
	"_NET_WM_ACTION_MINIMIZE",
	"_NET_WM_ACTION_SHADE",
	"_NET_WM_ACTION_STICK",
	"_NET_WM_ACTION_MAXIMIZE_HORZ",
	"_NET_WM_ACTION_MAXIMIZE_VERT",
	"_NET_WM_ACTION_FULLSCREEN",
	"_NET_WM_ACTION_CHANGE_DESKTOP",
	"_NET_WM_ACTION_CLOSE",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DESKTOP",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_TOOLBAR",
	"_NET_WM_WINDOW_TYPE_MENU",
	"_NET_WM_WINDOW_TYPE_UTILITY",
	"_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_DESKTOP_VIEWPORT",
	"_NET_DESKTOP_GEOMETRY",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_CURRENT_DESKTOP",
	"_NET_DESKTOP_NAMES",
	"_NET_WM_DESKTOP",
	"_NET_WM_STRUT",
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_WORKAREA",
	"_NET_SUPPORTED",
	"_NET_WM_NAME",
	"_NET_WM_ALLOWED_ACTIONS",
	"_NET_WM_PID",
	"_NET_FRAME_EXTENTS",
}
