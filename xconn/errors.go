package xconn

import "errors"

// Kind classifies the fault surfaced by an X11 round trip, mirroring the
// error taxonomy of the window manager's design: most kinds are
// recoverable at the event-handler boundary, two are fatal to the
// process.
type Kind int

const (
	// KindProtocolRequestError covers per-request reply errors (bad
	// window, bad value, ...). Recoverable: log, drop, continue.
	KindProtocolRequestError Kind = iota
	// KindWindowGone means a window referenced by an event was
	// destroyed before the core could act on it.
	KindWindowGone
	// KindConnectionLost means the display server socket is dead.
	// Fatal: propagates out of the event loop.
	KindConnectionLost
	// KindAnotherWMRunning means the Access error returned when
	// setting the root substructure-redirect mask. Fatal.
	KindAnotherWMRunning
	// KindMalformedClientMessage means a ClientMessage carried an
	// _NET_WM_STATE action or property this WM does not recognize.
	// Recoverable: log, drop the message.
	KindMalformedClientMessage
	// KindBindingResolutionFailed means a configured hotkey's keysym
	// was not present in the server's current keyboard map. Recoverable:
	// log, skip that binding.
	KindBindingResolutionFailed
	// KindWindowNotFound means a registry lookup by handle failed for
	// an operation that requires the window to already be tracked.
	// Recoverable; the caller decides how to proceed.
	KindWindowNotFound
)

// WmError is the single error variant every facade call returns on
// failure. Callers branch on Kind, not on the wrapped cause.
type WmError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *WmError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *WmError) Unwrap() error { return e.Err }

// Fatal reports whether the loop must abort rather than continue.
func (e *WmError) Fatal() bool {
	return e.Kind == KindConnectionLost || e.Kind == KindAnotherWMRunning
}

func newErr(kind Kind, op string, err error) *WmError {
	return &WmError{Kind: kind, Op: op, Err: err}
}

// IsWindowGone reports whether err denotes a window that vanished
// between event and action - callers silently drop the operation
// rather than logging it as a failure.
func IsWindowGone(err error) bool {
	var w *WmError
	if errors.As(err, &w) {
		return w.Kind == KindWindowGone
	}
	return false
}
