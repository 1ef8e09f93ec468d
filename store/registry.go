package store

import "fmt"

// ErrWindowNotFound is returned by operations that require a window to
// already be present in the registry.
type ErrWindowNotFound struct{ Window Window }

func (e ErrWindowNotFound) Error() string {
	return fmt.Sprintf("store: window %d not found", e.Window)
}

// ErrInvalidFocus is returned when Focus is asked to focus a window
// that is not in the managed map.
type ErrInvalidFocus struct{ Window Window }

func (e ErrInvalidFocus) Error() string {
	return fmt.Sprintf("store: window %d can't be focused", e.Window)
}

// Registry is the authoritative, insertion-ordered collection of
// managed (Normal) windows plus the side list of unmanaged windows
// (docks, desktops). It owns the focus and previous-focus pointers.
//
// The managed set is a plain slice of handles alongside a map for O(1)
// lookup rather than a generic ordered-map type: no example in the
// corpus imports one for this domain (see DESIGN.md).
type Registry struct {
	order    []Window
	managed  map[Window]*WindowState
	unmanaged []*WindowState

	focus         *Window
	previousFocus *Window
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{managed: make(map[Window]*WindowState)}
}

// Contains reports whether w is tracked, managed or not.
func (r *Registry) Contains(w Window) bool {
	if _, ok := r.managed[w]; ok {
		return true
	}
	for _, u := range r.unmanaged {
		if u.Window == w {
			return true
		}
	}
	return false
}

// AddManaged inserts a new managed window at the end of insertion
// order. No-op if w is already present anywhere in the registry.
func (r *Registry) AddManaged(w Window, state *WindowState) {
	if r.Contains(w) {
		return
	}
	state.Window = w
	r.managed[w] = state
	r.order = append(r.order, w)
}

// AddUnmanaged appends a dock/desktop window to the side list.
func (r *Registry) AddUnmanaged(state *WindowState) {
	if r.Contains(state.Window) {
		return
	}
	r.unmanaged = append(r.unmanaged, state)
}

// Remove deletes w from the managed map, shifting focus to the next
// window in insertion order (wrapping) if w was focused. Returns the
// removed state, or nil if w was not managed.
func (r *Registry) Remove(w Window) *WindowState {
	state, ok := r.managed[w]
	if !ok {
		return nil
	}

	idx := r.indexOf(w)
	r.order = append(r.order[:idx], r.order[idx+1:]...)
	delete(r.managed, w)

	if r.focus != nil && *r.focus == w {
		r.previousFocus = r.focus
		r.focus = nil
		if len(r.order) > 0 {
			next := r.order[idx%len(r.order)]
			r.focus = &next
		}
	}

	return state
}

// RemoveUnmanaged deletes w from the unmanaged side list. Returns the
// removed state, or nil if w was not there.
func (r *Registry) RemoveUnmanaged(w Window) *WindowState {
	for i, u := range r.unmanaged {
		if u.Window == w {
			r.unmanaged = append(r.unmanaged[:i], r.unmanaged[i+1:]...)
			return u
		}
	}
	return nil
}

// Get returns the managed state for w, or nil.
func (r *Registry) Get(w Window) *WindowState { return r.managed[w] }

// FindBy returns the first managed window (in insertion order)
// satisfying pred, or nil.
func (r *Registry) FindBy(pred func(*WindowState) bool) *WindowState {
	for _, w := range r.order {
		if s := r.managed[w]; pred(s) {
			return s
		}
	}
	return nil
}

// Swap exchanges the insertion-order position of two managed windows.
// No-op if either is absent.
func (r *Registry) Swap(a, b Window) {
	ia, ib := r.indexOf(a), r.indexOf(b)
	if ia < 0 || ib < 0 {
		return
	}
	r.order[ia], r.order[ib] = r.order[ib], r.order[ia]
}

// MoveToTop relocates w to index 0 without disturbing the relative
// order of the rest. No-op if w is absent.
func (r *Registry) MoveToTop(w Window) {
	idx := r.indexOf(w)
	if idx <= 0 {
		return
	}
	r.order = append(r.order[:idx], r.order[idx+1:]...)
	r.order = append([]Window{w}, r.order...)
}

// Focus sets w as the current focus, recording the previous one.
// Fails with ErrInvalidFocus if w is not managed.
func (r *Registry) Focus(w Window) error {
	if _, ok := r.managed[w]; !ok {
		return ErrInvalidFocus{Window: w}
	}
	r.previousFocus = r.focus
	wc := w
	r.focus = &wc
	return nil
}

// Unfocus clears the current focus, recording it as the previous one.
func (r *Registry) Unfocus() {
	r.previousFocus = r.focus
	r.focus = nil
}

// Focused returns the currently focused window's state, or nil.
func (r *Registry) Focused() *WindowState {
	if r.focus == nil {
		return nil
	}
	return r.managed[*r.focus]
}

// FocusedHandle returns the currently focused window handle and true,
// or (0, false) if nothing is focused.
func (r *Registry) FocusedHandle() (Window, bool) {
	if r.focus == nil {
		return 0, false
	}
	return *r.focus, true
}

// Previous returns the previously focused window's state, or nil.
func (r *Registry) Previous() *WindowState {
	if r.previousFocus == nil {
		return nil
	}
	return r.managed[*r.previousFocus]
}

// NextWindow returns the handle that follows w in insertion order,
// wrapping around, or false if w is absent or the registry has only
// one window.
func (r *Registry) NextWindow(w Window) (Window, bool) {
	idx := r.indexOf(w)
	if idx < 0 || len(r.order) < 2 {
		return 0, false
	}
	return r.order[(idx+1)%len(r.order)], true
}

// PreviousWindow returns the handle that precedes w in insertion
// order, wrapping around, or false if w is absent or there is only
// one window.
func (r *Registry) PreviousWindow(w Window) (Window, bool) {
	idx := r.indexOf(w)
	if idx < 0 || len(r.order) < 2 {
		return 0, false
	}
	return r.order[(idx-1+len(r.order))%len(r.order)], true
}

// Managed returns the managed windows in insertion order.
func (r *Registry) Managed() []*WindowState {
	out := make([]*WindowState, 0, len(r.order))
	for _, w := range r.order {
		out = append(out, r.managed[w])
	}
	return out
}

// ManagedHandles returns the managed handles in insertion order -
// exactly the sequence written to _NET_CLIENT_LIST.
func (r *Registry) ManagedHandles() []Window {
	out := make([]Window, len(r.order))
	copy(out, r.order)
	return out
}

// Unmanaged returns the unmanaged (dock/desktop) windows.
func (r *Registry) Unmanaged() []*WindowState {
	out := make([]*WindowState, len(r.unmanaged))
	copy(out, r.unmanaged)
	return out
}

// Floating returns the managed windows with IsFloating set, in
// insertion order - the order they are raised in after every layout
// application.
func (r *Registry) Floating() []*WindowState {
	var out []*WindowState
	for _, w := range r.order {
		if s := r.managed[w]; s.IsFloating {
			out = append(out, s)
		}
	}
	return out
}

// Docks returns the unmanaged windows whose type is Dock.
func (r *Registry) Docks() []*WindowState {
	var out []*WindowState
	for _, u := range r.unmanaged {
		if u.Type.Kind == Dock {
			out = append(out, u)
		}
	}
	return out
}

// ReservedEdges recomputes the componentwise max over every currently
// present Dock's reserved edges.
func (r *Registry) ReservedEdges() ReservedEdges {
	var out ReservedEdges
	for _, d := range r.Docks() {
		out = out.Max(d.Type.Strut)
	}
	return out
}

func (r *Registry) indexOf(w Window) int {
	for i, h := range r.order {
		if h == w {
			return i
		}
	}
	return -1
}
