package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalState(w Window) *WindowState {
	return &WindowState{Window: w, Type: WindowType{Kind: Normal}}
}

func TestRegistryUniqueness(t *testing.T) {
	r := NewRegistry()
	r.AddManaged(1, normalState(1))
	r.AddUnmanaged(&WindowState{Window: 2, Type: WindowType{Kind: Dock}})

	// Adding the same handle again, managed or not, must not duplicate it.
	r.AddManaged(1, normalState(1))
	r.AddUnmanaged(&WindowState{Window: 1, Type: WindowType{Kind: Dock}})
	r.AddManaged(2, normalState(2))

	assert.Len(t, r.Managed(), 1)
	assert.Len(t, r.Unmanaged(), 1)
}

func TestRemoveShiftsFocusWrapping(t *testing.T) {
	r := NewRegistry()
	r.AddManaged(1, normalState(1))
	r.AddManaged(2, normalState(2))
	r.AddManaged(3, normalState(3))
	require.NoError(t, r.Focus(3))

	r.Remove(3)

	// 3 was last in insertion order; removing it should wrap focus to
	// the first remaining window.
	h, ok := r.FocusedHandle()
	require.True(t, ok)
	assert.Equal(t, Window(1), h)
}

func TestRemoveMiddleShiftsFocusToNext(t *testing.T) {
	r := NewRegistry()
	r.AddManaged(1, normalState(1))
	r.AddManaged(2, normalState(2))
	r.AddManaged(3, normalState(3))
	require.NoError(t, r.Focus(2))

	r.Remove(2)

	h, ok := r.FocusedHandle()
	require.True(t, ok)
	assert.Equal(t, Window(3), h)
}

func TestFocusRejectsUnmanaged(t *testing.T) {
	r := NewRegistry()
	r.AddManaged(1, normalState(1))

	err := r.Focus(99)
	assert.Error(t, err)
}

func TestFocusIntegrity(t *testing.T) {
	r := NewRegistry()
	r.AddManaged(1, normalState(1))
	require.NoError(t, r.Focus(1))

	assert.NotNil(t, r.Focused())
	assert.Equal(t, Window(1), r.Focused().Window)

	r.Unfocus()
	assert.Nil(t, r.Focused())
	assert.NotNil(t, r.Previous())
}

func TestMoveToTop(t *testing.T) {
	r := NewRegistry()
	r.AddManaged(1, normalState(1))
	r.AddManaged(2, normalState(2))
	r.AddManaged(3, normalState(3))

	r.MoveToTop(3)

	assert.Equal(t, []Window{3, 1, 2}, r.ManagedHandles())
}

func TestSwap(t *testing.T) {
	r := NewRegistry()
	r.AddManaged(1, normalState(1))
	r.AddManaged(2, normalState(2))

	r.Swap(1, 2)

	assert.Equal(t, []Window{2, 1}, r.ManagedHandles())
}

func TestNextWindowWraps(t *testing.T) {
	r := NewRegistry()
	r.AddManaged(1, normalState(1))
	r.AddManaged(2, normalState(2))
	r.AddManaged(3, normalState(3))

	next, ok := r.NextWindow(3)
	require.True(t, ok)
	assert.Equal(t, Window(1), next)

	prev, ok := r.PreviousWindow(1)
	require.True(t, ok)
	assert.Equal(t, Window(3), prev)
}

func TestReservedEdgesIsComponentwiseMax(t *testing.T) {
	r := NewRegistry()
	r.AddUnmanaged(&WindowState{Window: 10, Type: WindowType{
		Kind:  Dock,
		Strut: ReservedEdges{Top: EdgeDimensions{Width: 20}, Left: EdgeDimensions{Width: 5}},
	}})
	r.AddUnmanaged(&WindowState{Window: 11, Type: WindowType{
		Kind:  Dock,
		Strut: ReservedEdges{Top: EdgeDimensions{Width: 30}, Right: EdgeDimensions{Width: 15}},
	}})

	reserved := r.ReservedEdges()
	assert.Equal(t, uint32(30), reserved.Top.Width)
	assert.Equal(t, uint32(5), reserved.Left.Width)
	assert.Equal(t, uint32(15), reserved.Right.Width)
	assert.Equal(t, uint32(0), reserved.Bottom.Width)
}

func TestReservedEdgesDropsRemovedDock(t *testing.T) {
	r := NewRegistry()
	r.AddUnmanaged(&WindowState{Window: 10, Type: WindowType{
		Kind:  Dock,
		Strut: ReservedEdges{Top: EdgeDimensions{Width: 30}},
	}})
	r.RemoveUnmanaged(10)

	assert.Equal(t, uint32(0), r.ReservedEdges().Top.Width)
}

func TestPropertiesApply(t *testing.T) {
	var p Properties
	p.Apply(ActionAdd, "_NET_WM_STATE_FULLSCREEN")
	assert.True(t, p.Fullscreen)

	p.Apply(ActionToggle, "_NET_WM_STATE_FULLSCREEN")
	assert.False(t, p.Fullscreen)

	p.Apply(ActionAdd, "_NET_WM_STATE_STICKY", "_NET_WM_STATE_ABOVE")
	assert.ElementsMatch(t, []string{"_NET_WM_STATE_STICKY", "_NET_WM_STATE_ABOVE"}, p.AtomNames())

	p.Apply(ActionRemove, "_NET_WM_STATE_STICKY")
	assert.Equal(t, []string{"_NET_WM_STATE_ABOVE"}, p.AtomNames())
}

func TestParseStrutPartial(t *testing.T) {
	// left, right, top, bottom, then start/end pairs.
	c := []uint32{0, 0, 30, 0, 0, 0, 0, 0, 100, 500, 0, 0}
	edges := ParseStrutPartial(c)
	assert.Equal(t, uint32(30), edges.Top.Width)
	assert.Equal(t, uint32(100), edges.Top.Start)
	assert.Equal(t, uint32(500), edges.Top.End)
}
