package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kvark-wm/bunnuafeth/store"
)

func normal(w store.Window) *store.WindowState {
	return &store.WindowState{Window: w, Type: store.WindowType{Kind: store.Normal}}
}

func apply(diffs []Diff, windows []*store.WindowState) {
	byWindow := make(map[store.Window]*store.WindowState, len(windows))
	for _, w := range windows {
		byWindow[w.Window] = w
	}
	for _, d := range diffs {
		d.Commit(byWindow[d.Window])
	}
}

func TestMainStackSingleWindowFillsScreen(t *testing.T) {
	e := NewEngine()
	w1 := normal(1)

	diffs := e.Compute([]*store.WindowState{w1}, 1920, 1080)

	assert.Len(t, diffs, 1)
	d := diffs[0]
	assert.Equal(t, int16(0), *d.X)
	assert.Equal(t, int16(0), *d.Y)
	assert.Equal(t, uint16(1910), *d.W)
	assert.Equal(t, uint16(1070), *d.H)
}

func TestMainStackTwoWindowsSplitHalves(t *testing.T) {
	e := NewEngine()
	w1, w2 := normal(1), normal(2)

	diffs := e.Compute([]*store.WindowState{w1, w2}, 1920, 1080)
	require := assert.New(t)
	require.Len(diffs, 2)

	main, stack := diffs[0], diffs[1]
	require.Equal(int16(0), *main.X)
	require.Equal(int16(0), *main.Y)
	require.Equal(uint16(950), *main.W)
	require.Equal(uint16(1070), *main.H)

	require.Equal(int16(960), *stack.X)
	require.Equal(int16(0), *stack.Y)
	require.Equal(uint16(950), *stack.W)
	require.Equal(uint16(1070), *stack.H)
}

func TestMainStackRespectsReservedTopEdge(t *testing.T) {
	e := NewEngine()
	e.Reserved.Top.Width = 30
	w1 := normal(1)

	diffs := e.Compute([]*store.WindowState{w1}, 1920, 1080)

	assert.Len(t, diffs, 1)
	d := diffs[0]
	assert.Equal(t, int16(30), *d.Y)
	assert.Equal(t, uint16(1040), *d.H)
}

func TestMainStackCoverageIdentity(t *testing.T) {
	e := NewEngine()
	windows := []*store.WindowState{normal(1), normal(2), normal(3), normal(4)}

	diffs := e.Compute(windows, 1920, 1080)
	apply(diffs, windows)

	main := windows[0]
	stack := windows[1:]

	stackWidth := uint16(0)
	if len(stack) > 0 {
		stackWidth = stack[0].Width
	}
	assert.Equal(t, uint16(1920-4*BorderWidth), main.Width+stackWidth)

	var heightSum int
	for _, s := range stack {
		heightSum += int(s.Height)
	}
	assert.Equal(t, 1080-2*len(stack)*BorderWidth, heightSum)
}

func TestLayoutIdempotent(t *testing.T) {
	e := NewEngine()
	windows := []*store.WindowState{normal(1), normal(2), normal(3)}

	first := e.Compute(windows, 1920, 1080)
	apply(first, windows)

	second := e.Compute(windows, 1920, 1080)
	for _, d := range second {
		assert.False(t, d.HasChange(), "diff for window %d should be empty on second pass", d.Window)
	}
}

func TestFloatingWindowsExcludedFromLayout(t *testing.T) {
	e := NewEngine()
	w1 := normal(1)
	w2 := normal(2)
	w2.IsFloating = true

	diffs := e.Compute([]*store.WindowState{w1, w2}, 1920, 1080)

	assert.Len(t, diffs, 1)
	assert.Equal(t, store.Window(1), diffs[0].Window)
}

func TestFloatingLayoutKindProducesNoDiffs(t *testing.T) {
	e := NewEngine()
	e.Kind = Floating
	windows := []*store.WindowState{normal(1), normal(2)}

	diffs := e.Compute(windows, 1920, 1080)

	assert.Nil(t, diffs)
}

func TestFullscreenWindowExcludedFromLayout(t *testing.T) {
	e := NewEngine()
	w1 := normal(1)
	w2 := normal(2)
	w2.Properties.Fullscreen = true

	diffs := e.Compute([]*store.WindowState{w1, w2}, 1920, 1080)

	assert.Len(t, diffs, 1)
	assert.Equal(t, store.Window(1), diffs[0].Window)
}

func TestNonTiledWindowTypesExcluded(t *testing.T) {
	e := NewEngine()
	w1 := normal(1)
	dialog := &store.WindowState{Window: 2, Type: store.WindowType{Kind: store.Dialog}}

	diffs := e.Compute([]*store.WindowState{w1, dialog}, 1920, 1080)

	assert.Len(t, diffs, 1)
	assert.Equal(t, store.Window(1), diffs[0].Window)
}
