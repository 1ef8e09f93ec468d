package wm

import (
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"

	"github.com/kvark-wm/bunnuafeth/layout"
	"github.com/kvark-wm/bunnuafeth/store"
)

func TestWindowTypeKindForDefaultsToNormal(t *testing.T) {
	assert.Equal(t, store.Normal, windowTypeKindFor(nil))
	assert.Equal(t, store.Normal, windowTypeKindFor([]string{"_NET_WM_WINDOW_TYPE_NORMAL"}))
}

func TestWindowTypeKindForRecognizesEachType(t *testing.T) {
	cases := map[string]store.WindowTypeKind{
		"_NET_WM_WINDOW_TYPE_DESKTOP": store.Desktop,
		"_NET_WM_WINDOW_TYPE_DOCK":    store.Dock,
		"_NET_WM_WINDOW_TYPE_DIALOG":  store.Dialog,
		"_NET_WM_WINDOW_TYPE_MENU":    store.Menu,
		"_NET_WM_WINDOW_TYPE_SPLASH":  store.Splash,
		"_NET_WM_WINDOW_TYPE_TOOLBAR": store.Toolbar,
		"_NET_WM_WINDOW_TYPE_UTILITY": store.Utility,
	}
	for name, want := range cases {
		assert.Equal(t, want, windowTypeKindFor([]string{name}))
	}
}

func TestCanMoveAndResizeRejectFullscreen(t *testing.T) {
	s := &store.WindowState{}
	assert.True(t, canMove(s))
	assert.True(t, canResize(s))

	s.Properties.Fullscreen = true
	assert.False(t, canMove(s))
	assert.False(t, canResize(s))
}

func TestConfigureValuesOnlyIncludesChangedFields(t *testing.T) {
	x := int16(10)
	w := uint16(200)
	d := layout.Diff{Window: 1, X: &x, W: &w}

	mask, values := configureValues(d)

	assert.Equal(t, uint16(xproto.ConfigWindowX|xproto.ConfigWindowWidth), mask)
	assert.Equal(t, []uint32{10, 200}, values)
}

func TestConfigureValuesEmptyDiffProducesNoValues(t *testing.T) {
	d := layout.Diff{Window: 1}
	mask, values := configureValues(d)
	assert.Equal(t, uint16(0), mask)
	assert.Empty(t, values)
}
