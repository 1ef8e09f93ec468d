package bar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferredHeightIsAtLeastFontSize(t *testing.T) {
	h := preferredHeight()
	assert.GreaterOrEqual(t, int(h), fontSize)
}

func TestRedrawIsNilSafe(t *testing.T) {
	b := &Bar{}
	assert.NotPanics(t, func() {
		b.Redraw(nil)
	})
}
