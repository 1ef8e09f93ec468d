package input

import (
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"
)

func TestLockMaskExpansion(t *testing.T) {
	// Every resolved hotkey must answer under all four lock
	// combinations, since a user should not lose a binding just
	// because NumLock or CapsLock happens to be on.
	b := &Binder{
		keys: map[keyKey]Command{},
	}
	assert.Len(t, lockMasks, 4)
	code := xproto.Keycode(38) // arbitrary
	base := uint16(xproto.ModMask1)
	for _, lock := range lockMasks {
		b.keys[keyKey{code: code, mods: base | lock}] = Command{Kind: CommandCloseWindow}
	}

	for _, lock := range lockMasks {
		cmd, ok := b.Key(code, base|lock)
		assert.True(t, ok)
		assert.Equal(t, CommandCloseWindow, cmd.Kind)
	}
}

func TestKeyLookupMissMissesCleanly(t *testing.T) {
	b := &Binder{keys: map[keyKey]Command{}}
	_, ok := b.Key(1, 0)
	assert.False(t, ok)
}

func TestButtonLookup(t *testing.T) {
	b := &Binder{buttons: map[buttonKey]Command{
		{button: 1, mods: xproto.ModMask4}: {Kind: CommandMoveWindow},
	}}

	cmd, ok := b.Button(1, xproto.ModMask4)
	assert.True(t, ok)
	assert.Equal(t, CommandMoveWindow, cmd.Kind)

	_, ok = b.Button(2, xproto.ModMask4)
	assert.False(t, ok)
}
