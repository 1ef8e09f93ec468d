package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvark-wm/bunnuafeth/input"
)

func TestModMaskCombinesNames(t *testing.T) {
	mask, err := modMask([]string{"Mod4", "Shift"})
	require.NoError(t, err)
	assert.Equal(t, uint16(xproto.ModMask4|xproto.ModMaskShift), mask)
}

func TestModMaskRejectsUnknownName(t *testing.T) {
	_, err := modMask([]string{"Super"})
	assert.Error(t, err)
}

func TestCommandResolvesKnownNames(t *testing.T) {
	cmd, err := command("execute", "dmenu_run", 0)
	require.NoError(t, err)
	assert.Equal(t, input.CommandExecute, cmd.Kind)
	assert.Equal(t, "dmenu_run", cmd.Str)
}

func TestCommandRejectsUnknownName(t *testing.T) {
	_, err := command("levitate", "", 0)
	assert.Error(t, err)
}

func TestResolveBuildsHotkeysAndMouseHotkeys(t *testing.T) {
	fc := fileConfig{
		WmName:      "TestWM",
		BorderWidth: 3,
		Hotkeys: []fileHotkey{
			{Mods: []string{"Mod4"}, Key: "Return", Command: "execute", Arg: "xterm"},
		},
		MouseHotkeys: []fileMouseHotkey{
			{Mods: []string{"Mod4"}, Button: 1, Command: "move_window"},
		},
	}

	cfg, err := resolve(fc)
	require.NoError(t, err)
	assert.Equal(t, "TestWM", cfg.WmName)
	assert.Equal(t, uint32(3), cfg.BorderWidth)
	require.Len(t, cfg.Hotkeys, 1)
	assert.Equal(t, uint16(xproto.ModMask4), cfg.Hotkeys[0].ModMask)
	assert.Equal(t, xproto.Keysym(0xff0d), cfg.Hotkeys[0].Keysym)
	require.Len(t, cfg.MouseHotkeys, 1)
	assert.Equal(t, xproto.Button(1), cfg.MouseHotkeys[0].Button)
}

func TestResolveRejectsUnknownKey(t *testing.T) {
	fc := fileConfig{Hotkeys: []fileHotkey{{Key: "NotAKey", Command: "execute"}}}
	_, err := resolve(fc)
	assert.Error(t, err)
}

func TestFolderPathHonorsXdgConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "bunnuafeth"), folderPath())
}

func TestWriteDefaultConfigIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	require.NoError(t, writeDefaultConfig())
	first, err := os.ReadFile(filePath())
	require.NoError(t, err)

	require.NoError(t, writeDefaultConfig())
	second, err := os.ReadFile(filePath())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
