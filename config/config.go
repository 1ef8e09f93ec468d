// Package config loads the hotkey/mouse-hotkey bindings, border width
// and WM name from a TOML file, writing a default file on first run -
// the same XDG_CONFIG_HOME convention zentile's config.go follows.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	homedir "github.com/mitchellh/go-homedir"

	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/keybind"

	"github.com/kvark-wm/bunnuafeth/input"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	WmName       string
	BorderWidth  uint32
	Hotkeys      []input.Hotkey
	MouseHotkeys []input.MouseHotkey
}

// fileHotkey and fileMouseHotkey are the TOML wire shapes - modifiers
// and keys as human-readable strings rather than raw bitmasks, the way
// a hand-edited config file should read.
type fileHotkey struct {
	Mods    []string `toml:"mods"`
	Key     string   `toml:"key"`
	Command string   `toml:"command"`
	Arg     string   `toml:"arg"`
	Step    int16    `toml:"step"`
}

type fileMouseHotkey struct {
	Mods    []string `toml:"mods"`
	Button  uint8    `toml:"button"`
	Command string   `toml:"command"`
	Step    int16    `toml:"step"`
}

type fileConfig struct {
	WmName       string            `toml:"wm_name"`
	BorderWidth  uint32            `toml:"border_width"`
	Hotkeys      []fileHotkey      `toml:"hotkeys"`
	MouseHotkeys []fileMouseHotkey `toml:"mouse_hotkeys"`
}

var modifierNames = map[string]uint16{
	"Shift":   xproto.ModMaskShift,
	"Lock":    xproto.ModMaskLock,
	"Control": xproto.ModMaskControl,
	"Mod1":    xproto.ModMask1,
	"Mod2":    xproto.ModMask2,
	"Mod3":    xproto.ModMask3,
	"Mod4":    xproto.ModMask4,
	"Mod5":    xproto.ModMask5,
}

var commandNames = map[string]input.CommandKind{
	"execute":           input.CommandExecute,
	"close_window":      input.CommandCloseWindow,
	"move_window":       input.CommandMoveWindow,
	"resize_window":     input.CommandResizeWindow,
	"toggle_fullscreen": input.CommandToggleFullscreen,
	"toggle_floating":   input.CommandToggleFloating,
	"focus_next":        input.CommandFocusNext,
	"focus_previous":    input.CommandFocusPrevious,
}

func modMask(names []string) (uint16, error) {
	var mask uint16
	for _, n := range names {
		m, ok := modifierNames[n]
		if !ok {
			return 0, fmt.Errorf("config: unknown modifier %q", n)
		}
		mask |= m
	}
	return mask, nil
}

func command(name, arg string, step int16) (input.Command, error) {
	kind, ok := commandNames[name]
	if !ok {
		return input.Command{}, fmt.Errorf("config: unknown command %q", name)
	}
	return input.Command{Kind: kind, Str: arg, Step: step}, nil
}

func resolve(fc fileConfig) (Config, error) {
	cfg := Config{WmName: fc.WmName, BorderWidth: fc.BorderWidth}

	for _, h := range fc.Hotkeys {
		mods, err := modMask(h.Mods)
		if err != nil {
			return Config{}, err
		}
		sym, ok := keybind.Keysyms[h.Key]
		if !ok {
			return Config{}, fmt.Errorf("config: unknown key %q", h.Key)
		}
		cmd, err := command(h.Command, h.Arg, h.Step)
		if err != nil {
			return Config{}, err
		}
		cfg.Hotkeys = append(cfg.Hotkeys, input.Hotkey{ModMask: mods, Keysym: sym, Command: cmd})
	}

	for _, m := range fc.MouseHotkeys {
		mods, err := modMask(m.Mods)
		if err != nil {
			return Config{}, err
		}
		cmd, err := command(m.Command, "", m.Step)
		if err != nil {
			return Config{}, err
		}
		cfg.MouseHotkeys = append(cfg.MouseHotkeys, input.MouseHotkey{ModMask: mods, Button: xproto.Button(m.Button), Command: cmd})
	}

	return cfg, nil
}

// Load reads the config file, writing the compiled-in default first if
// none exists yet, and returns the resolved bindings.
func Load() (Config, error) {
	if err := writeDefaultConfig(); err != nil {
		return Config{}, err
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(filePath(), &fc); err != nil {
		return Config{}, fmt.Errorf("config: decoding %s: %w", filePath(), err)
	}

	return resolve(fc)
}

func writeDefaultConfig() error {
	dir := folderPath()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("config: creating %s: %w", dir, err)
		}
	}

	path := filePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("config: writing default config: %w", err)
		}
	}
	return nil
}

func folderPath() string {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "bunnuafeth")
		}
		dir, _ := homedir.Expand("~/.config/bunnuafeth/")
		return dir
	default:
		dir, _ := homedir.Expand("~/.bunnuafeth/")
		return dir
	}
}

func filePath() string {
	return filepath.Join(folderPath(), "config.toml")
}

var defaultConfig = `wm_name = "Bunnuafeth"
border_width = 5

[[hotkeys]]
mods = ["Mod4"]
key = "Return"
command = "execute"
arg = "xterm"

[[hotkeys]]
mods = ["Mod4", "Shift"]
key = "q"
command = "close_window"

[[hotkeys]]
mods = ["Mod4"]
key = "f"
command = "toggle_fullscreen"

[[hotkeys]]
mods = ["Mod4", "Shift"]
key = "space"
command = "toggle_floating"

[[hotkeys]]
mods = ["Mod4"]
key = "j"
command = "focus_next"

[[hotkeys]]
mods = ["Mod4"]
key = "k"
command = "focus_previous"

[[hotkeys]]
mods = ["Mod4", "Shift"]
key = "Right"
command = "resize_window"
step = 20

[[hotkeys]]
mods = ["Mod4", "Shift"]
key = "Left"
command = "resize_window"
step = -20

[[mouse_hotkeys]]
mods = ["Mod4"]
button = 1
command = "move_window"

[[mouse_hotkeys]]
mods = ["Mod4"]
button = 3
command = "resize_window"
`
