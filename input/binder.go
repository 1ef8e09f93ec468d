// Package input resolves configured hotkeys and mouse bindings into
// concrete (keycode, modmask) and (button, modmask) grab tables, and
// dispatches incoming KeyPress/ButtonPress events against them.
package input

import (
	"github.com/jezek/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/kvark-wm/bunnuafeth/xconn"
)

// CommandKind tags the closed set of actions a binding can invoke.
type CommandKind int

const (
	CommandExecute CommandKind = iota
	CommandCloseWindow
	CommandMoveWindow
	CommandResizeWindow
	CommandToggleFullscreen
	CommandToggleFloating
	CommandFocusNext
	CommandFocusPrevious
)

// Command is the tagged variant a binding resolves to. Str carries the
// shell command line for CommandExecute and Step the pixel step for
// CommandResizeWindow; both are unused by the other variants.
type Command struct {
	Kind CommandKind
	Str  string
	Step int16
}

// Hotkey binds a keysym, under a modifier mask, to a command.
type Hotkey struct {
	ModMask uint16
	Keysym  xproto.Keysym
	Command Command
}

// MouseHotkey binds a pointer button, under a modifier mask, to a
// command.
type MouseHotkey struct {
	ModMask uint16
	Button  xproto.Button
	Command Command
}

// keyKey and buttonKey are the lookup keys dispatch matches incoming
// events against, verbatim (detail, state) pairs off the wire.
type keyKey struct {
	code xproto.Keycode
	mods uint16
}

type buttonKey struct {
	button xproto.Button
	mods   uint16
}

// lockMasks are the modifier combinations every binding is additionally
// registered under, so that NumLock/CapsLock being active never shadows
// a binding the user configured without them.
var lockMasks = []uint16{0, xproto.ModMaskLock, xproto.ModMask2, xproto.ModMask2 | xproto.ModMaskLock}

// Binder holds the resolved dispatch tables built from a configured set
// of hotkeys and mouse hotkeys.
type Binder struct {
	hotkeys      []Hotkey
	mouseHotkeys []MouseHotkey

	keys    map[keyKey]Command
	buttons map[buttonKey]Command
}

// NewBinder returns a Binder over the given bindings. Call Resolve
// before Grab, Key or Button.
func NewBinder(hotkeys []Hotkey, mouseHotkeys []MouseHotkey) *Binder {
	return &Binder{hotkeys: hotkeys, mouseHotkeys: mouseHotkeys}
}

// Resolve fetches the server's keyboard mapping and builds the
// (keycode, modmask) → command table, expanding every hotkey across
// the lock-mask combinations. Also builds the button table, which needs
// no server round trip since buttons are already concrete numbers.
func (b *Binder) Resolve(conn *xconn.Conn) error {
	setup := conn.Setup()
	lo := setup.MinKeycode
	hi := setup.MaxKeycode
	count := byte(hi - lo + 1)

	mapping, err := conn.GetKeyboardMapping(lo, count)
	if err != nil {
		return err
	}

	perKeycode := int(mapping.KeysymsPerKeycode)
	keys := make(map[keyKey]Command)

	for _, hk := range b.hotkeys {
		found := false
		for idx, sym := range mapping.Keysyms {
			if sym != hk.Keysym {
				continue
			}
			found = true
			code := xproto.Keycode(idx/perKeycode) + lo
			for _, lock := range lockMasks {
				keys[keyKey{code: code, mods: hk.ModMask | lock}] = hk.Command
			}
		}
		// BindingResolutionFailed: the configured keysym isn't in the
		// server's current keyboard map. Log and skip this binding
		// rather than failing the whole resolution pass.
		if !found {
			log.WithField("keysym", hk.Keysym).Warn("input: keysym not in current keyboard map, skipping binding")
		}
	}

	buttons := make(map[buttonKey]Command)
	for _, mhk := range b.mouseHotkeys {
		for _, lock := range lockMasks {
			buttons[buttonKey{button: mhk.Button, mods: mhk.ModMask | lock}] = mhk.Command
		}
	}

	b.keys = keys
	b.buttons = buttons
	return nil
}

// Grab issues GrabKey/GrabButton on root for every resolved mapping.
func (b *Binder) Grab(conn *xconn.Conn, root xproto.Window) error {
	for k := range b.keys {
		if err := conn.GrabKey(root, k.mods, k.code); err != nil {
			return err
		}
	}
	for k := range b.buttons {
		mask := uint16(xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease)
		if err := conn.GrabButton(root, k.mods, k.button, mask); err != nil {
			return err
		}
	}
	return nil
}

// Key looks up the command bound to a KeyPress (detail, state) pair.
func (b *Binder) Key(code xproto.Keycode, state uint16) (Command, bool) {
	cmd, ok := b.keys[keyKey{code: code, mods: state}]
	return cmd, ok
}

// Button looks up the command bound to a ButtonPress (detail, state)
// pair.
func (b *Binder) Button(button xproto.Button, state uint16) (Command, bool) {
	cmd, ok := b.buttons[buttonKey{button: button, mods: state}]
	return cmd, ok
}
