package input

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/depeter/couchbar/internal/config"
	"github.com/depeter/couchbar/internal/dom"
)

// Action represents a player action triggered by a key.
type Action int

const (
	ActionNone Action = iota
	ActionPlayPause
	ActionSeekForward
	ActionSeekBackward
	ActionSeekForwardLarge
	ActionSeekBackwardLarge
	ActionVolumeUp
	ActionVolumeDown
	ActionMute
	ActionCaptions
	ActionSettings
	ActionFullscreen
	ActionStop
)

// keyMap maps config key names to ebiten keys.
var keyMap = map[string]ebiten.Key{
	"space":     ebiten.KeySpace,
	"enter":     ebiten.KeyEnter,
	"return":    ebiten.KeyEnter,
	"tab":       ebiten.KeyTab,
	"escape":    ebiten.KeyEscape,
	"esc":       ebiten.KeyEscape,
	"backspace": ebiten.KeyBackspace,
	"left":      ebiten.KeyArrowLeft,
	"right":     ebiten.KeyArrowRight,
	"up":        ebiten.KeyArrowUp,
	"down":      ebiten.KeyArrowDown,
	"=":         ebiten.KeyEqual,
	"-":         ebiten.KeyMinus,
	"a":         ebiten.KeyA,
	"b":         ebiten.KeyB,
	"c":         ebiten.KeyC,
	"d":         ebiten.KeyD,
	"e":         ebiten.KeyE,
	"f":         ebiten.KeyF,
	"g":         ebiten.KeyG,
	"h":         ebiten.KeyH,
	"i":         ebiten.KeyI,
	"j":         ebiten.KeyJ,
	"k":         ebiten.KeyK,
	"l":         ebiten.KeyL,
	"m":         ebiten.KeyM,
	"n":         ebiten.KeyN,
	"o":         ebiten.KeyO,
	"p":         ebiten.KeyP,
	"q":         ebiten.KeyQ,
	"r":         ebiten.KeyR,
	"s":         ebiten.KeyS,
	"t":         ebiten.KeyT,
	"u":         ebiten.KeyU,
	"v":         ebiten.KeyV,
	"w":         ebiten.KeyW,
	"x":         ebiten.KeyX,
	"y":         ebiten.KeyY,
	"z":         ebiten.KeyZ,
	"0":         ebiten.KeyDigit0,
	"1":         ebiten.KeyDigit1,
	"2":         ebiten.KeyDigit2,
	"3":         ebiten.KeyDigit3,
	"4":         ebiten.KeyDigit4,
	"5":         ebiten.KeyDigit5,
	"6":         ebiten.KeyDigit6,
	"7":         ebiten.KeyDigit7,
	"8":         ebiten.KeyDigit8,
	"9":         ebiten.KeyDigit9,
}

// parseKey converts a config key name to an ebiten.Key.
func parseKey(name string) (ebiten.Key, bool) {
	k, ok := keyMap[strings.ToLower(name)]
	return k, ok
}

// Keymap binds keys to actions.
type Keymap map[ebiten.Key]Action

// NewKeymap resolves the configured key names. Empty names leave the action
// unbound; unknown names and keys bound twice are errors.
func NewKeymap(cfg config.KeybindConfig) (Keymap, error) {
	km := Keymap{}
	for _, b := range []struct {
		name   string
		key    string
		action Action
	}{
		{"play_pause", cfg.PlayPause, ActionPlayPause},
		{"seek_forward", cfg.SeekForward, ActionSeekForward},
		{"seek_backward", cfg.SeekBackward, ActionSeekBackward},
		{"seek_forward_large", cfg.SeekForwardLarge, ActionSeekForwardLarge},
		{"seek_backward_large", cfg.SeekBackwardLarge, ActionSeekBackwardLarge},
		{"volume_up", cfg.VolumeUp, ActionVolumeUp},
		{"volume_down", cfg.VolumeDown, ActionVolumeDown},
		{"mute", cfg.Mute, ActionMute},
		{"captions", cfg.Captions, ActionCaptions},
		{"settings", cfg.Settings, ActionSettings},
		{"fullscreen", cfg.Fullscreen, ActionFullscreen},
		{"stop", cfg.Stop, ActionStop},
	} {
		if b.key == "" {
			continue
		}
		k, ok := parseKey(b.key)
		if !ok {
			return nil, fmt.Errorf("keybinds.%s: unknown key %q", b.name, b.key)
		}
		if _, dup := km[k]; dup {
			return nil, fmt.Errorf("keybinds.%s: key %q is already bound", b.name, b.key)
		}
		km[k] = b.action
	}
	return km, nil
}

// Lookup returns the action bound to k.
func (km Keymap) Lookup(k ebiten.Key) Action {
	return km[k]
}

// Target is what key actions drive.
type Target interface {
	Root() *dom.Node
	TogglePause() error
	Seek(seconds float64) error
	AdjustVolume(delta int) error
	ToggleMute() error
	ToggleFullscreen() error
	Stop() error
}

// Poll returns the actions whose keys were pressed this tick.
func (km Keymap) Poll() []Action {
	return km.Actions(inpututil.AppendJustPressedKeys(nil), ebiten.IsKeyPressed(ebiten.KeyAlt))
}

// Actions maps freshly pressed keys to actions. Alt+Enter always toggles
// fullscreen and hides whatever Enter is bound to.
func (km Keymap) Actions(pressed []ebiten.Key, alt bool) []Action {
	var actions []Action
	for _, k := range pressed {
		a := km.Lookup(k)
		if alt && k == ebiten.KeyEnter {
			a = ActionFullscreen
		}
		if a != ActionNone {
			actions = append(actions, a)
		}
	}
	return actions
}

// Handle performs a. Any key counts as pointer activity, so the bar is
// revealed first. Captions and settings press the bar's own buttons.
func Handle(t Target, a Action) error {
	if a == ActionNone {
		return nil
	}
	root := t.Root()
	root.Dispatch(dom.EventMouseMove, nil)

	switch a {
	case ActionPlayPause:
		return t.TogglePause()
	case ActionSeekForward:
		return t.Seek(10)
	case ActionSeekBackward:
		return t.Seek(-10)
	case ActionSeekForwardLarge:
		return t.Seek(60)
	case ActionSeekBackwardLarge:
		return t.Seek(-60)
	case ActionVolumeUp:
		return t.AdjustVolume(5)
	case ActionVolumeDown:
		return t.AdjustVolume(-5)
	case ActionMute:
		return t.ToggleMute()
	case ActionCaptions:
		press(root, "op-controls__captions")
	case ActionSettings:
		press(root, "op-controls__settings")
	case ActionFullscreen:
		return t.ToggleFullscreen()
	case ActionStop:
		return t.Stop()
	}
	return nil
}

// press clicks the bar button carrying class, if the bar shows one.
func press(root *dom.Node, class string) {
	if btn := root.Find(class); btn != nil && !btn.Hidden() {
		btn.Dispatch(dom.EventClick, nil)
	}
}
