package input

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/couchbar/internal/dom"
)

// Tracker turns cursor samples into mouseenter, mousemove and mouseleave
// events on the player root.
type Tracker struct {
	root   *dom.Node
	inside bool
	x, y   int
}

func NewTracker(root *dom.Node) *Tracker {
	return &Tracker{root: root}
}

// Step feeds one cursor sample. Entering fires mouseenter, moving while
// inside fires mousemove, and leaving fires mouseleave.
func (t *Tracker) Step(x, y int, inside bool) {
	switch {
	case inside && !t.inside:
		t.root.Dispatch(dom.EventMouseEnter, nil)
	case inside && (x != t.x || y != t.y):
		t.root.Dispatch(dom.EventMouseMove, nil)
	case !inside && t.inside:
		t.root.Dispatch(dom.EventMouseLeave, nil)
	}
	t.inside = inside
	t.x, t.y = x, y
}

// Poll samples the ebiten cursor against a w x h window.
func (t *Tracker) Poll(w, h int) {
	x, y := ebiten.CursorPosition()
	inside := ebiten.IsFocused() && x >= 0 && y >= 0 && x < w && y < h
	t.Step(x, y, inside)
}

// TouchPlatform answers IsTouch from the ui.touch setting. In auto mode a
// touch currently on the screen counts.
type TouchPlatform struct {
	Mode string
}

func (p TouchPlatform) IsTouch() bool {
	switch p.Mode {
	case "on":
		return true
	case "off":
		return false
	}
	return len(ebiten.AppendTouchIDs(nil)) > 0
}
