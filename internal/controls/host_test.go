package controls

import (
	"fmt"
	"time"

	"github.com/depeter/couchbar/internal/dom"
)

// fakeHost is an in-memory player.
type fakeHost struct {
	media, root     *dom.Node
	playBtn, loader *dom.Node
	opts            Options
	custom          []CustomControl
	hasMedia        bool
	state           MediaState
	subs            []Track
	levels          []Level
	calls           []string
}

func newFakeHost(tag string) *fakeHost {
	h := &fakeHost{
		media:   dom.NewNode(tag),
		root:    dom.NewNode(dom.TagDiv, "op-player"),
		playBtn: dom.NewNode(dom.TagButton, "op-player__play"),
		loader:  dom.NewNode(dom.TagSpan, "op-player__loader"),
		opts: Options{
			Layout: map[Position][]string{
				PositionLeading:  {"play", "time", "volume"},
				PositionMiddle:   {"progress"},
				PositionTrailing: {"captions", "levels", "settings"},
			},
			HidePlayBtnTimer: 350 * time.Millisecond,
		},
		hasMedia: true,
		state:    MediaState{Duration: 120, Volume: 80, Speed: 1},
	}
	h.media.SetAttr("controls", "")
	h.root.AppendChild(h.media)
	h.root.AppendChild(h.playBtn)
	h.root.AppendChild(h.loader)
	return h
}

func (h *fakeHost) Element() *dom.Node              { return h.media }
func (h *fakeHost) Root() *dom.Node                 { return h.root }
func (h *fakeHost) Options() Options                { return h.opts }
func (h *fakeHost) CustomControls() []CustomControl { return h.custom }
func (h *fakeHost) IsMedia() bool                   { return h.hasMedia }
func (h *fakeHost) Active() MediaState              { return h.state }
func (h *fakeHost) PlayButton() *dom.Node           { return h.playBtn }
func (h *fakeHost) Loader() *dom.Node               { return h.loader }

func (h *fakeHost) TogglePause() error {
	h.calls = append(h.calls, "toggle-pause")
	return nil
}

func (h *fakeHost) SeekTo(seconds float64) error {
	h.calls = append(h.calls, fmt.Sprintf("seek %.1f", seconds))
	return nil
}

func (h *fakeHost) ToggleMute() error {
	h.calls = append(h.calls, "toggle-mute")
	return nil
}

func (h *fakeHost) ToggleFullscreen() error {
	h.calls = append(h.calls, "toggle-fullscreen")
	return nil
}

func (h *fakeHost) SetSpeed(rate float64) error {
	h.calls = append(h.calls, fmt.Sprintf("speed %g", rate))
	return nil
}

func (h *fakeHost) SubtitleTracks() []Track { return h.subs }

func (h *fakeHost) SelectSubtitle(id int) error {
	h.calls = append(h.calls, fmt.Sprintf("sub %d", id))
	for i := range h.subs {
		h.subs[i].Selected = h.subs[i].ID == id
	}
	return nil
}

func (h *fakeHost) Levels() []Level { return h.levels }

func (h *fakeHost) SelectLevel(id int) error {
	h.calls = append(h.calls, fmt.Sprintf("level %d", id))
	for i := range h.levels {
		h.levels[i].Selected = h.levels[i].ID == id
	}
	return nil
}

// controlsContainers counts bar containers attached to the root.
func (h *fakeHost) controlsContainers() int {
	n := 0
	for _, c := range h.root.Children() {
		if c.HasClass(ClassControls) {
			n++
		}
	}
	return n
}

func kindsAt(r Registry, pos Position) []string {
	var out []string
	for _, it := range r.Items(pos) {
		switch it := it.(type) {
		case *BuiltinItem:
			out = append(out, it.Kind.String())
		case *CustomItem:
			out = append(out, "custom:"+CustomKey(it.Control.Title))
		}
	}
	return out
}
