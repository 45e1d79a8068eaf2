package controls

import (
	"time"

	"github.com/depeter/couchbar/internal/dom"
)

// MediaState is a snapshot of the active media element.
type MediaState struct {
	Paused      bool
	Ended       bool
	CurrentTime float64
	Duration    float64
	Volume      int
	Muted       bool
	Fullscreen  bool
	Speed       float64
}

// Track is a selectable subtitle track.
type Track struct {
	ID       int
	Label    string
	Selected bool
}

// Level is a selectable quality level.
type Level struct {
	ID       int
	Label    string
	Selected bool
}

// Options is the part of the player configuration the bar reads on every
// build.
type Options struct {
	Layout           map[Position][]string
	DetachMenus      bool
	ShowLoaderOnInit bool
	HidePlayBtnTimer time.Duration
}

// Playback is the set of media actions built-in items trigger.
type Playback interface {
	TogglePause() error
	SeekTo(seconds float64) error
	ToggleMute() error
	ToggleFullscreen() error
	SetSpeed(rate float64) error
	SubtitleTracks() []Track
	SelectSubtitle(id int) error // 0 turns subtitles off
	Levels() []Level
	SelectLevel(id int) error // 0 selects automatically
}

// Host is the player the control bar is attached to.
type Host interface {
	Playback

	// Element is the media element. Its Tag is dom.TagVideo or dom.TagAudio.
	Element() *dom.Node
	// Root is the player's outer node; the bar container is attached here.
	Root() *dom.Node
	Options() Options
	CustomControls() []CustomControl
	IsMedia() bool
	Active() MediaState
	PlayButton() *dom.Node
	Loader() *dom.Node
}

// Platform answers capability questions about the device.
type Platform interface {
	IsTouch() bool
}

// FixedPlatform is a Platform with a predetermined answer.
type FixedPlatform struct {
	Touch bool
}

func (p FixedPlatform) IsTouch() bool { return p.Touch }

func isVideo(el *dom.Node) bool {
	return el != nil && el.Tag == dom.TagVideo
}
