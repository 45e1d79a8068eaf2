package player

import (
	"github.com/depeter/couchbar/internal/controls"
	"github.com/depeter/couchbar/internal/dom"
)

// mediaState mirrors mpv properties as media element state. It is only
// touched on the UI loop.
type mediaState struct {
	controls.MediaState
	loaded bool
	video  bool
}

// change is the outcome of applying one mpv update: the media events to
// dispatch and whether the element kind (video/audio) flipped.
type change struct {
	events     []string
	kindChange bool
}

// applyProperty folds an observed property into the state.
func (s *mediaState) applyProperty(name string, data any) change {
	var c change
	switch name {
	case "pause":
		v, ok := asBool(data)
		if !ok || v == s.Paused {
			return c
		}
		s.Paused = v
		if !s.loaded {
			return c
		}
		if v {
			c.events = append(c.events, dom.EventPause)
		} else {
			s.Ended = false
			c.events = append(c.events, dom.EventPlay)
		}
	case "time-pos":
		if v, ok := data.(float64); ok {
			s.CurrentTime = v
			c.events = append(c.events, dom.EventTimeUpdate)
		}
	case "duration":
		if v, ok := data.(float64); ok && v != s.Duration {
			s.Duration = v
			c.events = append(c.events, dom.EventDurationChange)
		}
	case "volume":
		if v, ok := data.(float64); ok {
			s.Volume = int(v + 0.5)
			c.events = append(c.events, dom.EventVolumeChange)
		}
	case "mute":
		if v, ok := asBool(data); ok && v != s.Muted {
			s.Muted = v
			c.events = append(c.events, dom.EventVolumeChange)
		}
	case "fullscreen":
		if v, ok := asBool(data); ok && v != s.Fullscreen {
			s.Fullscreen = v
			c.events = append(c.events, dom.EventFullscreenChange)
		}
	case "speed":
		if v, ok := data.(float64); ok {
			s.Speed = v
		}
	case "eof-reached":
		if v, ok := asBool(data); ok && v && !s.Ended {
			s.Ended = true
			c.events = append(c.events, dom.EventEnded)
		}
	case "video-format":
		v, _ := data.(string)
		video := v != ""
		if video != s.video {
			s.video = video
			c.kindChange = true
		}
	}
	return c
}

// fileLoaded marks the start of a new file.
func (s *mediaState) fileLoaded() change {
	s.loaded = true
	s.Ended = false
	s.CurrentTime = 0
	c := change{events: []string{dom.EventLoadedMetadata}}
	if !s.Paused {
		c.events = append(c.events, dom.EventPlay)
	}
	return c
}

// fileEnded marks the end of the current file.
func (s *mediaState) fileEnded() change {
	if !s.loaded {
		return change{}
	}
	s.loaded = false
	if s.Ended {
		return change{}
	}
	s.Ended = true
	return change{events: []string{dom.EventEnded}}
}

func (s *mediaState) tag() string {
	if s.video {
		return dom.TagVideo
	}
	return dom.TagAudio
}

// asBool accepts the flag representations mpv bindings hand out.
func asBool(data any) (bool, bool) {
	switch v := data.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	}
	return false, false
}
