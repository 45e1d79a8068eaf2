package controls

import (
	"fmt"
	"strconv"

	"github.com/depeter/couchbar/internal/dom"
)

// Play toggles playback.
type Play struct {
	env    itemEnv
	button *dom.Node
	events []binding
}

func newPlay(env itemEnv) *Play { return &Play{env: env} }

func (p *Play) Create() {
	p.button = dom.NewNode(dom.TagButton, "op-controls__playpause", p.env.controlClass())
	p.button.SetAttr("tabindex", "0")

	media := p.env.host.Element()
	p.events = []binding{
		on(p.button, dom.EventClick, func(*dom.Event) {
			p.env.report("toggle pause", p.env.host.TogglePause())
		}),
		on(media, dom.EventPlay, func(*dom.Event) { p.render(true, false) }),
		on(media, dom.EventPause, func(*dom.Event) { p.render(false, false) }),
		on(media, dom.EventEnded, func(*dom.Event) { p.render(false, true) }),
	}
	bindAll(p.events)

	st := p.env.host.Active()
	p.render(!st.Paused, st.Ended)
	p.env.layer.AppendChild(p.button)
}

func (p *Play) render(playing, ended bool) {
	p.button.ToggleClass("op-controls__playpause--pause", playing)
	p.button.ToggleClass("op-controls__playpause--replay", ended)
	switch {
	case ended:
		p.button.SetAttr("aria-label", "Replay")
	case playing:
		p.button.SetAttr("aria-label", "Pause")
	default:
		p.button.SetAttr("aria-label", "Play")
	}
}

func (p *Play) Destroy() {
	unbindAll(p.events)
	p.events = nil
	if p.button != nil {
		p.button.Remove()
		p.button = nil
	}
}

// Progress shows and seeks the playback position. A click carries the
// target fraction (0..1) as its detail.
type Progress struct {
	env    itemEnv
	node   *dom.Node
	bar    *dom.Node
	events []binding
}

func newProgress(env itemEnv) *Progress { return &Progress{env: env} }

func (p *Progress) Create() {
	p.node = dom.NewNode(dom.TagDiv, "op-controls__progress-wrapper", p.env.controlClass())
	p.bar = dom.NewNode(dom.TagDiv, "op-controls__progress")
	p.bar.SetAttr("role", "slider")
	p.node.AppendChild(p.bar)

	media := p.env.host.Element()
	p.events = []binding{
		on(p.node, dom.EventClick, func(ev *dom.Event) {
			frac, ok := ev.Detail.(float64)
			if !ok {
				return
			}
			frac = min(max(frac, 0), 1)
			dur := p.env.host.Active().Duration
			if dur > 0 {
				p.env.report("seek", p.env.host.SeekTo(frac*dur))
			}
		}),
		on(media, dom.EventTimeUpdate, func(*dom.Event) { p.render() }),
		on(media, dom.EventDurationChange, func(*dom.Event) { p.render() }),
		on(media, dom.EventEnded, func(*dom.Event) { p.render() }),
	}
	bindAll(p.events)

	p.render()
	p.env.layer.AppendChild(p.node)
}

func (p *Progress) render() {
	st := p.env.host.Active()
	p.bar.SetAttr("value", strconv.FormatFloat(st.CurrentTime, 'f', 1, 64))
	p.bar.SetAttr("max", strconv.FormatFloat(st.Duration, 'f', 1, 64))
}

func (p *Progress) Destroy() {
	unbindAll(p.events)
	p.events = nil
	if p.node != nil {
		p.node.Remove()
		p.node, p.bar = nil, nil
	}
}

// Time shows "position / duration".
type Time struct {
	env    itemEnv
	node   *dom.Node
	events []binding
}

func newTime(env itemEnv) *Time { return &Time{env: env} }

func (t *Time) Create() {
	t.node = dom.NewNode(dom.TagSpan, "op-controls__time", t.env.controlClass())

	media := t.env.host.Element()
	t.events = []binding{
		on(media, dom.EventTimeUpdate, func(*dom.Event) { t.render() }),
		on(media, dom.EventDurationChange, func(*dom.Event) { t.render() }),
	}
	bindAll(t.events)

	t.render()
	t.env.layer.AppendChild(t.node)
}

func (t *Time) render() {
	st := t.env.host.Active()
	t.node.SetText(formatDuration(st.CurrentTime) + " / " + formatDuration(st.Duration))
}

func (t *Time) Destroy() {
	unbindAll(t.events)
	t.events = nil
	if t.node != nil {
		t.node.Remove()
		t.node = nil
	}
}

// Volume mutes on click and shows the level.
type Volume struct {
	env    itemEnv
	node   *dom.Node
	mute   *dom.Node
	level  *dom.Node
	events []binding
}

func newVolume(env itemEnv) *Volume { return &Volume{env: env} }

func (v *Volume) Create() {
	v.node = dom.NewNode(dom.TagDiv, "op-controls__volume-wrapper", v.env.controlClass())
	v.mute = dom.NewNode(dom.TagButton, "op-controls__mute")
	v.mute.SetAttr("tabindex", "0")
	v.level = dom.NewNode(dom.TagDiv, "op-controls__volume")
	v.level.SetAttr("role", "slider")
	v.node.AppendChild(v.mute)
	v.node.AppendChild(v.level)

	v.events = []binding{
		on(v.mute, dom.EventClick, func(*dom.Event) {
			v.env.report("toggle mute", v.env.host.ToggleMute())
		}),
		on(v.env.host.Element(), dom.EventVolumeChange, func(*dom.Event) { v.render() }),
	}
	bindAll(v.events)

	v.render()
	v.env.layer.AppendChild(v.node)
}

func (v *Volume) render() {
	st := v.env.host.Active()
	v.mute.ToggleClass("op-controls__mute--muted", st.Muted || st.Volume == 0)
	if st.Muted {
		v.mute.SetAttr("aria-label", "Unmute")
	} else {
		v.mute.SetAttr("aria-label", "Mute")
	}
	v.level.SetAttr("value", strconv.Itoa(st.Volume))
}

func (v *Volume) Destroy() {
	unbindAll(v.events)
	v.events = nil
	if v.node != nil {
		v.node.Remove()
		v.node, v.mute, v.level = nil, nil, nil
	}
}

// Fullscreen toggles fullscreen. Only video gets one.
type Fullscreen struct {
	env    itemEnv
	button *dom.Node
	events []binding
}

func newFullscreen(env itemEnv) *Fullscreen { return &Fullscreen{env: env} }

func (f *Fullscreen) Create() {
	f.button = dom.NewNode(dom.TagButton, "op-controls__fullscreen", f.env.controlClass())
	f.button.SetAttr("tabindex", "0")

	f.events = []binding{
		on(f.button, dom.EventClick, func(*dom.Event) {
			f.env.report("toggle fullscreen", f.env.host.ToggleFullscreen())
		}),
		on(f.env.host.Element(), dom.EventFullscreenChange, func(*dom.Event) { f.render() }),
	}
	bindAll(f.events)

	f.render()
	f.env.layer.AppendChild(f.button)
}

func (f *Fullscreen) render() {
	full := f.env.host.Active().Fullscreen
	f.button.ToggleClass("op-controls__fullscreen--out", full)
	if full {
		f.button.SetAttr("aria-label", "Exit Fullscreen")
	} else {
		f.button.SetAttr("aria-label", "Fullscreen")
	}
}

func (f *Fullscreen) Destroy() {
	unbindAll(f.events)
	f.events = nil
	if f.button != nil {
		f.button.Remove()
		f.button = nil
	}
}

// formatDuration formats seconds into "H:MM:SS" or "M:SS".
func formatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
