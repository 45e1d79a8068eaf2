package player

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/gen2brain/go-mpv"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/depeter/couchbar/internal/config"
	"github.com/depeter/couchbar/internal/controls"
	"github.com/depeter/couchbar/internal/dom"
	"github.com/depeter/couchbar/internal/logging"
	"github.com/depeter/couchbar/internal/loop"
)

// backend is the slice of libmpv the player drives.
type backend interface {
	Command(cmd []string) error
	SetPropertyString(name, value string) error
	GetProperty(name string, format mpv.Format) (interface{}, error)
}

// Player wraps libmpv as the media element the control bar attaches to.
// mpv events arrive on their own goroutine and are posted to the UI loop;
// everything else runs on the loop.
type Player struct {
	m    *mpv.Mpv
	mu   sync.Mutex
	be   backend
	ui   *loop.Loop
	log  *logrus.Entry
	opts controls.Options

	root    *dom.Node
	media   *dom.Node
	playBtn *dom.Node
	loader  *dom.Node

	state  mediaState
	custom []controls.CustomControl

	fullscreen func(on bool)
}

// New creates and initializes an mpv instance and the host node tree.
func New(cfg *config.Config, ui *loop.Loop) (*Player, error) {
	m := mpv.New()
	log := logging.For("player")

	// mpv owns the render pipeline; its own OSC stays off so the bar is the
	// only control surface.
	must(log, m.SetOptionString("hwdec", cfg.Playback.HWAccel))
	must(log, m.SetOptionString("vo", "gpu"))
	must(log, m.SetOptionString("osc", "no"))
	must(log, m.SetOptionString("keep-open", "yes"))
	must(log, m.SetOptionString("idle", "yes"))
	must(log, m.SetOptionString("input-default-bindings", "no"))
	must(log, m.SetOptionString("volume", strconv.Itoa(cfg.Playback.Volume)))
	must(log, m.SetOptionString("ytdl", "yes"))

	if err := m.Initialize(); err != nil {
		return nil, fmt.Errorf("mpv init: %w", err)
	}

	p := newPlayer(cfg, m, ui, log)
	p.m = m

	for _, name := range []string{"pause", "mute", "fullscreen", "eof-reached"} {
		must(log, m.ObserveProperty(0, name, mpv.FormatFlag))
	}
	for _, name := range []string{"time-pos", "duration", "volume", "speed"} {
		must(log, m.ObserveProperty(0, name, mpv.FormatDouble))
	}
	must(log, m.ObserveProperty(0, "video-format", mpv.FormatString))

	go p.eventLoop()

	return p, nil
}

// newPlayer builds the node tree and custom controls around be.
func newPlayer(cfg *config.Config, be backend, ui *loop.Loop, log *logrus.Entry) *Player {
	p := &Player{
		be:   be,
		ui:   ui,
		log:  log,
		opts: optionsFrom(cfg.Controls),
	}
	p.state.Paused = true
	p.state.Volume = cfg.Playback.Volume
	p.state.Speed = 1

	p.root = dom.NewNode(dom.TagDiv, "op-player")
	p.media = dom.NewNode(dom.TagAudio, "op-player__media")
	p.media.SetAttr("controls", "")
	p.playBtn = dom.NewNode(dom.TagButton, "op-player__play")
	p.playBtn.SetAttr("aria-label", "Play")
	p.loader = dom.NewNode(dom.TagSpan, "op-player__loader")
	p.loader.SetHidden(!p.opts.ShowLoaderOnInit)
	p.root.AppendChild(p.media)
	p.root.AppendChild(p.playBtn)
	p.root.AppendChild(p.loader)

	p.playBtn.AddEventListener(dom.EventClick, func(*dom.Event) { p.report("toggle pause", p.TogglePause()) })

	for _, c := range cfg.Controls.Custom {
		p.custom = append(p.custom, p.customFromConfig(c))
	}
	return p
}

func must(log *logrus.Entry, err error) {
	if err != nil {
		log.WithError(err).Warn("mpv option warning")
	}
}

func (p *Player) report(action string, err error) {
	if err != nil {
		p.log.WithError(err).WithField("action", action).Warn("playback action failed")
	}
}

// optionsFrom converts the [controls] section into bar options.
func optionsFrom(c config.ControlsConfig) controls.Options {
	return controls.Options{
		Layout: map[controls.Position][]string{
			controls.PositionLeading:  c.Leading,
			controls.PositionMiddle:   c.Middle,
			controls.PositionTrailing: c.Trailing,
		},
		DetachMenus:      c.DetachMenus,
		ShowLoaderOnInit: c.ShowLoaderOnInit,
		HidePlayBtnTimer: c.HidePlayBtnDelay(),
	}
}

func (p *Player) customFromConfig(c config.CustomControl) controls.CustomControl {
	pos, _ := controls.ParsePosition(c.Position)
	cmd := c.Command
	cc := controls.CustomControl{Title: c.Title, Icon: c.Icon, Position: pos}
	if len(cmd) > 0 {
		cc.Click = func() { p.report(c.Title, p.command(cmd...)) }
	}
	return cc
}

// SetWindowID sets the native window handle for embedded playback.
func (p *Player) SetWindowID(wid int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m.SetOptionString("wid", strconv.FormatInt(wid, 10))
}

// SetFullscreenHandler routes fullscreen toggles to the window instead of
// mpv. fn receives the requested state.
func (p *Player) SetFullscreenHandler(fn func(on bool)) {
	p.fullscreen = fn
}

// LoadFile starts playback of a URL.
func (p *Player) LoadFile(url string) error {
	p.loader.SetHidden(!p.opts.ShowLoaderOnInit)
	return p.command("loadfile", url)
}

// Stop stops playback.
func (p *Player) Stop() error {
	return p.command("stop")
}

// Destroy cleans up the mpv instance.
func (p *Player) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m != nil {
		p.m.TerminateDestroy()
	}
}

func (p *Player) command(args ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.be.Command(args); err != nil {
		return fmt.Errorf("mpv %s: %w", args[0], err)
	}
	return nil
}

func (p *Player) setProperty(name, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.be.SetPropertyString(name, value); err != nil {
		return fmt.Errorf("mpv set %s: %w", name, err)
	}
	return nil
}

// Host

func (p *Player) Element() *dom.Node                       { return p.media }
func (p *Player) Root() *dom.Node                          { return p.root }
func (p *Player) Options() controls.Options                { return p.opts }
func (p *Player) CustomControls() []controls.CustomControl { return p.custom }
func (p *Player) Active() controls.MediaState              { return p.state.MediaState }
func (p *Player) PlayButton() *dom.Node                    { return p.playBtn }
func (p *Player) Loader() *dom.Node                        { return p.loader }

// IsMedia reports whether a file is loaded.
func (p *Player) IsMedia() bool { return p.state.loaded }

// AddCustomControl registers a custom control and rebuilds the bar.
func (p *Player) AddCustomControl(c controls.CustomControl) {
	p.custom = append(p.custom, c)
	p.media.Dispatch(dom.EventControlsChanged, nil)
}

// RemoveCustomControl drops every custom control whose key matches title
// and rebuilds the bar. It reports whether anything was removed.
func (p *Player) RemoveCustomControl(title string) bool {
	key := controls.CustomKey(title)
	kept := lo.Reject(p.custom, func(c controls.CustomControl, _ int) bool {
		return controls.CustomKey(c.Title) == key
	})
	if len(kept) == len(p.custom) {
		return false
	}
	p.custom = kept
	p.media.Dispatch(dom.EventControlsChanged, nil)
	return true
}

// Playback

func (p *Player) TogglePause() error {
	if p.state.Ended {
		if err := p.command("seek", "0", "absolute"); err != nil {
			return err
		}
		return p.setProperty("pause", "no")
	}
	return p.command("cycle", "pause")
}

func (p *Player) SeekTo(seconds float64) error {
	return p.command("seek", strconv.FormatFloat(seconds, 'f', 1, 64), "absolute")
}

// Seek seeks relative to the current position.
func (p *Player) Seek(seconds float64) error {
	return p.command("seek", strconv.FormatFloat(seconds, 'f', 1, 64), "relative")
}

func (p *Player) ToggleMute() error {
	return p.command("cycle", "mute")
}

// AdjustVolume changes the volume by delta, clamped to mpv's 0-150 range.
func (p *Player) AdjustVolume(delta int) error {
	v := min(max(p.state.Volume+delta, 0), 150)
	return p.setProperty("volume", strconv.Itoa(v))
}

func (p *Player) ToggleFullscreen() error {
	on := !p.state.Fullscreen
	if p.fullscreen == nil {
		return p.setProperty("fullscreen", yesNo(on))
	}
	p.fullscreen(on)
	p.handle(p.state.applyProperty("fullscreen", on))
	return nil
}

func (p *Player) SetSpeed(rate float64) error {
	return p.setProperty("speed", strconv.FormatFloat(rate, 'g', -1, 64))
}

func (p *Player) SelectSubtitle(id int) error {
	if id == 0 {
		return p.setProperty("sid", "no")
	}
	return p.setProperty("sid", strconv.Itoa(id))
}

// SelectLevel picks a video track; 0 lets mpv choose.
func (p *Player) SelectLevel(id int) error {
	if id == 0 {
		return p.setProperty("vid", "auto")
	}
	return p.setProperty("vid", strconv.Itoa(id))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// handle dispatches the media events of c. A kind flip retags the element
// and asks the bar to rebuild first so new items see the events.
func (p *Player) handle(c change) {
	if c.kindChange {
		p.media.Tag = p.state.tag()
		p.media.Dispatch(dom.EventControlsChanged, nil)
	}
	for _, ev := range c.events {
		switch ev {
		case dom.EventLoadedMetadata:
			p.loader.SetHidden(true)
		case dom.EventEnded:
			p.playBtn.SetHidden(false)
		}
		p.media.Dispatch(ev, nil)
	}
}

func (p *Player) eventLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		ev := p.m.WaitEvent(1.0)
		if ev == nil {
			continue
		}

		switch ev.EventID {
		case mpv.EventPropertyChange:
			if ev.Data == nil {
				continue
			}
			prop := ev.Property()
			name, data := prop.Name, prop.Data
			p.ui.Post(func() { p.handle(p.state.applyProperty(name, data)) })

		case mpv.EventFileLoaded:
			p.ui.Post(func() { p.handle(p.state.fileLoaded()) })

		case mpv.EventEnd:
			if ev.Data != nil {
				ef := ev.EndFile()
				p.log.WithField("reason", ef.Reason).Debug("mpv end-file")
			}
			p.ui.Post(func() { p.handle(p.state.fileEnded()) })

		case mpv.EventShutdown:
			return
		}
	}
}
