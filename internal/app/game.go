package app

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/depeter/couchbar/internal/config"
	"github.com/depeter/couchbar/internal/controls"
	"github.com/depeter/couchbar/internal/input"
	"github.com/depeter/couchbar/internal/logging"
	"github.com/depeter/couchbar/internal/loop"
	"github.com/depeter/couchbar/internal/player"
)

// osdControlsID is the mpv osd-overlay slot the bar renders into.
const osdControlsID = 61

// Game implements ebiten.Game. It owns the UI loop: every tick drains
// posted work, samples input and mirrors the bar onto mpv's OSD.
type Game struct {
	Config *config.Config
	Loop   *loop.Loop
	Player *player.Player
	Bar    *controls.Manager

	Width, Height int

	log     *logrus.Entry
	keys    input.Keymap
	tracker *input.Tracker
	osd     *player.OSD
	remote  *input.Remote
	pending string
	quit    bool
}

// NewGame creates the Game. The player is created later, once the window
// exists.
func NewGame(cfg *config.Config) (*Game, error) {
	keys, err := input.NewKeymap(cfg.Keybinds)
	if err != nil {
		return nil, err
	}
	return &Game{
		Config: cfg,
		Loop:   loop.New(),
		Width:  cfg.UI.Width,
		Height: cfg.UI.Height,
		log:    logging.For("app"),
		keys:   keys,
	}, nil
}

// InitPlayer creates the mpv player and attaches the control bar.
func (g *Game) InitPlayer() error {
	p, err := player.New(g.Config, g.Loop)
	if err != nil {
		return err
	}
	p.SetFullscreenHandler(func(on bool) { ebiten.SetFullscreen(on) })

	bar, err := controls.New(p, input.TouchPlatform{Mode: g.Config.UI.Touch}, g.Loop)
	if err != nil {
		p.Destroy()
		return fmt.Errorf("control bar: %w", err)
	}

	g.Player = p
	g.Bar = bar
	g.tracker = input.NewTracker(p.Root())
	g.osd = player.NewOSD(p, osdControlsID)
	g.remote = input.WatchRemote(g.Loop, g.perform)
	return nil
}

// perform runs a key or remote action. Stop ends the session.
func (g *Game) perform(a input.Action) {
	if g.quit {
		return
	}
	if a == input.ActionStop {
		g.StopPlayback()
		return
	}
	if err := input.Handle(g.Player, a); err != nil {
		g.log.WithError(err).WithField("action", a).Warn("action failed")
	}
}

// Open queues url for playback on the first tick, once the window exists.
func (g *Game) Open(url string) {
	g.pending = url
}

// StartPlayback embeds mpv into the window, loads url and builds the bar.
func (g *Game) StartPlayback(url string) error {
	if g.Player == nil {
		if err := g.InitPlayer(); err != nil {
			return err
		}
	}

	wid, err := player.GetWindowHandle()
	if err != nil {
		return fmt.Errorf("window handle: %w", err)
	}
	if err := g.Player.SetWindowID(wid); err != nil {
		g.log.WithError(err).Warn("failed to set window ID")
	}

	if err := g.Player.LoadFile(url); err != nil {
		return err
	}
	return g.Bar.Create()
}

// StopPlayback tears the bar down, stops the remote readers and stops mpv.
func (g *Game) StopPlayback() {
	g.remote.Close()
	if g.Bar != nil {
		g.Bar.Destroy()
	}
	if g.Player != nil {
		if err := g.Player.Stop(); err != nil {
			g.log.WithError(err).Warn("stop failed")
		}
		if err := g.osd.Flush(); err != nil {
			g.log.WithError(err).Debug("osd clear failed")
		}
	}
	g.quit = true
}

// Close stops the remote readers and releases mpv.
func (g *Game) Close() {
	g.remote.Close()
	if g.Player != nil {
		g.Player.Destroy()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	g.Loop.Drain()

	if g.pending != "" {
		url := g.pending
		g.pending = ""
		if err := g.StartPlayback(url); err != nil {
			return fmt.Errorf("start playback: %w", err)
		}
	}
	if g.Player == nil {
		return nil
	}

	g.tracker.Poll(g.Width, g.Height)
	g.handleMouse()
	for _, a := range g.keys.Poll() {
		g.perform(a)
	}
	if g.quit {
		return nil
	}

	// Handlers may have posted follow-up work.
	g.Loop.Drain()

	if err := g.osd.Flush(); err != nil {
		g.log.WithError(err).Debug("osd update failed")
	}
	return nil
}

// handleMouse delivers clicks and taps to the bar and maps the wheel onto
// volume.
func (g *Game) handleMouse() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.Player.Click(player.ToOSD(x, y, g.Width, g.Height))
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		g.Player.Click(player.ToOSD(x, y, g.Width, g.Height))
	}
	_, scrollY := ebiten.Wheel()
	switch {
	case scrollY > 0:
		g.perform(input.ActionVolumeUp)
	case scrollY < 0:
		g.perform(input.ActionVolumeDown)
	}
}

// Draw does nothing: mpv owns the window surface via --wid and renders
// the bar through its OSD.
func (g *Game) Draw(screen *ebiten.Image) {}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Width, g.Height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
