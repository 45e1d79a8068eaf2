package player

import (
	"errors"
	"strings"
	"testing"

	"github.com/gen2brain/go-mpv"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/depeter/couchbar/internal/config"
	"github.com/depeter/couchbar/internal/controls"
	"github.com/depeter/couchbar/internal/dom"
	"github.com/depeter/couchbar/internal/logging"
	"github.com/depeter/couchbar/internal/loop"
)

// fakeBackend records commands and serves properties from a map.
type fakeBackend struct {
	commands [][]string
	props    map[string]interface{}
	set      map[string]string
	fail     error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{props: map[string]interface{}{}, set: map[string]string{}}
}

func (f *fakeBackend) Command(cmd []string) error {
	if f.fail != nil {
		return f.fail
	}
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeBackend) SetPropertyString(name, value string) error {
	if f.fail != nil {
		return f.fail
	}
	f.set[name] = value
	return nil
}

func (f *fakeBackend) GetProperty(name string, _ mpv.Format) (interface{}, error) {
	v, ok := f.props[name]
	if !ok {
		return nil, errors.New("property unavailable")
	}
	return v, nil
}

func newTestPlayer(cfg *config.Config) (*Player, *fakeBackend) {
	be := newFakeBackend()
	return newPlayer(cfg, be, loop.New(), logging.For("test")), be
}

func recordEvents(n *dom.Node, names ...string) *[]string {
	var got []string
	for _, name := range names {
		n.AddEventListener(name, func(ev *dom.Event) { got = append(got, ev.Type) })
	}
	return &got
}

func TestMediaState(t *testing.T) {
	Convey("mediaState", t, func() {
		s := &mediaState{}
		s.Paused = true

		Convey("ignores pause flips before a file is loaded", func() {
			So(s.applyProperty("pause", false).events, ShouldBeEmpty)
			So(s.Paused, ShouldBeFalse)
		})

		Convey("reports loadedmetadata, then play and pause", func() {
			So(s.fileLoaded().events, ShouldResemble, []string{dom.EventLoadedMetadata})
			So(s.applyProperty("pause", 0).events, ShouldResemble, []string{dom.EventPlay})
			So(s.applyProperty("pause", 0).events, ShouldBeEmpty)
			So(s.applyProperty("pause", true).events, ShouldResemble, []string{dom.EventPause})
		})

		Convey("tracks time, duration and volume", func() {
			So(s.applyProperty("time-pos", 12.5).events, ShouldResemble, []string{dom.EventTimeUpdate})
			So(s.CurrentTime, ShouldEqual, 12.5)
			So(s.applyProperty("duration", 60.0).events, ShouldResemble, []string{dom.EventDurationChange})
			So(s.applyProperty("duration", 60.0).events, ShouldBeEmpty)
			So(s.applyProperty("volume", 79.6).events, ShouldResemble, []string{dom.EventVolumeChange})
			So(s.Volume, ShouldEqual, 80)
			So(s.applyProperty("mute", 1).events, ShouldResemble, []string{dom.EventVolumeChange})
			So(s.Muted, ShouldBeTrue)
			So(s.applyProperty("time-pos", "junk").events, ShouldBeEmpty)
		})

		Convey("reports ended once per file", func() {
			s.fileLoaded()
			So(s.applyProperty("eof-reached", true).events, ShouldResemble, []string{dom.EventEnded})
			So(s.fileEnded().events, ShouldBeEmpty)
			So(s.Ended, ShouldBeTrue)

			s.fileLoaded()
			So(s.Ended, ShouldBeFalse)
			So(s.fileEnded().events, ShouldResemble, []string{dom.EventEnded})
			So(s.fileEnded().events, ShouldBeEmpty)
		})

		Convey("flips between audio and video on video-format", func() {
			So(s.tag(), ShouldEqual, dom.TagAudio)
			So(s.applyProperty("video-format", "h264").kindChange, ShouldBeTrue)
			So(s.tag(), ShouldEqual, dom.TagVideo)
			So(s.applyProperty("video-format", "hevc").kindChange, ShouldBeFalse)
			So(s.applyProperty("video-format", nil).kindChange, ShouldBeTrue)
			So(s.tag(), ShouldEqual, dom.TagAudio)
		})
	})
}

func TestPlayerHost(t *testing.T) {
	Convey("Player as a control bar host", t, func() {
		cfg := config.DefaultConfig()
		cfg.Controls.Custom = []config.CustomControl{
			{Title: "Loop", Position: "leading", Command: []string{"cycle-values", "loop-file", "inf", "no"}},
		}
		p, be := newTestPlayer(cfg)

		Convey("starts with an audio element, native controls on, loader shown", func() {
			So(p.Element().Tag, ShouldEqual, dom.TagAudio)
			So(p.Element().HasAttr("controls"), ShouldBeTrue)
			So(p.Loader().Hidden(), ShouldBeFalse)
			So(p.IsMedia(), ShouldBeFalse)
			So(p.Options().HidePlayBtnTimer, ShouldEqual, cfg.Controls.HidePlayBtnDelay())
		})

		Convey("custom controls from config run their mpv command", func() {
			So(p.CustomControls(), ShouldHaveLength, 1)
			cc := p.CustomControls()[0]
			So(cc.Position, ShouldEqual, controls.PositionLeading)
			cc.Click()
			So(be.commands, ShouldResemble, [][]string{{"cycle-values", "loop-file", "inf", "no"}})
		})

		Convey("playback actions map onto mpv", func() {
			So(p.SeekTo(42), ShouldBeNil)
			So(p.ToggleMute(), ShouldBeNil)
			So(p.SetSpeed(1.5), ShouldBeNil)
			So(p.SelectSubtitle(0), ShouldBeNil)
			So(p.SelectLevel(2), ShouldBeNil)
			So(be.commands, ShouldResemble, [][]string{{"seek", "42.0", "absolute"}, {"cycle", "mute"}})
			So(be.set, ShouldResemble, map[string]string{"speed": "1.5", "sid": "no", "vid": "2"})
		})

		Convey("toggling pause after the end restarts from zero", func() {
			p.state.Ended = true
			So(p.TogglePause(), ShouldBeNil)
			So(be.commands, ShouldResemble, [][]string{{"seek", "0", "absolute"}})
			So(be.set["pause"], ShouldEqual, "no")
		})

		Convey("backend failures are wrapped", func() {
			be.fail = errors.New("boom")
			err := p.ToggleMute()
			So(err, ShouldNotBeNil)
			So(errors.Is(err, be.fail), ShouldBeTrue)
		})

		Convey("fullscreen goes to the window handler when one is set", func() {
			var requested []bool
			p.SetFullscreenHandler(func(on bool) { requested = append(requested, on) })
			got := recordEvents(p.Element(), dom.EventFullscreenChange)
			So(p.ToggleFullscreen(), ShouldBeNil)
			So(p.ToggleFullscreen(), ShouldBeNil)
			So(requested, ShouldResemble, []bool{true, false})
			So(*got, ShouldHaveLength, 2)
			So(be.set, ShouldBeEmpty)
		})

		Convey("lists subtitle tracks and quality levels from track-list", func() {
			be.props["track-list/count"] = int64(4)
			for i, tr := range []map[string]interface{}{
				{"id": int64(1), "type": "video", "demux-h": int64(720), "selected": "yes"},
				{"id": int64(2), "type": "video", "demux-h": int64(1080)},
				{"id": int64(1), "type": "sub", "title": "Full", "lang": "en"},
				{"id": int64(2), "type": "sub", "lang": "de", "selected": "yes"},
			} {
				for k, v := range tr {
					be.props["track-list/"+string(rune('0'+i))+"/"+k] = v
				}
			}

			So(p.SubtitleTracks(), ShouldResemble, []controls.Track{
				{ID: 1, Label: "Full (en)"},
				{ID: 2, Label: "DE", Selected: true},
			})
			So(p.Levels(), ShouldResemble, []controls.Level{
				{ID: 1, Label: "720p", Selected: true},
				{ID: 2, Label: "1080p"},
			})
		})

		Convey("a single video track offers no levels", func() {
			be.props["track-list/count"] = int64(1)
			be.props["track-list/0/id"] = int64(1)
			be.props["track-list/0/type"] = "video"
			So(p.Levels(), ShouldBeNil)
			So(p.SubtitleTracks(), ShouldBeEmpty)
		})

		Convey("with a control bar attached", func() {
			sched := loop.NewManual()
			m, err := controls.New(p, controls.FixedPlatform{}, sched)
			So(err, ShouldBeNil)
			So(m.Create(), ShouldBeNil)
			So(p.Element().HasAttr("controls"), ShouldBeFalse)

			Convey("a video-format change rebuilds with a fullscreen item", func() {
				So(m.Container().Find("op-controls__fullscreen"), ShouldBeNil)
				p.handle(p.state.applyProperty("video-format", "h264"))
				So(p.Element().Tag, ShouldEqual, dom.TagVideo)
				So(m.Container().Find("op-controls__fullscreen"), ShouldNotBeNil)
			})

			Convey("adding and removing custom controls rebuilds the bar", func() {
				p.AddCustomControl(controls.CustomControl{Title: "Chapter Next", Position: controls.PositionTrailing})
				So(m.Container().Find("op-controls__chapter-next"), ShouldNotBeNil)

				So(p.RemoveCustomControl("CHAPTER NEXT"), ShouldBeTrue)
				So(m.Container().Find("op-controls__chapter-next"), ShouldBeNil)
				So(p.RemoveCustomControl("chapter next"), ShouldBeFalse)
				So(m.Container().Find("op-controls__loop"), ShouldNotBeNil)
			})

			Convey("loading hides the loader and playing updates the bar", func() {
				p.handle(p.state.fileLoaded())
				So(p.Loader().Hidden(), ShouldBeTrue)
				So(p.IsMedia(), ShouldBeTrue)
				p.handle(p.state.applyProperty("pause", false))
				So(m.Container().Find("op-controls__playpause").Attr("aria-label"), ShouldEqual, "Pause")
			})
		})
	})
}

func TestFormatControls(t *testing.T) {
	Convey("FormatControls", t, func() {
		cfg := config.DefaultConfig()
		p, be := newTestPlayer(cfg)
		m, err := controls.New(p, controls.FixedPlatform{Touch: true}, loop.NewManual())
		So(err, ShouldBeNil)

		Convey("renders nothing without a bar", func() {
			So(FormatControls(p.Root()), ShouldEqual, "")
		})

		Convey("renders the bar's labels and progress", func() {
			So(m.Create(), ShouldBeNil)
			p.handle(p.state.applyProperty("duration", 120.0))
			p.handle(p.state.applyProperty("time-pos", 30.0))
			out := FormatControls(p.Root())
			So(out, ShouldContainSubstring, "Play")
			So(out, ShouldContainSubstring, "0:30 / 2:00")
			So(out, ShouldContainSubstring, "Player Settings")
			So(out, ShouldContainSubstring, assPrimary)
			So(out, ShouldNotContainSubstring, "Speed")
		})

		Convey("lists menus while the settings panel is open", func() {
			So(m.Create(), ShouldBeNil)
			p.Root().Find("op-controls__settings").Dispatch(dom.EventClick, nil)
			So(FormatControls(p.Root()), ShouldContainSubstring, "Speed: 1")
		})

		Convey("renders nothing while hidden", func() {
			So(m.Create(), ShouldBeNil)
			p.Root().AddClass(controls.ClassHidden)
			So(FormatControls(p.Root()), ShouldEqual, "")
		})

		Convey("escapes override braces in labels", func() {
			So(assEscape("a{b}c"), ShouldEqual, "a\\{b\\}c")
		})

		Convey("OSD pushes only changes", func() {
			osd := NewOSD(p, 7)
			So(osd.Flush(), ShouldBeNil)
			So(be.commands, ShouldBeEmpty)

			So(m.Create(), ShouldBeNil)
			So(osd.Flush(), ShouldBeNil)
			So(osd.Flush(), ShouldBeNil)
			So(be.commands, ShouldHaveLength, 1)
			So(be.commands[0][:3], ShouldResemble, []string{"osd-overlay", "7", "ass-events"})
			So(strings.Count(be.commands[0][3], "\n"), ShouldBeGreaterThan, 3)

			m.Destroy()
			So(osd.Flush(), ShouldBeNil)
			So(be.commands[1], ShouldResemble, []string{"osd-overlay", "7", "none", ""})
		})
	})
}

func regionOf(root *dom.Node, class string) (region, bool) {
	for _, r := range layoutControls(visibleBar(root)) {
		if r.node.HasClass(class) {
			return r, true
		}
	}
	return region{}, false
}

func TestClick(t *testing.T) {
	Convey("Pointer clicks", t, func() {
		cfg := config.DefaultConfig()
		cfg.Controls.Custom = []config.CustomControl{
			{Title: "Loop", Position: "leading", Command: []string{"cycle-values", "loop-file", "inf", "no"}},
		}
		p, be := newTestPlayer(cfg)
		m, err := controls.New(p, controls.FixedPlatform{}, loop.NewManual())
		So(err, ShouldBeNil)
		So(m.Create(), ShouldBeNil)
		p.handle(p.state.applyProperty("duration", 120.0))

		clickOn := func(class string) {
			r, ok := regionOf(p.Root(), class)
			So(ok, ShouldBeTrue)
			p.Click(r.x+r.w/2, r.y)
		}

		Convey("seek through the progress bar by fraction", func() {
			r, ok := regionOf(p.Root(), "op-controls__progress-wrapper")
			So(ok, ShouldBeTrue)
			p.Click(r.x+r.w/4, r.y)
			So(be.commands, ShouldResemble, [][]string{{"seek", "30.0", "absolute"}})
		})

		Convey("run a custom control's command", func() {
			clickOn("op-controls__loop")
			So(be.commands, ShouldResemble, [][]string{{"cycle-values", "loop-file", "inf", "no"}})
		})

		Convey("press the play and mute buttons", func() {
			clickOn("op-controls__playpause")
			clickOn("op-controls__volume-wrapper")
			So(be.commands, ShouldResemble, [][]string{{"cycle", "pause"}, {"cycle", "mute"}})
		})

		Convey("open the settings panel and step through its menus", func() {
			So(FormatControls(p.Root()), ShouldNotContainSubstring, "Speed")
			clickOn("op-controls__settings")
			So(FormatControls(p.Root()), ShouldContainSubstring, "Speed: 1")

			clickOn("op-settings__menu-item")
			So(be.set["speed"], ShouldEqual, "1.25")
			So(FormatControls(p.Root()), ShouldContainSubstring, "Speed: 1.25")
		})

		Convey("away from the bar land on the play button", func() {
			p.Click(960, 400)
			So(be.commands, ShouldResemble, [][]string{{"cycle", "pause"}})
		})

		Convey("on text without a button land on the play button", func() {
			clickOn("op-controls__time")
			So(be.commands, ShouldResemble, [][]string{{"cycle", "pause"}})
		})

		Convey("never reach a hidden bar", func() {
			r, ok := regionOf(p.Root(), "op-controls__loop")
			So(ok, ShouldBeTrue)
			p.Root().AddClass(controls.ClassHidden)
			_, _, hit := HitTest(p.Root(), r.x+r.w/2, r.y)
			So(hit, ShouldBeFalse)
			p.Click(r.x+r.w/2, r.y)
			So(be.commands, ShouldResemble, [][]string{{"cycle", "pause"}})
		})

		Convey("count as pointer activity", func() {
			moves := 0
			p.Root().AddEventListener(dom.EventMouseMove, func(*dom.Event) { moves++ })
			p.Click(960, 400)
			So(moves, ShouldEqual, 1)
		})
	})

	Convey("ToOSD scales window points into the layout space", t, func() {
		x, y := ToOSD(640, 360, 1280, 720)
		So(x, ShouldEqual, 960)
		So(y, ShouldEqual, 540)
		x, y = ToOSD(5, 6, 0, 0)
		So(x, ShouldEqual, 5)
		So(y, ShouldEqual, 6)
	})
}
