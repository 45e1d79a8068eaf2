package controls

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/depeter/couchbar/internal/dom"
	"github.com/depeter/couchbar/internal/loop"
)

func newTestManager(h *fakeHost, touch bool) (*Manager, *loop.Manual) {
	sched := loop.NewManual()
	m, err := New(h, FixedPlatform{Touch: touch}, sched)
	So(err, ShouldBeNil)
	return m, sched
}

func TestAssembly(t *testing.T) {
	Convey("Item assembly", t, func() {
		h := newFakeHost(dom.TagVideo)

		Convey("Duplicate names keep their first occurrence only", func() {
			h.opts.Layout[PositionLeading] = []string{"play", "time", "play", "volume", "time"}
			m, _ := newTestManager(h, false)
			So(m.Create(), ShouldBeNil)
			So(kindsAt(m.Items(), PositionLeading), ShouldResemble, []string{"play", "time", "volume"})
		})

		Convey("Video gets exactly one fullscreen, last in trailing", func() {
			h.opts.Layout[PositionTrailing] = []string{"fullscreen", "settings", "captions"}
			h.opts.Layout[PositionLeading] = []string{"fullscreen", "play"}
			m, _ := newTestManager(h, false)
			So(m.Create(), ShouldBeNil)
			So(kindsAt(m.Items(), PositionTrailing), ShouldResemble, []string{"settings", "captions", "fullscreen"})
			So(kindsAt(m.Items(), PositionLeading), ShouldResemble, []string{"play"})

			layer := m.Layer(PositionTrailing).Children()
			So(layer[len(layer)-1].HasClass("op-controls__fullscreen"), ShouldBeTrue)
		})

		Convey("Audio never gets fullscreen", func() {
			a := newFakeHost(dom.TagAudio)
			a.opts.Layout[PositionTrailing] = []string{"fullscreen", "settings"}
			m, _ := newTestManager(a, false)
			So(m.Create(), ShouldBeNil)
			So(kindsAt(m.Items(), PositionTrailing), ShouldResemble, []string{"settings"})
			So(m.Container().Find("op-controls__fullscreen"), ShouldBeNil)
		})

		Convey("Custom items surround the built-ins by position", func() {
			h.custom = []CustomControl{
				{Title: "Loop", Icon: "loop.svg", Position: PositionTrailing},
				{Title: "Share", Icon: "share.svg", Position: PositionLeading},
				{Title: "Chapters", Icon: "ch.svg", Position: PositionMiddle},
			}
			m, _ := newTestManager(h, false)
			So(m.Create(), ShouldBeNil)

			So(kindsAt(m.Items(), PositionTrailing), ShouldResemble,
				[]string{"custom:loop", "captions", "levels", "settings", "fullscreen"})
			So(kindsAt(m.Items(), PositionLeading), ShouldResemble,
				[]string{"play", "time", "volume", "custom:share"})
			So(kindsAt(m.Items(), PositionMiddle), ShouldResemble,
				[]string{"progress", "custom:chapters"})

			So(m.Layer(PositionTrailing).Children()[0].HasClass("op-controls__loop"), ShouldBeTrue)
			leading := m.Layer(PositionLeading).Children()
			So(leading[len(leading)-1].HasClass("op-controls__share"), ShouldBeTrue)
		})

		Convey("Settings listed in two positions is built once", func() {
			h.opts.Layout[PositionLeading] = []string{"settings", "play"}
			m, _ := newTestManager(h, false)
			So(m.Create(), ShouldBeNil)
			So(kindsAt(m.Items(), PositionLeading), ShouldResemble, []string{"settings", "play"})
			So(kindsAt(m.Items(), PositionTrailing), ShouldResemble, []string{"captions", "levels", "fullscreen"})
		})

		Convey("The registry can be read straight off the manager", func() {
			m, _ := newTestManager(h, false)
			So(m.Create(), ShouldBeNil)
			So(m.Items().Len(), ShouldEqual, 8)
			So(m.Items().Items(PositionMiddle), ShouldHaveLength, 1)
			seen := 0
			m.Items().Each(func(Item) { seen++ })
			So(seen, ShouldEqual, 8)

			m.Destroy()
			So(m.Items().Len(), ShouldEqual, 0)
		})

		Convey("Unknown names fail construction", func() {
			h.opts.Layout[PositionMiddle] = []string{"progress", "chromecast"}
			_, err := New(h, FixedPlatform{}, loop.NewManual())
			So(errors.Is(err, ErrUnknownItem), ShouldBeTrue)
		})

		Convey("Unknown names introduced later fail Create without leaving a bar", func() {
			m, _ := newTestManager(h, false)
			h.opts.Layout[PositionMiddle] = []string{"chromecast"}
			err := m.Create()
			So(errors.Is(err, ErrUnknownItem), ShouldBeTrue)
			So(m.Created(), ShouldBeFalse)
			So(h.controlsContainers(), ShouldEqual, 0)
		})
	})
}

func TestLifecycle(t *testing.T) {
	Convey("Create and Destroy", t, func() {
		h := newFakeHost(dom.TagVideo)
		m, sched := newTestManager(h, false)

		Convey("Create attaches the bar, disables native controls and starts hidden", func() {
			changed := 0
			h.root.AddEventListener(dom.EventControlsChanged, func(*dom.Event) { changed++ })

			So(m.Create(), ShouldBeNil)
			So(h.controlsContainers(), ShouldEqual, 1)
			So(h.media.HasAttr("controls"), ShouldBeFalse)
			So(h.root.HasClass(ClassHidden), ShouldBeTrue)
			So(sched.Pending(), ShouldEqual, 1)
			So(changed, ShouldEqual, 1)
		})

		Convey("Destroy leaves no listeners, timers or nodes behind", func() {
			So(m.Create(), ShouldBeNil)
			m.Destroy()

			So(h.media.TotalListeners(), ShouldEqual, 0)
			So(h.root.TotalListeners(), ShouldEqual, 0)
			So(sched.Pending(), ShouldEqual, 0)
			So(h.controlsContainers(), ShouldEqual, 0)
			So(m.Container(), ShouldBeNil)

			hidden := 0
			h.media.AddEventListener(dom.EventControlsHidden, func(*dom.Event) { hidden++ })
			h.root.RemoveClass(ClassHidden)
			h.root.Dispatch(dom.EventMouseEnter, nil)
			h.media.Dispatch(dom.EventPlay, nil)
			sched.Advance(10 * time.Second)
			So(hidden, ShouldEqual, 0)
			So(h.root.HasClass(ClassHidden), ShouldBeFalse)
		})

		Convey("Destroy twice is harmless", func() {
			So(m.Create(), ShouldBeNil)
			m.Destroy()
			m.Destroy()
			So(m.Created(), ShouldBeFalse)
		})

		Convey("Repeated cycles do not accumulate listeners", func() {
			So(m.Create(), ShouldBeNil)
			mediaListeners := h.media.TotalListeners()
			rootListeners := h.root.TotalListeners()
			for i := 0; i < 5; i++ {
				m.Destroy()
				So(m.Create(), ShouldBeNil)
			}
			So(h.media.TotalListeners(), ShouldEqual, mediaListeners)
			So(h.root.TotalListeners(), ShouldEqual, rootListeners)
			So(h.root.ListenerCount(dom.EventMouseMove), ShouldEqual, 1)
			So(sched.Pending(), ShouldEqual, 1)
		})

		Convey("controlschanged on the media rebuilds in place", func() {
			So(m.Create(), ShouldBeNil)
			old := m.Container()
			mediaListeners := h.media.TotalListeners()

			h.custom = append(h.custom, CustomControl{Title: "Skip Intro", Position: PositionMiddle})
			h.media.Dispatch(dom.EventControlsChanged, nil)

			So(m.Container(), ShouldNotEqual, old)
			So(old.Parent(), ShouldBeNil)
			So(h.controlsContainers(), ShouldEqual, 1)
			So(m.Container().Find("op-controls__skip-intro"), ShouldNotBeNil)
			So(h.media.TotalListeners(), ShouldEqual, mediaListeners)
			So(h.media.ListenerCount(dom.EventControlsChanged), ShouldEqual, 1)
			So(sched.Pending(), ShouldEqual, 1)
		})

		Convey("A failing rebuild leaves nothing bound", func() {
			So(m.Create(), ShouldBeNil)
			h.opts.Layout[PositionLeading] = []string{"cast"}
			h.media.Dispatch(dom.EventControlsChanged, nil)
			So(m.Created(), ShouldBeFalse)
			So(h.media.TotalListeners(), ShouldEqual, 0)
			So(h.root.TotalListeners(), ShouldEqual, 0)
		})

		Convey("ended reveals the bar", func() {
			So(m.Create(), ShouldBeNil)
			So(h.root.HasClass(ClassHidden), ShouldBeTrue)
			h.media.Dispatch(dom.EventEnded, nil)
			So(h.root.HasClass(ClassHidden), ShouldBeFalse)
		})
	})

	Convey("Touch platforms", t, func() {
		h := newFakeHost(dom.TagVideo)
		m, sched := newTestManager(h, true)
		So(m.Create(), ShouldBeNil)

		Convey("keep the bar visible with no pointer wiring or timer", func() {
			So(h.root.HasClass(ClassHidden), ShouldBeFalse)
			So(h.root.TotalListeners(), ShouldEqual, 0)
			So(sched.Pending(), ShouldEqual, 0)
			sched.Advance(time.Minute)
			So(h.root.HasClass(ClassHidden), ShouldBeFalse)
		})

		Convey("still handle structural events", func() {
			So(h.media.ListenerCount(dom.EventControlsChanged), ShouldEqual, 1)
			m.Destroy()
			So(h.media.TotalListeners(), ShouldEqual, 0)
		})
	})
}

func TestAutoHide(t *testing.T) {
	Convey("Auto-hide", t, func() {
		h := newFakeHost(dom.TagVideo)
		m, sched := newTestManager(h, false)
		hidden := 0
		h.media.AddEventListener(dom.EventControlsHidden, func(*dom.Event) { hidden++ })
		So(m.Create(), ShouldBeNil)

		Convey("The first expiry hides the bar but not the play button", func() {
			h.playBtn.SetHidden(false)
			sched.Advance(2999 * time.Millisecond)
			So(hidden, ShouldEqual, 0)
			sched.Advance(time.Millisecond)
			So(hidden, ShouldEqual, 1)
			So(h.root.HasClass(ClassHidden), ShouldBeTrue)
			So(h.playBtn.Hidden(), ShouldBeFalse)

			Convey("and later expiries hide both", func() {
				h.state.CurrentTime = 12
				h.root.Dispatch(dom.EventMouseMove, nil)
				So(h.root.HasClass(ClassHidden), ShouldBeFalse)
				So(h.playBtn.Hidden(), ShouldBeFalse)
				So(h.loader.Hidden(), ShouldBeTrue)

				sched.Advance(2500 * time.Millisecond)
				So(hidden, ShouldEqual, 2)
				So(h.root.HasClass(ClassHidden), ShouldBeTrue)
				So(h.playBtn.Hidden(), ShouldBeTrue)
			})
		})

		Convey("A new countdown replaces the pending one", func() {
			h.root.Dispatch(dom.EventMouseEnter, nil)
			So(h.root.HasClass(ClassHidden), ShouldBeFalse)
			sched.Advance(1000 * time.Millisecond)
			h.root.Dispatch(dom.EventMouseLeave, nil)
			So(sched.Pending(), ShouldEqual, 1)

			sched.Advance(999 * time.Millisecond)
			So(h.root.HasClass(ClassHidden), ShouldBeFalse)
			So(hidden, ShouldEqual, 0)

			sched.Advance(time.Millisecond)
			So(sched.Now(), ShouldEqual, 2000*time.Millisecond)
			So(h.root.HasClass(ClassHidden), ShouldBeTrue)
			So(hidden, ShouldEqual, 1)

			sched.Advance(5 * time.Second)
			So(hidden, ShouldEqual, 1)
			So(sched.Pending(), ShouldEqual, 0)
		})

		Convey("Pointer activity on paused media changes nothing", func() {
			h.state.Paused = true
			h.root.Dispatch(dom.EventMouseMove, nil)
			So(h.root.HasClass(ClassHidden), ShouldBeTrue)
		})

		Convey("Pointer activity without media changes nothing", func() {
			h.hasMedia = false
			h.root.Dispatch(dom.EventMouseEnter, nil)
			So(h.root.HasClass(ClassHidden), ShouldBeTrue)
		})

		Convey("Before playback starts the loader is shown when configured", func() {
			h.opts.ShowLoaderOnInit = true
			h.root.Dispatch(dom.EventMouseMove, nil)
			So(h.playBtn.Hidden(), ShouldBeTrue)
			So(h.loader.Hidden(), ShouldBeFalse)
		})

		Convey("pause reveals and cancels the countdown", func() {
			h.media.Dispatch(dom.EventPause, nil)
			So(h.root.HasClass(ClassHidden), ShouldBeFalse)
			So(sched.Pending(), ShouldEqual, 0)
		})

		Convey("play uses the configured hide delay", func() {
			h.media.Dispatch(dom.EventPause, nil)
			h.media.Dispatch(dom.EventPlay, nil)
			sched.Advance(349 * time.Millisecond)
			So(h.root.HasClass(ClassHidden), ShouldBeFalse)
			sched.Advance(time.Millisecond)
			So(h.root.HasClass(ClassHidden), ShouldBeTrue)
		})

		Convey("A paused video that has not ended still hides on expiry", func() {
			h.state.Paused = true
			sched.Advance(3 * time.Second)
			So(hidden, ShouldEqual, 1)
		})

		Convey("A paused and ended video does not hide", func() {
			h.state.Paused = true
			h.state.Ended = true
			h.root.RemoveClass(ClassHidden)
			sched.Advance(3 * time.Second)
			So(hidden, ShouldEqual, 0)
			So(h.root.HasClass(ClassHidden), ShouldBeFalse)
		})

		Convey("stopTimer without a pending timer is a no-op", func() {
			st := m.state
			m.stopTimer(st)
			m.stopTimer(st)
			So(st.timer, ShouldBeNil)
			So(sched.Pending(), ShouldEqual, 0)
			So(h.root.HasClass(ClassHidden), ShouldBeTrue)
		})
	})

	Convey("Audio elements never auto-hide", t, func() {
		h := newFakeHost(dom.TagAudio)
		m, sched := newTestManager(h, false)
		So(m.Create(), ShouldBeNil)
		h.root.RemoveClass(ClassHidden)

		h.media.Dispatch(dom.EventPlay, nil)
		h.root.Dispatch(dom.EventMouseMove, nil)
		sched.Advance(10 * time.Second)
		So(h.root.HasClass(ClassHidden), ShouldBeFalse)
	})
}
