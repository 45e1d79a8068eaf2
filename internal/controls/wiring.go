package controls

import (
	"time"

	"github.com/depeter/couchbar/internal/dom"
)

// interactionBindings returns the pointer and media handlers that drive
// auto-hide. They are only installed on non-touch platforms.
func (m *Manager) interactionBindings(st *State) []binding {
	root := m.host.Root()
	media := m.host.Element()

	reveal := func() {
		m.syncIndicators()
		root.RemoveClass(ClassHidden)
		m.startTimer(st, pointerHideDelay)
	}

	return []binding{
		on(root, dom.EventMouseEnter, func(*dom.Event) {
			if !m.interactive() {
				return
			}
			m.stopTimer(st)
			reveal()
		}),
		on(root, dom.EventMouseMove, func(*dom.Event) {
			if !m.interactive() {
				return
			}
			reveal()
		}),
		on(root, dom.EventMouseLeave, func(*dom.Event) {
			if !m.interactive() {
				return
			}
			m.startTimer(st, leaveHideDelay)
		}),
		on(media, dom.EventPlay, func(*dom.Event) {
			if isVideo(media) {
				m.startTimer(st, m.host.Options().HidePlayBtnTimer)
			}
		}),
		on(media, dom.EventPause, func(*dom.Event) {
			root.RemoveClass(ClassHidden)
			m.stopTimer(st)
		}),
	}
}

// interactive reports whether pointer activity may change visibility:
// a video, with active media, that is not paused.
func (m *Manager) interactive() bool {
	return isVideo(m.host.Element()) && m.host.IsMedia() && !m.host.Active().Paused
}

// syncIndicators shows the play button once playback has progressed, or
// the loader before that when the player is configured to show it.
func (m *Manager) syncIndicators() {
	playBtn, loader := m.host.PlayButton(), m.host.Loader()
	if m.host.Active().CurrentTime != 0 {
		setHidden(playBtn, !m.host.IsMedia())
		setHidden(loader, true)
	} else if m.host.Options().ShowLoaderOnInit {
		setHidden(playBtn, true)
		setHidden(loader, false)
	}
}

// startTimer replaces any pending hide with a new one due after d.
func (m *Manager) startTimer(st *State, d time.Duration) {
	m.stopTimer(st)
	st.timer = m.sched.AfterFunc(d, func() { m.onHideTimeout(st) })
}

// stopTimer cancels the pending hide, if any.
func (m *Manager) stopTimer(st *State) {
	if st.timer == nil {
		return
	}
	st.timer.Stop()
	st.timer = nil
}

// onHideTimeout hides the bar. The first expiry after a build leaves the
// play button alone.
func (m *Manager) onHideTimeout(st *State) {
	st.timer = nil

	media := m.host.Element()
	active := m.host.Active()
	// Kept as (!paused || !ended): a paused video that has not ended still
	// hides. See DESIGN.md.
	if (!active.Paused || !active.Ended) && isVideo(media) {
		m.host.Root().AddClass(ClassHidden)
		if !st.firstLoad {
			setHidden(m.host.PlayButton(), true)
		}
		st.firstLoad = false
		media.Dispatch(dom.EventControlsHidden, nil)
	}
}

func setHidden(n *dom.Node, hidden bool) {
	if n != nil {
		n.SetHidden(hidden)
	}
}
