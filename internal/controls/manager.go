// Package controls builds, wires and tears down the control bar overlay of
// a media player and hides it during uninterrupted playback.
package controls

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/depeter/couchbar/internal/dom"
	"github.com/depeter/couchbar/internal/logging"
	"github.com/depeter/couchbar/internal/loop"
)

// CSS-level classes the bar applies.
const (
	ClassControls    = "op-controls"
	ClassHidden      = "op-controls--hidden"
	ClassLayerPrefix = "op-controls-layer__"
)

// Auto-hide delays.
const (
	initialHideDelay = 3000 * time.Millisecond
	pointerHideDelay = 2500 * time.Millisecond
	leaveHideDelay   = 1000 * time.Millisecond
)

// State is everything one build owns. Create makes a fresh State and
// Destroy releases all of it; nothing survives into the next build.
type State struct {
	container *dom.Node
	layers    [positionCount]*dom.Node
	items     Registry
	settings  *Settings

	touch       bool
	structural  []binding
	interaction []binding

	timer     loop.Timer // nil when no hide is pending
	firstLoad bool
}

// Manager orchestrates the control bar of one player.
type Manager struct {
	host     Host
	platform Platform
	sched    loop.Scheduler
	log      *logrus.Entry

	state *State
}

// New binds a manager to host. The configured layout is checked up front:
// an unknown item name is a construction fault.
func New(host Host, platform Platform, sched loop.Scheduler) (*Manager, error) {
	for pos, names := range host.Options().Layout {
		for _, name := range names {
			if _, err := ParseKind(name); err != nil {
				return nil, fmt.Errorf("%s controls: %w", pos, err)
			}
		}
	}
	return &Manager{
		host:     host,
		platform: platform,
		sched:    sched,
		log:      logging.For("controls"),
	}, nil
}

// Container returns the bar node of the current build, or nil.
func (m *Manager) Container() *dom.Node {
	if m.state == nil {
		return nil
	}
	return m.state.container
}

// Layer returns the node that holds the controls of pos, or nil.
func (m *Manager) Layer(pos Position) *dom.Node {
	if m.state == nil {
		return nil
	}
	return m.state.layers[pos]
}

// Items returns the registry of the current build.
func (m *Manager) Items() Registry {
	if m.state == nil {
		return Registry{}
	}
	return m.state.items
}

// Settings returns the settings element of the current build, if any.
func (m *Manager) Settings() *Settings {
	if m.state == nil {
		return nil
	}
	return m.state.settings
}

// Created reports whether a build is live.
func (m *Manager) Created() bool { return m.state != nil }

// Create builds the bar and wires its events. A live build is destroyed
// first.
func (m *Manager) Create() error {
	if m.state != nil {
		m.log.Debug("create on a live build, destroying it first")
		m.Destroy()
	}

	media := m.host.Element()
	root := m.host.Root()
	st := &State{
		firstLoad: true,
		touch:     m.platform.IsTouch(),
	}

	media.RemoveAttr("controls")

	st.container = dom.NewNode(dom.TagDiv, ClassControls)
	for _, pos := range Positions {
		layer := dom.NewNode(dom.TagDiv, ClassLayerPrefix+pos.String())
		st.layers[pos] = layer
		st.container.AppendChild(layer)
	}
	root.AppendChild(st.container)
	m.state = st

	if err := m.setElements(st); err != nil {
		st.container.Remove()
		m.state = nil
		return err
	}
	m.buildElements(st)

	st.structural = []binding{
		on(media, dom.EventControlsChanged, func(*dom.Event) { m.rebuild() }),
		on(media, dom.EventEnded, func(*dom.Event) { root.RemoveClass(ClassHidden) }),
	}
	bindAll(st.structural)

	if !st.touch {
		st.interaction = m.interactionBindings(st)
		bindAll(st.interaction)
		m.startTimer(st, initialHideDelay)
		root.AddClass(ClassHidden)
	}

	m.log.WithFields(logrus.Fields{
		"items": st.items.Len(),
		"touch": st.touch,
	}).Debug("controls created")
	return nil
}

// Destroy unbinds every handler, cancels the hide timer, destroys every
// item and detaches the bar. Calling it without a live build does nothing.
func (m *Manager) Destroy() {
	st := m.state
	if st == nil {
		return
	}
	m.state = nil

	unbindAll(st.interaction)
	m.stopTimer(st)
	unbindAll(st.structural)

	st.items.Each(func(it Item) {
		switch it := it.(type) {
		case *CustomItem:
			m.destroyCustomControl(st, it)
		case *BuiltinItem:
			it.Element.Destroy()
		}
	})
	st.container.Remove()
}

// rebuild runs on the controlschanged signal. Destroy completes before
// Create starts, so no handler or timer of the old build survives.
func (m *Manager) rebuild() {
	m.Destroy()
	if err := m.Create(); err != nil {
		m.log.WithError(err).Error("rebuild controls")
	}
}

// setElements fills the registry from the layout and the host's custom
// controls.
func (m *Manager) setElements(st *State) error {
	opts := m.host.Options()

	for _, pos := range Positions {
		for _, name := range lo.Uniq(opts.Layout[pos]) {
			kind, err := ParseKind(name)
			if err != nil {
				return fmt.Errorf("%s controls: %w", pos, err)
			}
			// Fullscreen is appended below, after everything else.
			if kind == KindFullscreen {
				continue
			}
			if kind == KindSettings && st.settings != nil {
				m.log.WithField("position", pos).Warn("settings listed twice, keeping the first")
				continue
			}
			el := newElement(kind, m.env(st, pos))
			if s, ok := el.(*Settings); ok {
				st.settings = s
			}
			st.items.Append(pos, &BuiltinItem{Kind: kind, Element: el, pos: pos})
		}
	}

	for _, c := range m.host.CustomControls() {
		it := &CustomItem{Control: c}
		if c.Position == PositionTrailing {
			st.items.Prepend(PositionTrailing, it)
		} else {
			st.items.Append(c.Position, it)
		}
	}

	if isVideo(m.host.Element()) {
		st.items.Append(PositionTrailing, &BuiltinItem{
			Kind:    KindFullscreen,
			Element: newElement(KindFullscreen, m.env(st, PositionTrailing)),
			pos:     PositionTrailing,
		})
	}
	return nil
}

// buildElements creates every item, then collects settings menus once all
// items (and so the settings element) exist, then announces the build.
func (m *Manager) buildElements(st *State) {
	st.items.Each(func(it Item) {
		switch it := it.(type) {
		case *CustomItem:
			m.createCustomControl(st, it)
		case *BuiltinItem:
			it.Element.Create()
		}
	})

	if st.settings != nil {
		detach := m.host.Options().DetachMenus
		st.items.Each(func(it Item) {
			b, ok := it.(*BuiltinItem)
			if !ok {
				return
			}
			provider, ok := b.Element.(SettingsProvider)
			if !ok {
				return
			}
			if detach && b.Kind != KindSettings {
				return
			}
			if desc, ok := provider.AddSettings().Get(); ok && !desc.IsEmpty() {
				st.settings.AddMenu(desc)
			}
		})
	}

	// Bubbles so the host can observe rebuilds on its root node.
	st.container.Bubble(dom.EventControlsChanged, nil)
}

func (m *Manager) env(st *State, pos Position) itemEnv {
	return itemEnv{
		host:  m.host,
		layer: st.layers[pos],
		pos:   pos,
		log:   m.log.WithField("position", pos.String()),
	}
}
