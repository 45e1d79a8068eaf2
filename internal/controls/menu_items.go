package controls

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/depeter/couchbar/internal/dom"
)

// Menu keys understood by Settings.Select.
const (
	MenuSpeed    = "speed"
	MenuCaptions = "captions"
	MenuLevels   = "levels"
)

var speeds = []string{"0.25", "0.5", "0.75", "1", "1.25", "1.5", "2"}

// Captions toggles subtitles and contributes the subtitle menu.
type Captions struct {
	env    itemEnv
	button *dom.Node
	events []binding
}

func newCaptions(env itemEnv) *Captions { return &Captions{env: env} }

func (c *Captions) Create() {
	c.button = dom.NewNode(dom.TagButton, "op-controls__captions", c.env.controlClass())
	c.button.SetAttr("tabindex", "0")
	c.button.SetAttr("aria-label", "Toggle Captions")

	c.events = []binding{
		on(c.button, dom.EventClick, func(*dom.Event) { c.toggle() }),
		on(c.env.host.Element(), dom.EventLoadedMetadata, func(*dom.Event) { c.render() }),
	}
	bindAll(c.events)

	c.render()
	c.env.layer.AppendChild(c.button)
}

// toggle turns subtitles off, or on with the first track.
func (c *Captions) toggle() {
	tracks := c.env.host.SubtitleTracks()
	if len(tracks) == 0 {
		return
	}
	id := tracks[0].ID
	if lo.ContainsBy(tracks, func(t Track) bool { return t.Selected }) {
		id = 0
	}
	c.env.report("select subtitle", c.env.host.SelectSubtitle(id))
	c.render()
}

func (c *Captions) render() {
	tracks := c.env.host.SubtitleTracks()
	c.button.SetHidden(len(tracks) == 0)
	c.button.ToggleClass("op-controls__captions--on", lo.ContainsBy(tracks, func(t Track) bool { return t.Selected }))
}

func (c *Captions) AddSettings() mo.Option[MenuDescriptor] {
	tracks := c.env.host.SubtitleTracks()
	if len(tracks) == 0 {
		return mo.None[MenuDescriptor]()
	}
	desc := MenuDescriptor{
		Name:      "Subtitles/CC",
		Key:       MenuCaptions,
		Default:   "off",
		Subitems:  []MenuSubitem{{Key: "off", Label: "Off"}},
		ClassName: "op-subtitles__option",
	}
	for _, t := range tracks {
		key := strconv.Itoa(t.ID)
		desc.Subitems = append(desc.Subitems, MenuSubitem{Key: key, Label: t.Label})
		if t.Selected {
			desc.Default = key
		}
	}
	return mo.Some(desc)
}

func (c *Captions) Destroy() {
	unbindAll(c.events)
	c.events = nil
	if c.button != nil {
		c.button.Remove()
		c.button = nil
	}
}

// Levels cycles quality levels and contributes the quality menu.
type Levels struct {
	env    itemEnv
	button *dom.Node
	events []binding
}

func newLevels(env itemEnv) *Levels { return &Levels{env: env} }

func (l *Levels) Create() {
	l.button = dom.NewNode(dom.TagButton, "op-controls__levels", l.env.controlClass())
	l.button.SetAttr("tabindex", "0")
	l.button.SetAttr("aria-label", "Quality")

	l.events = []binding{
		on(l.button, dom.EventClick, func(*dom.Event) { l.next() }),
		on(l.env.host.Element(), dom.EventLoadedMetadata, func(*dom.Event) { l.render() }),
	}
	bindAll(l.events)

	l.render()
	l.env.layer.AppendChild(l.button)
}

// next selects the level after the current one; past the last it goes back
// to automatic selection.
func (l *Levels) next() {
	levels := l.env.host.Levels()
	if len(levels) == 0 {
		return
	}
	_, idx, found := lo.FindIndexOf(levels, func(lv Level) bool { return lv.Selected })
	id := levels[0].ID
	if found {
		id = 0
		if idx+1 < len(levels) {
			id = levels[idx+1].ID
		}
	}
	l.env.report("select level", l.env.host.SelectLevel(id))
	l.render()
}

func (l *Levels) render() {
	levels := l.env.host.Levels()
	l.button.SetHidden(len(levels) == 0)
	label := "Auto"
	if lv, ok := lo.Find(levels, func(lv Level) bool { return lv.Selected }); ok {
		label = lv.Label
	}
	l.button.SetText(label)
}

func (l *Levels) AddSettings() mo.Option[MenuDescriptor] {
	levels := l.env.host.Levels()
	if len(levels) == 0 {
		return mo.None[MenuDescriptor]()
	}
	desc := MenuDescriptor{
		Name:      "Quality",
		Key:       MenuLevels,
		Default:   "0",
		Subitems:  []MenuSubitem{{Key: "0", Label: "Auto"}},
		ClassName: "op-levels__option",
	}
	for _, lv := range levels {
		key := strconv.Itoa(lv.ID)
		desc.Subitems = append(desc.Subitems, MenuSubitem{Key: key, Label: lv.Label})
		if lv.Selected {
			desc.Default = key
		}
	}
	return mo.Some(desc)
}

func (l *Levels) Destroy() {
	unbindAll(l.events)
	l.events = nil
	if l.button != nil {
		l.button.Remove()
		l.button = nil
	}
}

// Settings is the settings button and panel. Other items register their
// menus into it during a build.
type Settings struct {
	env    itemEnv
	button *dom.Node
	panel  *dom.Node
	menus  []MenuDescriptor
	events []binding
}

func newSettings(env itemEnv) *Settings { return &Settings{env: env} }

func (s *Settings) Create() {
	s.button = dom.NewNode(dom.TagButton, "op-controls__settings", s.env.controlClass())
	s.button.SetAttr("tabindex", "0")
	s.button.SetAttr("aria-label", "Player Settings")

	s.panel = dom.NewNode(dom.TagDiv, "op-settings")
	s.panel.SetHidden(true)

	s.events = []binding{
		on(s.button, dom.EventClick, func(*dom.Event) { s.panel.SetHidden(!s.panel.Hidden()) }),
		on(s.env.host.Element(), dom.EventControlsHidden, func(*dom.Event) { s.panel.SetHidden(true) }),
	}
	bindAll(s.events)

	s.env.layer.AppendChild(s.button)
	s.env.layer.AppendChild(s.panel)
}

func (s *Settings) AddSettings() mo.Option[MenuDescriptor] {
	desc := MenuDescriptor{
		Name:      "Speed",
		Key:       MenuSpeed,
		Default:   "1",
		ClassName: "op-speed__option",
	}
	for _, sp := range speeds {
		label := sp + "x"
		if sp == "1" {
			label = "Normal"
		}
		desc.Subitems = append(desc.Subitems, MenuSubitem{Key: sp, Label: label})
	}
	if rate := s.env.host.Active().Speed; rate > 0 {
		desc.Default = nearestSpeed(rate)
	}
	return mo.Some(desc)
}

// nearestSpeed maps a playback rate onto the closest menu entry.
func nearestSpeed(rate float64) string {
	return lo.MinBy(speeds, func(a, b string) bool {
		fa, _ := strconv.ParseFloat(a, 64)
		fb, _ := strconv.ParseFloat(b, 64)
		return math.Abs(fa-rate) < math.Abs(fb-rate)
	})
}

// AddMenu registers a menu and renders its entry into the panel.
func (s *Settings) AddMenu(desc MenuDescriptor) {
	s.menus = append(s.menus, desc)
	if s.panel == nil {
		return
	}
	entry := dom.NewNode(dom.TagDiv, "op-settings__menu-item", desc.ClassName)
	entry.SetAttr("data-key", desc.Key)
	entry.SetAttr("data-value", desc.Default)
	entry.SetText(desc.Name)
	s.panel.AppendChild(entry)

	key := desc.Key
	s.events = append(s.events, on(entry, dom.EventClick, func(*dom.Event) {
		s.env.report("settings "+key, s.Next(key))
	}))
	bindAll(s.events)
}

// Menus returns the registered menus in registration order.
func (s *Settings) Menus() []MenuDescriptor {
	return slices.Clone(s.menus)
}

// Next selects the option after the current one in menu key, wrapping
// around at the end.
func (s *Settings) Next(key string) error {
	i := slices.IndexFunc(s.menus, func(d MenuDescriptor) bool { return d.Key == key })
	if i < 0 {
		return fmt.Errorf("no %q menu", key)
	}
	subs := s.menus[i].Subitems
	if len(subs) == 0 {
		return nil
	}
	cur := slices.IndexFunc(subs, func(it MenuSubitem) bool { return it.Key == s.menus[i].Default })
	return s.Select(key, subs[(cur+1)%len(subs)].Key)
}

// Select applies a menu choice through the host.
func (s *Settings) Select(key, value string) error {
	i := slices.IndexFunc(s.menus, func(d MenuDescriptor) bool { return d.Key == key })
	if i < 0 {
		return fmt.Errorf("no %q menu", key)
	}
	if !lo.ContainsBy(s.menus[i].Subitems, func(it MenuSubitem) bool { return it.Key == value }) {
		return fmt.Errorf("menu %q has no option %q", key, value)
	}

	var err error
	switch key {
	case MenuSpeed:
		var rate float64
		rate, err = strconv.ParseFloat(value, 64)
		if err == nil {
			err = s.env.host.SetSpeed(rate)
		}
	case MenuCaptions:
		id := 0
		if value != "off" {
			id, err = strconv.Atoi(value)
		}
		if err == nil {
			err = s.env.host.SelectSubtitle(id)
		}
	case MenuLevels:
		var id int
		id, err = strconv.Atoi(value)
		if err == nil {
			err = s.env.host.SelectLevel(id)
		}
	default:
		return fmt.Errorf("menu %q is not selectable", key)
	}
	if err != nil {
		return fmt.Errorf("select %s=%s: %w", key, value, err)
	}

	s.menus[i].Default = value
	if s.panel != nil {
		for _, n := range s.panel.Children() {
			if n.Attr("data-key") == key {
				n.SetAttr("data-value", value)
			}
		}
	}
	return nil
}

func (s *Settings) Destroy() {
	unbindAll(s.events)
	s.events = nil
	s.menus = nil
	if s.button != nil {
		s.button.Remove()
		s.panel.Remove()
		s.button, s.panel = nil, nil
	}
}
