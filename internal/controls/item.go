package controls

import (
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/depeter/couchbar/internal/dom"
)

// Element is the lifecycle of a built-in control.
type Element interface {
	Create()
	Destroy()
}

// SettingsProvider is implemented by elements that contribute a menu to
// the settings panel.
type SettingsProvider interface {
	AddSettings() mo.Option[MenuDescriptor]
}

// MenuSubitem is one choice of a settings menu.
type MenuSubitem struct {
	Key   string
	Label string
}

// MenuDescriptor is the menu an element contributes to the settings panel.
type MenuDescriptor struct {
	Name      string
	Key       string
	Default   string
	Subitems  []MenuSubitem
	ClassName string
}

func (d MenuDescriptor) IsEmpty() bool {
	return d.Key == "" && len(d.Subitems) == 0
}

// Item is an entry of the position registry: a *BuiltinItem or a
// *CustomItem.
type Item interface {
	Position() Position
	item()
}

// BuiltinItem is a control implemented by this package.
type BuiltinItem struct {
	Kind    Kind
	Element Element
	pos     Position
}

func (b *BuiltinItem) Position() Position { return b.pos }
func (*BuiltinItem) item()                {}

// CustomControl is a host-supplied button. It has no lifecycle of its own;
// the manager renders it.
type CustomControl struct {
	Title    string
	Icon     string
	Position Position
	Click    func()
}

// CustomItem wraps a CustomControl for one build.
type CustomItem struct {
	Control CustomControl
	click   dom.ListenerID
}

func (c *CustomItem) Position() Position { return c.Control.Position }
func (*CustomItem) item()                {}

// itemEnv is what a built-in element is bound to.
type itemEnv struct {
	host  Host
	layer *dom.Node
	pos   Position
	log   *logrus.Entry
}

// controlClass is the position-scoped class every control carries.
func (e itemEnv) controlClass() string {
	return "op-control__" + e.pos.String()
}

func (e itemEnv) report(action string, err error) {
	if err != nil {
		e.log.WithError(err).WithField("action", action).Warn("control action failed")
	}
}

func newElement(kind Kind, env itemEnv) Element {
	switch kind {
	case KindCaptions:
		return newCaptions(env)
	case KindFullscreen:
		return newFullscreen(env)
	case KindLevels:
		return newLevels(env)
	case KindPlay:
		return newPlay(env)
	case KindProgress:
		return newProgress(env)
	case KindSettings:
		return newSettings(env)
	case KindTime:
		return newTime(env)
	case KindVolume:
		return newVolume(env)
	}
	panic("controls: no element for " + kind.String())
}
