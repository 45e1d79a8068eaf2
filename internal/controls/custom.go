package controls

import (
	"strings"

	"github.com/depeter/couchbar/internal/dom"
)

// CustomKey derives the lookup key of a custom control from its title:
// lower-cased, with the first space replaced by a dash. Later spaces are
// kept, so "A B C" becomes "a-b c".
func CustomKey(title string) string {
	return strings.Replace(strings.ToLower(title), " ", "-", 1)
}

func customClass(key string) string {
	return "op-controls__" + key
}

// createCustomControl renders a custom button into its position's layer.
func (m *Manager) createCustomControl(st *State, it *CustomItem) {
	c := it.Control
	key := CustomKey(c.Title)

	btn := dom.NewNode(dom.TagButton,
		"op-controls__custom",
		"op-control__"+c.Position.String(),
		customClass(key),
	)
	btn.SetAttr("tabindex", "0")
	btn.SetAttr("title", c.Title)
	btn.SetAttr("aria-label", c.Title)
	btn.SetAttr("data-key", key)

	icon := dom.NewNode(dom.TagImg, "op-controls__custom-icon")
	icon.SetAttr("src", c.Icon)
	icon.SetAttr("alt", "")
	btn.AppendChild(icon)

	label := dom.NewNode(dom.TagSpan, "op-sr")
	label.SetText(c.Title)
	btn.AppendChild(label)

	click := c.Click
	it.click = btn.AddEventListener(dom.EventClick, func(*dom.Event) {
		if click != nil {
			click()
		}
	})
	st.layers[c.Position].AppendChild(btn)
}

// destroyCustomControl finds the button by key, unbinds it and removes it.
// A button that is already gone is ignored.
func (m *Manager) destroyCustomControl(st *State, it *CustomItem) {
	btn := st.container.Find(customClass(CustomKey(it.Control.Title)))
	if btn == nil {
		return
	}
	btn.RemoveEventListener(it.click)
	it.click = dom.ListenerID{}
	btn.Remove()
}
