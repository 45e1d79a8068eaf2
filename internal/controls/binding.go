package controls

import "github.com/depeter/couchbar/internal/dom"

// binding is one (target, event, handler) registration. A list of bindings
// is built once and used for both bind and unbind, so the two sets can
// never differ.
type binding struct {
	target  *dom.Node
	event   string
	handler dom.Handler
	id      dom.ListenerID
}

func on(target *dom.Node, event string, handler dom.Handler) binding {
	return binding{target: target, event: event, handler: handler}
}

// bindAll registers every binding that is not already registered.
func bindAll(bs []binding) {
	for i := range bs {
		b := &bs[i]
		if b.id.Valid() || b.target == nil {
			continue
		}
		b.id = b.target.AddEventListener(b.event, b.handler)
	}
}

// unbindAll removes every registered binding.
func unbindAll(bs []binding) {
	for i := range bs {
		b := &bs[i]
		if !b.id.Valid() {
			continue
		}
		b.target.RemoveEventListener(b.id)
		b.id = dom.ListenerID{}
	}
}
