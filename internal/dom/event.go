package dom

// Event names shared between the host player and the control bar.
const (
	EventPlay             = "play"
	EventPause            = "pause"
	EventEnded            = "ended"
	EventTimeUpdate       = "timeupdate"
	EventDurationChange   = "durationchange"
	EventVolumeChange     = "volumechange"
	EventLoadedMetadata   = "loadedmetadata"
	EventControlsChanged  = "controlschanged"
	EventControlsHidden   = "controlshidden"
	EventMouseEnter       = "mouseenter"
	EventMouseMove        = "mousemove"
	EventMouseLeave       = "mouseleave"
	EventClick            = "click"
	EventFullscreenChange = "fullscreenchange"
)

// Event is delivered by Dispatch to one node, or by Bubble to a node and
// its ancestors.
type Event struct {
	Type   string
	Target *Node
	Detail any
}

// Handler receives dispatched events.
type Handler func(ev *Event)

// ListenerID identifies one registration so it can be removed later.
// The zero value refers to nothing.
type ListenerID struct {
	event string
	id    uint64
}

// Valid reports whether the id came from AddEventListener.
func (l ListenerID) Valid() bool { return l.id != 0 }

type listener struct {
	id uint64
	fn Handler
}

// AddEventListener registers fn for event and returns its id.
func (n *Node) AddEventListener(event string, fn Handler) ListenerID {
	if n.listeners == nil {
		n.listeners = make(map[string][]listener)
	}
	n.nextID++
	n.listeners[event] = append(n.listeners[event], listener{id: n.nextID, fn: fn})
	return ListenerID{event: event, id: n.nextID}
}

// RemoveEventListener removes a registration. Unknown or already removed ids
// are ignored.
func (n *Node) RemoveEventListener(id ListenerID) {
	ls := n.listeners[id.event]
	for i, l := range ls {
		if l.id == id.id {
			n.listeners[id.event] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(n.listeners[id.event]) == 0 {
		delete(n.listeners, id.event)
	}
}

// ListenerCount returns the number of listeners registered for event.
func (n *Node) ListenerCount(event string) int {
	return len(n.listeners[event])
}

// TotalListeners returns the number of listeners across all events.
func (n *Node) TotalListeners() int {
	total := 0
	for _, ls := range n.listeners {
		total += len(ls)
	}
	return total
}

// Dispatch delivers an event of the given type to n's listeners. The
// listener set is captured before delivery: listeners added by a handler
// are not called for this event, listeners removed by a handler are skipped.
func (n *Node) Dispatch(event string, detail any) {
	n.deliver(&Event{Type: event, Target: n, Detail: detail})
}

// Bubble dispatches the event on n and then on each ancestor up to the root.
// Every listener sees the originating node as Target.
func (n *Node) Bubble(event string, detail any) {
	ev := &Event{Type: event, Target: n, Detail: detail}
	for cur := n; cur != nil; cur = cur.parent {
		cur.deliver(ev)
	}
}

func (n *Node) deliver(ev *Event) {
	ls := n.listeners[ev.Type]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]listener, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		if n.registered(ev.Type, l.id) {
			l.fn(ev)
		}
	}
}

func (n *Node) registered(event string, id uint64) bool {
	for _, l := range n.listeners[event] {
		if l.id == id {
			return true
		}
	}
	return false
}
