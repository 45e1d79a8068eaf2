package controls

import "slices"

// Registry holds the items of one build per position. Order within a
// position is render order.
type Registry struct {
	slots [positionCount][]Item
}

func (r *Registry) Append(pos Position, it Item) {
	r.slots[pos] = append(r.slots[pos], it)
}

func (r *Registry) Prepend(pos Position, it Item) {
	r.slots[pos] = slices.Insert(r.slots[pos], 0, it)
}

// Items returns a copy of the items at pos.
func (r Registry) Items(pos Position) []Item {
	return slices.Clone(r.slots[pos])
}

// Each visits every item, position by position.
func (r Registry) Each(fn func(Item)) {
	for _, pos := range Positions {
		for _, it := range r.slots[pos] {
			fn(it)
		}
	}
}

func (r Registry) Len() int {
	n := 0
	for _, s := range r.slots {
		n += len(s)
	}
	return n
}
