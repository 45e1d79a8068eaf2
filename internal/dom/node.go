package dom

import "slices"

// Common tag names.
const (
	TagVideo  = "video"
	TagAudio  = "audio"
	TagDiv    = "div"
	TagButton = "button"
	TagSpan   = "span"
	TagImg    = "img"
)

// Node is an element in a retained tree. It carries a class list,
// attributes, text and keyed event listeners. Nodes are not safe for
// concurrent use; every mutation happens on the UI loop.
type Node struct {
	Tag string

	classes  []string
	attrs    map[string]string
	text     string
	parent   *Node
	children []*Node

	listeners map[string][]listener
	nextID    uint64
}

// NewNode creates a detached node with the given tag and classes.
func NewNode(tag string, classes ...string) *Node {
	n := &Node{Tag: tag}
	for _, c := range classes {
		n.AddClass(c)
	}
	return n
}

// AddClass adds a class if it is not already present.
func (n *Node) AddClass(class string) {
	if class == "" || n.HasClass(class) {
		return
	}
	n.classes = append(n.classes, class)
}

// RemoveClass removes a class; absent classes are ignored.
func (n *Node) RemoveClass(class string) {
	n.classes = slices.DeleteFunc(n.classes, func(c string) bool { return c == class })
}

// ToggleClass adds or removes a class depending on on.
func (n *Node) ToggleClass(class string, on bool) {
	if on {
		n.AddClass(class)
	} else {
		n.RemoveClass(class)
	}
}

func (n *Node) HasClass(class string) bool {
	return slices.Contains(n.classes, class)
}

// Classes returns a copy of the class list in insertion order.
func (n *Node) Classes() []string {
	return slices.Clone(n.classes)
}

func (n *Node) SetAttr(name, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

func (n *Node) Attr(name string) string {
	return n.attrs[name]
}

func (n *Node) HasAttr(name string) bool {
	_, ok := n.attrs[name]
	return ok
}

func (n *Node) RemoveAttr(name string) {
	delete(n.attrs, name)
}

func (n *Node) SetText(text string) { n.text = text }
func (n *Node) Text() string        { return n.text }

// SetHidden toggles aria-hidden, the accessibility visibility flag used for
// the play button and loader.
func (n *Node) SetHidden(hidden bool) {
	if hidden {
		n.SetAttr("aria-hidden", "true")
	} else {
		n.SetAttr("aria-hidden", "false")
	}
}

// Hidden reports whether aria-hidden is "true".
func (n *Node) Hidden() bool {
	return n.Attr("aria-hidden") == "true"
}

func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// AppendChild attaches child as the last child, detaching it from any
// previous parent first.
func (n *Node) AppendChild(child *Node) {
	child.Remove()
	child.parent = n
	n.children = append(n.children, child)
}

// PrependChild attaches child as the first child.
func (n *Node) PrependChild(child *Node) {
	child.Remove()
	child.parent = n
	n.children = slices.Insert(n.children, 0, child)
}

// Remove detaches n from its parent. Detached nodes are left untouched.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// Find returns the first descendant (depth-first, document order) carrying
// class, or nil.
func (n *Node) Find(class string) *Node {
	for _, c := range n.children {
		if c.HasClass(class) {
			return c
		}
		if found := c.Find(class); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits n and every descendant in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}
