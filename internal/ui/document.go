package ui

// Listener receives the id of the element a pointer-down landed on.
type Listener func(target string)

// Document is the page-global listener registry. Anything that registers must
// remove its listener on every exit path; Len exposes leaks.
type Document struct {
	Tree *Tree

	next      int
	listeners []registered
}

type registered struct {
	id int
	fn Listener
}

// Handle removes the listener it was returned for.
type Handle struct {
	doc *Document
	id  int
}

func NewDocument(tree *Tree) *Document {
	if tree == nil {
		tree = NewTree()
	}
	return &Document{Tree: tree}
}

func (d *Document) Listen(fn Listener) Handle {
	d.next++
	d.listeners = append(d.listeners, registered{id: d.next, fn: fn})
	return Handle{doc: d, id: d.next}
}

// Remove is idempotent; the zero Handle is valid.
func (h Handle) Remove() {
	if h.doc == nil {
		return
	}
	d := h.doc
	for i, l := range d.listeners {
		if l.id == h.id {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

func (h Handle) Active() bool {
	if h.doc == nil {
		return false
	}
	for _, l := range h.doc.listeners {
		if l.id == h.id {
			return true
		}
	}
	return false
}

// Dispatch delivers a pointer-down to every listener registered at the time
// of the call, in registration order.
func (d *Document) Dispatch(target string) {
	snapshot := make([]registered, len(d.listeners))
	copy(snapshot, d.listeners)
	for _, l := range snapshot {
		l.fn(target)
	}
}

func (d *Document) Len() int { return len(d.listeners) }

// RemoveAll drops every listener; views call it on teardown.
func (d *Document) RemoveAll() {
	d.listeners = nil
}
