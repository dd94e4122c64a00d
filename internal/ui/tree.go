// Package ui models the pointer-interaction rules of the pages: which element
// an event targeted, whether that lies inside a region, and the global
// listeners that dismiss open regions.
package ui

// Tree records the parent of every addressable element on a page. Elements
// are identified by their DOM id.
type Tree struct {
	parent map[string]string
}

func NewTree() *Tree {
	return &Tree{parent: make(map[string]string)}
}

// Add registers id under parent ("" for a top-level element). Re-adding an id
// moves it.
func (t *Tree) Add(id, parent string) *Tree {
	t.parent[id] = parent
	return t
}

// Contains reports whether target is region or one of its descendants.
// Unknown targets are outside every region.
func (t *Tree) Contains(region, target string) bool {
	if region == "" || target == "" {
		return false
	}
	seen := 0
	for cur := target; cur != ""; {
		if cur == region {
			return true
		}
		next, ok := t.parent[cur]
		if !ok {
			return false
		}
		cur = next
		seen++
		if seen > len(t.parent) {
			// 防止环
			return false
		}
	}
	return false
}
