package ui

// Modal is an overlay with a detail panel on top. While shown it listens for
// pointer-downs on the document: the close control or anything outside the
// panel hides it, anything inside the panel stops there.
type Modal struct {
	Panel        string
	CloseControl string

	doc     *Document
	open    bool
	handle  Handle
	onClose func()
}

func NewModal(doc *Document, panel, closeControl string, onClose func()) *Modal {
	return &Modal{
		Panel:        panel,
		CloseControl: closeControl,
		doc:          doc,
		onClose:      onClose,
	}
}

func (m *Modal) IsOpen() bool { return m.open }

func (m *Modal) Show() {
	if m.open {
		return
	}
	m.open = true
	m.handle = m.doc.Listen(m.onPointerDown)
}

// Hide releases the listener before running onClose.
func (m *Modal) Hide() {
	if !m.open {
		return
	}
	m.open = false
	m.handle.Remove()
	m.handle = Handle{}
	if m.onClose != nil {
		m.onClose()
	}
}

func (m *Modal) onPointerDown(target string) {
	if target == m.CloseControl {
		m.Hide()
		return
	}
	if m.doc.Tree.Contains(m.Panel, target) {
		return
	}
	m.Hide()
}
