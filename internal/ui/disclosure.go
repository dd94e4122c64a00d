package ui

// Disclosure is a show/hide region (the sort dropdown) that closes on a
// pointer-down outside Region. It holds a document listener only while open.
type Disclosure struct {
	Region string

	doc    *Document
	open   bool
	handle Handle
}

func NewDisclosure(doc *Document, region string) *Disclosure {
	return &Disclosure{Region: region, doc: doc}
}

func (d *Disclosure) IsOpen() bool { return d.open }

func (d *Disclosure) Open() {
	if d.open {
		return
	}
	d.open = true
	d.handle = d.doc.Listen(d.onPointerDown)
}

func (d *Disclosure) Close() {
	if !d.open {
		return
	}
	d.open = false
	d.handle.Remove()
	d.handle = Handle{}
}

func (d *Disclosure) Toggle() {
	if d.open {
		d.Close()
		return
	}
	d.Open()
}

func (d *Disclosure) onPointerDown(target string) {
	if !d.doc.Tree.Contains(d.Region, target) {
		d.Close()
	}
}
