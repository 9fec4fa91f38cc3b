package dom

// Document is the root of a parsed tree, and of template contents.
type Document Node

// QuirksMode is the compatibility mode of a document. The values are
// ordered: NoQuirks < LimitedQuirks < Quirks.
type QuirksMode int

const (
	NoQuirks QuirksMode = iota
	LimitedQuirks
	Quirks
)

func (q QuirksMode) String() string {
	switch q {
	case NoQuirks:
		return "no-quirks"
	case LimitedQuirks:
		return "limited-quirks"
	case Quirks:
		return "quirks"
	default:
		return "unknown"
	}
}

// NewDocument creates a new empty document in no-quirks mode.
func NewDocument() *Document {
	node := newNode(DocumentNode)
	node.document = &documentData{quirksMode: NewCell(NoQuirks)}
	return (*Document)(node)
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// QuirksModeCell returns the cell guarding the quirks mode.
func (d *Document) QuirksModeCell() *Cell[QuirksMode] {
	return d.document.quirksMode
}

// QuirksMode returns the current quirks mode.
func (d *Document) QuirksMode() QuirksMode {
	return d.document.quirksMode.Get()
}

// SetQuirksMode overwrites the quirks mode unconditionally.
func (d *Document) SetQuirksMode(mode QuirksMode) {
	d.document.quirksMode.Set(mode)
}

// UpgradeQuirksMode switches to mode only if it is stricter than the
// current one. It returns the resulting mode and whether it changed.
func (d *Document) UpgradeQuirksMode(mode QuirksMode) (QuirksMode, bool) {
	changed := false
	d.document.quirksMode.Update(func(cur *QuirksMode) {
		if mode > *cur {
			*cur = mode
			changed = true
		}
	})
	return d.QuirksMode(), changed
}

// Doctype returns the document type child, or nil.
func (d *Document) Doctype() *Doctype {
	for child := d.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == DocumentTypeNode {
			return (*Doctype)(child)
		}
	}
	return nil
}

// DocumentElement returns the first element child.
func (d *Document) DocumentElement() *Element {
	for child := d.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// Doctype represents a document type declaration.
type Doctype Node

// NewDoctype creates a detached doctype node.
func NewDoctype(name, publicID, systemID string) *Doctype {
	node := newNode(DocumentTypeNode)
	node.doctype = &doctypeData{name: name, publicID: publicID, systemID: systemID}
	return (*Doctype)(node)
}

// AsNode returns the underlying Node.
func (dt *Doctype) AsNode() *Node {
	return (*Node)(dt)
}

// Name returns the doctype name.
func (dt *Doctype) Name() string {
	return dt.doctype.name
}

// PublicID returns the public identifier.
func (dt *Doctype) PublicID() string {
	return dt.doctype.publicID
}

// SystemID returns the system identifier.
func (dt *Doctype) SystemID() string {
	return dt.doctype.systemID
}
