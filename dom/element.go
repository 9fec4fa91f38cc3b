package dom

import "strings"

// Element represents an element in the tree.
type Element Node

// NewElement creates a detached element. An HTML template element gets an
// empty template contents document.
func NewElement(name QualName, attrs Attributes) *Element {
	node := newNode(ElementNode)
	node.element = &elementData{
		name:       name,
		attributes: NewCell(attrs),
	}
	if name.Namespace == HTMLNamespace && name.Local == "template" {
		node.element.templateContents = NewDocument().AsNode()
	}
	return (*Element)(node)
}

// NewHTMLElement creates a detached element in the HTML namespace.
func NewHTMLElement(local string, attrs ...Attribute) *Element {
	return NewElement(HTMLName(local), Attributes(attrs))
}

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// Name returns the qualified name.
func (e *Element) Name() QualName {
	return e.element.name
}

// LocalName returns the local name of the element (lowercase for HTML).
func (e *Element) LocalName() string {
	return e.element.name.Local
}

// Namespace returns the namespace URI of the element.
func (e *Element) Namespace() string {
	return e.element.name.Namespace
}

// IsHTML reports whether the element is in the HTML namespace.
func (e *Element) IsHTML() bool {
	return e.element.name.Namespace == HTMLNamespace
}

// Attributes returns the cell guarding the attribute list.
func (e *Element) Attributes() *Cell[Attributes] {
	return e.element.attributes
}

// Attr returns the value of the attribute with no namespace and the given local name.
func (e *Element) Attr(local string) (string, bool) {
	r := e.element.attributes.Borrow()
	defer r.Release()
	return r.Get().Get(local)
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(local string) bool {
	_, ok := e.Attr(local)
	return ok
}

// SetAttr sets an attribute with no namespace.
func (e *Element) SetAttr(local, value string) {
	e.element.attributes.Update(func(as *Attributes) {
		as.Set(local, value)
	})
}

// RemoveAttr removes an attribute with no namespace.
func (e *Element) RemoveAttr(local string) {
	e.element.attributes.Update(func(as *Attributes) {
		as.Remove(local)
	})
}

// ID returns the id attribute value.
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// Classes returns the whitespace separated tokens of the class attribute.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.FieldsFunc(v, isASCIIWhitespace)
}

// HasClass reports whether the class attribute contains name.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// TemplateContents returns the contents document of a template element, or nil.
func (e *Element) TemplateContents() *Document {
	return e.element.templateContents.AsDocument()
}

// SetTemplateContents replaces the contents document of a template element.
func (e *Element) SetTemplateContents(contents *Document) {
	e.element.templateContents = contents.AsNode()
}

// ParentElement returns the parent if it is an element.
func (e *Element) ParentElement() *Element {
	return e.parent.AsElement()
}

// PreviousElementSibling returns the nearest preceding sibling element.
func (e *Element) PreviousElementSibling() *Element {
	for sib := e.prevSibling; sib != nil; sib = sib.prevSibling {
		if sib.nodeType == ElementNode {
			return (*Element)(sib)
		}
	}
	return nil
}

// NextElementSibling returns the nearest following sibling element.
func (e *Element) NextElementSibling() *Element {
	for sib := e.nextSibling; sib != nil; sib = sib.nextSibling {
		if sib.nodeType == ElementNode {
			return (*Element)(sib)
		}
	}
	return nil
}

// FirstElementChild returns the first child element.
func (e *Element) FirstElementChild() *Element {
	for child := e.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

func isASCIIWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}
