package dom

import (
	"fmt"
	"strings"
)

// Node is a single node of a document tree. The variant is given by
// NodeType; the typed views (Element, Text, Comment, ProcessingInstruction,
// Doctype, Document) share the same storage and are obtained with the As*
// methods.
//
// parent and prevSibling are back-references: they never keep a node alive
// on their own and are maintained by the mutation methods only.
type Node struct {
	nodeType NodeType

	parent      *Node
	prevSibling *Node
	firstChild  *Node
	lastChild   *Node
	nextSibling *Node

	element  *elementData
	data     *Cell[string]
	target   string
	doctype  *doctypeData
	document *documentData
}

type elementData struct {
	name             QualName
	attributes       *Cell[Attributes]
	templateContents *Node
}

type doctypeData struct {
	name     string
	publicID string
	systemID string
}

type documentData struct {
	quirksMode *Cell[QuirksMode]
}

func newNode(nodeType NodeType) *Node {
	return &Node{nodeType: nodeType}
}

// NodeType returns the variant of this node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// NextSibling returns the next sibling, or nil.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// PreviousSibling returns the previous sibling, or nil.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// HasChildNodes returns true if this node has any children.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// Root returns the topmost inclusive ancestor.
func (n *Node) Root() *Node {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// isInclusiveAncestorOf checks if n is an inclusive ancestor of other.
func (n *Node) isInclusiveAncestorOf(other *Node) bool {
	for node := other; node != nil; node = node.parent {
		if node == n {
			return true
		}
	}
	return false
}

// Detach removes the node from its parent and siblings. The node keeps its
// own children. Detaching a root is a no-op.
func (n *Node) Detach() {
	parent := n.parent
	if parent == nil {
		return
	}
	prev, next := n.prevSibling, n.nextSibling
	if prev != nil {
		prev.nextSibling = next
	} else {
		parent.firstChild = next
	}
	if next != nil {
		next.prevSibling = prev
	} else {
		parent.lastChild = prev
	}
	n.parent = nil
	n.prevSibling = nil
	n.nextSibling = nil
}

// ensurePreInsertionValidity checks that child may become a child of parent.
func ensurePreInsertionValidity(parent, child *Node) error {
	if child == nil {
		return ErrHierarchyRequest("cannot insert a nil node")
	}
	if !parent.nodeType.canHaveChildren() {
		return ErrHierarchyRequest(fmt.Sprintf("a %s cannot have children", parent.nodeType))
	}
	if child.nodeType == DocumentNode {
		return ErrHierarchyRequest("a document cannot be inserted as a child")
	}
	if child.isInclusiveAncestorOf(parent) {
		return ErrHierarchyRequest("the new child is an ancestor of the parent")
	}
	return nil
}

// Append moves child to the end of this node's children.
func (n *Node) Append(child *Node) error {
	if err := ensurePreInsertionValidity(n, child); err != nil {
		return err
	}
	child.Detach()
	child.parent = n
	if last := n.lastChild; last != nil {
		last.nextSibling = child
		child.prevSibling = last
	} else {
		n.firstChild = child
	}
	n.lastChild = child
	return nil
}

// Prepend moves child to the start of this node's children.
func (n *Node) Prepend(child *Node) error {
	if err := ensurePreInsertionValidity(n, child); err != nil {
		return err
	}
	child.Detach()
	child.parent = n
	if first := n.firstChild; first != nil {
		first.prevSibling = child
		child.nextSibling = first
	} else {
		n.lastChild = child
	}
	n.firstChild = child
	return nil
}

// InsertAfter moves sibling right after this node. Inserting a node next to
// itself leaves the tree unchanged.
func (n *Node) InsertAfter(sibling *Node) error {
	if sibling == n {
		return nil
	}
	parent := n.parent
	if parent == nil {
		return ErrHierarchyRequest("cannot insert a sibling of a node without parent")
	}
	if err := ensurePreInsertionValidity(parent, sibling); err != nil {
		return err
	}
	sibling.Detach()
	sibling.parent = parent
	sibling.prevSibling = n
	sibling.nextSibling = n.nextSibling
	if next := n.nextSibling; next != nil {
		next.prevSibling = sibling
	} else {
		parent.lastChild = sibling
	}
	n.nextSibling = sibling
	return nil
}

// InsertBefore moves sibling right before this node. Inserting a node next
// to itself leaves the tree unchanged.
func (n *Node) InsertBefore(sibling *Node) error {
	if sibling == n {
		return nil
	}
	parent := n.parent
	if parent == nil {
		return ErrHierarchyRequest("cannot insert a sibling of a node without parent")
	}
	if err := ensurePreInsertionValidity(parent, sibling); err != nil {
		return err
	}
	sibling.Detach()
	sibling.parent = parent
	sibling.nextSibling = n
	sibling.prevSibling = n.prevSibling
	if prev := n.prevSibling; prev != nil {
		prev.nextSibling = sibling
	} else {
		parent.firstChild = sibling
	}
	n.prevSibling = sibling
	return nil
}

// Clone returns a detached copy of the node. With deep set, children and
// template contents are copied too.
func (n *Node) Clone(deep bool) *Node {
	clone := newNode(n.nodeType)
	clone.target = n.target
	if n.data != nil {
		clone.data = NewCell(n.data.Get())
	}
	if n.doctype != nil {
		dt := *n.doctype
		clone.doctype = &dt
	}
	if n.document != nil {
		clone.document = &documentData{quirksMode: NewCell(n.document.quirksMode.Get())}
	}
	if n.element != nil {
		clone.element = &elementData{
			name:       n.element.name,
			attributes: NewCell(n.element.attributes.Get().Clone()),
		}
		if tc := n.element.templateContents; tc != nil {
			if deep {
				clone.element.templateContents = tc.Clone(true)
			} else {
				clone.element.templateContents = NewDocument().AsNode()
			}
		}
	}
	if deep {
		for child := n.firstChild; child != nil; child = child.nextSibling {
			// Cannot fail: the clone has the same type as n.
			_ = clone.Append(child.Clone(true))
		}
	}
	return clone
}

// TextContents returns the concatenated data of all descendant text nodes.
func (n *Node) TextContents() string {
	if n.nodeType == TextNode {
		return n.data.Get()
	}
	var sb strings.Builder
	for t := range n.Descendants().TextNodes() {
		sb.WriteString(t.Data())
	}
	return sb.String()
}

// String returns a short description of the node for debugging.
func (n *Node) String() string {
	switch n.nodeType {
	case ElementNode:
		return "<" + n.element.name.String() + ">"
	case TextNode:
		return fmt.Sprintf("#text %q", n.data.Get())
	case CommentNode:
		return fmt.Sprintf("#comment %q", n.data.Get())
	case ProcessingInstructionNode:
		return fmt.Sprintf("<?%s %s>", n.target, n.data.Get())
	case DocumentTypeNode:
		return "<!DOCTYPE " + n.doctype.name + ">"
	case DocumentNode:
		return "#document"
	default:
		return n.nodeType.String()
	}
}

// AsElement returns the element view of this node, or nil.
func (n *Node) AsElement() *Element {
	if n == nil || n.nodeType != ElementNode {
		return nil
	}
	return (*Element)(n)
}

// AsText returns the text view of this node, or nil.
func (n *Node) AsText() *Text {
	if n == nil || n.nodeType != TextNode {
		return nil
	}
	return (*Text)(n)
}

// AsComment returns the comment view of this node, or nil.
func (n *Node) AsComment() *Comment {
	if n == nil || n.nodeType != CommentNode {
		return nil
	}
	return (*Comment)(n)
}

// AsProcessingInstruction returns the processing instruction view of this node, or nil.
func (n *Node) AsProcessingInstruction() *ProcessingInstruction {
	if n == nil || n.nodeType != ProcessingInstructionNode {
		return nil
	}
	return (*ProcessingInstruction)(n)
}

// AsDoctype returns the doctype view of this node, or nil.
func (n *Node) AsDoctype() *Doctype {
	if n == nil || n.nodeType != DocumentTypeNode {
		return nil
	}
	return (*Doctype)(n)
}

// AsDocument returns the document view of this node, or nil.
func (n *Node) AsDocument() *Document {
	if n == nil || n.nodeType != DocumentNode {
		return nil
	}
	return (*Document)(n)
}
