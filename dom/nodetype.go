// Package dom provides a mutable in-memory tree for parsed HTML documents.
//
// Nodes are shared by pointer. The forward links (first child, last child,
// next sibling) own the tree; parent and previous-sibling links are
// back-references kept in sync by the mutation methods. Mutating the tree
// while one of the iterators in this package is running is not supported.
package dom

// NodeType represents the type of a Node, using the DOM numbering.
type NodeType uint16

const (
	// ElementNode represents an Element node.
	ElementNode NodeType = 1
	// TextNode represents a Text node.
	TextNode NodeType = 3
	// ProcessingInstructionNode represents a ProcessingInstruction node.
	ProcessingInstructionNode NodeType = 7
	// CommentNode represents a Comment node.
	CommentNode NodeType = 8
	// DocumentNode represents a Document node.
	DocumentNode NodeType = 9
	// DocumentTypeNode represents a DocumentType node.
	DocumentTypeNode NodeType = 10
)

// String returns the string representation of the NodeType.
func (nt NodeType) String() string {
	switch nt {
	case ElementNode:
		return "ELEMENT_NODE"
	case TextNode:
		return "TEXT_NODE"
	case ProcessingInstructionNode:
		return "PROCESSING_INSTRUCTION_NODE"
	case CommentNode:
		return "COMMENT_NODE"
	case DocumentNode:
		return "DOCUMENT_NODE"
	case DocumentTypeNode:
		return "DOCUMENT_TYPE_NODE"
	default:
		return "UNKNOWN_NODE"
	}
}

// canHaveChildren reports whether nodes of this type may carry a child list.
func (nt NodeType) canHaveChildren() bool {
	return nt == ElementNode || nt == DocumentNode
}
