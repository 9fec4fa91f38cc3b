package dom

import (
	"iter"
	"slices"
)

// Seq is a restartable sequence of nodes. Ranging over it twice walks the
// tree twice. The tree must not be mutated while a Seq is being ranged over.
type Seq iter.Seq[*Node]

// ElementSeq is a sequence of elements.
type ElementSeq iter.Seq[*Element]

// TextSeq is a sequence of text nodes.
type TextSeq iter.Seq[*Text]

// CommentSeq is a sequence of comment nodes.
type CommentSeq iter.Seq[*Comment]

// Children iterates over the direct children of n in order.
func (n *Node) Children() Seq {
	return func(yield func(*Node) bool) {
		for child := n.firstChild; child != nil; {
			next := child.nextSibling
			if !yield(child) {
				return
			}
			child = next
		}
	}
}

// Ancestors iterates from the parent of n up to the root.
func (n *Node) Ancestors() Seq {
	return n.parent.InclusiveAncestors()
}

// InclusiveAncestors iterates from n up to the root.
func (n *Node) InclusiveAncestors() Seq {
	return func(yield func(*Node) bool) {
		for node := n; node != nil; node = node.parent {
			if !yield(node) {
				return
			}
		}
	}
}

// Descendants iterates over the descendants of n in pre-order.
func (n *Node) Descendants() Seq {
	return func(yield func(*Node) bool) {
		for node := n.firstChild; node != nil; node = nextInPreOrder(node, n) {
			if !yield(node) {
				return
			}
		}
	}
}

// InclusiveDescendants iterates over n and its descendants in pre-order.
func (n *Node) InclusiveDescendants() Seq {
	return func(yield func(*Node) bool) {
		if !yield(n) {
			return
		}
		n.Descendants()(yield)
	}
}

// nextInPreOrder returns the node following node in a pre-order walk that
// stays inside root's subtree.
func nextInPreOrder(node, root *Node) *Node {
	if node.firstChild != nil {
		return node.firstChild
	}
	for ; node != nil && node != root; node = node.parent {
		if node.nextSibling != nil {
			return node.nextSibling
		}
	}
	return nil
}

// FollowingSiblings iterates over the siblings after n.
func (n *Node) FollowingSiblings() Seq {
	return func(yield func(*Node) bool) {
		for sib := n.nextSibling; sib != nil; sib = sib.nextSibling {
			if !yield(sib) {
				return
			}
		}
	}
}

// InclusiveFollowingSiblings iterates over n and the siblings after it.
func (n *Node) InclusiveFollowingSiblings() Seq {
	return func(yield func(*Node) bool) {
		if yield(n) {
			n.FollowingSiblings()(yield)
		}
	}
}

// PrecedingSiblings iterates over the siblings before n, nearest first.
func (n *Node) PrecedingSiblings() Seq {
	return func(yield func(*Node) bool) {
		for sib := n.prevSibling; sib != nil; sib = sib.prevSibling {
			if !yield(sib) {
				return
			}
		}
	}
}

// InclusivePrecedingSiblings iterates over n and the siblings before it, nearest first.
func (n *Node) InclusivePrecedingSiblings() Seq {
	return func(yield func(*Node) bool) {
		if yield(n) {
			n.PrecedingSiblings()(yield)
		}
	}
}

// Elements keeps only element nodes.
func (s Seq) Elements() ElementSeq {
	return func(yield func(*Element) bool) {
		for node := range s {
			if el := node.AsElement(); el != nil && !yield(el) {
				return
			}
		}
	}
}

// TextNodes keeps only text nodes.
func (s Seq) TextNodes() TextSeq {
	return func(yield func(*Text) bool) {
		for node := range s {
			if t := node.AsText(); t != nil && !yield(t) {
				return
			}
		}
	}
}

// Comments keeps only comment nodes.
func (s Seq) Comments() CommentSeq {
	return func(yield func(*Comment) bool) {
		for node := range s {
			if c := node.AsComment(); c != nil && !yield(c) {
				return
			}
		}
	}
}

// Collect gathers the sequence into a slice.
func (s Seq) Collect() []*Node {
	return slices.Collect(iter.Seq[*Node](s))
}

// Collect gathers the sequence into a slice.
func (s ElementSeq) Collect() []*Element {
	return slices.Collect(iter.Seq[*Element](s))
}

// First returns the first element, or nil if the sequence is empty.
func (s ElementSeq) First() *Element {
	for el := range s {
		return el
	}
	return nil
}

// Collect gathers the sequence into a slice.
func (s TextSeq) Collect() []*Text {
	return slices.Collect(iter.Seq[*Text](s))
}

// Collect gathers the sequence into a slice.
func (s CommentSeq) Collect() []*Comment {
	return slices.Collect(iter.Seq[*Comment](s))
}
