package css

import (
	"fmt"

	"github.com/chrisuehlinger/htmltree/dom"
)

// Compile parses a selector list. Any syntax error fails the whole list
// with a SyntaxError.
func Compile(selectors string) (*SelectorSet, error) {
	set, err := ParseSelector(selectors)
	if err != nil {
		return nil, fmt.Errorf("unable to compile selector %q: %w", selectors, err)
	}
	return set, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(selectors string) *SelectorSet {
	set, err := Compile(selectors)
	if err != nil {
		panic(err)
	}
	return set
}

// Filter lazily keeps the elements of seq matched by the set, in order.
// Each pass over the result uses a fresh Cache.
func (s *SelectorSet) Filter(seq dom.ElementSeq) dom.ElementSeq {
	return func(yield func(*dom.Element) bool) {
		cache := NewCache()
		for el := range seq {
			if s.MatchesWithCache(el, cache) && !yield(el) {
				return
			}
		}
	}
}

// Select returns the elements among node and its descendants matched by
// the set, in document order.
func (s *SelectorSet) Select(node *dom.Node) dom.ElementSeq {
	return s.Filter(node.InclusiveDescendants().Elements())
}

// Select compiles selectors and returns the matching elements among node
// and its descendants, in document order.
func Select(node *dom.Node, selectors string) (dom.ElementSeq, error) {
	set, err := Compile(selectors)
	if err != nil {
		return nil, err
	}
	return set.Select(node), nil
}

// SelectFirst returns the first element Select would yield. It fails with
// a NotFoundError when nothing matches.
func SelectFirst(node *dom.Node, selectors string) (*dom.Element, error) {
	seq, err := Select(node, selectors)
	if err != nil {
		return nil, err
	}
	if el := seq.First(); el != nil {
		return el, nil
	}
	return nil, dom.ErrNotFound(fmt.Sprintf("no element matches %q", selectors))
}
