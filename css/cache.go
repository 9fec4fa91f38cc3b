package css

import "github.com/chrisuehlinger/htmltree/dom"

// Cache memoizes work shared by the elements of one matching pass: the
// sibling positions used by the positional pseudo-classes and the results
// of nested selector lists (:is(), :where(), :not(), :has()).
//
// A Cache is only valid while the tree is unchanged. Create a new one for
// every pass; Filter does so itself.
type Cache struct {
	siblings map[siblingKey]*siblingIndex
	nested   map[nestedKey]bool
	quirks   map[*dom.Node]bool
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		siblings: make(map[siblingKey]*siblingIndex),
		nested:   make(map[nestedKey]bool),
		quirks:   make(map[*dom.Node]bool),
	}
}

// siblingKey selects a family of element children of one parent: all of
// them, or only those of one element type.
type siblingKey struct {
	parent *dom.Node
	ofType bool
	name   dom.QualName
}

type siblingIndex struct {
	positions map[*dom.Element]int
	count     int
}

type nestedKey struct {
	element *dom.Element
	list    *SelectorSet
	scope   *dom.Element
}

// siblingPositions indexes the family in one forward walk over the children.
// Positions from the end are derived from the count.
func (c *Cache) siblingPositions(parent *dom.Node, ofType bool, name dom.QualName) *siblingIndex {
	key := siblingKey{parent: parent, ofType: ofType}
	if ofType {
		key.name = dom.QualName{Namespace: name.Namespace, Local: name.Local}
	}
	if idx, ok := c.siblings[key]; ok {
		return idx
	}
	idx := &siblingIndex{positions: make(map[*dom.Element]int)}
	for el := range parent.Children().Elements() {
		if ofType && !sameType(el, name) {
			continue
		}
		idx.count++
		idx.positions[el] = idx.count
	}
	c.siblings[key] = idx
	return idx
}

func sameType(el *dom.Element, name dom.QualName) bool {
	return el.LocalName() == name.Local && el.Namespace() == name.Namespace
}
