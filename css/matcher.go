package css

import (
	"strings"

	"github.com/chrisuehlinger/htmltree/dom"
)

// matcher evaluates compiled selectors right to left. cache may be nil,
// in which case positions are found by walking siblings.
type matcher struct {
	cache *Cache
	// scope is the element :scope refers to; nil means the root element.
	scope *dom.Element
}

// Matches tests if any selector of the set matches el.
func (s *SelectorSet) Matches(el *dom.Element) bool {
	return s.MatchesWithCache(el, nil)
}

// MatchesWithCache is Matches sharing work through cache, which must only
// be used during one pass over an unchanged tree. A nil cache is allowed.
func (s *SelectorSet) MatchesWithCache(el *dom.Element, cache *Cache) bool {
	m := &matcher{cache: cache}
	return m.matchSet(s, el, nil)
}

func (m *matcher) matchSet(set *SelectorSet, el, anchor *dom.Element) bool {
	for _, sel := range set.Selectors {
		if m.matchSelector(sel, len(sel.Compounds)-1, el, anchor) {
			return true
		}
	}
	return false
}

// matchSelector matches compounds [0, i] of sel with el as the subject of
// compound i. Descendant and subsequent sibling combinators backtrack over
// every candidate. For relative selectors, anchor is the element the
// leading combinator is relative to.
func (m *matcher) matchSelector(sel *Selector, i int, el, anchor *dom.Element) bool {
	if !m.matchCompound(sel.Compounds[i], el) {
		return false
	}
	if i == 0 {
		if anchor == nil {
			return true
		}
		return relatesTo(sel.Relative, el, anchor)
	}

	switch sel.Compounds[i-1].Combinator {
	case CombinatorDescendant:
		for ancestor := el.ParentElement(); ancestor != nil; ancestor = ancestor.ParentElement() {
			if m.matchSelector(sel, i-1, ancestor, anchor) {
				return true
			}
		}
	case CombinatorChild:
		if parent := el.ParentElement(); parent != nil {
			return m.matchSelector(sel, i-1, parent, anchor)
		}
	case CombinatorNextSibling:
		if prev := el.PreviousElementSibling(); prev != nil {
			return m.matchSelector(sel, i-1, prev, anchor)
		}
	case CombinatorSubsequentSibling:
		for prev := el.PreviousElementSibling(); prev != nil; prev = prev.PreviousElementSibling() {
			if m.matchSelector(sel, i-1, prev, anchor) {
				return true
			}
		}
	}
	return false
}

// relatesTo checks the leading combinator of a relative selector.
func relatesTo(c CombinatorType, el, anchor *dom.Element) bool {
	switch c {
	case CombinatorChild:
		return el.ParentElement() == anchor
	case CombinatorNextSibling:
		return el.PreviousElementSibling() == anchor
	case CombinatorSubsequentSibling:
		for prev := el.PreviousElementSibling(); prev != nil; prev = prev.PreviousElementSibling() {
			if prev == anchor {
				return true
			}
		}
	default:
		for ancestor := el.ParentElement(); ancestor != nil; ancestor = ancestor.ParentElement() {
			if ancestor == anchor {
				return true
			}
		}
	}
	return false
}

// matchCompound tests if a compound selector matches an element.
func (m *matcher) matchCompound(c *CompoundSelector, el *dom.Element) bool {
	// Pseudo-elements are never part of the tree.
	if c.PseudoElement != nil {
		return false
	}

	if c.TypeSelector != nil && !matchTypeSelector(c.TypeSelector, el) {
		return false
	}

	if len(c.IDSelectors) > 0 || len(c.ClassSelectors) > 0 {
		quirks := m.inQuirksMode(el)
		for _, id := range c.IDSelectors {
			if !equalName(el.ID(), id, quirks) {
				return false
			}
		}
		for _, class := range c.ClassSelectors {
			if !hasClass(el, class, quirks) {
				return false
			}
		}
	}

	for _, attr := range c.AttributeMatchers {
		if !matchAttributeSelector(attr, el) {
			return false
		}
	}

	for _, pc := range c.PseudoClasses {
		if !m.matchPseudoClass(pc, el) {
			return false
		}
	}
	return true
}

func equalName(a, b string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func hasClass(el *dom.Element, class string, quirks bool) bool {
	for _, c := range el.Classes() {
		if equalName(c, class, quirks) {
			return true
		}
	}
	return false
}

// inQuirksMode reports whether el belongs to a quirks mode document, where
// ID and class selectors match case-insensitively.
func (m *matcher) inQuirksMode(el *dom.Element) bool {
	key := el.AsNode().Parent()
	if key == nil {
		return false
	}
	if m.cache != nil {
		if q, ok := m.cache.quirks[key]; ok {
			return q
		}
	}
	doc := key.Root().AsDocument()
	q := doc != nil && doc.QuirksMode() == dom.Quirks
	if m.cache != nil {
		m.cache.quirks[key] = q
	}
	return q
}

func matchTypeSelector(ts *TypeSelector, el *dom.Element) bool {
	switch ts.Namespace {
	case "*":
	case "":
		if el.Namespace() != "" {
			return false
		}
	}
	if ts.Name == "*" {
		return true
	}
	if el.IsHTML() {
		return strings.EqualFold(el.LocalName(), ts.Name)
	}
	return el.LocalName() == ts.Name || strings.ToLower(el.LocalName()) == ts.Name
}

// caseInsensitiveHTMLAttributes have values compared case-insensitively on
// HTML elements unless the selector carries an explicit flag.
var caseInsensitiveHTMLAttributes = map[string]bool{
	"accept": true, "accept-charset": true, "align": true, "alink": true, "axis": true,
	"bgcolor": true, "charset": true, "checked": true, "clear": true, "codetype": true,
	"color": true, "compact": true, "declare": true, "defer": true, "dir": true,
	"direction": true, "disabled": true, "enctype": true, "face": true, "frame": true,
	"hreflang": true, "http-equiv": true, "lang": true, "language": true, "link": true,
	"media": true, "method": true, "multiple": true, "nohref": true, "noresize": true,
	"noshade": true, "nowrap": true, "readonly": true, "rel": true, "rev": true,
	"rules": true, "scope": true, "scrolling": true, "selected": true, "shape": true,
	"target": true, "text": true, "type": true, "valign": true, "valuetype": true,
	"vlink": true,
}

func matchAttributeSelector(attr *AttributeMatcher, el *dom.Element) bool {
	ref := el.Attributes().Borrow()
	defer ref.Release()

	caseInsensitive := attr.Case == CaseInsensitive ||
		(attr.Case == CaseDefault && el.IsHTML() && caseInsensitiveHTMLAttributes[attr.Name])

	for a := range ref.Get().All() {
		if a.Local != attr.Name {
			continue
		}
		if attr.Namespace != "*" && a.Namespace != "" {
			continue
		}
		if matchAttributeValue(attr, a.Value, caseInsensitive) {
			return true
		}
	}
	return false
}

func matchAttributeValue(attr *AttributeMatcher, attrValue string, caseInsensitive bool) bool {
	matchValue := attr.Value
	if caseInsensitive {
		attrValue = strings.ToLower(attrValue)
		matchValue = strings.ToLower(matchValue)
	}

	switch attr.Operator {
	case AttrExists:
		return true
	case AttrEquals:
		return attrValue == matchValue
	case AttrIncludes:
		if matchValue == "" || strings.ContainsAny(matchValue, " \t\n\r\f") {
			return false
		}
		for _, word := range strings.Fields(attrValue) {
			if word == matchValue {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return attrValue == matchValue || strings.HasPrefix(attrValue, matchValue+"-")
	case AttrPrefix:
		return matchValue != "" && strings.HasPrefix(attrValue, matchValue)
	case AttrSuffix:
		return matchValue != "" && strings.HasSuffix(attrValue, matchValue)
	case AttrSubstring:
		return matchValue != "" && strings.Contains(attrValue, matchValue)
	}
	return false
}

func (m *matcher) matchPseudoClass(pc *PseudoClassSelector, el *dom.Element) bool {
	switch pc.Name {
	case "root":
		return isRoot(el)

	case "scope":
		if m.scope != nil {
			return el == m.scope
		}
		return isRoot(el)

	case "empty":
		for child := range el.AsNode().Children() {
			switch child.NodeType() {
			case dom.ElementNode:
				return false
			case dom.TextNode:
				if child.AsText().Data() != "" {
					return false
				}
			}
		}
		return true

	case "first-child":
		return m.position(el, false, false) == 1
	case "last-child":
		return m.position(el, false, true) == 1
	case "only-child":
		return m.position(el, false, false) == 1 && m.position(el, false, true) == 1
	case "first-of-type":
		return m.position(el, true, false) == 1
	case "last-of-type":
		return m.position(el, true, true) == 1
	case "only-of-type":
		return m.position(el, true, false) == 1 && m.position(el, true, true) == 1

	case "nth-child":
		return pc.Nth.Matches(m.position(el, false, false))
	case "nth-last-child":
		return pc.Nth.Matches(m.position(el, false, true))
	case "nth-of-type":
		return pc.Nth.Matches(m.position(el, true, false))
	case "nth-last-of-type":
		return pc.Nth.Matches(m.position(el, true, true))

	case "not":
		return !m.matchNested(pc.Selector, el, false)
	case "is", "where", "matches", "any":
		return m.matchNested(pc.Selector, el, false)
	case "has":
		return m.matchNested(pc.Selector, el, true)

	case "enabled":
		return isEnabled(el)
	case "disabled":
		return isDisabled(el)
	case "checked":
		return isChecked(el)
	case "required":
		return isFormElement(el) && el.HasAttr("required")
	case "optional":
		return isFormElement(el) && !el.HasAttr("required")
	case "read-only":
		return !isReadWrite(el)
	case "read-write":
		return isReadWrite(el)

	case "link", "any-link":
		return isLink(el)

	case "lang":
		return matchLang(pc.Argument, el)

	default:
		// :visited, :hover, :active, :focus, :focus-within, :focus-visible
		// and :target depend on state a static tree does not have.
		return false
	}
}

func isRoot(el *dom.Element) bool {
	parent := el.AsNode().Parent()
	return parent != nil && parent.NodeType() == dom.DocumentNode
}

// position returns the 1-based index of el among its element siblings, or
// among those of its type, counted from the start or from the end.
func (m *matcher) position(el *dom.Element, ofType, fromLast bool) int {
	parent := el.AsNode().Parent()
	if parent == nil {
		return 1
	}
	if m.cache != nil {
		idx := m.cache.siblingPositions(parent, ofType, el.Name())
		pos := idx.positions[el]
		if fromLast {
			return idx.count - pos + 1
		}
		return pos
	}

	pos := 1
	name := el.Name()
	if fromLast {
		for next := el.NextElementSibling(); next != nil; next = next.NextElementSibling() {
			if !ofType || sameType(next, name) {
				pos++
			}
		}
	} else {
		for prev := el.PreviousElementSibling(); prev != nil; prev = prev.PreviousElementSibling() {
			if !ofType || sameType(prev, name) {
				pos++
			}
		}
	}
	return pos
}

// matchNested evaluates the argument list of :is(), :where(), :not() and,
// with relative set, :has().
func (m *matcher) matchNested(list *SelectorSet, el *dom.Element, relative bool) bool {
	key := nestedKey{element: el, list: list, scope: m.scope}
	if m.cache != nil {
		if v, ok := m.cache.nested[key]; ok {
			return v
		}
	}

	var result bool
	if relative {
		result = m.matchHas(list, el)
	} else {
		result = m.matchSet(list, el, nil)
	}

	if m.cache != nil {
		m.cache.nested[key] = result
	}
	return result
}

// matchHas runs the relative selectors of :has() as a query anchored at el.
func (m *matcher) matchHas(list *SelectorSet, el *dom.Element) bool {
	sub := &matcher{cache: m.cache, scope: el}
	for _, sel := range list.Selectors {
		last := len(sel.Compounds) - 1
		for candidate := range hasCandidates(sel, el) {
			if sub.matchSelector(sel, last, candidate, el) {
				return true
			}
		}
	}
	return false
}

// hasCandidates lists the elements that can be the subject of a relative
// selector anchored at el.
func hasCandidates(sel *Selector, el *dom.Element) dom.ElementSeq {
	siblingRelative := sel.Relative == CombinatorNextSibling || sel.Relative == CombinatorSubsequentSibling
	if !siblingRelative {
		return el.AsNode().Descendants().Elements()
	}
	onlySiblings := true
	for _, c := range sel.Compounds[:len(sel.Compounds)-1] {
		if c.Combinator == CombinatorDescendant || c.Combinator == CombinatorChild {
			onlySiblings = false
		}
	}
	if onlySiblings {
		return el.AsNode().FollowingSiblings().Elements()
	}
	return func(yield func(*dom.Element) bool) {
		for sib := range el.AsNode().FollowingSiblings() {
			for candidate := range sib.InclusiveDescendants().Elements() {
				if !yield(candidate) {
					return
				}
			}
		}
	}
}

func isFormElement(el *dom.Element) bool {
	if !el.IsHTML() {
		return false
	}
	switch el.LocalName() {
	case "input", "select", "textarea":
		return true
	}
	return false
}

func canBeDisabled(el *dom.Element) bool {
	if !el.IsHTML() {
		return false
	}
	switch el.LocalName() {
	case "button", "input", "select", "textarea", "optgroup", "option", "fieldset":
		return true
	}
	return false
}

func isEnabled(el *dom.Element) bool {
	return canBeDisabled(el) && !el.HasAttr("disabled")
}

func isDisabled(el *dom.Element) bool {
	return canBeDisabled(el) && el.HasAttr("disabled")
}

func isChecked(el *dom.Element) bool {
	if !el.IsHTML() {
		return false
	}
	switch el.LocalName() {
	case "input":
		inputType, _ := el.Attr("type")
		switch strings.ToLower(inputType) {
		case "checkbox", "radio":
			return el.HasAttr("checked")
		}
	case "option":
		return el.HasAttr("selected")
	}
	return false
}

func isReadWrite(el *dom.Element) bool {
	if el.IsHTML() {
		switch el.LocalName() {
		case "input":
			if el.HasAttr("readonly") || el.HasAttr("disabled") {
				return false
			}
			inputType, _ := el.Attr("type")
			switch strings.ToLower(inputType) {
			case "", "text", "search", "url", "tel", "email", "password",
				"date", "month", "week", "time", "datetime-local", "number":
				return true
			}
			return false
		case "textarea":
			return !el.HasAttr("readonly") && !el.HasAttr("disabled")
		}
	}
	// contenteditable is inherited.
	for cur := el; cur != nil; cur = cur.ParentElement() {
		if v, ok := cur.Attr("contenteditable"); ok {
			return !strings.EqualFold(v, "false")
		}
	}
	return false
}

func isLink(el *dom.Element) bool {
	if !el.IsHTML() {
		return false
	}
	switch el.LocalName() {
	case "a", "area", "link":
		return el.HasAttr("href")
	}
	return false
}

// matchLang matches the nearest lang attribute on el or its ancestors
// against lang, by exact value or as a "-" separated prefix.
func matchLang(lang string, el *dom.Element) bool {
	lang = strings.ToLower(lang)
	for current := el; current != nil; current = current.ParentElement() {
		elLang, ok := current.Attributes().Get().GetNS(dom.XMLNamespace, "lang")
		if !ok {
			elLang, ok = current.Attr("lang")
		}
		if ok {
			elLang = strings.ToLower(elLang)
			return elLang == lang || strings.HasPrefix(elLang, lang+"-")
		}
	}
	return false
}
