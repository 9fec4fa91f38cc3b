package css

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/htmltree/dom"
)

// SelectorSet is a compiled, comma separated selector list. An element
// matches the set when it matches any of its selectors.
type SelectorSet struct {
	Selectors []*Selector
	source    string
}

// Selector is a chain of compound selectors separated by combinators,
// one clause of a selector list.
type Selector struct {
	Compounds []*CompoundSelector
	// Relative is the leading combinator of a relative selector, as found in
	// :has() arguments. It is CombinatorNone for ordinary selectors.
	Relative    CombinatorType
	specificity Specificity
	text        string
}

// CompoundSelector is a sequence of simple selectors.
type CompoundSelector struct {
	TypeSelector      *TypeSelector
	IDSelectors       []string
	ClassSelectors    []string
	AttributeMatchers []*AttributeMatcher
	PseudoClasses     []*PseudoClassSelector
	PseudoElement     *PseudoElementSelector
	Combinator        CombinatorType // Combinator following this compound selector
}

// CombinatorType represents the type of combinator.
type CombinatorType int

const (
	CombinatorNone              CombinatorType = iota
	CombinatorDescendant                       // (whitespace)
	CombinatorChild                            // >
	CombinatorNextSibling                      // +
	CombinatorSubsequentSibling                // ~
)

func (c CombinatorType) String() string {
	switch c {
	case CombinatorDescendant:
		return " "
	case CombinatorChild:
		return ">"
	case CombinatorNextSibling:
		return "+"
	case CombinatorSubsequentSibling:
		return "~"
	default:
		return ""
	}
}

// TypeSelector represents a type (tag) selector.
type TypeSelector struct {
	Namespace string // "*" for any namespace, "" for elements without namespace
	Name      string // "*" for universal, or lowercase tag name
}

// AttributeMatcher represents an attribute selector.
type AttributeMatcher struct {
	Namespace string // "" for attributes without namespace, "*" for any
	Name      string
	Operator  AttributeOperator
	Value     string
	Case      CaseSensitivity
}

// AttributeOperator represents the operator in an attribute selector.
type AttributeOperator int

const (
	AttrExists    AttributeOperator = iota // [attr]
	AttrEquals                             // [attr=value]
	AttrIncludes                           // [attr~=value]
	AttrDashMatch                          // [attr|=value]
	AttrPrefix                             // [attr^=value]
	AttrSuffix                             // [attr$=value]
	AttrSubstring                          // [attr*=value]
)

// CaseSensitivity is the value comparison mode of an attribute selector.
type CaseSensitivity int

const (
	// CaseDefault compares case-sensitively, except for a fixed list of
	// HTML attributes on HTML elements.
	CaseDefault CaseSensitivity = iota
	CaseInsensitive
	CaseSensitive
)

// PseudoClassSelector represents a pseudo-class.
type PseudoClassSelector struct {
	Name     string
	Argument string       // For :lang()
	Nth      NthExpr      // For :nth-*()
	Selector *SelectorSet // For :not(), :is(), :where(), :has()
}

// PseudoElementSelector represents a pseudo-element. Pseudo-elements never
// match elements of the tree; they only count towards specificity.
type PseudoElementSelector struct {
	Name string
}

var knownPseudoClasses = map[string]bool{
	"root": true, "empty": true, "scope": true,
	"first-child": true, "last-child": true, "only-child": true,
	"first-of-type": true, "last-of-type": true, "only-of-type": true,
	"link": true, "any-link": true, "visited": true,
	"hover": true, "active": true, "focus": true, "focus-within": true, "focus-visible": true, "target": true,
	"checked": true, "disabled": true, "enabled": true,
	"required": true, "optional": true, "read-only": true, "read-write": true,
}

var knownPseudoElements = map[string]bool{
	"before": true, "after": true, "first-line": true, "first-letter": true,
	"marker": true, "placeholder": true, "selection": true,
}

// legacyPseudoElements may also be written with a single colon.
var legacyPseudoElements = map[string]bool{
	"before": true, "after": true, "first-line": true, "first-letter": true,
}

// Source returns the text the set was compiled from.
func (s *SelectorSet) Source() string {
	return s.source
}

func (s *SelectorSet) String() string {
	return s.source
}

// MaxSpecificity returns the highest specificity among the selectors.
func (s *SelectorSet) MaxSpecificity() Specificity {
	var maxSpec Specificity
	for _, sel := range s.Selectors {
		if maxSpec.Less(sel.specificity) {
			maxSpec = sel.specificity
		}
	}
	return maxSpec
}

// Specificity returns the specificity of the selector.
func (s *Selector) Specificity() Specificity {
	return s.specificity
}

// String returns the source text of the selector.
func (s *Selector) String() string {
	return s.text
}

// Specificity represents CSS selector specificity.
type Specificity struct {
	A int // ID selectors
	B int // Class selectors, attribute selectors, pseudo-classes
	C int // Type selectors, pseudo-elements
}

// Compare compares two specificities. Returns -1, 0, or 1.
func (s Specificity) Compare(other Specificity) int {
	if s.A != other.A {
		if s.A > other.A {
			return 1
		}
		return -1
	}
	if s.B != other.B {
		if s.B > other.B {
			return 1
		}
		return -1
	}
	if s.C != other.C {
		if s.C > other.C {
			return 1
		}
		return -1
	}
	return 0
}

// Less returns true if this specificity is less than the other.
func (s Specificity) Less(other Specificity) bool {
	return s.Compare(other) < 0
}

func (s Specificity) add(other Specificity) Specificity {
	return Specificity{A: s.A + other.A, B: s.B + other.B, C: s.C + other.C}
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.A, s.B, s.C)
}

// calculateSpecificity computes the specificity of a complex selector.
// :is(), :not() and :has() count as their most specific argument,
// :where() counts as nothing.
func (s *Selector) calculateSpecificity() Specificity {
	var spec Specificity
	for _, compound := range s.Compounds {
		spec.A += len(compound.IDSelectors)
		spec.B += len(compound.ClassSelectors)
		spec.B += len(compound.AttributeMatchers)
		for _, pc := range compound.PseudoClasses {
			switch pc.Name {
			case "where":
			case "is", "matches", "any", "not", "has":
				spec = spec.add(pc.Selector.MaxSpecificity())
			default:
				spec.B++
			}
		}
		if compound.TypeSelector != nil && compound.TypeSelector.Name != "*" {
			spec.C++
		}
		if compound.PseudoElement != nil {
			spec.C++
		}
	}
	return spec
}

// SelectorParser parses CSS selectors.
type SelectorParser struct {
	input  string
	tokens []Token
	pos    int
}

// ParseSelector parses a selector list.
func ParseSelector(input string) (*SelectorSet, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &SelectorParser{input: input, tokens: tokens}
	set, err := p.parseSelectorList(false, false)
	if err != nil {
		return nil, err
	}
	set.source = strings.TrimSpace(input)
	return set, nil
}

func errSyntaxAt(tok Token, format string, args ...any) error {
	return dom.ErrSyntax(fmt.Sprintf("%s at offset %d", fmt.Sprintf(format, args...), tok.Pos))
}

func (p *SelectorParser) current() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *SelectorParser) peek(offset int) Token {
	pos := p.pos + offset
	if pos >= len(p.tokens) || pos < 0 {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[pos]
}

func (p *SelectorParser) consume() Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *SelectorParser) skipWhitespace() bool {
	skipped := false
	for p.current().Type == TokenWhitespace {
		p.consume()
		skipped = true
	}
	return skipped
}

func (p *SelectorParser) isDelim(r rune) bool {
	tok := p.current()
	return tok.Type == TokenDelim && tok.Delim == r
}

// unexpected builds the error for a token the grammar does not allow here.
func (p *SelectorParser) unexpected(tok Token) error {
	switch tok.Type {
	case TokenEOF:
		return errSyntaxAt(tok, "unexpected end of selector")
	case TokenCloseParen:
		return errSyntaxAt(tok, "unbalanced parentheses")
	case TokenCloseSquare:
		return errSyntaxAt(tok, "unbalanced brackets")
	}
	return errSyntaxAt(tok, "unexpected %s", tok)
}

func (p *SelectorParser) combinator() (CombinatorType, bool) {
	tok := p.current()
	if tok.Type != TokenDelim {
		return CombinatorNone, false
	}
	switch tok.Delim {
	case '>':
		return CombinatorChild, true
	case '+':
		return CombinatorNextSibling, true
	case '~':
		return CombinatorSubsequentSibling, true
	}
	return CombinatorNone, false
}

// parseSelectorList parses comma separated selectors. Nested lists end at
// a closing parenthesis, which is left for the caller.
func (p *SelectorParser) parseSelectorList(relative, nested bool) (*SelectorSet, error) {
	set := &SelectorSet{}
	for {
		p.skipWhitespace()
		sel, err := p.parseComplexSelector(relative)
		if err != nil {
			return nil, err
		}
		set.Selectors = append(set.Selectors, sel)

		p.skipWhitespace()
		tok := p.current()
		switch {
		case tok.Type == TokenComma:
			p.consume()
			continue
		case tok.Type == TokenEOF && !nested:
			return set, nil
		case tok.Type == TokenCloseParen && nested:
			return set, nil
		case tok.Type == TokenEOF:
			return nil, errSyntaxAt(tok, "unbalanced parentheses")
		default:
			return nil, p.unexpected(tok)
		}
	}
}

// parseComplexSelector parses a complex selector.
func (p *SelectorParser) parseComplexSelector(relative bool) (*Selector, error) {
	start := p.current().Pos
	sel := &Selector{}

	if relative {
		sel.Relative = CombinatorDescendant
		if c, ok := p.combinator(); ok {
			p.consume()
			p.skipWhitespace()
			sel.Relative = c
		}
	}

	for {
		compound, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		if compound == nil {
			tok := p.current()
			if len(sel.Compounds) == 0 && sel.Relative <= CombinatorDescendant {
				if tok.Type == TokenComma || tok.Type == TokenEOF || tok.Type == TokenCloseParen {
					return nil, errSyntaxAt(tok, "empty selector")
				}
				return nil, p.unexpected(tok)
			}
			if tok.Type == TokenEOF || tok.Type == TokenComma || tok.Type == TokenCloseParen {
				return nil, errSyntaxAt(tok, "dangling combinator")
			}
			return nil, p.unexpected(tok)
		}
		sel.Compounds = append(sel.Compounds, compound)

		hadWhitespace := p.skipWhitespace()
		if c, ok := p.combinator(); ok {
			if compound.PseudoElement != nil {
				return nil, errSyntaxAt(p.current(), "pseudo-element must end the selector")
			}
			p.consume()
			p.skipWhitespace()
			compound.Combinator = c
			continue
		}
		tok := p.current()
		if tok.Type == TokenEOF || tok.Type == TokenComma || tok.Type == TokenCloseParen {
			break
		}
		if !hadWhitespace {
			return nil, p.unexpected(tok)
		}
		if compound.PseudoElement != nil {
			return nil, errSyntaxAt(tok, "pseudo-element must end the selector")
		}
		compound.Combinator = CombinatorDescendant
	}

	sel.text = strings.TrimSpace(p.input[start:p.current().Pos])
	sel.specificity = sel.calculateSpecificity()
	return sel, nil
}

// parseCompoundSelector parses a compound selector. It returns nil when
// the current token cannot start one.
func (p *SelectorParser) parseCompoundSelector() (*CompoundSelector, error) {
	compound := &CompoundSelector{}
	hasContent := false

	ts, err := p.parseTypeSelector()
	if err != nil {
		return nil, err
	}
	if ts != nil {
		compound.TypeSelector = ts
		hasContent = true
	}

	for {
		tok := p.current()
		simple := tok.Type == TokenHash || tok.Type == TokenOpenSquare || tok.Type == TokenColon ||
			(tok.Type == TokenDelim && tok.Delim == '.')
		if !simple {
			break
		}
		if compound.PseudoElement != nil {
			return nil, errSyntaxAt(tok, "pseudo-element must end the selector")
		}

		switch {
		case tok.Type == TokenHash:
			if tok.HashType != HashID {
				return nil, errSyntaxAt(tok, "invalid ID selector %s", tok)
			}
			p.consume()
			compound.IDSelectors = append(compound.IDSelectors, tok.Value)

		case tok.Type == TokenDelim:
			p.consume()
			if p.current().Type != TokenIdent {
				return nil, errSyntaxAt(p.current(), "expected class name")
			}
			compound.ClassSelectors = append(compound.ClassSelectors, p.consume().Value)

		case tok.Type == TokenOpenSquare:
			attr, err := p.parseAttributeSelector()
			if err != nil {
				return nil, err
			}
			compound.AttributeMatchers = append(compound.AttributeMatchers, attr)

		case tok.Type == TokenColon:
			p.consume()
			if p.current().Type == TokenColon {
				p.consume()
				pe, err := p.parsePseudoElement()
				if err != nil {
					return nil, err
				}
				compound.PseudoElement = pe
				break
			}
			if name := strings.ToLower(p.current().Value); p.current().Type == TokenIdent && legacyPseudoElements[name] {
				p.consume()
				compound.PseudoElement = &PseudoElementSelector{Name: name}
				break
			}
			pc, err := p.parsePseudoClass()
			if err != nil {
				return nil, err
			}
			compound.PseudoClasses = append(compound.PseudoClasses, pc)
		}
		hasContent = true
	}

	if !hasContent {
		return nil, nil
	}
	return compound, nil
}

// parseTypeSelector parses an optional type selector with its namespace
// prefix. Only the "*|" and "|" prefixes are accepted since there is no
// way to declare others.
func (p *SelectorParser) parseTypeSelector() (*TypeSelector, error) {
	tok := p.current()
	ts := &TypeSelector{Namespace: "*"}

	switch {
	case tok.Type == TokenIdent:
		if next := p.peek(1); next.Type == TokenDelim && next.Delim == '|' {
			return nil, errSyntaxAt(tok, "undeclared namespace prefix %q", tok.Value)
		}
		p.consume()
		ts.Name = strings.ToLower(tok.Value)
		return ts, nil
	case tok.Type == TokenDelim && tok.Delim == '*':
		p.consume()
		if !p.isDelim('|') {
			ts.Name = "*"
			return ts, nil
		}
		p.consume()
	case tok.Type == TokenDelim && tok.Delim == '|':
		p.consume()
		ts.Namespace = ""
	default:
		return nil, nil
	}

	// After a namespace prefix an element name is required.
	tok = p.current()
	switch {
	case tok.Type == TokenIdent:
		ts.Name = strings.ToLower(p.consume().Value)
	case tok.Type == TokenDelim && tok.Delim == '*':
		p.consume()
		ts.Name = "*"
	default:
		return nil, errSyntaxAt(tok, "expected element name after namespace prefix")
	}
	return ts, nil
}

// parseAttributeSelector parses an attribute selector.
func (p *SelectorParser) parseAttributeSelector() (*AttributeMatcher, error) {
	p.consume() // [
	p.skipWhitespace()

	attr := &AttributeMatcher{}
	tok := p.current()
	switch {
	case tok.Type == TokenDelim && tok.Delim == '*' && p.peek(1).Type == TokenDelim && p.peek(1).Delim == '|':
		p.consume()
		p.consume()
		attr.Namespace = "*"
	case tok.Type == TokenDelim && tok.Delim == '|':
		p.consume()
	case tok.Type == TokenIdent && p.peek(1).Type == TokenDelim && p.peek(1).Delim == '|':
		return nil, errSyntaxAt(tok, "undeclared namespace prefix %q", tok.Value)
	}

	if p.current().Type != TokenIdent {
		return nil, errSyntaxAt(p.current(), "expected attribute name")
	}
	attr.Name = strings.ToLower(p.consume().Value)
	p.skipWhitespace()

	tok = p.current()
	switch {
	case tok.Type == TokenCloseSquare:
		p.consume()
		attr.Operator = AttrExists
		return attr, nil
	case tok.Type == TokenDelim && tok.Delim == '=':
		attr.Operator = AttrEquals
	case tok.Type == TokenIncludeMatch:
		attr.Operator = AttrIncludes
	case tok.Type == TokenDashMatch:
		attr.Operator = AttrDashMatch
	case tok.Type == TokenPrefixMatch:
		attr.Operator = AttrPrefix
	case tok.Type == TokenSuffixMatch:
		attr.Operator = AttrSuffix
	case tok.Type == TokenSubstringMatch:
		attr.Operator = AttrSubstring
	case tok.Type == TokenEOF:
		return nil, errSyntaxAt(tok, "unbalanced brackets")
	default:
		return nil, errSyntaxAt(tok, "unexpected %s in attribute selector", tok)
	}
	p.consume()
	p.skipWhitespace()

	tok = p.current()
	if tok.Type != TokenString && tok.Type != TokenIdent {
		return nil, errSyntaxAt(tok, "expected attribute value")
	}
	attr.Value = p.consume().Value
	p.skipWhitespace()

	if tok = p.current(); tok.Type == TokenIdent {
		switch strings.ToLower(tok.Value) {
		case "i":
			attr.Case = CaseInsensitive
		case "s":
			attr.Case = CaseSensitive
		default:
			return nil, errSyntaxAt(tok, "unknown attribute selector flag %s", tok)
		}
		p.consume()
		p.skipWhitespace()
	}

	tok = p.current()
	if tok.Type == TokenEOF {
		return nil, errSyntaxAt(tok, "unbalanced brackets")
	}
	if tok.Type != TokenCloseSquare {
		return nil, errSyntaxAt(tok, "unexpected %s in attribute selector", tok)
	}
	p.consume()
	return attr, nil
}

// parsePseudoClass parses a pseudo-class selector after its colon.
func (p *SelectorParser) parsePseudoClass() (*PseudoClassSelector, error) {
	tok := p.current()
	pc := &PseudoClassSelector{Name: strings.ToLower(tok.Value)}

	switch tok.Type {
	case TokenIdent:
		if !knownPseudoClasses[pc.Name] {
			return nil, errSyntaxAt(tok, "unknown pseudo-class :%s", pc.Name)
		}
		p.consume()
		return pc, nil
	case TokenFunction:
	default:
		return nil, errSyntaxAt(tok, "expected pseudo-class name")
	}
	p.consume()

	switch pc.Name {
	case "nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type":
		arg, err := p.consumeArgument(tok)
		if err != nil {
			return nil, err
		}
		nth, err := ParseNth(arg)
		if err != nil {
			return nil, errSyntaxAt(tok, "%s", err)
		}
		pc.Nth = nth
		pc.Argument = arg
		return pc, nil

	case "not", "is", "where", "matches", "any", "has":
		list, err := p.parseSelectorList(pc.Name == "has", true)
		if err != nil {
			return nil, err
		}
		p.consume() // )
		pc.Selector = list
		return pc, nil

	case "lang":
		p.skipWhitespace()
		arg := p.current()
		if arg.Type != TokenIdent && arg.Type != TokenString {
			return nil, errSyntaxAt(arg, "expected language tag")
		}
		p.consume()
		p.skipWhitespace()
		if p.current().Type != TokenCloseParen {
			return nil, p.unbalancedOr(p.current())
		}
		p.consume()
		pc.Argument = arg.Value
		return pc, nil
	}
	return nil, errSyntaxAt(tok, "unknown pseudo-class :%s()", pc.Name)
}

func (p *SelectorParser) unbalancedOr(tok Token) error {
	if tok.Type == TokenEOF {
		return errSyntaxAt(tok, "unbalanced parentheses")
	}
	return p.unexpected(tok)
}

// consumeArgument returns the raw text up to the parenthesis closing fn.
func (p *SelectorParser) consumeArgument(fn Token) (string, error) {
	var arg strings.Builder
	depth := 1
	for {
		tok := p.current()
		switch tok.Type {
		case TokenEOF:
			return "", errSyntaxAt(fn, "unbalanced parentheses")
		case TokenOpenParen, TokenFunction:
			depth++
		case TokenCloseParen:
			depth--
			if depth == 0 {
				p.consume()
				return strings.TrimSpace(arg.String()), nil
			}
		}
		arg.WriteString(tok.Raw)
		p.consume()
	}
}

// parsePseudoElement parses a pseudo-element selector after its two colons.
func (p *SelectorParser) parsePseudoElement() (*PseudoElementSelector, error) {
	tok := p.current()
	if tok.Type != TokenIdent {
		return nil, errSyntaxAt(tok, "expected pseudo-element name")
	}
	name := strings.ToLower(tok.Value)
	if !knownPseudoElements[name] {
		return nil, errSyntaxAt(tok, "unknown pseudo-element ::%s", name)
	}
	p.consume()
	return &PseudoElementSelector{Name: name}, nil
}
