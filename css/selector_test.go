package css

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/htmltree/dom"
)

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("div > p.foo")
	require.NoError(t, err)

	var types []TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		TokenIdent, TokenWhitespace, TokenDelim, TokenWhitespace,
		TokenIdent, TokenDelim, TokenIdent, TokenEOF,
	}, types)
	assert.Equal(t, '>', tokens[2].Delim)
	assert.Equal(t, 8, tokens[6].Pos)
}

func TestTokenizeTypeBeforePlus(t *testing.T) {
	tokens, err := Tokenize("u+a1 U+DIV")
	require.NoError(t, err)

	var got []string
	var pos []int
	for _, tok := range tokens {
		got = append(got, tok.Raw)
		pos = append(pos, tok.Pos)
	}
	assert.Equal(t, []string{"u", "+", "a1", " ", "U", "+", "DIV", ""}, got)
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6, 7, 10}, pos)
	assert.Equal(t, TokenIdent, tokens[0].Type)
	assert.Equal(t, "u", tokens[0].Value)
	assert.Equal(t, TokenDelim, tokens[1].Type)
	assert.Equal(t, '+', tokens[1].Delim)
	assert.Equal(t, TokenIdent, tokens[6].Type)
	assert.Equal(t, "DIV", tokens[6].Value)
}

func TestTokenizeValues(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
		value string
	}{
		{"foo", TokenIdent, "foo"},
		{"-webkit-x", TokenIdent, "-webkit-x"},
		{`\31 0`, TokenIdent, "10"},
		{"#main", TokenHash, "main"},
		{`"a b"`, TokenString, "a b"},
		{`'it\'s'`, TokenString, "it's"},
		{"nth-child(", TokenFunction, "nth-child"},
		{"~=", TokenIncludeMatch, ""},
		{"|=", TokenDashMatch, ""},
		{"^=", TokenPrefixMatch, ""},
		{"$=", TokenSuffixMatch, ""},
		{"*=", TokenSubstringMatch, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.typ, tokens[0].Type)
			assert.Equal(t, tt.value, tokens[0].Value)
		})
	}
}

func TestTokenizeDropsComments(t *testing.T) {
	tokens, err := Tokenize("a/* x */b")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, "a", tokens[0].Value)
	assert.Equal(t, "b", tokens[1].Value)
}

func TestHashType(t *testing.T) {
	tokens, err := Tokenize("#abc #-x #123")
	require.NoError(t, err)
	assert.Equal(t, HashID, tokens[0].HashType)
	assert.Equal(t, HashID, tokens[2].HashType)
	assert.Equal(t, HashUnrestricted, tokens[4].HashType)
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "plain", unescape("plain"))
	assert.Equal(t, "a.b", unescape(`a\.b`))
	assert.Equal(t, "été", unescape(`\E9 t\e9`))
	assert.Equal(t, "�", unescape(`\0`))
	assert.Equal(t, "ab", unescape("a\\\nb"))
}

func TestParseSelectorStructure(t *testing.T) {
	set, err := ParseSelector(`div#main > ul.nav li:nth-child(2n+1)[data-x="1" i], a::before`)
	require.NoError(t, err)
	require.Len(t, set.Selectors, 2)

	first := set.Selectors[0]
	assert.Equal(t, `div#main > ul.nav li:nth-child(2n+1)[data-x="1" i]`, first.String())
	require.Len(t, first.Compounds, 3)

	div := first.Compounds[0]
	assert.Equal(t, "div", div.TypeSelector.Name)
	assert.Equal(t, []string{"main"}, div.IDSelectors)
	assert.Equal(t, CombinatorChild, div.Combinator)

	ul := first.Compounds[1]
	assert.Equal(t, []string{"nav"}, ul.ClassSelectors)
	assert.Equal(t, CombinatorDescendant, ul.Combinator)

	li := first.Compounds[2]
	require.Len(t, li.PseudoClasses, 1)
	assert.Equal(t, "nth-child", li.PseudoClasses[0].Name)
	assert.Equal(t, NthExpr{A: 2, B: 1}, li.PseudoClasses[0].Nth)
	require.Len(t, li.AttributeMatchers, 1)
	assert.Equal(t, &AttributeMatcher{Name: "data-x", Operator: AttrEquals, Value: "1", Case: CaseInsensitive}, li.AttributeMatchers[0])
	assert.Equal(t, CombinatorNone, li.Combinator)

	second := set.Selectors[1]
	assert.Equal(t, "a::before", second.String())
	assert.Equal(t, "before", second.Compounds[0].PseudoElement.Name)
}

func TestParseRelativeSelectors(t *testing.T) {
	set, err := ParseSelector("div:has(> p, + span, ~ em, b i)")
	require.NoError(t, err)

	has := set.Selectors[0].Compounds[0].PseudoClasses[0]
	require.Equal(t, "has", has.Name)
	var relatives []CombinatorType
	for _, sel := range has.Selector.Selectors {
		relatives = append(relatives, sel.Relative)
	}
	assert.Equal(t, []CombinatorType{
		CombinatorChild, CombinatorNextSibling, CombinatorSubsequentSibling, CombinatorDescendant,
	}, relatives)
	assert.Equal(t, CombinatorNone, set.Selectors[0].Relative)
}

func TestParseNamespacePrefixes(t *testing.T) {
	set, err := ParseSelector("*|svg, |p, *")
	require.NoError(t, err)
	assert.Equal(t, &TypeSelector{Namespace: "*", Name: "svg"}, set.Selectors[0].Compounds[0].TypeSelector)
	assert.Equal(t, &TypeSelector{Namespace: "", Name: "p"}, set.Selectors[1].Compounds[0].TypeSelector)
	assert.Equal(t, &TypeSelector{Namespace: "*", Name: "*"}, set.Selectors[2].Compounds[0].TypeSelector)
}

func TestParseSelectorErrors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"p,",
		",p",
		"p,,a",
		"p >",
		"> p",
		"p ~ ,a",
		"p:unknown",
		"li:nth-child(2 n)",
		"li:nth-child(- n+2)",
		"p:unknown()",
		"p::unknown",
		"p:nth-child(2n+)",
		"p:nth-child(foo)",
		"p:nth-child(2",
		"p:not(",
		"p:not(a",
		"p:is()",
		"p:has()",
		"p:has(>)",
		"p:lang()",
		"p)",
		"[a",
		"[a=]",
		"[a=b",
		"[a=b x]",
		"[=b]",
		"p]",
		"ns|p",
		"[ns|a]",
		"p::before span",
		"p::before.foo",
		"#1",
		"p. foo",
		"p..foo",
		`p[title="unterminated]`,
		"a || b",
		"p {",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			set, err := Compile(input)
			require.Error(t, err)
			assert.Nil(t, set)
			assert.True(t, errors.Is(err, dom.Syntax), "want SyntaxError, got %v", err)
		})
	}
}

func TestSpecificity(t *testing.T) {
	tests := []struct {
		selector string
		want     Specificity
	}{
		{"*", Specificity{0, 0, 0}},
		{"p", Specificity{0, 0, 1}},
		{"p.foo", Specificity{0, 1, 1}},
		{"#a.b", Specificity{1, 1, 0}},
		{"div > p + span", Specificity{0, 0, 3}},
		{"[x]:hover", Specificity{0, 2, 0}},
		{"p::before", Specificity{0, 0, 2}},
		{"a:before", Specificity{0, 0, 2}},
		{":is(#a, .b) p", Specificity{1, 0, 1}},
		{":where(#a) p", Specificity{0, 0, 1}},
		{":not(.a, #b)", Specificity{1, 0, 0}},
		{":has(> .a)", Specificity{0, 1, 0}},
		{"li:nth-child(2n)", Specificity{0, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			set := MustCompile(tt.selector)
			assert.Equal(t, tt.want, set.Selectors[0].Specificity())
		})
	}
}

func TestSpecificityOrdering(t *testing.T) {
	set := MustCompile(".example, :first-child, div")
	specs := []Specificity{
		set.Selectors[0].Specificity(),
		set.Selectors[1].Specificity(),
		set.Selectors[2].Specificity(),
	}

	assert.Equal(t, 0, specs[0].Compare(specs[1]))
	assert.Equal(t, 1, specs[0].Compare(specs[2]))
	assert.True(t, specs[2].Less(specs[0]))
	assert.False(t, specs[0].Less(specs[1]))
	assert.Equal(t, Specificity{0, 1, 0}, set.MaxSpecificity())
	assert.Equal(t, "(0,1,0)", specs[0].String())
	assert.Equal(t, ".example, :first-child, div", set.Source())
}

func TestParseNth(t *testing.T) {
	tests := []struct {
		input string
		want  NthExpr
	}{
		{"odd", NthExpr{2, 1}},
		{"EVEN", NthExpr{2, 0}},
		{"5", NthExpr{0, 5}},
		{"+5", NthExpr{0, 5}},
		{"-2", NthExpr{0, -2}},
		{"n", NthExpr{1, 0}},
		{"+n", NthExpr{1, 0}},
		{"-n+3", NthExpr{-1, 3}},
		{"4n+1", NthExpr{4, 1}},
		{"2n - 1", NthExpr{2, -1}},
		{" 3N+0 ", NthExpr{3, 0}},
		{"2n +1", NthExpr{2, 1}},
		{"2n- 1", NthExpr{2, -1}},
		{"-n\t+\n6", NthExpr{-1, 6}},
		{"n-9223372036854775808", NthExpr{1, -maxNthValue - 1}},
		{"99999999999999999999n", NthExpr{maxNthValue, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNth(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "n+", "2n+1n", "one", "--n", "1.5n", "2 n", "- n+2", "+ 5", "2n + -1", "2n+ +1"} {
		_, err := ParseNth(bad)
		assert.Error(t, err, bad)
	}
}

func TestNthMatches(t *testing.T) {
	positions := func(e NthExpr) []int {
		var out []int
		for p := 1; p <= 10; p++ {
			if e.Matches(p) {
				out = append(out, p)
			}
		}
		return out
	}

	assert.Equal(t, []int{1, 5, 9}, positions(NthExpr{4, 1}))
	assert.Equal(t, []int{2, 4, 6, 8, 10}, positions(NthExpr{2, 0}))
	assert.Equal(t, []int{1, 2, 3}, positions(NthExpr{-1, 3}))
	assert.Equal(t, []int{3}, positions(NthExpr{0, 3}))
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9, 10}, positions(NthExpr{1, 4}))
	assert.Empty(t, positions(NthExpr{-1, 0}))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, positions(NthExpr{1, -maxNthValue - 1}))
	assert.Equal(t, []int{1}, positions(NthExpr{-maxNthValue - 1, 1}))
	assert.Equal(t, "4n+1", NthExpr{4, 1}.String())
	assert.Equal(t, "-1n+3", NthExpr{-1, 3}.String())
}
