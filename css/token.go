// Package css compiles CSS selectors and matches them against dom trees.
//
// Tokenization is delegated to the CSS lexer of github.com/tdewolff/parse;
// this package maps its tokens onto the small set the selector grammar
// needs and decodes escapes.
package css

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/chrisuehlinger/htmltree/dom"
)

// TokenType represents the type of a selector token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenFunction
	TokenHash
	TokenString
	TokenDelim
	TokenNumber
	TokenPercentage
	TokenDimension
	TokenWhitespace
	TokenColon
	TokenComma
	TokenOpenSquare  // [
	TokenCloseSquare // ]
	TokenOpenParen   // (
	TokenCloseParen  // )
	TokenIncludeMatch
	TokenDashMatch
	TokenPrefixMatch
	TokenSuffixMatch
	TokenSubstringMatch
	TokenOther // anything the selector grammar never accepts
)

// HashType indicates whether a hash token is an ID or unrestricted.
type HashType int

const (
	HashUnrestricted HashType = iota
	HashID
)

// Token represents a selector token.
type Token struct {
	Type     TokenType
	Value    string // decoded value: no quotes, no '#', no '(' and escapes resolved
	Raw      string // source text of the token
	Delim    rune   // the delimiter character for delim tokens
	HashType HashType
	Pos      int // byte offset in the source
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenWhitespace:
		return "whitespace"
	default:
		return strconv.Quote(t.Raw)
	}
}

// Tokenize splits a selector into tokens. Comments are dropped. The result
// always ends with a TokenEOF token. Errors are SyntaxError DOM errors.
func Tokenize(input string) ([]Token, error) {
	lexer := newLexer(input)
	var tokens []Token
	pos := 0
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, dom.ErrSyntax(fmt.Sprintf("unable to tokenize selector: %v", err))
			}
			tokens = append(tokens, Token{Type: TokenEOF, Pos: len(input)})
			return tokens, nil
		}
		raw := string(data)
		tok := Token{Raw: raw, Pos: pos}
		pos += len(data)

		switch tt {
		case css.CommentToken:
			continue
		case css.UnicodeRangeToken:
			// "u+a" is a type selector, a combinator and another compound.
			// Emit the first two and lex again right after the plus sign.
			start := tok.Pos
			tokens = append(tokens,
				Token{Type: TokenIdent, Value: raw[:1], Raw: raw[:1], Pos: start},
				Token{Type: TokenDelim, Delim: '+', Raw: "+", Pos: start + 1},
			)
			pos = start + 2
			lexer = newLexer(input[pos:])
			continue
		case css.IdentToken, css.CustomPropertyNameToken:
			tok.Type = TokenIdent
			tok.Value = unescape(raw)
		case css.FunctionToken:
			tok.Type = TokenFunction
			tok.Value = unescape(strings.TrimSuffix(raw, "("))
		case css.HashToken:
			tok.Type = TokenHash
			tok.Value = unescape(raw[1:])
			if startsIdentifier(raw[1:]) {
				tok.HashType = HashID
			}
		case css.StringToken:
			tok.Type = TokenString
			tok.Value = unquote(raw)
		case css.BadStringToken:
			return nil, errSyntaxAt(tok, "unterminated string")
		case css.DelimToken:
			tok.Type = TokenDelim
			tok.Delim, _ = utf8.DecodeRuneInString(raw)
		case css.NumberToken:
			tok.Type = TokenNumber
			tok.Value = raw
		case css.PercentageToken:
			tok.Type = TokenPercentage
			tok.Value = raw
		case css.DimensionToken:
			tok.Type = TokenDimension
			tok.Value = raw
		case css.WhitespaceToken:
			tok.Type = TokenWhitespace
		case css.ColonToken:
			tok.Type = TokenColon
		case css.CommaToken:
			tok.Type = TokenComma
		case css.LeftBracketToken:
			tok.Type = TokenOpenSquare
		case css.RightBracketToken:
			tok.Type = TokenCloseSquare
		case css.LeftParenthesisToken:
			tok.Type = TokenOpenParen
		case css.RightParenthesisToken:
			tok.Type = TokenCloseParen
		case css.IncludeMatchToken:
			tok.Type = TokenIncludeMatch
		case css.DashMatchToken:
			tok.Type = TokenDashMatch
		case css.PrefixMatchToken:
			tok.Type = TokenPrefixMatch
		case css.SuffixMatchToken:
			tok.Type = TokenSuffixMatch
		case css.SubstringMatchToken:
			tok.Type = TokenSubstringMatch
		default:
			tok.Type = TokenOther
		}
		tokens = append(tokens, tok)
	}
}

func newLexer(input string) *css.Lexer {
	return css.NewLexer(parse.NewInput(strings.NewReader(input)))
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isNameStart(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r >= 0x80
}

// startsIdentifier reports whether s would start an ident token.
func startsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
		if s == "" {
			return false
		}
		if s[0] == '-' {
			return true
		}
	}
	if s[0] == '\\' {
		return len(s) > 1 && s[1] != '\n'
	}
	r, _ := utf8.DecodeRuneInString(s)
	return isNameStart(r)
}

// unescape resolves CSS escapes: a backslash followed by up to six hex
// digits (and one optional whitespace), or by any other character.
// An escaped newline is dropped.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		if i == len(s) {
			sb.WriteRune(utf8.RuneError)
			break
		}
		if s[i] == '\n' {
			i++
			continue
		}
		j := i
		for j < len(s) && j-i < 6 && isHexDigit(s[j]) {
			j++
		}
		if j == i {
			r, size := utf8.DecodeRuneInString(s[i:])
			sb.WriteRune(r)
			i += size
			continue
		}
		cp, _ := strconv.ParseUint(s[i:j], 16, 32)
		r := rune(cp)
		if r == 0 || r > utf8.MaxRune || (0xD800 <= r && r <= 0xDFFF) {
			r = utf8.RuneError
		}
		sb.WriteRune(r)
		i = j
		if i < len(s) {
			switch s[i] {
			case ' ', '\t', '\n', '\r', '\f':
				i++
			}
		}
	}
	return sb.String()
}

// unquote strips the quotes of a string token and resolves its escapes.
func unquote(raw string) string {
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
		raw = raw[1 : len(raw)-1]
	} else if len(raw) >= 1 {
		// A string closed by the end of input.
		raw = raw[1:]
	}
	return unescape(raw)
}
