package css

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NthExpr is a parsed An+B expression. It matches the 1-based positions p
// for which p = A*k + B holds for some integer k >= 0.
type NthExpr struct {
	A int
	B int
}

// Whitespace is allowed around the sign that introduces B, never inside
// the An part or between a sign and its digits.
var anPlusB = regexp.MustCompile(`^(?:([+-]?\d*)n(?:\s*([+-])\s*(\d+))?|([+-]?\d+))$`)

// maxNthValue bounds A and B. Larger values are clamped, which keeps the
// position arithmetic in Matches from overflowing.
const maxNthValue = 1<<31 - 1

// ParseNth parses the argument of the :nth-* pseudo-classes.
func ParseNth(s string) (NthExpr, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "odd":
		return NthExpr{A: 2, B: 1}, nil
	case "even":
		return NthExpr{A: 2, B: 0}, nil
	}
	m := anPlusB.FindStringSubmatch(s)
	if m == nil {
		return NthExpr{}, fmt.Errorf("invalid An+B expression %q", s)
	}
	if m[4] != "" {
		b, err := parseNthInt(m[4])
		if err != nil {
			return NthExpr{}, fmt.Errorf("invalid An+B expression %q: %w", s, err)
		}
		return NthExpr{B: b}, nil
	}

	var e NthExpr
	switch m[1] {
	case "", "+":
		e.A = 1
	case "-":
		e.A = -1
	default:
		a, err := parseNthInt(m[1])
		if err != nil {
			return NthExpr{}, fmt.Errorf("invalid An+B expression %q: %w", s, err)
		}
		e.A = a
	}
	if m[3] != "" {
		b, err := parseNthInt(m[2] + m[3])
		if err != nil {
			return NthExpr{}, fmt.Errorf("invalid An+B expression %q: %w", s, err)
		}
		e.B = b
	}
	return e, nil
}

// parseNthInt parses a decimal integer, saturating at maxNthValue.
func parseNthInt(s string) (int, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return int(max(-maxNthValue-1, min(v, maxNthValue))), nil
}

// Matches reports whether the 1-based position pos is selected.
func (e NthExpr) Matches(pos int) bool {
	if e.A == 0 {
		return pos == e.B
	}
	diff := int64(pos) - int64(e.B)
	if diff != 0 && (diff < 0) != (e.A < 0) {
		return false
	}
	return diff%int64(e.A) == 0
}

func (e NthExpr) String() string {
	switch {
	case e.A == 0:
		return strconv.Itoa(e.B)
	case e.B == 0:
		return strconv.Itoa(e.A) + "n"
	default:
		return fmt.Sprintf("%dn%+d", e.A, e.B)
	}
}
