package builder

import (
	"math"
	"strconv"
	"strings"

	"github.com/willabides/fyvalue/value"
)

// CreateScalarFromText implements spec §4.J's create_scalar_from_text:
// classify text against schema's literal tables, then integer syntax, then
// float syntax, falling back to a plain string. forceType, when force is
// true, requires the result to be that kind or the call returns
// value.Invalid.
func (b *Builder) CreateScalarFromText(text string, schema Schema, forceType value.Kind, force bool) value.Value {
	if force && forceType == value.KindString {
		return b.StringOf([]byte(text))
	}

	s := schema.resolved()
	t := tables[s]

	if t.null[text] {
		return checkForced(b.NullOf(), value.KindNull, forceType, force)
	}
	if t.boolTrue[text] {
		return checkForced(b.BoolOf(true), value.KindBool, forceType, force)
	}
	if t.boolFalse[text] {
		return checkForced(b.BoolOf(false), value.KindBool, forceType, force)
	}
	if t.posInf[text] {
		return checkForced(b.FloatOf(posInf()), value.KindFloat, forceType, force)
	}
	if t.negInf[text] {
		return checkForced(b.FloatOf(negInf()), value.KindFloat, forceType, force)
	}
	if t.nan[text] {
		return checkForced(b.FloatOf(nanVal()), value.KindFloat, forceType, force)
	}

	if s != Schema12Failsafe {
		if i, ok := scanInt(text, rulesFor(s)); ok {
			return checkForced(b.IntOf(i), value.KindInt, forceType, force)
		}
		if d, ok := scanFloat(text, rulesFor(s)); ok {
			return checkForced(b.FloatOf(d), value.KindFloat, forceType, force)
		}
	}

	return checkForced(b.StringOf([]byte(text)), value.KindString, forceType, force)
}

func checkForced(v value.Value, got value.Kind, want value.Kind, force bool) value.Value {
	if force && got != want {
		return value.Invalid
	}
	return v
}

func posInf() float64 { return math.Inf(1) }
func negInf() float64 { return math.Inf(-1) }
func nanVal() float64 { return math.NaN() }

// scanInt implements step 3: optional sign, optional base prefix (YAML
// only), digits in that base, text fully consumed.
func scanInt(text string, rules numericRules) (int64, bool) {
	if text == "" {
		return 0, false
	}
	s := text
	neg := false
	if s[0] == '+' || s[0] == '-' {
		if s[0] == '+' && !rules.allowPlusSign {
			return 0, false
		}
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}
	base := 10
	if rules.allowHexOctal && len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base = 16
			s = s[2:]
		case 'o', 'O':
			base = 8
			s = s[2:]
		}
	}
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if !isDigitInBase(c, base) {
			return 0, false
		}
	}
	u, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		if u > 1<<63 {
			return 0, false
		}
		return -int64(u), true
	}
	if u > uint64(1<<63-1) {
		return 0, false
	}
	return int64(u), true
}

func isDigitInBase(c rune, base int) bool {
	switch base {
	case 16:
		return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
	case 8:
		return c >= '0' && c <= '7'
	default:
		return c >= '0' && c <= '9'
	}
}

// scanFloat implements step 4: sign, decimal digits, optional fraction,
// optional exponent, text fully consumed.
func scanFloat(text string, rules numericRules) (float64, bool) {
	if text == "" {
		return 0, false
	}
	s := text
	if s[0] == '+' || s[0] == '-' {
		if s[0] == '+' && !rules.allowPlusSign {
			return 0, false
		}
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}
	if !looksLikeFloatBody(s) {
		return 0, false
	}
	d, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return d, true
}

func looksLikeFloatBody(s string) bool {
	i := 0
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}
	return i == len(s)
}

// MergeTag is the YAML 1.1 merge-key literal, used by package decode to
// detect "<<" mapping keys (spec §4.L).
const MergeTag = "<<"

// IsMergeKey reports whether text is the YAML 1.1 merge-key literal.
func IsMergeKey(text string) bool {
	return strings.TrimSpace(text) == MergeTag
}
