package flowval

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	intRe   = regexp.MustCompile(`^[-+]?[0-9]+$`)
	floatRe = regexp.MustCompile(`^[-+]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][-+]?[0-9]+)?$`)
)

var nullWords = map[string]bool{
	"null": true,
	"Null": true,
	"NULL": true,
	"~":    true,
}

var boolWords = map[string]bool{
	"true":  true,
	"True":  true,
	"TRUE":  true,
	"false": false,
	"False": false,
	"FALSE": false,
}

// specialByte marks bytes that disqualify a string from the fast
// unquoted-scalar path. Such strings go through the yaml parser.
var specialByte [128]bool

func init() {
	for _, c := range []byte(`:{}[]&*#?|-<>=!%@\'"`) {
		specialByte[c] = true
	}
	for c := 0; c < 32; c++ {
		specialByte[c] = true
	}
}

// parseScalar resolves the scalar forms that do not need the yaml
// parser: null, booleans, numbers, quoted strings without escapes and
// plain strings free of flow-special characters. ok is false when s
// needs the full flow grammar.
func parseScalar(s string) (v any, ok bool) {
	if s == "" {
		return nil, true
	}
	switch s[0] {
	case '{', '[', '!':
		return nil, false
	}
	if nullWords[s] {
		return nil, true
	}
	if b, isBool := boolWords[s]; isBool {
		return b, true
	}
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return parseQuoted(s)
	}
	if n, isNum := parseNumber(s); isNum {
		return n, true
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 128 && specialByte[c] {
			return nil, false
		}
	}
	return s, true
}

func parseQuoted(s string) (any, bool) {
	inner := s[1 : len(s)-1]
	if s[0] == '\'' {
		if hasLoneSingleQuote(inner) {
			return nil, false
		}
		return strings.ReplaceAll(inner, "''", "'"), true
	}
	// double-quoted; escape sequences are left to the yaml parser
	if strings.ContainsAny(inner, `\"`) {
		return nil, false
	}
	return inner, true
}

func hasLoneSingleQuote(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '\'' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			i++
			continue
		}
		return true
	}
	return false
}

func parseNumber(s string) (any, bool) {
	switch {
	case strings.EqualFold(s, ".inf"), strings.EqualFold(s, "+.inf"):
		return math.Inf(1), true
	case strings.EqualFold(s, "-.inf"):
		return math.Inf(-1), true
	case strings.EqualFold(s, ".nan"):
		return math.NaN(), true
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseInt(s[2:], base, 64)
			if err != nil {
				return nil, false
			}
			return n, true
		}
	}
	if intRe.MatchString(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	}
	if floatRe.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return nil, false
}
