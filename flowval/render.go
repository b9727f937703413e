package flowval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RenderValue renders v in flow style so that ParseValue returns an
// equal value. Values outside the closed domain are an error.
func (p *Parser) RenderValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case bool:
		if x {
			return "true", nil
		}
		return "false", nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return renderFloat(x), nil
	case string:
		return renderString(x), nil
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			s, err := p.RenderValue(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *Map:
		s, err := p.RenderMapping(x)
		if err != nil {
			return "", err
		}
		return "{" + s + "}", nil
	}
	return "", fmt.Errorf("cannot render value of type %T", v)
}

// RenderMapping renders m as a brace-less flow mapping, using the
// bare-key shorthand for null values. The exact inverse of
// ParseMapping.
func (p *Parser) RenderMapping(m *Map) (string, error) {
	if m == nil || m.Len() == 0 {
		return "", nil
	}
	parts := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		k := renderKey(e.Key)
		if e.Value == nil {
			parts = append(parts, k)
			continue
		}
		v, err := p.RenderValue(e.Value)
		if err != nil {
			return "", err
		}
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, ", "), nil
}

func renderFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// keep a float marker so the value does not re-parse as an int
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// renderString renders s so it re-parses as exactly s: plain when the
// scalar parser would return it unchanged, single-quoted otherwise,
// double-quoted when it contains control characters.
func renderString(s string) string {
	if plainSafe(s) {
		return s
	}
	if !containsControl(s) {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return doubleQuote(s)
}

func plainSafe(s string) bool {
	if s == "" || s != strings.TrimSpace(s) || strings.Contains(s, ",") {
		return false
	}
	v, ok := parseScalar(s)
	if !ok {
		return false
	}
	str, isStr := v.(string)
	return isStr && str == s
}

// renderKey renders a mapping key. Keys are text: they need quoting
// only when they would break the flow syntax, not when they look like
// numbers or booleans.
func renderKey(k string) string {
	if keyPlainSafe(k) {
		return k
	}
	if !containsControl(k) {
		return "'" + strings.ReplaceAll(k, "'", "''") + "'"
	}
	return doubleQuote(k)
}

func keyPlainSafe(k string) bool {
	if k == "" || k != strings.TrimSpace(k) || strings.Contains(k, ",") {
		return false
	}
	switch k[0] {
	case '{', '[', '!':
		return false
	}
	for i := 0; i < len(k); i++ {
		if c := k[i]; c < 128 && specialByte[c] {
			return false
		}
	}
	return true
}

func containsControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return true
		}
	}
	return false
}

func doubleQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\x%02x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
