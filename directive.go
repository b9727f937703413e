package dcttxt

import "strings"

// Directive is a script line: "/*!" at column zero, then a name, then
// optional "[...]" positional and "{...}" named arguments, e.g.
//
//	/*! rebuild [idx, full] {depth: 2, force} */
//
// A directive consumes its whole line. It is kept on the group but
// never re-serialized.
type Directive struct {
	Name string
	Args []string
	// NamedArgs keeps the source order. A name without ":" maps to "".
	NamedArgs []NamedArg
	// Line is the raw source line.
	Line string
}

type NamedArg struct {
	Name  string
	Value string
}

// Arg returns the named argument's value and whether it is present.
func (d *Directive) Arg(name string) (string, bool) {
	for _, a := range d.NamedArgs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func isDirectiveLine(raw string) bool {
	return strings.HasPrefix(raw, "/*!")
}

func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '.' || c == '-'
}

// parseDirective parses a raw "/*!" line. The name is the run of
// [A-Za-z0-9_.-] after optional spaces and may be empty. Text after
// the argument blocks, including a closing "*/", is ignored.
func parseDirective(raw string) Directive {
	d := Directive{Line: raw}
	rest := strings.TrimLeft(raw[3:], " ")
	n := 0
	for n < len(rest) && isNameChar(rest[n]) {
		n++
	}
	d.Name = rest[:n]
	rest = strings.TrimLeft(rest[n:], " ")

	if strings.HasPrefix(rest, "[") {
		if end := strings.IndexByte(rest, ']'); end != -1 {
			inner := rest[1:end]
			if strings.TrimSpace(inner) != "" {
				for _, a := range strings.Split(inner, ",") {
					d.Args = append(d.Args, strings.TrimSpace(a))
				}
			}
			rest = strings.TrimLeft(rest[end+1:], " ")
		}
	}
	if strings.HasPrefix(rest, "{") {
		if end := strings.IndexByte(rest, '}'); end != -1 {
			for _, part := range strings.Split(rest[1:end], ",") {
				if strings.TrimSpace(part) == "" {
					continue
				}
				k, v, _ := strings.Cut(part, ":")
				d.NamedArgs = append(d.NamedArgs, NamedArg{
					Name:  strings.TrimSpace(k),
					Value: strings.TrimSpace(v),
				})
			}
		}
	}
	return d
}
