// Package templ renders the small templates used in config values.
//
// A value is either a Go template (it contains "{{") or a string with
// ${path.to.value} interpolations. Interpolations only support variable lookup
// and dotted property access into a Context; there are no expressions.
package templ

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrUndefinedVariable is returned when a template references a value not in the context.
var ErrUndefinedVariable = errors.New("undefined variable")

// We add a limited set of useful funcs, mostly string handling, to the Go built-ins.
var BuiltInFuncs = template.FuncMap{
	"upper": func(s string) string {
		return strings.ToUpper(s)
	},
	"lower": func(s string) string {
		return strings.ToLower(s)
	},
	"replace": strings.ReplaceAll,
	"trimPrefix": func(prefix, s string) string {
		return strings.TrimPrefix(s, prefix)
	},
	"trimSuffix": func(suffix, s string) string {
		return strings.TrimSuffix(s, suffix)
	},
}

// Context holds the values a template can reference.
// Nested maps (Context, map[string]any or map[string]string) give property access.
type Context map[string]any

// Merge returns a copy of c with the keys in other added.
// Existing keys in c win.
func (c Context) Merge(other map[string]string) Context {
	m := make(Context, len(c)+len(other))
	for k, v := range other {
		m[k] = v
	}
	for k, v := range c {
		m[k] = v
	}
	return m
}

// Parse parses t as a Go template with the built-in funcs.
func Parse(t string) (*template.Template, error) {
	return template.New("").Funcs(BuiltInFuncs).Option("missingkey=error").Parse(t)
}

// Sprintt renders the Go template t with the given data in ctx.
func Sprintt(t string, ctx any) (string, error) {
	tmpl, err := Parse(t)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render renders s against ctx.
func Render(s string, ctx Context) (string, error) {
	if strings.Contains(s, "{{") {
		return Sprintt(s, map[string]any(ctx))
	}
	return interpolate(s, ctx)
}

// RenderAll renders every string in ss, preserving order.
func RenderAll(ss []string, ctx Context) ([]string, error) {
	result := make([]string, len(ss))
	for i, s := range ss {
		r, err := Render(s, ctx)
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

// Resolve renders the first non-empty source.
// It returns false if all sources are empty.
func Resolve(ctx Context, sources ...string) (string, bool, error) {
	for _, s := range sources {
		if s == "" {
			continue
		}
		r, err := Render(s, ctx)
		if err != nil {
			return "", true, fmt.Errorf("failed to render %q: %w", s, err)
		}
		return r, true, nil
	}
	return "", false, nil
}

// ResolveList renders every element of the first non-empty source.
// It returns false if all sources are empty.
func ResolveList(ctx Context, sources ...[]string) ([]string, bool, error) {
	for _, s := range sources {
		if len(s) == 0 {
			continue
		}
		r, err := RenderAll(s, ctx)
		if err != nil {
			return nil, true, fmt.Errorf("failed to render %q: %w", s, err)
		}
		return r, true, nil
	}
	return nil, false, nil
}

func interpolate(s string, ctx Context) (string, error) {
	if !strings.Contains(s, "${") {
		return s, nil
	}

	var sb strings.Builder
	for {
		i := strings.Index(s, "${")
		if i == -1 {
			sb.WriteString(s)
			break
		}
		// $${ is a literal ${.
		if i > 0 && s[i-1] == '$' {
			sb.WriteString(s[:i-1])
			sb.WriteString("${")
			s = s[i+2:]
			continue
		}
		sb.WriteString(s[:i])
		s = s[i+2:]
		j := strings.IndexByte(s, '}')
		if j == -1 {
			return "", errors.New("unterminated ${")
		}
		v, err := lookup(ctx, strings.TrimSpace(s[:j]))
		if err != nil {
			return "", err
		}
		sb.WriteString(v)
		s = s[j+1:]
	}

	return sb.String(), nil
}

func lookup(ctx Context, path string) (string, error) {
	if path == "" {
		return "", errors.New("empty ${}")
	}
	var current any = map[string]any(ctx)
	for _, key := range strings.Split(path, ".") {
		if !isIdentifier(key) {
			return "", fmt.Errorf("invalid reference %q: only variable names and property access are supported", path)
		}
		var (
			v     any
			found bool
		)
		switch m := current.(type) {
		case map[string]any:
			v, found = m[key]
		case Context:
			v, found = m[key]
		case map[string]string:
			v, found = m[key]
		default:
			return "", fmt.Errorf("%w: %q (%T has no properties)", ErrUndefinedVariable, path, current)
		}
		if !found {
			return "", fmt.Errorf("%w: %q", ErrUndefinedVariable, path)
		}
		current = v
	}

	switch v := current.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case map[string]any, map[string]string, Context:
		return "", fmt.Errorf("%q is not a value", path)
	default:
		return fmt.Sprint(v), nil
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}
