package normalize

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Field reads one gjson path and converts the value. Transform reports false
// when the value is absent, empty or unusable.
type Field[T any] struct {
	Path      string
	Transform func(gjson.Result) (T, bool)
}

// Chain is an ordered fallback list: the first field yielding a value wins.
type Chain[T any] []Field[T]

func (c Chain[T]) Resolve(item gjson.Result) (T, bool) {
	for _, f := range c {
		v := item.Get(f.Path)
		if !v.Exists() {
			continue
		}
		if out, ok := f.Transform(v); ok {
			return out, true
		}
	}
	var zero T
	return zero, false
}

// ResolveOr resolves the chain and falls back to def.
func (c Chain[T]) ResolveOr(item gjson.Result, def T) T {
	if v, ok := c.Resolve(item); ok {
		return v
	}
	return def
}

func toText(r gjson.Result) (string, bool) {
	if r.Type != gjson.String && r.Type != gjson.Number {
		return "", false
	}
	s := strings.TrimSpace(r.String())
	return s, s != ""
}

func Text(path string) Field[string] {
	return Field[string]{Path: path, Transform: toText}
}

// Byline reads a byline string and strips a leading "By ".
func Byline(path string) Field[string] {
	return Field[string]{Path: path, Transform: func(r gjson.Result) (string, bool) {
		s, ok := toText(r)
		if !ok {
			return "", false
		}
		s = strings.TrimSpace(strings.TrimPrefix(s, "By "))
		return s, s != ""
	}}
}

// AbsoluteURL reads a url and resolves relative values against base.
func AbsoluteURL(path, base string) Field[string] {
	return Field[string]{Path: path, Transform: func(r gjson.Result) (string, bool) {
		s, ok := toText(r)
		if !ok {
			return "", false
		}
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			return s, true
		}
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(s, "/"), true
	}}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Date reads a timestamp; unparseable values are treated as absent.
func Date(path string) Field[time.Time] {
	return Field[time.Time]{Path: path, Transform: func(r gjson.Result) (time.Time, bool) {
		s, ok := toText(r)
		if !ok {
			return time.Time{}, false
		}
		return parseDate(s)
	}}
}
