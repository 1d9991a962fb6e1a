// Package forms reads admin form submissions. Besides plain fields it
// understands the bracket convention used by the module editors:
//
//	slides[0][title]=...
//	slides[0][buttons][1][text]=...
//	tabs[2][product_ids][]=...
//
// Collections are returned ordered by numeric index.
package forms

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Form is a read-only view over submitted values.
type Form struct {
	values url.Values
}

func New(values url.Values) Form {
	if values == nil {
		values = url.Values{}
	}
	return Form{values: values}
}

// FromMap builds a form from single-valued fields, mostly for tests and commands.
func FromMap(fields map[string]string) Form {
	values := url.Values{}
	for key, value := range fields {
		values.Set(key, value)
	}
	return New(values)
}

func (f Form) Values() url.Values {
	return f.values
}

func (f Form) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// String returns the trimmed value of key, or def when it is missing or blank.
func (f Form) String(key, def string) string {
	return stringOr(f.values[key], def)
}

// Raw returns the untrimmed first value of key.
func (f Form) Raw(key string) string {
	return f.values.Get(key)
}

func (f Form) Int(key string, def int) int {
	return intOr(f.values[key], def)
}

// Bool reports a checked checkbox.
func (f Form) Bool(key string) bool {
	return Truthy(f.values.Get(key))
}

// UUID parses key, returning nil for blank, malformed or zero ids.
func (f Form) UUID(key string) *uuid.UUID {
	return ParseUUID(f.values.Get(key))
}

// List returns every non-blank value of key (or key[]).
func (f Form) List(key string) []string {
	raw := append(slices.Clone(f.values[key]), f.values[key+"[]"]...)
	return nonBlank(raw)
}

// Collection returns the entries submitted under prefix[...].
func (f Form) Collection(prefix string) []Entry {
	root := &node{}
	for key, values := range f.values {
		base, path, ok := splitKey(key)
		if !ok || base != prefix || len(path) == 0 {
			continue
		}
		root.insert(path, values)
	}
	return root.entries()
}

// Entry is one element of a bracket collection.
type Entry struct {
	Index string
	node  *node
}

// Position is the numeric index of the entry, or fallback when the index is not a number.
func (e Entry) Position(fallback int) int {
	if n, err := strconv.Atoi(e.Index); err == nil {
		return n
	}
	return fallback
}

func (e Entry) Has(field string) bool {
	_, ok := e.node.children[field]
	return ok
}

func (e Entry) String(field, def string) string {
	return stringOr(e.values(field), def)
}

func (e Entry) Int(field string, def int) int {
	return intOr(e.values(field), def)
}

func (e Entry) Bool(field string) bool {
	values := e.values(field)
	if len(values) == 0 {
		return false
	}
	return Truthy(values[0])
}

func (e Entry) UUID(field string) *uuid.UUID {
	values := e.values(field)
	if len(values) == 0 {
		return nil
	}
	return ParseUUID(values[0])
}

// List returns the values of field[] (or repeated field) without blanks.
func (e Entry) List(field string) []string {
	child, ok := e.node.children[field]
	if !ok {
		return nil
	}
	out := slices.Clone(child.values)
	if list, ok := child.children[""]; ok {
		out = append(out, list.values...)
	}
	return nonBlank(out)
}

// Collection returns nested entries, e.g. the buttons of a slide.
func (e Entry) Collection(field string) []Entry {
	child, ok := e.node.children[field]
	if !ok {
		return nil
	}
	return child.entries()
}

func (e Entry) values(field string) []string {
	if e.node == nil {
		return nil
	}
	child, ok := e.node.children[field]
	if !ok {
		return nil
	}
	return child.values
}

type node struct {
	values   []string
	children map[string]*node
}

func (n *node) insert(path []string, values []string) {
	current := n
	for _, segment := range path {
		if current.children == nil {
			current.children = map[string]*node{}
		}
		next, ok := current.children[segment]
		if !ok {
			next = &node{}
			current.children[segment] = next
		}
		current = next
	}
	current.values = append(current.values, values...)
}

func (n *node) entries() []Entry {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.children))
	for key := range n.children {
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareIndex)
	out := make([]Entry, 0, len(keys))
	for _, key := range keys {
		out = append(out, Entry{Index: key, node: n.children[key]})
	}
	return out
}

// splitKey turns "slides[0][buttons][1][text]" into "slides" and
// ["0", "buttons", "1", "text"].
func splitKey(key string) (string, []string, bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return key, nil, open < 0
	}
	base := key[:open]
	rest := key[open:]
	var path []string
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", nil, false
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return base, path, true
}

func compareIndex(a, b string) int {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return an - bn
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// Truthy reports whether a submitted checkbox or flag value means "on".
func Truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes", "y", "checked":
		return true
	default:
		return false
	}
}

// ParseUUID parses value, returning nil for blank, malformed or zero ids.
func ParseUUID(value string) *uuid.UUID {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	id, err := uuid.Parse(trimmed)
	if err != nil || id == uuid.Nil {
		return nil
	}
	return &id
}

func stringOr(values []string, def string) string {
	if len(values) == 0 {
		return def
	}
	if trimmed := strings.TrimSpace(values[0]); trimmed != "" {
		return trimmed
	}
	return def
}

func intOr(values []string, def int) int {
	if len(values) == 0 {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(values[0]))
	if err != nil {
		return def
	}
	return n
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
