package validator

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Errors is a tree of violation messages. A node holds either its own
// messages, or the error subtrees of failing object fields, or those of
// failing array items.
type Errors struct {
	Messages []string
	Fields   map[string]*Errors
	Items    map[int]*Errors
}

func newMessages(messages ...string) *Errors {
	return &Errors{Messages: messages}
}

// Empty reports whether the tree holds no messages.
func (e *Errors) Empty() bool {
	if e == nil {
		return true
	}
	if len(e.Messages) > 0 {
		return false
	}
	for _, sub := range e.Fields {
		if !sub.Empty() {
			return false
		}
	}
	for _, sub := range e.Items {
		if !sub.Empty() {
			return false
		}
	}
	return true
}

// At returns the subtree at a dotted path such as "friends.1.name", or nil.
func (e *Errors) At(path string) *Errors {
	node := e
	if path == "" {
		return node
	}

	for _, part := range strings.Split(path, ".") {
		if node == nil {
			return nil
		}
		if sub, ok := node.Fields[part]; ok {
			node = sub
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil
		}
		node = node.Items[i]
	}
	return node
}

// Flatten returns the messages keyed by dotted path. Messages of the root
// node are keyed by "".
func (e *Errors) Flatten() map[string][]string {
	out := make(map[string][]string)
	e.flatten("", out)
	return out
}

func (e *Errors) flatten(prefix string, out map[string][]string) {
	if e == nil {
		return
	}
	if len(e.Messages) > 0 {
		out[prefix] = append(out[prefix], e.Messages...)
	}
	for name, sub := range e.Fields {
		sub.flatten(join(prefix, name), out)
	}
	for i, sub := range e.Items {
		sub.flatten(join(prefix, strconv.Itoa(i)), out)
	}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Error renders the flattened messages sorted by path.
func (e *Errors) Error() string {
	flat := e.Flatten()
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		msg := strings.Join(flat[path], ", ")
		if path != "" {
			msg = path + " " + msg
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// MarshalJSON encodes messages as a list and subtrees as an object keyed
// by field name or item index.
func (e *Errors) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	if len(e.Fields) == 0 && len(e.Items) == 0 {
		if e.Messages == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(e.Messages)
	}

	out := make(map[string]*Errors, len(e.Fields)+len(e.Items))
	for name, sub := range e.Fields {
		out[name] = sub
	}
	for i, sub := range e.Items {
		out[strconv.Itoa(i)] = sub
	}
	return json.Marshal(out)
}

// Result is the outcome of validating a value: the normalized value, or
// the error tree when validation failed.
type Result struct {
	Value  any     `json:"value"`
	Errors *Errors `json:"errors,omitempty"`
}

// Valid reports whether the result holds no errors.
func (r Result) Valid() bool {
	return r.Errors.Empty()
}
