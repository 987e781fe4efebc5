package registry

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotFound is returned when a name is not registered.
	ErrNotFound = errors.New("registry: not found")

	// ErrAlreadyExists is returned when a name is registered twice
	// without the override flag.
	ErrAlreadyExists = errors.New("registry: already exists")
)

// Error describes a failed registry operation for a single name.
// Kind names the registry domain (e.g. "schema", "endpoint", "type").
type Error struct {
	Kind string
	Name string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return fmt.Sprintf("%s %q cannot be found", e.Kind, e.Name)
	case errors.Is(e.Err, ErrAlreadyExists):
		return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
	default:
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
	}
}

// Unwrap returns the underlying sentinel error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Registry is a named, insertion-ordered collection of entries.
// It is safe for concurrent use.
type Registry[T any] struct {
	kind string

	mu    sync.RWMutex
	items map[string]T
	order []string
}

// New creates an empty registry. The kind is used in error messages.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:  kind,
		items: make(map[string]T),
	}
}

// Kind returns the registry domain name.
func (r *Registry[T]) Kind() string {
	return r.kind
}

// Register stores item under name. Registering an existing name fails
// with ErrAlreadyExists unless override is true, in which case the entry
// is replaced in place and keeps its original position.
func (r *Registry[T]) Register(name string, item T, override bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		if !override {
			return &Error{Kind: r.kind, Name: name, Err: ErrAlreadyExists}
		}
		r.items[name] = item
		return nil
	}

	r.items[name] = item
	r.order = append(r.order, name)
	return nil
}

// Get returns the entry registered under name.
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[name]
	if !ok {
		var zero T
		return zero, &Error{Kind: r.kind, Name: name, Err: ErrNotFound}
	}
	return item, nil
}

// Exists reports whether name is registered.
func (r *Registry[T]) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[name]
	return ok
}

// Keys returns registered names in registration order.
func (r *Registry[T]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
