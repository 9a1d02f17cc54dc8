// ABOUTME: Repository interface for the durable preference document.
// ABOUTME: Backends load every key at once and apply change sets atomically.
package storage

import "sort"

// Repository defines the storage interface for preference data.
// Every value is stored as text; typing happens one layer up.
type Repository interface {
	// Load returns every stored key and its encoded value.
	Load() (map[string]string, error)

	// Apply writes a change set. Implementations must make the whole set
	// durable before returning, or apply none of it.
	Apply(changes Changes) error

	// Close releases the backend.
	Close() error
}

// Changes is a set of writes and removals applied as one unit.
type Changes struct {
	Set    map[string]string
	Delete []string
}

// IsEmpty reports whether the change set writes nothing.
func (c Changes) IsEmpty() bool {
	return len(c.Set) == 0 && len(c.Delete) == 0
}

// Diff computes the changes that turn before into after.
func Diff(before, after map[string]string) Changes {
	var c Changes
	for k, v := range after {
		if old, ok := before[k]; !ok || old != v {
			if c.Set == nil {
				c.Set = make(map[string]string)
			}
			c.Set[k] = v
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			c.Delete = append(c.Delete, k)
		}
	}
	sort.Strings(c.Delete)
	return c
}

// ApplyTo returns a copy of values with the changes applied.
func (c Changes) ApplyTo(values map[string]string) map[string]string {
	out := make(map[string]string, len(values)+len(c.Set))
	for k, v := range values {
		out[k] = v
	}
	for k, v := range c.Set {
		out[k] = v
	}
	for _, k := range c.Delete {
		delete(out, k)
	}
	return out
}
