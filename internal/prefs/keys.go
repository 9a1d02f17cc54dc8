// ABOUTME: Typed preference keys and immutable preference snapshots.
// ABOUTME: Values are text-encoded in storage and decoded per key type on read.
package prefs

import (
	"strconv"
)

// Value is the set of types a preference can hold.
type Value interface {
	bool | int | string
}

// Key names a preference of type T.
type Key[T Value] struct {
	name string
}

// BoolKey declares a boolean preference.
func BoolKey(name string) Key[bool] { return Key[bool]{name: name} }

// IntKey declares an integer preference.
func IntKey(name string) Key[int] { return Key[int]{name: name} }

// StringKey declares a string preference.
func StringKey(name string) Key[string] { return Key[string]{name: name} }

// Name returns the stored key name.
func (k Key[T]) Name() string { return k.name }

func encode[T Value](v T) string {
	switch val := any(v).(type) {
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case string:
		return val
	}
	return ""
}

func decode[T Value](s string) (T, bool) {
	var zero T
	var out any
	switch any(zero).(type) {
	case bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return zero, false
		}
		out = b
	case int:
		n, err := strconv.Atoi(s)
		if err != nil {
			return zero, false
		}
		out = n
	case string:
		out = s
	}
	return out.(T), true
}

// Preferences is a read-only snapshot of every stored preference.
type Preferences struct {
	values  map[string]string
	version uint64
}

// Version increases by one with every committed edit.
func (p Preferences) Version() uint64 { return p.version }

// Len returns the number of stored keys.
func (p Preferences) Len() int { return len(p.values) }

// Contains reports whether key has a stored value.
func (p Preferences) Contains(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Raw returns a copy of the encoded values.
func (p Preferences) Raw() map[string]string {
	return copyValues(p.values)
}

// Get returns the value for key. A missing value, or one that does not
// decode as T, reports ok=false.
func Get[T Value](p Preferences, key Key[T]) (T, bool) {
	s, ok := p.values[key.name]
	if !ok {
		var zero T
		return zero, false
	}
	return decode[T](s)
}

// GetOr returns the value for key, or def when absent.
func GetOr[T Value](p Preferences, key Key[T], def T) T {
	if v, ok := Get(p, key); ok {
		return v
	}
	return def
}

// MutablePreferences is the working copy handed to an Edit transform.
type MutablePreferences struct {
	values map[string]string
}

// Set stores v under key.
func Set[T Value](m *MutablePreferences, key Key[T], v T) {
	m.values[key.name] = encode(v)
}

// Remove deletes key.
func Remove[T Value](m *MutablePreferences, key Key[T]) {
	delete(m.values, key.name)
}

// Clear deletes every key.
func (m *MutablePreferences) Clear() {
	m.values = make(map[string]string)
}

// EditGet reads key from the working copy, seeing earlier writes in the same edit.
func EditGet[T Value](m *MutablePreferences, key Key[T]) (T, bool) {
	return Get(Preferences{values: m.values}, key)
}

// EditGetOr is EditGet with a default.
func EditGetOr[T Value](m *MutablePreferences, key Key[T], def T) T {
	if v, ok := EditGet(m, key); ok {
		return v
	}
	return def
}

func copyValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
