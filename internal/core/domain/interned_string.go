package domain

import "unique"

// InternedString is a value object wrapping a unique.Handle[string].
// Unit ids and file paths repeat across sessions, graphs and cache keys;
// interning keeps comparisons cheap and deduplicates the backing storage.
type InternedString struct {
	h unique.Handle[string]
}

// Intern creates an InternedString from a string.
func Intern(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// InternAll interns every string in the slice, preserving order.
func InternAll(ss []string) []InternedString {
	res := make([]InternedString, len(ss))
	for i, s := range ss {
		res[i] = Intern(s)
	}
	return res
}

// String returns the underlying string value.
func (is InternedString) String() string {
	return is.h.Value()
}

// Strings converts a slice of InternedString back to plain strings,
// preserving order.
func Strings(ids []InternedString) []string {
	res := make([]string, len(ids))
	for i, id := range ids {
		res[i] = id.String()
	}
	return res
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.h.Value()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (is *InternedString) UnmarshalText(text []byte) error {
	is.h = unique.Make(string(text))
	return nil
}
