package query

import "strings"

// Key identifies one cached collection: resource name first, then the
// serialized filter parameters that shaped the fetch.
type Key []string

// K builds a key from its parts.
func K(parts ...string) Key {
	return Key(parts)
}

// String renders the key for map storage and logging.
func (k Key) String() string {
	return strings.Join(k, "/")
}

// Resource returns the leading resource name, or "" for an empty key.
func (k Key) Resource() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// HasPrefix reports whether k begins with every part of pattern. An empty
// pattern matches everything.
func (k Key) HasPrefix(pattern Key) bool {
	if len(pattern) > len(k) {
		return false
	}
	for i, part := range pattern {
		if k[i] != part {
			return false
		}
	}
	return true
}
