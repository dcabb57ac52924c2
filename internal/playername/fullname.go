// Package playername is the thread-safe (name -> set of tags in use)
// registry that disambiguates clients sharing a display name.
package playername

import "fmt"

// FullName is a (name, tag) pair. Tag 0 means "unassigned" and never
// appears in a registry entry.
type FullName struct {
	Name string
	Tag  uint16
}

func (f FullName) String() string {
	return fmt.Sprintf("%s#%d", f.Name, f.Tag)
}

// Equal reports whether both the name and tag match.
func (f FullName) Equal(other FullName) bool {
	return f.Name == other.Name && f.Tag == other.Tag
}
