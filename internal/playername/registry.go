package playername

import (
	"errors"
	"fmt"
	"sync"
)

// ErrTagSpaceExhausted is returned by Assign when a name already has all
// 65535 usable tags (1..65535) allocated.
var ErrTagSpaceExhausted = errors.New("playername: tag space exhausted")

// ErrNotPresent is returned by Release when the given full name does not
// have a live allocation.
var ErrNotPresent = errors.New("playername: full name not present")

const maxTagsPerName = 65535 // tags 1..65535; 0 is reserved for "unassigned"

type nameEntry struct {
	nextTagHint uint16
	usedTags    map[uint16]struct{}
}

// Registry is a thread-safe name -> {next_tag_hint, used_tags} map.
type Registry struct {
	mu    sync.Mutex
	names map[string]*nameEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]*nameEntry)}
}

// Assign creates the name's entry if absent and returns the lowest free
// tag starting from the entry's next_tag_hint, skipping tag 0. The scan
// order is deterministic: within a single-threaded caller, the first
// Assign for a fresh name always returns tag 1.
func (r *Registry) Assign(name string) (FullName, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.names[name]
	if !ok {
		e = &nameEntry{nextTagHint: 2, usedTags: map[uint16]struct{}{1: {}}}
		r.names[name] = e
		return FullName{Name: name, Tag: 1}, nil
	}

	if len(e.usedTags) >= maxTagsPerName {
		return FullName{}, fmt.Errorf("%w: %q has %d tags in use", ErrTagSpaceExhausted, name, len(e.usedTags))
	}

	for e.nextTagHint == 0 {
		e.nextTagHint++
	}
	for {
		if _, used := e.usedTags[e.nextTagHint]; !used {
			break
		}
		e.nextTagHint++
		if e.nextTagHint == 0 {
			e.nextTagHint = 1
		}
	}
	tag := e.nextTagHint
	e.usedTags[tag] = struct{}{}
	e.nextTagHint++
	return FullName{Name: name, Tag: tag}, nil
}

// Release erases a tag, dropping the name's entry entirely once it has no
// tags left. A released tag below next_tag_hint pulls the hint back to it,
// so the next Assign for that name reuses the lowest free tag.
func (r *Registry) Release(full FullName) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.names[full.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotPresent, full)
	}
	if _, used := e.usedTags[full.Tag]; !used {
		return fmt.Errorf("%w: %s", ErrNotPresent, full)
	}
	delete(e.usedTags, full.Tag)
	if len(e.usedTags) == 0 {
		delete(r.names, full.Name)
		return nil
	}
	if full.Tag < e.nextTagHint {
		e.nextTagHint = full.Tag
	}
	return nil
}

// Count returns the total number of tags currently allocated across every
// name.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.names {
		n += len(e.usedTags)
	}
	return n
}

// Contains reports whether full is currently allocated.
func (r *Registry) Contains(full FullName) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.names[full.Name]
	if !ok {
		return false
	}
	_, used := e.usedTags[full.Tag]
	return used
}
