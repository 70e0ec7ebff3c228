package core

import (
	"sort"
	"sync"
	"sync/atomic"
)

type tagSnapshot struct {
	version uint64
	tags    []string
}

// TagRegistry is a concurrent set of global tags attached to every log
// call. Writers only bump a version; the sorted snapshot returned by
// GetAllTags is rebuilt lazily, once, by the first reader that observes a
// stale version.
type TagRegistry struct {
	tags     sync.Map // string -> struct{}
	version  atomic.Uint64
	snapMu   sync.Mutex
	snapshot atomic.Pointer[tagSnapshot]
}

// NewTagRegistry creates an empty registry.
func NewTagRegistry() *TagRegistry {
	return &TagRegistry{}
}

// AddTag adds tag and reports whether it was absent.
func (r *TagRegistry) AddTag(tag string) bool {
	if _, loaded := r.tags.LoadOrStore(tag, struct{}{}); loaded {
		return false
	}
	r.version.Add(1)
	return true
}

// RemoveTag removes tag and reports whether it was present.
func (r *TagRegistry) RemoveTag(tag string) bool {
	if _, loaded := r.tags.LoadAndDelete(tag); !loaded {
		return false
	}
	r.version.Add(1)
	return true
}

// Contains reports whether tag is registered.
func (r *TagRegistry) Contains(tag string) bool {
	_, ok := r.tags.Load(tag)
	return ok
}

// GetAllTags returns the cached snapshot of all tags. The returned slice
// is shared and must not be modified.
func (r *TagRegistry) GetAllTags() []string {
	if s := r.snapshot.Load(); s != nil && s.version == r.version.Load() {
		return s.tags
	}

	r.snapMu.Lock()
	defer r.snapMu.Unlock()

	v := r.version.Load()
	if s := r.snapshot.Load(); s != nil && s.version == v {
		return s.tags
	}

	tags := make([]string, 0, 8)
	r.tags.Range(func(key, _ any) bool {
		tags = append(tags, key.(string))
		return true
	})
	sort.Strings(tags)
	r.snapshot.Store(&tagSnapshot{version: v, tags: tags})
	return tags
}
