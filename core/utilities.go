package core

// Utilities bundles the shared helpers a category logger needs.
type Utilities struct {
	Clock    *Clock
	Affinity *Affinity
	Tags     *TagRegistry
}

// NewUtilities wires a clock, an unbound affinity and an empty tag
// registry.
func NewUtilities(clock *Clock) *Utilities {
	if clock == nil {
		clock = NewClock(0, nil)
	}
	return &Utilities{
		Clock:    clock,
		Affinity: &Affinity{},
		Tags:     NewTagRegistry(),
	}
}

// IsOwner reports whether the caller runs on the owning goroutine.
func (u *Utilities) IsOwner() bool {
	return u.Affinity.IsOwner()
}
