// Package config defines the per-destination Configuration model, the
// manager-level Settings and the sources they are loaded from.
//
// A Configuration is treated as an immutable value: destinations swap it
// wholesale, so an admission check sees either the old or the new value,
// never a mix. Schema evolution is additive. YAML blocks decode on top of
// Default(), and Merge overlays only what the newer value actually sets.
package config
