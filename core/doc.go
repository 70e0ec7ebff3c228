// Package core defines the shared types used across the sinklog pipeline.
//
// It provides the Level type for severity filtering, Importance for
// buffering priority, Attributes and Entry for a single log call, and
// Field for typed key/value properties.
//
// The package also holds the small utility layer the fan-out depends on:
// Clock caches the formatted timestamp so it is rendered at most once per
// MinPeriod, Affinity answers "is this the owning goroutine", and
// TagRegistry keeps the global tag set with a lazily rebuilt snapshot.
// All of them are safe for concurrent use and never lock on the read
// path except for the one reader that rebuilds a stale tag snapshot.
package core
