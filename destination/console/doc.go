// Package console provides the console destination: entries are rendered
// with a text or JSON formatter and written to stdout or stderr.
//
// Writes are synchronous. Uncontended calls format into a destination-owned
// buffer under TryLock; contended calls format into a pooled buffer and
// only take the lock for the Write itself. *os.File writers skip the write
// lock entirely.
package console
