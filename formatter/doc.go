// Package formatter serializes log entries for writer-based destinations.
//
// Formatter returns a []byte; BufferFormatter renders into a caller-owned
// buffer. Both built-in formatters (TextFormatter and JSONFormatter)
// implement both. They use a pooled bytes.Buffer internally and rely on
// the Append-style functions of strconv and time to avoid per-call
// allocations. The text formatter pre-computes level bracket strings so
// the common path is a single WriteString call.
//
// Timestamps are not formatted here: the entry carries the cached string
// produced by core.Clock.
//
// Buffers larger than 64 KiB are not returned to the pool to prevent
// a single large log line from permanently inflating memory usage.
package formatter
