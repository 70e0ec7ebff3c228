// Package source adapts external event producers into the pipeline. Each
// adapter submits to a Consumer, normally the logger of the default
// category:
//
//   - Slog is a log/slog handler
//   - StdLog is a writer for the standard log package
//   - Panics reports recovered panics and unobserved goroutine errors
package source
