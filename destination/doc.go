// Package destination defines the Destination contract every sink and
// decorator implements, and the pieces concrete sinks share.
//
// Base carries the configuration and implements level admission so a
// sink only has to provide Log, LogBatch and Dispose. Safe shields the
// pipeline from third-party clients that return errors or panic. Recorder
// keeps entries in memory. Stats and OverflowPolicy are used by the
// buffering parts of the pipeline.
//
// Concrete sinks live in sub-packages: console, file and zapsink.
package destination
