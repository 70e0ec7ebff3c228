// Package file provides a destination that appends formatted entries to
// a log file rotated by size through lumberjack. Rotated files can be
// compressed and pruned by count or age.
package file
