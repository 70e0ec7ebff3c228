// Package dispatch provides the owning-goroutine executor used to marshal
// deliveries for destinations that are not safe for concurrent use.
//
// An Executor is a single-consumer FIFO queue. Post never blocks: when
// the queue is full the task is rejected and the caller drops the entry.
package dispatch
