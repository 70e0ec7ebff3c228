// Package decorator wraps destinations with cross-cutting delivery
// behavior while keeping the Destination contract.
//
// Batching holds entries in two bounded FIFO buffers (Important and
// NiceToHave) and flushes them as batches on a period, or immediately
// when a Critical entry arrives. Dispatch posts deliveries from foreign
// goroutines to the owning goroutine.
//
// A Chain lists stages in order and builds a Pipeline per destination.
// The default chain puts dispatch closest to the destination, so every
// batch the batching stage flushes is posted as one unit:
//
//	Batching(Dispatch(destination))
package decorator
