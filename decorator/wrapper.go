package decorator

import "github.com/philipp01105/sinklog/destination"

// Wrapper forwards the whole Destination contract to an inner destination.
// Decorators embed it and override the calls they change.
type Wrapper struct {
	destination.Destination
}

// Inner returns the wrapped destination.
func (w Wrapper) Inner() destination.Destination {
	return w.Destination
}

// ThreadSafe reports what the wrapped destination reports. Wrappers keep
// the thread affinity of what they wrap.
func (w Wrapper) ThreadSafe() bool {
	ts, ok := w.Destination.(destination.ThreadSafe)
	return ok && ts.ThreadSafe()
}

// Unwrap follows Inner links until it reaches a destination that is not
// a decorator.
func Unwrap(d destination.Destination) destination.Destination {
	for {
		w, ok := d.(interface{ Inner() destination.Destination })
		if !ok {
			return d
		}
		d = w.Inner()
	}
}
