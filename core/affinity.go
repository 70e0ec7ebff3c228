package core

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
)

// Affinity tracks the owning goroutine: the single goroutine that receives
// marshaled deliveries for destinations that are not thread-safe.
type Affinity struct {
	owner atomic.Uint64
}

// Bind makes the calling goroutine the owner.
func (a *Affinity) Bind() {
	a.owner.Store(goroutineID())
}

// Release clears the owner. Afterwards IsOwner reports true everywhere.
func (a *Affinity) Release() {
	a.owner.Store(0)
}

// Bound reports whether an owner is set.
func (a *Affinity) Bound() bool {
	return a.owner.Load() != 0
}

// IsOwner reports whether the calling goroutine is the owner. Without an
// owner there is no affinity and every goroutine qualifies.
func (a *Affinity) IsOwner() bool {
	owner := a.owner.Load()
	return owner == 0 || owner == goroutineID()
}

var goroutinePrefix = []byte("goroutine ")

// goroutineID parses the id from the first line of runtime.Stack output
// ("goroutine 42 [running]:").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
