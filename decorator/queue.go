package decorator

import "github.com/philipp01105/sinklog/core"

// queue is a bounded FIFO of entries backed by a ring buffer that grows
// up to its limit.
type queue struct {
	buf   []core.Entry
	head  int
	count int
	limit int
}

func newQueue(limit int) *queue {
	return &queue{limit: limit}
}

func (q *queue) Len() int {
	return q.count
}

// push appends e. When the queue is at its limit, it either evicts and
// returns the oldest entry (dropOldest) or rejects e. The returned entry
// is the one that was dropped, if any.
func (q *queue) push(e core.Entry, dropOldest bool) (dropped core.Entry, ok bool) {
	if q.limit > 0 && q.count >= q.limit {
		if !dropOldest {
			return e, true
		}
		dropped = q.pop()
		ok = true
	}
	if q.count == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.count)%len(q.buf)] = e
	q.count++
	return dropped, ok
}

func (q *queue) pop() core.Entry {
	e := q.buf[q.head]
	q.buf[q.head] = core.Entry{}
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return e
}

// drainInto moves up to n entries, oldest first, onto dst.
func (q *queue) drainInto(dst []core.Entry, n int) []core.Entry {
	for ; n > 0 && q.count > 0; n-- {
		dst = append(dst, q.pop())
	}
	return dst
}

// setLimit changes the bound, evicting the oldest entries that no longer
// fit. Evicted entries are returned.
func (q *queue) setLimit(limit int) []core.Entry {
	q.limit = limit
	var evicted []core.Entry
	for limit > 0 && q.count > limit {
		evicted = append(evicted, q.pop())
	}
	return evicted
}

func (q *queue) grow() {
	n := len(q.buf) * 2
	if n == 0 {
		n = 16
	}
	if q.limit > 0 && n > q.limit {
		n = q.limit
	}
	buf := make([]core.Entry, n)
	for i := 0; i < q.count; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
