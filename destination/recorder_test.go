package destination

import (
	"testing"

	"github.com/philipp01105/sinklog/core"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder("Memory")
	var hooked int
	r.OnDeliver = func(entries []core.Entry) { hooked += len(entries) }

	r.Log(core.InfoLevel, "cat", "one", nil, nil)
	batch := []core.Entry{
		core.NewEntry(core.InfoLevel, "cat", "two", nil, nil),
		core.NewEntry(core.InfoLevel, "cat", "three", nil, nil),
	}
	r.LogBatch(batch)
	batch[0].Message = "mutated"

	entries := r.Entries()
	if len(entries) != 3 || entries[1].Message != "two" {
		t.Fatalf("entries = %+v", entries)
	}
	if len(r.Batches()) != 1 || len(r.Batches()[0]) != 2 {
		t.Errorf("batches = %+v", r.Batches())
	}
	if hooked != 3 {
		t.Errorf("hook saw %d entries", hooked)
	}

	r.Reset()
	if len(r.Entries()) != 0 {
		t.Error("Reset kept entries")
	}
	if err := r.Dispose(); err != nil || !r.Disposed() {
		t.Error("Dispose not recorded")
	}
}
