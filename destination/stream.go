package destination

import (
	"bytes"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/formatter"
)

// lockedWriter wraps an io.Writer with a mutex, acquiring the lock only
// for Write calls. Formatters prepare data in their own pooled buffers
// and call Write once, so the lock is held only during the actual I/O.
type lockedWriter struct {
	mu *sync.Mutex // points to the stream's mu
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	n, err = lw.w.Write(p)
	lw.mu.Unlock()
	return
}

// isConcurrentSafeWriter returns true if the writer is known to be safe for
// concurrent Write calls, allowing the stream to skip write-level locking.
func isConcurrentSafeWriter(w io.Writer) bool {
	if w == io.Discard {
		return true
	}
	_, ok := w.(*os.File)
	return ok
}

// StreamConfig holds configuration for a writer-backed destination
type StreamConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: TextFormatter with stack traces)
	Formatter formatter.Formatter
	// Closer is closed on Dispose. Leave nil for writers the destination
	// does not own, such as os.Stdout.
	Closer io.Closer
	// ConcurrentWriter indicates the Writer supports concurrent Write calls.
	// Automatically detected for io.Discard and *os.File.
	ConcurrentWriter bool
}

// Stream is a destination that renders entries with a formatter and
// writes them to an io.Writer. Console and file destinations are Streams
// with different writers.
type Stream struct {
	Base
	writer          io.Writer
	formatter       formatter.Formatter
	bufferFormatter formatter.BufferFormatter
	closer          io.Closer
	concurrentSafe  bool
	stats           *Stats
	mu              sync.Mutex // protects syncBuf and writer (single lock)
	lw              lockedWriter
	syncBuf         bytes.Buffer
	parBufPool      sync.Pool
	closed          atomic.Bool
}

// NewStream creates a stream destination of the given type.
func NewStream(destinationType string, cfg StreamConfig) *Stream {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{IncludeStackTrace: true})
	}

	s := &Stream{
		writer:         cfg.Writer,
		formatter:      cfg.Formatter,
		closer:         cfg.Closer,
		concurrentSafe: cfg.ConcurrentWriter || isConcurrentSafeWriter(cfg.Writer),
		stats:          NewStats(),
	}
	s.Init(destinationType)
	s.bufferFormatter, _ = cfg.Formatter.(formatter.BufferFormatter)
	s.lw = lockedWriter{mu: &s.mu, w: s.writer}
	if s.bufferFormatter != nil {
		s.syncBuf.Grow(256)
		s.parBufPool = sync.Pool{
			New: func() interface{} {
				b := new(bytes.Buffer)
				b.Grow(256)
				return b
			},
		}
	}
	return s
}

// ThreadSafe is true: writes are serialized by the stream.
func (s *Stream) ThreadSafe() bool { return true }

func (s *Stream) options() formatter.Options {
	return formatter.Options{ShowTimestamp: s.Configuration().ShowTimestamp}
}

// Log formats and writes one entry.
func (s *Stream) Log(level core.Level, category, message string, attrs *core.Attributes, err error) {
	if s.closed.Load() {
		return
	}
	entry := core.NewEntry(level, category, message, attrs, err)
	if werr := s.write(&entry, s.options()); werr != nil {
		s.stats.IncrementFailures()
		return
	}
	s.stats.IncrementProcessed(1)
}

// LogBatch renders all entries into one buffer and writes it with a
// single Write call.
func (s *Stream) LogBatch(entries []core.Entry) {
	if len(entries) == 0 || s.closed.Load() {
		return
	}
	opts := s.options()

	s.mu.Lock()
	s.syncBuf.Reset()
	for i := range entries {
		s.formatInto(&entries[i], opts, &s.syncBuf)
	}
	_, err := s.writer.Write(s.syncBuf.Bytes())
	s.mu.Unlock()

	if err != nil {
		s.stats.IncrementFailures()
		return
	}
	s.stats.IncrementBatches()
	s.stats.IncrementProcessed(len(entries))
}

func (s *Stream) formatInto(entry *core.Entry, opts formatter.Options, buf *bytes.Buffer) {
	if s.bufferFormatter != nil {
		s.bufferFormatter.FormatEntry(entry, opts, buf)
		return
	}
	if data, err := s.formatter.Format(entry, opts); err == nil {
		buf.Write(data)
	}
}

// write formats and writes an entry.
// Uses TryLock on mu to access the stream-owned buffer when uncontended.
// When contended and bufferFormatter is available, formats into a pooled
// buffer outside the lock, then writes under mu (or directly for
// concurrent-safe writers).
func (s *Stream) write(entry *core.Entry, opts formatter.Options) error {
	if s.bufferFormatter != nil {
		if s.mu.TryLock() {
			s.syncBuf.Reset()
			s.bufferFormatter.FormatEntry(entry, opts, &s.syncBuf)
			_, err := s.writer.Write(s.syncBuf.Bytes())
			s.mu.Unlock()
			return err
		}

		pb := s.parBufPool.Get().(*bytes.Buffer)
		pb.Reset()
		s.bufferFormatter.FormatEntry(entry, opts, pb)
		var err error
		if s.concurrentSafe {
			_, err = s.writer.Write(pb.Bytes())
		} else {
			s.mu.Lock()
			_, err = s.writer.Write(pb.Bytes())
			s.mu.Unlock()
		}
		s.parBufPool.Put(pb)
		return err
	}

	data, err := s.formatter.Format(entry, opts)
	if err != nil {
		return err
	}
	if s.concurrentSafe {
		_, err = s.writer.Write(data)
		return err
	}
	_, err = s.lw.Write(data)
	return err
}

// Stats returns a snapshot of the current statistics
func (s *Stream) Stats() Snapshot {
	return s.stats.GetSnapshot()
}

// Dispose stops writing and closes the owned writer, if any.
func (s *Stream) Dispose() error {
	if s.closed.Swap(true) {
		return nil // Already closed
	}
	if s.closer == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closer.Close()
}
