package trace

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/vitte-lang/desktop/pkg/errors"
)

// DefaultPrefix starts every text line.
const DefaultPrefix = "[Stub]"

// WriterSink writes one human-readable line per record.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

// NewWriterSink returns a sink writing to w with the given line prefix.
// An empty prefix selects DefaultPrefix.
func NewWriterSink(w io.Writer, prefix string) *WriterSink {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &WriterSink{w: w, prefix: prefix}
}

// Emit writes the record.
func (s *WriterSink) Emit(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case rec.Widget != nil:
		fmt.Fprintf(s.w, "%s %s %s\n", s.prefix, rec.Op, rec.Widget)
	case rec.Message != "":
		fmt.Fprintf(s.w, "%s %s: %s\n", s.prefix, rec.Op, rec.Message)
	default:
		fmt.Fprintf(s.w, "%s %s\n", s.prefix, rec.Op)
	}
}

// CodecSink writes each record as a frame: a 4-byte big-endian length
// followed by the encoded record.
type CodecSink struct {
	mu    sync.Mutex
	w     io.Writer
	codec Codec
}

// NewCodecSink returns a framed sink using codec.
func NewCodecSink(w io.Writer, codec Codec) *CodecSink {
	return &CodecSink{w: w, codec: codec}
}

// Emit encodes and writes the record. Encoding failures are reported and
// the record is dropped.
func (s *CodecSink) Emit(rec Record) {
	data, err := s.codec.Encode(rec)
	if err != nil {
		errors.Report(&errors.DesktopError{
			Op:   "trace.CodecSink.Emit",
			Kind: errors.KindBackend,
			Err:  fmt.Errorf("%s encode: %w", s.codec.Name(), err),
		})
		return
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(data)))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(hdr[:]); err != nil {
		return
	}
	s.w.Write(data)
}

// ReadFrame reads one frame written by CodecSink and decodes it.
func ReadFrame(r io.Reader, codec Codec) (Record, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Record{}, err
	}
	data := make([]byte, binary.BigEndian.Uint32(hdr[:]))
	if _, err := io.ReadFull(r, data); err != nil {
		return Record{}, err
	}
	return codec.Decode(data)
}

// Recorder keeps records in memory. A positive limit keeps only the most
// recent records.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	records []Record
}

// NewRecorder returns a recorder. limit <= 0 keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Emit stores the record.
func (r *Recorder) Emit(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	if r.limit > 0 && len(r.records) > r.limit {
		r.records = append(r.records[:0:0], r.records[len(r.records)-r.limit:]...)
	}
}

// Records returns a copy of the stored records.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Ops returns the op names of the stored records, in order.
func (r *Recorder) Ops() []string {
	recs := r.Records()
	ops := make([]string, len(recs))
	for i, rec := range recs {
		ops[i] = rec.Op
	}
	return ops
}

// Reset discards stored records.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.records = nil
	r.mu.Unlock()
}
