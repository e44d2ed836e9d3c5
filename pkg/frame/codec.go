package frame

import (
	"bufio"
	"io"

	"github.com/gobwas/pool/pbytes"
)

// scratchPool buckets reusable read chunks between 4KiB and
// LengthSize+HeaderSize+MaxBodySize, so fill does not allocate a fresh
// chunk on every read. The decoder's unconsumed-bytes buffer itself
// grows by append and is not pooled.
var scratchPool = pbytes.New(4096, LengthSize+HeaderSize+MaxBodySize)

// Decoder reads Frames off a stream, buffering partial reads until a
// full frame is available. It is not safe for concurrent use.
type Decoder struct {
	r       io.Reader
	buf     []byte // unconsumed bytes, front-aligned
	pendErr error  // io.EOF or other read error observed after a successful partial read
}

// NewDecoder wraps r. r is read in chunks no larger than 32KiB at a
// time; callers needing different chunking should wrap r in their own
// bufio.Reader first.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next blocks until a complete frame is available, io.EOF, or a
// protocol error (FrameTooLarge) occurs. On FrameTooLarge the stream
// is unusable and should be closed by the caller.
func (d *Decoder) Next() (Frame, error) {
	for {
		f, n, ok, err := Decode(d.buf)
		if err != nil {
			return Frame{}, err
		}
		if ok {
			copy(d.buf, d.buf[n:])
			d.buf = d.buf[:len(d.buf)-n]
			return f, nil
		}
		if d.pendErr != nil {
			return Frame{}, d.pendErr
		}
		if err := d.fill(); err != nil {
			return Frame{}, err
		}
	}
}

// fill reads more bytes into d.buf. A read error accompanied by data
// (n>0, err!=nil, as io.Reader permits for e.g. the final chunk before
// EOF) is stashed in pendErr rather than returned immediately, so Next
// gets a chance to decode a complete frame out of the newly appended
// bytes first.
func (d *Decoder) fill() error {
	chunk := scratchPool.GetLen(32 * 1024)
	defer scratchPool.Put(chunk)

	n, err := d.r.Read(chunk)
	if n > 0 {
		d.buf = append(d.buf, chunk[:n]...)
	}
	if err != nil {
		if n > 0 {
			d.pendErr = err
			return nil
		}
		return err
	}
	if n == 0 {
		return io.ErrNoProgress
	}
	return nil
}

// Encoder writes Frames to a stream, batching small writes through an
// internal bufio.Writer.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder wraps w with a buffered writer.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriterSize(w, 8192)}
}

// Write encodes and writes f, returning any I/O error.
func (e *Encoder) Write(f Frame) error {
	buf, err := Encode(nil, f)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(buf); err != nil {
		return err
	}
	return nil
}

// Flush flushes any buffered, unwritten frames.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}
