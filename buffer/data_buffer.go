// Package buffer provides a fixed-capacity byte window used to drain a
// stream transport without allocating on every read.
package buffer

// DataBuffer is a fixed-capacity byte window with a read cursor and an end
// cursor marking the currently available, not-yet-consumed slice
// [start, end). It never reallocates its backing storage.
type DataBuffer struct {
	buf   []byte
	start int
	end   int
}

// New returns an empty DataBuffer backed by a zero-filled slice of the
// given capacity. The buffer holds no data until Refill is called.
func New(capacity int) *DataBuffer {
	return &DataBuffer{buf: make([]byte, capacity)}
}

// Refill hands the backing storage to fill, which should write into it and
// return the number of bytes written (or an error). On success start is
// reset to 0 and end is set to the reported count.
func (d *DataBuffer) Refill(fill func([]byte) (int, error)) error {
	n, err := fill(d.buf)
	if err != nil {
		return err
	}
	d.start = 0
	d.end = n
	return nil
}

// Read returns the next min(k, Remaining()) bytes starting at the read
// cursor without advancing it.
func (d *DataBuffer) Read(k int) []byte {
	end := d.start + k
	if end > d.end {
		end = d.end
	}
	return d.buf[d.start:end]
}

// ReadToEnd returns the whole currently available slice without advancing
// the read cursor.
func (d *DataBuffer) ReadToEnd() []byte {
	return d.buf[d.start:d.end]
}

// Take returns the next min(k, Remaining()) bytes and advances the read
// cursor by k, saturating at end. A request for more than Remaining() is
// tolerated: it returns the partial slice and clamps the cursor at end,
// which is the "soft" behavior the header reassembly relies on to detect
// short reads.
func (d *DataBuffer) Take(k int) []byte {
	out := d.Read(k)
	d.start += k
	if d.start > d.end {
		d.start = d.end
	}
	return out
}

// TakeToEnd returns the whole currently available slice and advances the
// read cursor to end.
func (d *DataBuffer) TakeToEnd() []byte {
	out := d.ReadToEnd()
	d.start = d.end
	return out
}

// IsEmpty reports whether Remaining() == 0.
func (d *DataBuffer) IsEmpty() bool {
	return d.Remaining() == 0
}

// Remaining returns the number of bytes left between the read cursor and
// end.
func (d *DataBuffer) Remaining() int {
	return d.end - d.start
}
