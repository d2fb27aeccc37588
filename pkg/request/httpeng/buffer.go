package httpeng

// BoundedBuffer captures the leading bytes of a response into a fixed
// capacity. Its overflow policy is discard: bytes appended past the
// capacity are counted and dropped, never stored and never an error.
// The caller still consumes them off the wire; only the copy is lost.
type BoundedBuffer struct {
	buf       []byte
	discarded int
}

// NewBoundedBuffer returns a buffer holding at most capacity bytes.
func NewBoundedBuffer(capacity int) *BoundedBuffer {
	return &BoundedBuffer{buf: make([]byte, 0, capacity)}
}

// Append stores b if capacity remains and reports whether it was kept.
func (b *BoundedBuffer) Append(c byte) bool {
	if len(b.buf) == cap(b.buf) {
		b.discarded++
		return false
	}
	b.buf = append(b.buf, c)
	return true
}

// Len is the number of stored bytes.
func (b *BoundedBuffer) Len() int { return len(b.buf) }

// Cap is the usable capacity.
func (b *BoundedBuffer) Cap() int { return cap(b.buf) }

// Discarded is the number of bytes dropped by the overflow policy.
func (b *BoundedBuffer) Discarded() int { return b.discarded }

func (b *BoundedBuffer) String() string { return string(b.buf) }
