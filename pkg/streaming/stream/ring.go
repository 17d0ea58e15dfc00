package stream

// ring is a fixed-capacity FIFO. It is not safe for concurrent use; the
// owning Stream guards it with its mutex.
type ring[T any] struct {
	buf   []T
	head  int
	tail  int
	count int
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{buf: make([]T, capacity)}
}

func (r *ring[T]) len() int  { return r.count }
func (r *ring[T]) cap() int  { return len(r.buf) }
func (r *ring[T]) free() int { return len(r.buf) - r.count }
func (r *ring[T]) full() bool {
	return r.count == len(r.buf)
}

// push appends v. The caller checks full first.
func (r *ring[T]) push(v T) {
	r.buf[r.tail] = v
	r.tail = (r.tail + 1) % len(r.buf)
	r.count++
}

// pop removes the oldest value. The caller checks len first.
func (r *ring[T]) pop() T {
	v := r.buf[r.head]
	var zero T
	r.buf[r.head] = zero // drop reference
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return v
}

// drain removes and returns everything in FIFO order.
func (r *ring[T]) drain() []T {
	if r.count == 0 {
		return nil
	}
	out := make([]T, 0, r.count)
	for r.count > 0 {
		out = append(out, r.pop())
	}
	return out
}

// snapshot copies the contents without removing them.
func (r *ring[T]) snapshot() []T {
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}
