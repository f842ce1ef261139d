// Package pool holds already built nodes until a higher layer consumes them.
package pool

// Pool is a FIFO buffer. It is not safe for concurrent use.
type Pool[T any] struct {
	elements []T
}

// New creates a pool that hands out elements in the given order.
func New[T any](elements ...T) *Pool[T] {
	p := &Pool[T]{}
	p.elements = append(p.elements, elements...)
	return p
}

// Add appends an element at the back.
func (p *Pool[T]) Add(e T) {
	p.elements = append(p.elements, e)
}

// IsEmpty reports whether nothing is left. A nil pool is empty.
func (p *Pool[T]) IsEmpty() bool {
	return p.Len() == 0
}

// Len returns the number of remaining elements.
func (p *Pool[T]) Len() int {
	if p == nil {
		return 0
	}
	return len(p.elements)
}

// Take removes and returns up to n elements from the front.
func (p *Pool[T]) Take(n int) []T {
	if n <= 0 || p.IsEmpty() {
		return nil
	}
	if n > len(p.elements) {
		n = len(p.elements)
	}
	taken := make([]T, n)
	copy(taken, p.elements[:n])
	p.elements = p.elements[n:]
	return taken
}

// Peek returns up to n elements from the front without removing them.
func (p *Pool[T]) Peek(n int) []T {
	if n <= 0 || p.IsEmpty() {
		return nil
	}
	return append([]T(nil), p.elements[:min(n, len(p.elements))]...)
}

// Remaining returns a copy of the elements still in the pool.
func (p *Pool[T]) Remaining() []T {
	if p == nil {
		return nil
	}
	return append([]T(nil), p.elements...)
}
