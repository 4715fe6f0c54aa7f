package queue

import (
	"fmt"

	"github.com/benz9527/xcoll/lib/infra"
)

// MaxRingBufferCapacity is the default growth limit.
const MaxRingBufferCapacity = 1 << 30

var (
	ErrRingBufferEmpty           = fmt.Errorf("[ring-buffer] no element, %w", infra.ErrEmptyContainer)
	ErrRingBufferIndexOutOfRange = fmt.Errorf("[ring-buffer] %w", infra.ErrIndexOutOfRange)
	ErrRingBufferCapacity        = fmt.Errorf("[ring-buffer] %w", infra.ErrCapacity)
)

var (
	_ Deque[struct{}] = (*RingBuffer[struct{}])(nil)
)

/*
RingBuffer is a growable circular array.
The element at logical index i lives at (start + i) % cap.

	      start
	        |
	+---+---+---+---+---+
	| d | e | a | b | c |   logical: a b c d e
	+---+---+---+---+---+

A full buffer doubles its capacity on push and re-lays the elements
from physical index 0. The capacity never shrinks.
*/
type RingBuffer[T any] struct {
	buf    []T
	start  int
	count  int
	maxCap int
}

type RingBufferOpt[T any] func(*RingBuffer[T])

// WithRingBufferMaxCapacity limits the growth, a push beyond it fails with
// ErrRingBufferCapacity.
func WithRingBufferMaxCapacity[T any](n int) RingBufferOpt[T] {
	return func(rb *RingBuffer[T]) {
		if n > 0 {
			rb.maxCap = n
		}
	}
}

func NewRingBuffer[T any](capacity int, opts ...RingBufferOpt[T]) (*RingBuffer[T], error) {
	rb := &RingBuffer[T]{
		maxCap: MaxRingBufferCapacity,
	}
	for _, o := range opts {
		o(rb)
	}
	if capacity < 0 || capacity > rb.maxCap {
		return nil, infra.WrapErrorStack(
			fmt.Errorf("capacity: %d (max: %d), %w", capacity, rb.maxCap, ErrRingBufferCapacity),
		)
	}
	rb.buf = make([]T, capacity)
	return rb, nil
}

func (rb *RingBuffer[T]) Len() int {
	return rb.count
}

func (rb *RingBuffer[T]) Cap() int {
	return len(rb.buf)
}

// Callers guarantee the buffer is not zero sized.
func (rb *RingBuffer[T]) physical(i int) int {
	return (rb.start + i) % len(rb.buf)
}

func (rb *RingBuffer[T]) realloc(capacity int) {
	buf := make([]T, capacity)
	for i := 0; i < rb.count; i++ {
		buf[i] = rb.buf[rb.physical(i)]
	}
	rb.buf = buf
	rb.start = 0
}

// ensureRoom grows a full buffer to max(1, 2*cap). It fails before any
// mutation if the limit is exceeded.
func (rb *RingBuffer[T]) ensureRoom() error {
	if rb.count < len(rb.buf) {
		return nil
	}
	if len(rb.buf) > rb.maxCap/2 {
		return infra.WrapErrorStack(
			fmt.Errorf("grow from %d (max: %d), %w", len(rb.buf), rb.maxCap, ErrRingBufferCapacity),
		)
	}
	rb.realloc(max(1, 2*len(rb.buf)))
	return nil
}

func (rb *RingBuffer[T]) Reserve(n int) error {
	if n <= len(rb.buf) {
		return nil
	}
	if n > rb.maxCap {
		return infra.WrapErrorStack(
			fmt.Errorf("reserve %d (max: %d), %w", n, rb.maxCap, ErrRingBufferCapacity),
		)
	}
	rb.realloc(n)
	return nil
}

func (rb *RingBuffer[T]) PushBack(v T) error {
	if err := rb.ensureRoom(); err != nil {
		return err
	}
	rb.buf[rb.physical(rb.count)] = v
	rb.count++
	return nil
}

func (rb *RingBuffer[T]) PushFront(v T) error {
	if err := rb.ensureRoom(); err != nil {
		return err
	}
	rb.start = (rb.start - 1 + len(rb.buf)) % len(rb.buf)
	rb.buf[rb.start] = v
	rb.count++
	return nil
}

func (rb *RingBuffer[T]) PopFront() (T, error) {
	var zero T
	if rb.count == 0 {
		return zero, ErrRingBufferEmpty
	}
	v := rb.buf[rb.start]
	rb.buf[rb.start] = zero // Release the reference.
	rb.start = (rb.start + 1) % len(rb.buf)
	rb.count--
	return v, nil
}

func (rb *RingBuffer[T]) PopBack() (T, error) {
	var zero T
	if rb.count == 0 {
		return zero, ErrRingBufferEmpty
	}
	idx := rb.physical(rb.count - 1)
	v := rb.buf[idx]
	rb.buf[idx] = zero
	rb.count--
	return v, nil
}

func (rb *RingBuffer[T]) Front() (T, error) {
	if rb.count == 0 {
		var zero T
		return zero, ErrRingBufferEmpty
	}
	return rb.buf[rb.start], nil
}

func (rb *RingBuffer[T]) Back() (T, error) {
	if rb.count == 0 {
		var zero T
		return zero, ErrRingBufferEmpty
	}
	return rb.buf[rb.physical(rb.count-1)], nil
}

func (rb *RingBuffer[T]) checkIndex(i int) error {
	if i < 0 || i >= rb.count {
		return fmt.Errorf("index: %d (len: %d), %w", i, rb.count, ErrRingBufferIndexOutOfRange)
	}
	return nil
}

func (rb *RingBuffer[T]) At(i int) (T, error) {
	if err := rb.checkIndex(i); err != nil {
		var zero T
		return zero, err
	}
	return rb.buf[rb.physical(i)], nil
}

func (rb *RingBuffer[T]) Set(i int, v T) error {
	if err := rb.checkIndex(i); err != nil {
		return err
	}
	rb.buf[rb.physical(i)] = v
	return nil
}

// InsertAt accepts i == Len as an append. The shorter side is shifted.
func (rb *RingBuffer[T]) InsertAt(i int, v T) error {
	if i < 0 || i > rb.count {
		return fmt.Errorf("index: %d (len: %d), %w", i, rb.count, ErrRingBufferIndexOutOfRange)
	}
	if err := rb.ensureRoom(); err != nil {
		return err
	}

	if i < rb.count/2 {
		rb.start = (rb.start - 1 + len(rb.buf)) % len(rb.buf)
		rb.count++
		for j := 0; j < i; j++ {
			rb.buf[rb.physical(j)] = rb.buf[rb.physical(j+1)]
		}
	} else {
		rb.count++
		for j := rb.count - 1; j > i; j-- {
			rb.buf[rb.physical(j)] = rb.buf[rb.physical(j-1)]
		}
	}
	rb.buf[rb.physical(i)] = v
	return nil
}

// RemoveAt closes the gap by shifting the shorter side.
func (rb *RingBuffer[T]) RemoveAt(i int) (T, error) {
	var zero T
	if err := rb.checkIndex(i); err != nil {
		return zero, err
	}

	v := rb.buf[rb.physical(i)]
	if i < rb.count/2 {
		for j := i; j > 0; j-- {
			rb.buf[rb.physical(j)] = rb.buf[rb.physical(j-1)]
		}
		rb.buf[rb.start] = zero
		rb.start = (rb.start + 1) % len(rb.buf)
	} else {
		for j := i; j < rb.count-1; j++ {
			rb.buf[rb.physical(j)] = rb.buf[rb.physical(j+1)]
		}
		rb.buf[rb.physical(rb.count-1)] = zero
	}
	rb.count--
	return v, nil
}

// Foreach visits the elements in logical order until action returns false.
func (rb *RingBuffer[T]) Foreach(action func(idx int, v T) bool) {
	for i := 0; i < rb.count; i++ {
		if !action(i, rb.buf[rb.physical(i)]) {
			return
		}
	}
}

// Values copies the elements out in logical order.
func (rb *RingBuffer[T]) Values() []T {
	values := make([]T, 0, rb.count)
	rb.Foreach(func(_ int, v T) bool {
		values = append(values, v)
		return true
	})
	return values
}

// Reset drops all the elements and keeps the capacity.
func (rb *RingBuffer[T]) Reset() {
	clear(rb.buf)
	rb.start = 0
	rb.count = 0
}
