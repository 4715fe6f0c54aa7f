package queue

// Deque is a double-ended sequence with indexed access.
// It is not thread safe.
type Deque[T any] interface {
	Len() int
	Cap() int
	PushBack(v T) error
	PushFront(v T) error
	PopBack() (T, error)
	PopFront() (T, error)
	// At is the bounds-checked access by logical index.
	At(i int) (T, error)
	Front() (T, error)
	Back() (T, error)
	Set(i int, v T) error
	InsertAt(i int, v T) error
	RemoveAt(i int) (T, error)
	// Reserve reallocates to at least n slots. It never shrinks.
	Reserve(n int) error
	Foreach(action func(idx int, v T) bool)
	Values() []T
	Reset()
}
