package coll

import (
	"iter"

	"github.com/benz9527/xcoll/lib/queue"
	"github.com/benz9527/xcoll/lib/tree"
)

// OrderedContainer is the capability set of a sorted key/value container.
type OrderedContainer[K any, V any] interface {
	Len() int64
	Insert(key K, val V, ifNotPresent ...bool) error
	Remove(key K) (tree.RBNode[K, V], error)
	Find(key K) (V, bool)
	Min() (K, error)
	Max() (K, error)
	Successor(key K) (K, bool, error)
	Predecessor(key K) (K, bool, error)
	Traverse() iter.Seq2[K, V]
}

// Sequence is the capability set of a double-ended indexed sequence.
type Sequence[T any] interface {
	Len() int
	Cap() int
	PushBack(v T) error
	PushFront(v T) error
	PopBack() (T, error)
	PopFront() (T, error)
	At(i int) (T, error)
}

var (
	_ OrderedContainer[int, struct{}] = (tree.RBTree[int, struct{}])(nil)
	_ Sequence[struct{}]              = (*queue.RingBuffer[struct{}])(nil)
)

// Pair is a detached key/value copy.
type Pair[K any, V any] struct {
	Key K
	Val V
}
