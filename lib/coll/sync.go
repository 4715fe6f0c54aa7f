package coll

import (
	"iter"
	"sync"

	"github.com/benz9527/xcoll/lib/tree"
)

var (
	_ OrderedContainer[uint8, struct{}] = (*orderedContainerDelegator[uint8, struct{}])(nil)
	_ Sequence[struct{}]                = (*sequenceDelegator[struct{}])(nil)
)

type orderedContainerDelegator[K any, V any] struct {
	rwmu *sync.RWMutex
	impl OrderedContainer[K, V]
}

func (d *orderedContainerDelegator[K, V]) Len() int64 {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Len()
}

func (d *orderedContainerDelegator[K, V]) Insert(key K, val V, ifNotPresent ...bool) error {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	return d.impl.Insert(key, val, ifNotPresent...)
}

func (d *orderedContainerDelegator[K, V]) Remove(key K) (tree.RBNode[K, V], error) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	return d.impl.Remove(key)
}

func (d *orderedContainerDelegator[K, V]) Find(key K) (V, bool) {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Find(key)
}

func (d *orderedContainerDelegator[K, V]) Min() (K, error) {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Min()
}

func (d *orderedContainerDelegator[K, V]) Max() (K, error) {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Max()
}

func (d *orderedContainerDelegator[K, V]) Successor(key K) (K, bool, error) {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Successor(key)
}

func (d *orderedContainerDelegator[K, V]) Predecessor(key K) (K, bool, error) {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Predecessor(key)
}

// Traverse copies the pairs out under the read lock and yields them
// unlocked, so the consumer may call back into the container.
func (d *orderedContainerDelegator[K, V]) Traverse() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		d.rwmu.RLock()
		pairs := make([]Pair[K, V], 0, d.impl.Len())
		for k, v := range d.impl.Traverse() {
			pairs = append(pairs, Pair[K, V]{Key: k, Val: v})
		}
		d.rwmu.RUnlock()

		for _, p := range pairs {
			if !yield(p.Key, p.Val) {
				return
			}
		}
	}
}

// NewSyncOrderedContainer guards every call with a sync.RWMutex.
func NewSyncOrderedContainer[K any, V any](impl OrderedContainer[K, V]) OrderedContainer[K, V] {
	if impl == nil {
		panic("[coll] nil ordered container")
	}
	return &orderedContainerDelegator[K, V]{
		rwmu: &sync.RWMutex{},
		impl: impl,
	}
}

type sequenceDelegator[T any] struct {
	rwmu *sync.RWMutex
	impl Sequence[T]
}

func (d *sequenceDelegator[T]) Len() int {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Len()
}

func (d *sequenceDelegator[T]) Cap() int {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Cap()
}

func (d *sequenceDelegator[T]) PushBack(v T) error {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	return d.impl.PushBack(v)
}

func (d *sequenceDelegator[T]) PushFront(v T) error {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	return d.impl.PushFront(v)
}

func (d *sequenceDelegator[T]) PopBack() (T, error) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	return d.impl.PopBack()
}

func (d *sequenceDelegator[T]) PopFront() (T, error) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	return d.impl.PopFront()
}

func (d *sequenceDelegator[T]) At(i int) (T, error) {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.At(i)
}

func NewSyncSequence[T any](impl Sequence[T]) Sequence[T] {
	if impl == nil {
		panic("[coll] nil sequence")
	}
	return &sequenceDelegator[T]{
		rwmu: &sync.RWMutex{},
		impl: impl,
	}
}
