package kv

import (
	"io"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/benz9527/xcoll/lib/infra"
	"github.com/benz9527/xcoll/lib/tree"
)

type threadSafeMap[K infra.OrderedKey, V any] struct {
	lock           sync.RWMutex
	items          tree.RBTree[K, V]
	isDesc         bool
	isClosableItem bool
}

func (t *threadSafeMap[K, V]) newTree() tree.RBTree[K, V] {
	if t.isDesc {
		return tree.NewOrderedRBTree[K, V](tree.WithRBTreeDesc[K, V]())
	}
	return tree.NewOrderedRBTree[K, V]()
}

func (t *threadSafeMap[K, V]) AddOrUpdate(key K, obj V) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.items.Insert(key, obj)
}

func (t *threadSafeMap[K, V]) Replace(items map[K]V) error {
	replaced := t.newTree()
	for key, item := range items {
		if err := replaced.Insert(key, item); err != nil {
			return err
		}
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	t.items.Release()
	t.items = replaced
	return nil
}

func (t *threadSafeMap[K, V]) Delete(key K) (V, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	node, err := t.items.Remove(key)
	if err != nil {
		var zero V
		return zero, ErrThreadSafeMapKeyNotFound
	}
	return node.Val(), nil
}

func (t *threadSafeMap[K, V]) Get(key K) (item V, exists bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Find(key)
}

func (t *threadSafeMap[K, V]) Len() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Len()
}

// ListKeys returns the keys accepted by any of the filters.
func (t *threadSafeMap[K, V]) ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K {
	realFilters := lo.Filter(filters, func(filter SafeStoreKeyFilterFunc[K], _ int) bool {
		return filter != nil
	})
	if len(realFilters) == 0 {
		realFilters = append(realFilters, defaultAllKeysFilter[K])
	}

	t.lock.RLock()
	keys := make([]K, 0, t.items.Len())
	t.items.Foreach(func(_ int64, _ tree.RBColor, key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	t.lock.RUnlock()

	return lo.Filter(keys, func(key K, _ int) bool {
		return lo.ContainsBy(realFilters, func(filter SafeStoreKeyFilterFunc[K]) bool {
			return filter(key)
		})
	})
}

// ListValues returns the values of the present keys, or all values if no
// key is given. The values follow the key order either way.
func (t *threadSafeMap[K, V]) ListValues(keys ...K) (items []V) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if len(keys) == 0 {
		items = make([]V, 0, t.items.Len())
		t.items.Foreach(func(_ int64, _ tree.RBColor, _ K, val V) bool {
			items = append(items, val)
			return true
		})
		return items
	}

	keys = lo.Uniq(keys)
	items = make([]V, 0, len(keys))
	for _, key := range keys {
		if v, ok := t.items.Find(key); ok {
			items = append(items, v)
		}
	}
	return items
}

func (t *threadSafeMap[K, V]) Purge() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	var merr error
	if t.isClosableItem {
		t.items.Foreach(func(_ int64, _ tree.RBColor, _ K, val V) bool {
			if closer, ok := any(val).(io.Closer); ok && closer != nil {
				merr = multierr.Append(merr, closer.Close())
			}
			return true
		})
	}
	t.items.Release()
	return merr
}

type ThreadSafeMapOption[K infra.OrderedKey, V any] func(*threadSafeMap[K, V])

// WithThreadSafeMapCloseableItemCheck makes Purge close the io.Closer values.
func WithThreadSafeMapCloseableItemCheck[K infra.OrderedKey, V any]() ThreadSafeMapOption[K, V] {
	return func(t *threadSafeMap[K, V]) {
		t.isClosableItem = true
	}
}

func WithThreadSafeMapDesc[K infra.OrderedKey, V any]() ThreadSafeMapOption[K, V] {
	return func(t *threadSafeMap[K, V]) {
		t.isDesc = true
	}
}

func NewThreadSafeMap[K infra.OrderedKey, V any](opts ...ThreadSafeMapOption[K, V]) ThreadSafeStorer[K, V] {
	t := &threadSafeMap[K, V]{}
	for _, o := range opts {
		if o != nil {
			o(t)
		}
	}
	t.items = t.newTree()
	return t
}
