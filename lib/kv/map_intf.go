package kv

import (
	"fmt"

	"github.com/benz9527/xcoll/lib/infra"
)

var ErrThreadSafeMapKeyNotFound = fmt.Errorf("[thread-safe-map] %w", infra.ErrKeyNotFound)

type SafeStoreKeyFilterFunc[K infra.OrderedKey] func(key K) bool

func defaultAllKeysFilter[K infra.OrderedKey](key K) bool {
	return true
}

// ThreadSafeStorer keeps the keys sorted, the listings come out in
// ascending key order.
type ThreadSafeStorer[K infra.OrderedKey, V any] interface {
	// Purge closes the io.Closer values if the store was built with
	// WithThreadSafeMapCloseableItemCheck.
	Purge() error
	AddOrUpdate(key K, obj V) error
	Replace(items map[K]V) error
	Delete(key K) (V, error)
	Get(key K) (item V, exists bool)
	Len() int64
	ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K
	ListValues(keys ...K) (items []V)
}
