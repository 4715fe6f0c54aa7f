package coll

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/multierr"
)

// InsertAll keeps going after a failed insertion, the returned error
// combines every failure.
func InsertAll[K any, V any](c OrderedContainer[K, V], pairs []Pair[K, V], ifNotPresent ...bool) error {
	var merr error
	for _, p := range pairs {
		merr = multierr.Append(merr, c.Insert(p.Key, p.Val, ifNotPresent...))
	}
	return merr
}

// RemoveAll returns the removed pairs in the order of keys.
func RemoveAll[K any, V any](c OrderedContainer[K, V], keys ...K) ([]Pair[K, V], error) {
	var merr error
	removed := make([]Pair[K, V], 0, len(keys))
	for _, key := range keys {
		node, err := c.Remove(key)
		if err != nil {
			merr = multierr.Append(merr, err)
			continue
		}
		removed = append(removed, Pair[K, V]{Key: node.Key(), Val: node.Val()})
	}
	return removed, merr
}

// Drain removes the pairs from the minimum up until the container is empty.
func Drain[K any, V any](c OrderedContainer[K, V]) ([]Pair[K, V], error) {
	drained := make([]Pair[K, V], 0, c.Len())
	for c.Len() > 0 {
		key, err := c.Min()
		if err != nil {
			return drained, err
		}
		node, err := c.Remove(key)
		if err != nil {
			return drained, err
		}
		drained = append(drained, Pair[K, V]{Key: node.Key(), Val: node.Val()})
	}
	return drained, nil
}

func Pairs[K any, V any](c OrderedContainer[K, V]) []Pair[K, V] {
	pairs := make([]Pair[K, V], 0, c.Len())
	for k, v := range c.Traverse() {
		pairs = append(pairs, Pair[K, V]{Key: k, Val: v})
	}
	return pairs
}

func Keys[K any, V any](c OrderedContainer[K, V]) []K {
	return lo.Map(Pairs(c), func(p Pair[K, V], _ int) K {
		return p.Key
	})
}

func Values[K any, V any](c OrderedContainer[K, V]) []V {
	return lo.Map(Pairs(c), func(p Pair[K, V], _ int) V {
		return p.Val
	})
}

// PushBackAll stops at the first failure, the elements pushed before it
// stay in the sequence.
func PushBackAll[T any](s Sequence[T], values ...T) error {
	for i, v := range values {
		if err := s.PushBack(v); err != nil {
			return fmt.Errorf("[coll] pushed %d of %d, %w", i, len(values), err)
		}
	}
	return nil
}

// DrainSequence pops the elements from the front until the sequence is
// empty.
func DrainSequence[T any](s Sequence[T]) []T {
	drained := make([]T, 0, s.Len())
	for s.Len() > 0 {
		v, err := s.PopFront()
		if err != nil {
			break
		}
		drained = append(drained, v)
	}
	return drained
}
