package tree

import (
	"fmt"
	"iter"

	"github.com/benz9527/xcoll/lib/infra"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

var (
	ErrRBTreeEmpty        = fmt.Errorf("[rbtree] no element, %w", infra.ErrEmptyContainer)
	ErrRBTreeKeyNotFound  = fmt.Errorf("[rbtree] %w", infra.ErrKeyNotFound)
	ErrRBTreeDuplicateKey = fmt.Errorf("[rbtree] replace disabled, %w", infra.ErrDuplicateKey)
)

// RBNode is the read-only view of a tree node. A node keeps its key and
// value while it stays in the tree, removals of other keys only rewire
// the links.
type RBNode[K any, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

// RBTree is not thread safe. Callers sharing a tree between goroutines
// have to guard it, see coll.NewSyncOrderedContainer.
type RBTree[K any, V any] interface {
	Len() int64
	Root() RBNode[K, V]
	// Insert overwrites the value of an existing key unless ifNotPresent
	// is true or the tree was built with WithRBTreeDuplicateReject, then
	// ErrRBTreeDuplicateKey is returned.
	Insert(key K, val V, ifNotPresent ...bool) error
	// Remove returns a detached copy of the removed key and value.
	Remove(key K) (RBNode[K, V], error)
	RemoveMin() (RBNode[K, V], error)
	RemoveMax() (RBNode[K, V], error)
	Find(key K) (V, bool)
	Contains(key K) bool
	Min() (K, error)
	Max() (K, error)
	// Search walks down from x guided by fn. 0 stops at the node, a
	// positive result continues right and a negative one continues left.
	Search(x RBNode[K, V], fn func(RBNode[K, V]) int64) RBNode[K, V]
	// Ceiling returns the first key not ordered before key.
	Ceiling(key K) (K, bool)
	// Floor returns the last key not ordered after key.
	Floor(key K) (K, bool)
	// Successor returns false at the upper boundary.
	Successor(key K) (K, bool, error)
	// Predecessor returns false at the lower boundary.
	Predecessor(key K) (K, bool, error)
	// Traverse yields pairs in comparator order. Each range over the
	// sequence freezes the ordering when it starts, mutations made while
	// ranging are not observed.
	Traverse() iter.Seq2[K, V]
	Backward() iter.Seq2[K, V]
	// Foreach walks the live tree, it must not be mutated by action.
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Release()
}
