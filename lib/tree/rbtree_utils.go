package tree

import (
	"errors"

	"github.com/benz9527/xcoll/lib/infra"
)

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

var (
	errRBTreeRedViolation   = errors.New("[rbtree] red violation")
	errRBTreeBlackViolation = errors.New("[rbtree] black violation")
	errRBTreeRootViolation  = errors.New("[rbtree] red root")
	errRBTreeLinkViolation  = errors.New("[rbtree] broken parent link")
	errRBTreeOrderViolation = errors.New("[rbtree] order violation")
)

func isBlack[K any, V any](node RBNode[K, V]) bool {
	return node == nil || node.Color() == Black
}

func isRed[K any, V any](node RBNode[K, V]) bool {
	return node != nil && node.Color() == Red
}

// Inorder traversal to validate the p3 and p5.
func RedViolationValidate[K any, V any](tree RBTree[K, V]) error {
	aux := tree.Root()
	if aux == nil {
		return nil
	}
	if isRed[K, V](aux) {
		return errRBTreeRootViolation
	}

	stack := make([]RBNode[K, V], 0, 64)
	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if isRed[K, V](aux) && (isRed[K, V](aux.Left()) || isRed[K, V](aux.Right())) {
			return errRBTreeRedViolation
		}
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
	        /  \
	     <8>    [15]
	     / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Every path from a node down to its NIL positions counts the same number
of black nodes. The NIL positions are counted as black.
*/
func BlackViolationValidate[K any, V any](tree RBTree[K, V]) error {
	_, err := blackHeight[K, V](tree.Root())
	return err
}

func blackHeight[K any, V any](node RBNode[K, V]) (int, error) {
	if node == nil {
		return 1, nil
	}
	l, err := blackHeight[K, V](node.Left())
	if err != nil {
		return 0, err
	}
	r, err := blackHeight[K, V](node.Right())
	if err != nil {
		return 0, err
	}
	if l != r {
		return 0, errRBTreeBlackViolation
	}
	if isBlack[K, V](node) {
		l++
	}
	return l, nil
}

// LinkViolationValidate checks every child points back to its parent and
// the root has no parent.
func LinkViolationValidate[K any, V any](tree RBTree[K, V]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}
	if root.Parent() != nil {
		return errRBTreeLinkViolation
	}
	stack := []RBNode[K, V]{root}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		for _, child := range []RBNode[K, V]{aux.Left(), aux.Right()} {
			if child == nil {
				continue
			}
			if child.Parent() != aux {
				return errRBTreeLinkViolation
			}
			stack = append(stack, child)
		}
	}
	return nil
}

// OrderViolationValidate checks the inorder keys are strictly ascending
// under cmp.
func OrderViolationValidate[K any, V any](tree RBTree[K, V], cmp infra.KeyComparator[K]) error {
	var (
		prev    K
		hasPrev bool
		err     error
	)
	tree.Foreach(func(idx int64, color RBColor, key K, val V) bool {
		if hasPrev && cmp(prev, key) >= 0 {
			err = errRBTreeOrderViolation
			return false
		}
		prev, hasPrev = key, true
		return true
	})
	return err
}
