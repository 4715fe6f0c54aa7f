package tree

import (
	"iter"

	"github.com/benz9527/xcoll/lib/infra"
)

var (
	_ RBTree[int, struct{}] = (*rbTree[int, struct{}])(nil)
)

type rbTree[K any, V any] struct {
	root           *rbNode[K, V]
	cmp            infra.KeyComparator[K]
	count          int64
	isDesc         bool
	isRmBorrowPred bool
	isDupRejected  bool
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *rbTree[K, V]) search(key K) *rbNode[K, V] {
	for aux := tree.root; aux != nil; {
		res := tree.cmp(key, aux.key)
		if /* equal */ res == 0 {
			return aux
		} else /* less */ if res < 0 {
			aux = aux.left
		} else /* greater */ {
			aux = aux.right
		}
	}
	return nil
}

func (tree *rbTree[K, V]) rejectDuplicate(ifNotPresent ...bool) bool {
	if len(ifNotPresent) > 0 {
		return ifNotPresent[0]
	}
	return tree.isDupRejected
}

// Insert places a red leaf at the BST position, then rebalances.
// An existing key is either rejected or has its value replaced, nothing
// else changes in that case.
func (tree *rbTree[K, V]) Insert(key K, val V, ifNotPresent ...bool) error {
	var (
		y   *rbNode[K, V]
		res int64
	)
	for x := tree.root; x != nil; {
		y = x
		res = tree.cmp(key, x.key)
		if /* equal */ res == 0 {
			if tree.rejectDuplicate(ifNotPresent...) {
				return ErrRBTreeDuplicateKey
			}
			x.val = val
			return nil
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := &rbNode[K, V]{
		key:    key,
		val:    val,
		color:  Red,
		parent: y,
	}
	if /* empty */ y == nil {
		tree.root = z
	} else if res < 0 {
		y.left = z
	} else {
		y.right = z
	}
	tree.count++
	tree.insertRebalance(z)
	return nil
}

/*
r1: The node Z has two children. Its succ (or pred) S has at most one
child. Unlink S as in r2, then S takes the position, the color and the
children of Z. No payload is moved, every other node keeps its key.

Find succ:

	  |                    |
	  Z                    S
	 / \                  / \
	L  ..   splice(S)    L  ..
	    |   =========>       |
	    P                    P
	   / \                  / \
	  S  ..                C  ..
	   \
	    C

r2: The node Y has at most one child C (maybe NIL). Splice C into Y's
position. If Y was black the path through C lost one black node, see
removeRebalance.
*/
func (tree *rbTree[K, V]) removeNode(z *rbNode[K, V]) RBNode[K, V] {
	res := &rbNode[K, V]{
		key:   z.key,
		val:   z.val,
		color: z.color,
	}

	y := z
	if /* r1 */ z.left != nil && z.right != nil {
		if tree.isRmBorrowPred {
			y = z.left.maximum()
		} else {
			y = z.right.minimum()
		}
	}

	/* r2 */
	c := y.left
	if c == nil {
		c = y.right
	}
	p, dir := y.parent, y.Direction()
	lostBlack := y.isBlack()
	tree.replace(p, dir, c)

	if /* r1 */ y != z {
		if p == z {
			// C hangs at the same side of S once S replaces Z.
			p = y
		}
		zp, zdir := z.parent, z.Direction()
		y.left, y.right, y.color = z.left, z.right, z.color
		y.fixLink()
		tree.replace(zp, zdir, y)
	}

	if lostBlack {
		if c.isRed() {
			c.color = Black
		} else {
			tree.removeRebalance(c, p, dir)
		}
	}
	z.detach()
	tree.count--
	return res
}

func (tree *rbTree[K, V]) Remove(key K) (RBNode[K, V], error) {
	z := tree.search(key)
	if z == nil {
		return nil, ErrRBTreeKeyNotFound
	}
	return tree.removeNode(z), nil
}

func (tree *rbTree[K, V]) RemoveMin() (RBNode[K, V], error) {
	if tree.root == nil {
		return nil, ErrRBTreeEmpty
	}
	return tree.removeNode(tree.root.minimum()), nil
}

func (tree *rbTree[K, V]) RemoveMax() (RBNode[K, V], error) {
	if tree.root == nil {
		return nil, ErrRBTreeEmpty
	}
	return tree.removeNode(tree.root.maximum()), nil
}

func (tree *rbTree[K, V]) Find(key K) (V, bool) {
	if x := tree.search(key); x != nil {
		return x.val, true
	}
	var zero V
	return zero, false
}

func (tree *rbTree[K, V]) Contains(key K) bool {
	return tree.search(key) != nil
}

func (tree *rbTree[K, V]) Min() (K, error) {
	if tree.root == nil {
		var zero K
		return zero, ErrRBTreeEmpty
	}
	return tree.root.minimum().key, nil
}

func (tree *rbTree[K, V]) Max() (K, error) {
	if tree.root == nil {
		var zero K
		return zero, ErrRBTreeEmpty
	}
	return tree.root.maximum().key, nil
}

func (tree *rbTree[K, V]) Successor(key K) (K, bool, error) {
	var zero K
	x := tree.search(key)
	if x == nil {
		return zero, false, ErrRBTreeKeyNotFound
	}
	if next := x.succ(); next != nil {
		return next.key, true, nil
	}
	return zero, false, nil
}

func (tree *rbTree[K, V]) Predecessor(key K) (K, bool, error) {
	var zero K
	x := tree.search(key)
	if x == nil {
		return zero, false, ErrRBTreeKeyNotFound
	}
	if prev := x.pred(); prev != nil {
		return prev.key, true, nil
	}
	return zero, false, nil
}

// Search walks down from x guided by fn. fn returns 0 to stop at the
// node, a positive number to continue with the right child and a
// negative number to continue with the left child.
func (tree *rbTree[K, V]) Search(x RBNode[K, V], fn func(RBNode[K, V]) int64) RBNode[K, V] {
	if x == nil || fn == nil {
		return nil
	}
	for aux := x; aux != nil; {
		res := fn(aux)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.Right()
		} else {
			aux = aux.Left()
		}
	}
	return nil
}

func (tree *rbTree[K, V]) Ceiling(key K) (K, bool) {
	var (
		zero K
		hit  *rbNode[K, V]
	)
	for aux := tree.root; aux != nil; {
		res := tree.cmp(key, aux.key)
		if res == 0 {
			return aux.key, true
		} else if res < 0 {
			hit, aux = aux, aux.left
		} else {
			aux = aux.right
		}
	}
	if hit == nil {
		return zero, false
	}
	return hit.key, true
}

func (tree *rbTree[K, V]) Floor(key K) (K, bool) {
	var (
		zero K
		hit  *rbNode[K, V]
	)
	for aux := tree.root; aux != nil; {
		res := tree.cmp(key, aux.key)
		if res == 0 {
			return aux.key, true
		} else if res > 0 {
			hit, aux = aux, aux.right
		} else {
			aux = aux.left
		}
	}
	if hit == nil {
		return zero, false
	}
	return hit.key, true
}

type kvPair[K any, V any] struct {
	key K
	val V
}

// snapshot materializes the ordering, used by the iterators.
func (tree *rbTree[K, V]) snapshot() []kvPair[K, V] {
	items := make([]kvPair[K, V], 0, tree.count)
	tree.Foreach(func(_ int64, _ RBColor, key K, val V) bool {
		items = append(items, kvPair[K, V]{key: key, val: val})
		return true
	})
	return items
}

func (tree *rbTree[K, V]) Traverse() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		items := tree.snapshot()
		for i := 0; i < len(items); i++ {
			if !yield(items[i].key, items[i].val) {
				return
			}
		}
	}
}

func (tree *rbTree[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		items := tree.snapshot()
		for i := len(items) - 1; i >= 0; i-- {
			if !yield(items[i].key, items[i].val) {
				return
			}
		}
	}
}

// Foreach is an inorder DFS with an explicit stack.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	aux := tree.root
	if aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, 64)
	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// Release unlinks every node, so nodes held by callers through RBNode
// views don't retain the rest of the tree.
func (tree *rbTree[K, V]) Release() {
	aux := tree.root
	tree.root = nil
	tree.count = 0
	if aux == nil {
		return
	}

	stack := []*rbNode[K, V]{aux}
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		aux.detach()
	}
}

type RBTreeOpt[K any, V any] func(*rbTree[K, V])

// WithRBTreeDesc reverses the supplied order.
func WithRBTreeDesc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

// WithRBTreeRemoveBorrowPred substitutes the in-order predecessor instead
// of the successor when a node with two children is removed.
func WithRBTreeRemoveBorrowPred[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isRmBorrowPred = true
	}
}

// WithRBTreeDuplicateReject makes Insert reject existing keys unless the
// caller passes ifNotPresent explicitly.
func WithRBTreeDuplicateReject[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDupRejected = true
	}
}

// NewRBTree builds a tree ordered by cmp. Keys equal under cmp are the
// same key.
func NewRBTree[K any, V any](cmp infra.KeyComparator[K], opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	if cmp == nil {
		panic("[rbtree] nil key comparator")
	}
	tree := &rbTree[K, V]{}
	for _, o := range opts {
		o(tree)
	}
	tree.cmp = cmp
	if tree.isDesc {
		tree.cmp = infra.ReverseOrder(cmp)
	}
	return tree
}

func NewOrderedRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return NewRBTree[K, V](infra.NaturalOrder[K], opts...)
}
