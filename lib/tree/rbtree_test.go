package tree

import (
	randv2 "math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/xcoll/lib/infra"
)

type checkData struct {
	color RBColor
	key   uint64
}

func requireTreeLayout(t *testing.T, tree RBTree[uint64, uint64], expected []checkData) {
	t.Helper()
	count := int64(0)
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, expected[idx].color, color)
		require.Equal(t, expected[idx].key, key)
		count++
		return true
	})
	require.Equal(t, int64(len(expected)), count)
	require.Equal(t, int64(len(expected)), tree.Len())
	requireRBTreeRules(t, tree)
}

func requireRBTreeRules[K infra.OrderedKey, V any](t *testing.T, tree RBTree[K, V]) {
	t.Helper()
	require.NoError(t, RedViolationValidate(tree))
	require.NoError(t, BlackViolationValidate(tree))
	require.NoError(t, LinkViolationValidate(tree))
	require.NoError(t, OrderViolationValidate(tree, infra.NaturalOrder[K]))
}

func TestNilNode(t *testing.T) {
	var nilNode RBNode[uint64, uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *rbNode[uint64, uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)

	tree := NewOrderedRBTree[uint64, uint64]()
	require.True(t, tree.Root() == nil)
	require.NoError(t, tree.Insert(1, 1))
	require.True(t, tree.Root().Left() == nil)
	require.True(t, tree.Root().Right() == nil)
	require.True(t, tree.Root().Parent() == nil)
}

func TestRBTreeLeftAndRightRotate_Pred(t *testing.T) {
	tree := NewOrderedRBTree[uint64, uint64](WithRBTreeRemoveBorrowPred[uint64, uint64]())

	require.NoError(t, tree.Insert(52, 1))
	requireTreeLayout(t, tree, []checkData{{Black, 52}})

	require.NoError(t, tree.Insert(47, 1))
	requireTreeLayout(t, tree, []checkData{{Red, 47}, {Black, 52}})

	require.NoError(t, tree.Insert(3, 1))
	requireTreeLayout(t, tree, []checkData{{Red, 3}, {Black, 47}, {Red, 52}})

	require.NoError(t, tree.Insert(35, 1))
	requireTreeLayout(t, tree, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}})

	require.NoError(t, tree.Insert(24, 1))
	requireTreeLayout(t, tree, []checkData{{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}})

	// remove

	x, err := tree.Remove(24)
	require.NoError(t, err)
	require.Equal(t, uint64(24), x.Key())
	requireTreeLayout(t, tree, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}})

	x, err = tree.Remove(47)
	require.NoError(t, err)
	require.Equal(t, uint64(47), x.Key())
	requireTreeLayout(t, tree, []checkData{{Black, 3}, {Black, 35}, {Black, 52}})

	x, err = tree.Remove(52)
	require.NoError(t, err)
	require.Equal(t, uint64(52), x.Key())
	requireTreeLayout(t, tree, []checkData{{Red, 3}, {Black, 35}})

	x, err = tree.Remove(3)
	require.NoError(t, err)
	require.Equal(t, uint64(3), x.Key())
	requireTreeLayout(t, tree, []checkData{{Black, 35}})

	x, err = tree.Remove(35)
	require.NoError(t, err)
	require.Equal(t, uint64(35), x.Key())
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
}

func TestRBTreeRemove_Succ(t *testing.T) {
	tree := NewOrderedRBTree[uint64, uint64]()
	for _, key := range []uint64{52, 47, 3, 35, 24} {
		require.NoError(t, tree.Insert(key, key*10))
	}

	// 24 borrows 35 from its right subtree.
	x, err := tree.Remove(24)
	require.NoError(t, err)
	require.Equal(t, uint64(24), x.Key())
	require.Equal(t, uint64(240), x.Val())
	requireTreeLayout(t, tree, []checkData{{Red, 3}, {Black, 35}, {Black, 47}, {Black, 52}})

	val, ok := tree.Find(35)
	require.True(t, ok)
	require.Equal(t, uint64(350), val)
}

func TestRBTree_RemoveMin(t *testing.T) {
	tree := NewOrderedRBTree[uint64, uint64]()

	for _, key := range []uint64{52, 47, 3, 35, 24} {
		require.NoError(t, tree.Insert(key, 1))
	}
	requireTreeLayout(t, tree, []checkData{{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}})

	x, err := tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(3), x.Key())
	requireTreeLayout(t, tree, []checkData{{Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(24), x.Key())
	requireTreeLayout(t, tree, []checkData{{Black, 35}, {Black, 47}, {Black, 52}})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(35), x.Key())
	requireTreeLayout(t, tree, []checkData{{Black, 47}, {Red, 52}})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(47), x.Key())
	requireTreeLayout(t, tree, []checkData{{Black, 52}})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(52), x.Key())
	require.Equal(t, int64(0), tree.Len())

	_, err = tree.RemoveMin()
	require.ErrorIs(t, err, ErrRBTreeEmpty)
	require.ErrorIs(t, err, infra.ErrEmptyContainer)
}

func TestRBTree_RemoveMax(t *testing.T) {
	tree := NewOrderedRBTree[int, string]()
	for i := 0; i < 64; i++ {
		require.NoError(t, tree.Insert(i, "v"))
	}
	for i := 63; i >= 0; i-- {
		x, err := tree.RemoveMax()
		require.NoError(t, err)
		require.Equal(t, i, x.Key())
		requireRBTreeRules(t, tree)
	}
	_, err := tree.RemoveMax()
	require.ErrorIs(t, err, ErrRBTreeEmpty)
}

func TestRBTreeScenario(t *testing.T) {
	tree := NewOrderedRBTree[int, string]()
	for _, key := range []int{10, 20, 5, 15, 30} {
		require.NoError(t, tree.Insert(key, strings.Repeat("x", key)))
	}

	keys := make([]int, 0, 5)
	for key := range tree.Traverse() {
		keys = append(keys, key)
	}
	require.Equal(t, []int{5, 10, 15, 20, 30}, keys)

	next, ok, err := tree.Successor(15)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 20, next)

	_, err = tree.Remove(10)
	require.NoError(t, err)
	_, ok = tree.Find(10)
	require.False(t, ok)
	requireRBTreeRules(t, tree)
}

func TestRBTreeSuccessorAndPredecessor(t *testing.T) {
	tree := NewOrderedRBTree[int, int]()
	for i := 0; i < 100; i += 2 {
		require.NoError(t, tree.Insert(i, i))
	}

	for i := 0; i < 98; i += 2 {
		next, ok, err := tree.Successor(i)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i+2, next)

		prev, ok, err := tree.Predecessor(i + 2)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i, prev)
	}

	_, ok, err := tree.Successor(98)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = tree.Predecessor(0)
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = tree.Successor(3)
	require.ErrorIs(t, err, ErrRBTreeKeyNotFound)
	_, _, err = tree.Predecessor(3)
	require.ErrorIs(t, err, infra.ErrKeyNotFound)
}

func TestRBTreeMinMax(t *testing.T) {
	tree := NewOrderedRBTree[string, int]()
	_, err := tree.Min()
	require.ErrorIs(t, err, ErrRBTreeEmpty)
	_, err = tree.Max()
	require.ErrorIs(t, err, ErrRBTreeEmpty)

	for i, key := range []string{"m", "c", "x", "a", "z", "k"} {
		require.NoError(t, tree.Insert(key, i))
	}
	_min, err := tree.Min()
	require.NoError(t, err)
	require.Equal(t, "a", _min)
	_max, err := tree.Max()
	require.NoError(t, err)
	require.Equal(t, "z", _max)
}

func TestRBTreeDuplicateKey(t *testing.T) {
	tree := NewOrderedRBTree[int, string]()
	require.NoError(t, tree.Insert(1, "a"))
	require.NoError(t, tree.Insert(1, "b"))
	val, ok := tree.Find(1)
	require.True(t, ok)
	require.Equal(t, "b", val)
	require.Equal(t, int64(1), tree.Len())

	err := tree.Insert(1, "c", true)
	require.ErrorIs(t, err, ErrRBTreeDuplicateKey)
	require.ErrorIs(t, err, infra.ErrDuplicateKey)
	val, _ = tree.Find(1)
	require.Equal(t, "b", val)

	tree = NewOrderedRBTree[int, string](WithRBTreeDuplicateReject[int, string]())
	require.NoError(t, tree.Insert(1, "a"))
	require.ErrorIs(t, tree.Insert(1, "b"), ErrRBTreeDuplicateKey)
	require.NoError(t, tree.Insert(1, "c", false))
	val, _ = tree.Find(1)
	require.Equal(t, "c", val)
}

func TestRBTreeRemoveNotFound(t *testing.T) {
	tree := NewOrderedRBTree[int, int]()
	_, err := tree.Remove(1)
	require.ErrorIs(t, err, ErrRBTreeKeyNotFound)

	require.NoError(t, tree.Insert(2, 2))
	_, err = tree.Remove(1)
	require.ErrorIs(t, err, ErrRBTreeKeyNotFound)
	require.Equal(t, int64(1), tree.Len())
	require.True(t, tree.Contains(2))
}

func TestRBTreeTraverseSnapshot(t *testing.T) {
	tree := NewOrderedRBTree[int, int]()
	for i := 0; i < 10; i++ {
		require.NoError(t, tree.Insert(i, i*i))
	}

	seen := make([]int, 0, 10)
	for key, val := range tree.Traverse() {
		require.Equal(t, key*key, val)
		seen = append(seen, key)
		// Not observed by the running traversal.
		_, _ = tree.Remove(key + 1)
		require.NoError(t, tree.Insert(key+100, 0))
	}
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, seen)

	// A fresh traversal sees the mutations.
	keys := make([]int, 0, tree.Len())
	for key := range tree.Traverse() {
		keys = append(keys, key)
	}
	require.Equal(t, []int{0, 100, 101, 102, 103, 104, 105, 106, 107, 108, 109}, keys)

	// Early stop.
	count := 0
	for range tree.Traverse() {
		count++
		if count == 3 {
			break
		}
	}
	require.Equal(t, 3, count)

	backward := make([]int, 0, tree.Len())
	for key := range tree.Backward() {
		backward = append(backward, key)
	}
	require.Equal(t, lo.Reverse(slices.Clone(keys)), backward)
}

func TestRBTreeDesc(t *testing.T) {
	tree := NewOrderedRBTree[int64, uint64](WithRBTreeDesc[int64, uint64]())
	for i := int64(0); i < 1000; i++ {
		require.NoError(t, tree.Insert(i, 1))
	}
	require.NoError(t, RedViolationValidate(tree))
	require.NoError(t, BlackViolationValidate(tree))
	require.NoError(t, OrderViolationValidate(tree, infra.ReverseOrder[int64](infra.NaturalOrder[int64])))
	tree.Foreach(func(idx int64, color RBColor, key int64, val uint64) bool {
		require.Equal(t, 999-idx, key)
		return true
	})
	_min, err := tree.Min()
	require.NoError(t, err)
	require.Equal(t, int64(999), _min)
	next, ok, err := tree.Successor(500)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(499), next)
}

func TestRBTreeCustomComparator(t *testing.T) {
	type version struct {
		major, minor int
	}
	cmp := func(i, j version) int64 {
		if i.major != j.major {
			return int64(i.major - j.major)
		}
		return int64(i.minor - j.minor)
	}
	tree := NewRBTree[version, string](cmp)
	require.NoError(t, tree.Insert(version{1, 2}, "1.2"))
	require.NoError(t, tree.Insert(version{0, 9}, "0.9"))
	require.NoError(t, tree.Insert(version{1, 0}, "1.0"))
	require.NoError(t, tree.Insert(version{2, 0}, "2.0"))

	versions := make([]string, 0, 4)
	for _, v := range tree.Traverse() {
		versions = append(versions, v)
	}
	require.Equal(t, []string{"0.9", "1.0", "1.2", "2.0"}, versions)
	require.NoError(t, OrderViolationValidate(tree, cmp))

	require.Panics(t, func() {
		NewRBTree[version, string](nil)
	})
}

func collectNodes[K comparable, V any](node RBNode[K, V], nodes map[K]RBNode[K, V]) {
	if node == nil {
		return
	}
	nodes[node.Key()] = node
	collectNodes(node.Left(), nodes)
	collectNodes(node.Right(), nodes)
}

func TestRBTreeRemove_NodesKeepKeys(t *testing.T) {
	for _, opts := range [][]RBTreeOpt[int, int]{
		nil,
		{WithRBTreeRemoveBorrowPred[int, int]()},
		{WithRBTreeDesc[int, int]()},
	} {
		tree := NewOrderedRBTree[int, int](opts...)
		for i := 0; i < 64; i++ {
			require.NoError(t, tree.Insert(i, i*10))
		}
		nodes := map[int]RBNode[int, int]{}
		collectNodes(tree.Root(), nodes)
		require.Len(t, nodes, 64)

		// With 3 nodes or more the root always has two children.
		for tree.Len() >= 3 {
			root := tree.Root()
			require.NotNil(t, root.Left())
			require.NotNil(t, root.Right())
			rootKey := root.Key()
			removed, err := tree.Remove(rootKey)
			require.NoError(t, err)
			require.Equal(t, rootKey, removed.Key())
			delete(nodes, rootKey)
			require.NoError(t, RedViolationValidate(tree))
			require.NoError(t, BlackViolationValidate(tree))
			require.NoError(t, LinkViolationValidate(tree))

			for k, node := range nodes {
				require.Equal(t, k, node.Key())
				require.Equal(t, k*10, node.Val())
			}
			live := map[int]RBNode[int, int]{}
			collectNodes(tree.Root(), live)
			require.Len(t, live, len(nodes))
			for k, node := range live {
				require.Same(t, nodes[k], node)
			}
		}
	}
}

func TestRBTreeSearch(t *testing.T) {
	tree := NewOrderedRBTree[int, string]()
	for _, k := range []int{10, 20, 30, 40, 50} {
		require.NoError(t, tree.Insert(k, "v"))
	}
	target := 40
	node := tree.Search(tree.Root(), func(x RBNode[int, string]) int64 {
		return int64(target - x.Key())
	})
	require.NotNil(t, node)
	require.Equal(t, 40, node.Key())

	target = 35
	require.Nil(t, tree.Search(tree.Root(), func(x RBNode[int, string]) int64 {
		return int64(target - x.Key())
	}))
	require.Nil(t, tree.Search(nil, func(x RBNode[int, string]) int64 { return 0 }))
	require.Nil(t, tree.Search(tree.Root(), nil))

	type bound struct {
		key        int
		ceil, flr  int
		hasC, hasF bool
	}
	for _, b := range []bound{
		{key: 5, ceil: 10, hasC: true},
		{key: 10, ceil: 10, flr: 10, hasC: true, hasF: true},
		{key: 35, ceil: 40, flr: 30, hasC: true, hasF: true},
		{key: 55, flr: 50, hasF: true},
	} {
		k, ok := tree.Ceiling(b.key)
		require.Equal(t, b.hasC, ok)
		require.Equal(t, b.ceil, k)
		k, ok = tree.Floor(b.key)
		require.Equal(t, b.hasF, ok)
		require.Equal(t, b.flr, k)
	}

	// Ceiling and Floor follow the tree order.
	desc := NewOrderedRBTree[int, string](WithRBTreeDesc[int, string]())
	for _, k := range []int{10, 20, 30} {
		require.NoError(t, desc.Insert(k, "v"))
	}
	k, ok := desc.Ceiling(25)
	require.True(t, ok)
	require.Equal(t, 20, k)
	k, ok = desc.Floor(25)
	require.True(t, ok)
	require.Equal(t, 30, k)
	_, ok = NewOrderedRBTree[int, int]().Ceiling(1)
	require.False(t, ok)
}

func rbtreeSequentialNumberRunCore(t *testing.T, opts ...RBTreeOpt[uint64, uint64]) {
	total := uint64(1000)
	insertTotal := uint64(float64(total) * 0.8)
	removeTotal := uint64(float64(total) * 0.2)

	tree := NewOrderedRBTree[uint64, uint64](opts...)
	for i := uint64(0); i < insertTotal+removeTotal; i++ {
		require.NoError(t, tree.Insert(i, 1))
		requireRBTreeRules(t, tree)
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		x, err := tree.Remove(i)
		require.NoError(t, err)
		require.Equal(t, i, x.Key())
		requireRBTreeRules(t, tree)
	}
	require.Equal(t, int64(insertTotal), tree.Len())
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})
}

func TestRBTreeInsertAndRemove_SequentialNumber(t *testing.T) {
	testcases := []struct {
		name string
		opts []RBTreeOpt[uint64, uint64]
	}{
		{
			name: "rm by succ",
		},
		{
			name: "rm by pred",
			opts: []RBTreeOpt[uint64, uint64]{WithRBTreeRemoveBorrowPred[uint64, uint64]()},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbtreeSequentialNumberRunCore(tt, tc.opts...)
		})
	}
}

func rbtreeRandomNumberRunCore(t *testing.T, seed uint64, total int, opts ...RBTreeOpt[int, int]) {
	rng := randv2.New(randv2.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	tree := NewOrderedRBTree[int, int](opts...)
	expected := make(map[int]int, total)

	for i := 0; i < total; i++ {
		key := rng.IntN(total / 2)
		if rng.IntN(3) == 0 {
			x, err := tree.Remove(key)
			if _, ok := expected[key]; ok {
				require.NoError(t, err)
				require.Equal(t, key, x.Key())
				require.Equal(t, expected[key], x.Val())
				delete(expected, key)
			} else {
				require.ErrorIs(t, err, ErrRBTreeKeyNotFound)
			}
		} else {
			require.NoError(t, tree.Insert(key, i))
			expected[key] = i
		}
		requireRBTreeRules(t, tree)
		require.Equal(t, int64(len(expected)), tree.Len())
	}

	keys := lo.Keys(expected)
	slices.Sort(keys)
	actual := make([]int, 0, len(keys))
	for key, val := range tree.Traverse() {
		require.Equal(t, expected[key], val)
		actual = append(actual, key)
	}
	require.Equal(t, keys, actual)

	// Drain in random order, the tree must end up empty.
	rng.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	for _, key := range keys {
		_, err := tree.Remove(key)
		require.NoError(t, err)
		requireRBTreeRules(t, tree)
	}
	require.Equal(t, int64(0), tree.Len())
	_, err := tree.Min()
	require.ErrorIs(t, err, ErrRBTreeEmpty)
	_, err = tree.Max()
	require.ErrorIs(t, err, ErrRBTreeEmpty)
	for _, key := range keys {
		_, ok := tree.Find(key)
		require.False(t, ok)
	}
}

func TestRBTreeInsertAndRemove_RandomNumber(t *testing.T) {
	testcases := []struct {
		name  string
		seed  uint64
		total int
		opts  []RBTreeOpt[int, int]
	}{
		{
			name:  "rm by succ 2000",
			seed:  1,
			total: 2000,
		},
		{
			name:  "rm by pred 2000",
			seed:  2,
			total: 2000,
			opts:  []RBTreeOpt[int, int]{WithRBTreeRemoveBorrowPred[int, int]()},
		},
		{
			name:  "rm by succ 5000",
			seed:  randv2.Uint64(),
			total: 5000,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tt.Logf("seed=%d", tc.seed)
			rbtreeRandomNumberRunCore(tt, tc.seed, tc.total, tc.opts...)
		})
	}
}

func TestRBTreeInsert_SequentialNumber_Release(t *testing.T) {
	insertTotal := uint64(100_000)
	tree := NewOrderedRBTree[uint64, uint64]()

	rand := uint64(randv2.Uint32() % 1_000)
	for i := uint64(0); i < insertTotal; i++ {
		require.NoError(t, tree.Insert(i, 1))
		if i%1000 == rand {
			require.NoError(t, RedViolationValidate(tree))
			require.NoError(t, BlackViolationValidate(tree))
		}
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})
	root := tree.Root()
	tree.Release()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
	require.Nil(t, root.Left())
	require.Nil(t, root.Right())
}

func BenchmarkRBTree_Random(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree := NewOrderedRBTree[int, []byte]()

	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		err := tree.Insert(rngArr[i], testByBytes)
		if err != nil {
			panic(err)
		}
	}
}

func BenchmarkRBTree_Serial(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree := NewOrderedRBTree[int, []byte]()

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.Insert(i, testByBytes)
	}
}
