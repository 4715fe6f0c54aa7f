package tree

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
//
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child.
//
// The rebalancing only rewires links and repaints colors, it never
// compares keys. Rotations keep the in-order sequence unchanged, so the
// tree stays a valid BST even before the colors are fixed.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x *rbNode[K, V]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x
	tree.relink(p, dir, x, y)
}

/*
		 |                         |
		 X                         L
		/ \    rightRotate(X)     / \
	   L   S   ============>    Lc   X
	  / \                           / \
	Lc   Ld                       Ld   S
*/
func (tree *rbTree[K, V]) rightRotate(x *rbNode[K, V]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x
	tree.relink(p, dir, x, y)
}

// relink hangs the rotated subtree root y at the position x used to have.
func (tree *rbTree[K, V]) relink(p *rbNode[K, V], dir RBDirection, x, y *rbNode[K, V]) {
	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to rotate")
	}
	y.parent = p
}

// rotate moves x down to the dir side.
func (tree *rbTree[K, V]) rotate(x *rbNode[K, V], dir RBDirection) {
	switch dir {
	case Left:
		tree.leftRotate(x)
	case Right:
		tree.rightRotate(x)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] rotate requires left or right direction")
	}
}

// replace hangs child at the position of a node whose parent is p.
func (tree *rbTree[K, V]) replace(p *rbNode[K, V], dir RBDirection, child *rbNode[K, V]) {
	switch dir {
	case Root:
		tree.root = child
	case Left:
		p.left = child
	case Right:
		p.right = child
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to replace")
	}
	if child != nil {
		child.parent = p
	}
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: X is the root. Repaint it into black.

im2: X's parent P is black. Nothing violated.

im3: Both the parent P and the uncle U are red, so grandpa G is black.
Repaint P and U into black, G into red. G may be red-violation now,
continue with G (two levels up).

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: P is red, U is black (or NIL), X is the inner child.
Rotate P to X's opposite direction, then P takes X's role in im5.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: P is red, U is black (or NIL), X is the outer child.
Rotate G to U's side and swap the colors of P and G.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K, V]) insertRebalance(x *rbNode[K, V]) {
	// A red parent is never the root, so the grandpa exists.
	for /* im2 */ x.parent.isRed() {
		p, gp, u := x.parent, x.grandpa(), x.uncle()
		if /* im3 */ u.isRed() {
			p.color = Black
			u.color = Black
			gp.color = Red
			x = gp
			continue
		}

		dir := p.Direction()
		if /* im4 */ x.Direction() != dir {
			tree.rotate(p, dir)
			x, p = p, x
		}

		/* im5 */
		tree.rotate(gp, -dir)
		p.color = Black
		gp.color = Red
		break
	}

	/* im1 */
	tree.root.color = Black
}

/*
The node removed physically has at most one child. Removing a red one
never breaks p3 or p4. Removing a black one with a red child is fixed by
painting the child black. Otherwise a "double black" deficiency sits at
X (possibly a NIL position) and is pushed upward.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the sibling's child on X's side (near nephew).
Sd is the sibling's child on the opposite side (far nephew).

rm1: The sibling S is red, so P, Sc and Sd are black.
Rotate P to X's side, swap the colors of P and S. X gets a black
sibling (the old Sc), continue with rm2-rm5.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  =====>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S, Sc and Sd are black, P is red.
Repaint S into red and P into black, the deficiency is absorbed.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: P, S, Sc and Sd are all black.
Repaint S into red, the subtree of P is one black short now. Continue
with P.

rm4: S is black, Sc is red and Sd is black.
Rotate S away from X and swap the colors of S and Sc, then enter rm5.

	  {P}                  {P}
	  / \    r-rotate(S)   / \
	[X] [S]  ==========> [X] [Sc]
	    / \                    \
	  <Sc> [Sd]                <S>
	                             \
	                             [Sd]

rm5: S is black, Sd is red.
Rotate P to X's side, S takes P's color, P and Sd are painted black.
The deficiency is absorbed.

	  {P}                   {S}
	  / \    l-rotate(P)    / \
	[X] [S]  ==========>  [P] [Sd]
	    / \               / \
	 {Sc} <Sd>          [X] {Sc}
*/
func (tree *rbTree[K, V]) removeRebalance(x, p *rbNode[K, V], dir RBDirection) {
	for x != tree.root && x.isBlack() {
		s := p.child(-dir)
		if /* rm1 */ s.isRed() {
			s.color = Black
			p.color = Red
			tree.rotate(p, dir)
			s = p.child(-dir)
		}
		if s == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] double black node without sibling")
		}

		sc, sd := s.child(dir), s.child(-dir)
		if /* rm2, rm3 */ sc.isBlack() && sd.isBlack() {
			s.color = Red
			// rm2 exits the loop because P is red and painted black below.
			x, p = p, p.parent
			if p != nil {
				dir = x.Direction()
			}
			continue
		}

		if /* rm4 */ sd.isBlack() {
			sc.color = Black
			s.color = Red
			tree.rotate(s, -dir)
			s = p.child(-dir)
			sd = s.child(-dir)
		}

		/* rm5 */
		s.color = p.color
		p.color = Black
		sd.color = Black
		tree.rotate(p, dir)
		x = tree.root
		break
	}

	if x != nil {
		x.color = Black
	}
}
