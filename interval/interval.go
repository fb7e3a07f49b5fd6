// Package interval implements a length-keyed augmented red-black tree of
// half-open character ranges [start, end), suitable for tracking spans of
// text (selections, diagnostics, syntax regions) that must survive edits
// elsewhere in the document.
//
// The tree is ordered by interval length rather than by position. Each
// node's start position is stored as an offset relative to its parent
// (root's offset is absolute), and each node additionally tracks, relative
// to its own position, the minimum start offset and the maximum end
// offset reachable anywhere in its subtree. That asymmetric augmentation
// (min over starts, max over ends) lets every search (Outer, Inner,
// Overlap, Equal) prune whole subtrees without visiting every node, and
// lets Shift move a contiguous range of interval starts by touching only
// the O(log n) subtree roots that are entirely affected.
//
// Each search is exposed as a lazy *Iterator rather than a materialized
// slice: Next advances one result at a time, maintaining the same pruning
// invariants incrementally via an explicit stack instead of recursion.
package interval

type color bool

const (
	red   color = true
	black color = false
)

// Node is a handle to an interval stored in a Tree. The pointer remains
// valid and stable across insertions, deletions, and internal rebalancing
// elsewhere in the tree. Move changes a node's start and end; Shift
// translates the start and end of every node it affects.
type Node struct {
	left, right, parent *Node
	c                    color

	length int // end - start; the tree's sort key
	offset int // start position relative to parent; root's is absolute

	// minOff is the minimum (descendant start - this node's start) over the
	// subtree rooted here, including 0 for itself; maxOff is the maximum
	// (descendant end - this node's start), likewise including n.length for
	// itself. The two are deliberately asymmetric: minOff tracks starts,
	// maxOff tracks ends.
	minOff, maxOff int

	payload interface{}
}

func (n *Node) Payload() interface{}       { return n.payload }
func (n *Node) SetPayload(p interface{}) { n.payload = p }

// Start returns the node's absolute start position.
func (n *Node) Start() int {
	pos := 0
	for cur := n; cur != nil; cur = cur.parent {
		pos += cur.offset
	}
	return pos
}

// End returns the node's absolute end position.
func (n *Node) End() int {
	return n.Start() + n.length
}

// Len returns end - start.
func (n *Node) Len() int {
	return n.length
}

// Tree is an ordered collection of intervals. The zero value is an empty,
// ready-to-use tree.
type Tree struct {
	root  *Node
	count int
}

// Count returns the number of intervals stored.
func (t *Tree) Count() int {
	return t.count
}

func updateMinMax(n *Node) {
	minOff, maxOff := 0, n.length
	if n.left != nil {
		lo := n.left.offset + n.left.minOff
		hi := n.left.offset + n.left.maxOff
		if lo < minOff {
			minOff = lo
		}
		if hi > maxOff {
			maxOff = hi
		}
	}
	if n.right != nil {
		lo := n.right.offset + n.right.minOff
		hi := n.right.offset + n.right.maxOff
		if lo < minOff {
			minOff = lo
		}
		if hi > maxOff {
			maxOff = hi
		}
	}
	n.minOff = minOff
	n.maxOff = maxOff
}

func updateMinMaxToRoot(n *Node) {
	for cur := n; cur != nil; cur = cur.parent {
		updateMinMax(cur)
	}
}

// Insert adds a new interval [start, end) with the given payload and
// returns its Node handle.
func (t *Tree) Insert(start, end int, payload interface{}) *Node {
	length := end - start
	n := &Node{length: length, maxOff: length, payload: payload}
	t.insertNode(start, n)
	return n
}

func (t *Tree) insertNode(start int, n *Node) {
	t.count++

	if t.root == nil {
		n.offset = start
		n.c = black
		t.root = n
		return
	}

	parent := t.root
	offset := start
	isLeft := false
	for {
		offset -= parent.offset
		if n.length < parent.length {
			if parent.left != nil {
				parent = parent.left
				continue
			}
			isLeft = true
			break
		}
		if parent.right != nil {
			parent = parent.right
			continue
		}
		isLeft = false
		break
	}

	n.offset = offset
	n.parent = parent
	n.c = red
	if isLeft {
		parent.left = n
	} else {
		parent.right = n
	}

	updateMinMaxToRoot(parent)
	t.insertFixup(n)
}

func (t *Tree) fixForRotate(oldPivot, newPivot, child *Node) {
	oldPivotOffset := oldPivot.offset
	newPivotOffset := newPivot.offset
	oldMin := oldPivot.minOff
	oldMax := oldPivot.maxOff

	oldPivot.offset = -newPivotOffset
	newPivot.offset = oldPivotOffset + newPivotOffset
	if child != nil {
		child.offset += newPivotOffset
	}

	newPivot.minOff = oldMin - newPivotOffset
	newPivot.maxOff = oldMax - newPivotOffset

	updateMinMax(oldPivot)
}

func (t *Tree) rotateLeft(p *Node) {
	r := p.right
	beta := r.left

	r.parent = p.parent
	if p.parent == nil {
		t.root = r
	} else if p.parent.left == p {
		p.parent.left = r
	} else {
		p.parent.right = r
	}

	p.right = beta
	if beta != nil {
		beta.parent = p
	}
	r.left = p
	p.parent = r

	t.fixForRotate(p, r, beta)
}

func (t *Tree) rotateRight(p *Node) {
	l := p.left
	beta := l.right

	l.parent = p.parent
	if p.parent == nil {
		t.root = l
	} else if p.parent.left == p {
		p.parent.left = l
	} else {
		p.parent.right = l
	}

	p.left = beta
	if beta != nil {
		beta.parent = p
	}
	l.right = p
	p.parent = l

	t.fixForRotate(p, l, beta)
}

func colorOf(n *Node) color {
	if n == nil {
		return black
	}
	return n.c
}

func (t *Tree) insertFixup(n *Node) {
	n.c = red
	for n.parent != nil && n.parent.c == red {
		parent := n.parent
		grandparent := parent.parent
		if grandparent == nil {
			break
		}
		if parent == grandparent.left {
			uncle := grandparent.right
			if colorOf(uncle) == red {
				parent.c = black
				uncle.c = black
				grandparent.c = red
				n = grandparent
				continue
			}
			if n == parent.right {
				n = parent
				t.rotateLeft(n)
				parent = n.parent
			}
			parent.c = black
			grandparent.c = red
			t.rotateRight(grandparent)
		} else {
			uncle := grandparent.left
			if colorOf(uncle) == red {
				parent.c = black
				uncle.c = black
				grandparent.c = red
				n = grandparent
				continue
			}
			if n == parent.left {
				n = parent
				t.rotateRight(n)
				parent = n.parent
			}
			parent.c = black
			grandparent.c = red
			t.rotateLeft(grandparent)
		}
	}
	t.root.c = black
}

// Erase removes n from the tree. n must have been returned by Insert (or
// Move) on this tree and must not already have been erased.
func (t *Tree) Erase(n *Node) {
	t.count--

	if n.left != nil && n.right != nil {
		succ := n.right
		for succ.left != nil {
			succ = succ.left
		}
		nAbs, succAbs := n.Start(), succ.Start()
		succOldParent := succ.parent
		t.spliceOutWithAtMostOneChild(succ)
		if succOldParent != nil && succOldParent != n {
			updateMinMaxToRoot(succOldParent)
		}

		succ.left = n.left
		if succ.left != nil {
			succ.left.parent = succ
			succ.left.offset += nAbs - succAbs
		}
		succ.right = n.right
		if succ.right != nil {
			succ.right.parent = succ
			succ.right.offset += nAbs - succAbs
		}
		succ.parent = n.parent
		succ.c = n.c
		succ.offset = succAbs - (nAbs - n.offset)

		if n.parent == nil {
			t.root = succ
		} else if n.parent.left == n {
			n.parent.left = succ
		} else {
			n.parent.right = succ
		}

		updateMinMaxToRoot(succ)
		return
	}

	t.spliceOutWithAtMostOneChild(n)
	if n.parent != nil {
		updateMinMaxToRoot(n.parent)
	}
}

// spliceOutWithAtMostOneChild removes n, which must have at most one
// child, replacing it in the tree with that child (or nothing). The
// caller is responsible for any augmentation fixup above the splice
// point once the final tree shape is known.
func (t *Tree) spliceOutWithAtMostOneChild(n *Node) {
	var child *Node
	if n.left != nil {
		child = n.left
	} else {
		child = n.right
	}

	if child != nil {
		child.offset += n.offset
	}

	parent := n.parent
	if parent == nil {
		t.root = child
		if child != nil {
			child.parent = nil
		}
	} else {
		if parent.left == n {
			parent.left = child
		} else {
			parent.right = child
		}
		if child != nil {
			child.parent = parent
		}
	}

	needsFixup := n.c == black
	if needsFixup && colorOf(child) == red {
		child.c = black
		needsFixup = false
	}

	if needsFixup {
		t.deleteFixup(child, parent)
	}
}

func (t *Tree) deleteFixup(n, parent *Node) {
	for n != t.root && colorOf(n) == black {
		if parent == nil {
			break
		}
		if n == parent.left {
			sibling := parent.right
			if colorOf(sibling) == red {
				sibling.c = black
				parent.c = red
				t.rotateLeft(parent)
				sibling = parent.right
			}
			if sibling == nil {
				n = parent
				parent = n.parent
				continue
			}
			if colorOf(sibling.left) == black && colorOf(sibling.right) == black {
				sibling.c = red
				n = parent
				parent = n.parent
			} else {
				if colorOf(sibling.right) == black {
					if sibling.left != nil {
						sibling.left.c = black
					}
					sibling.c = red
					t.rotateRight(sibling)
					sibling = parent.right
				}
				sibling.c = parent.c
				parent.c = black
				if sibling.right != nil {
					sibling.right.c = black
				}
				t.rotateLeft(parent)
				n = t.root
				parent = nil
			}
		} else {
			sibling := parent.left
			if colorOf(sibling) == red {
				sibling.c = black
				parent.c = red
				t.rotateRight(parent)
				sibling = parent.left
			}
			if sibling == nil {
				n = parent
				parent = n.parent
				continue
			}
			if colorOf(sibling.right) == black && colorOf(sibling.left) == black {
				sibling.c = red
				n = parent
				parent = n.parent
			} else {
				if colorOf(sibling.left) == black {
					if sibling.right != nil {
						sibling.right.c = black
					}
					sibling.c = red
					t.rotateLeft(sibling)
					sibling = parent.left
				}
				sibling.c = parent.c
				parent.c = black
				if sibling.left != nil {
					sibling.left.c = black
				}
				t.rotateRight(parent)
				n = t.root
				parent = nil
			}
		}
	}
	if n != nil {
		n.c = black
	}
}

// Move removes n and reinserts it with a new start/end, preserving its
// payload. It pushes the node back down to a fresh leaf position; there
// is no attempt to splay it toward its old location.
func (t *Tree) Move(n *Node, newStart, newEnd int) {
	t.Erase(n)
	n.left, n.right, n.parent = nil, nil, nil
	n.length = newEnd - newStart
	n.minOff, n.maxOff = 0, n.length
	t.insertNode(newStart, n)
}

// Shift translates the start of every interval with start >= lbound by
// delta (which may be negative). It does not alter any interval's length;
// callers that need an interval to grow or shrink across an edit boundary
// should locate it with FindOverlap and call Move explicitly.
func (t *Tree) Shift(lbound, delta int) {
	shiftNode(t.root, 0, 0, lbound, delta)
}

// shiftNode visits n given its parent's pre-shift position parentAbs and the
// amount (0 or delta) already applied to n through its parent's offset.
func shiftNode(n *Node, parentAbs, applied, lbound, delta int) {
	if n == nil {
		return
	}
	abs := parentAbs + n.offset
	subMin := abs + n.minOff
	subMax := abs + n.maxOff
	// subMax is the subtree's max end, not max start, but a node's start
	// never exceeds its own end, so subMax < lbound still proves every
	// start in the subtree is also < lbound: nothing here needs shifting.
	if subMax < lbound {
		n.offset -= applied
		return
	}
	if subMin >= lbound {
		n.offset += delta - applied
		return
	}

	own := 0
	if abs >= lbound {
		own = delta
	}
	n.offset += own - applied
	shiftNode(n.left, abs, own, lbound, delta)
	shiftNode(n.right, abs, own, lbound, delta)
	updateMinMax(n)
}

// Range is a single search result: a snapshot of a node's absolute
// position at the moment it was yielded.
type Range struct {
	Start, End int
	Node       *Node
}

// Iterator lazily walks one of the four search modes, yielding one Range
// per Next call from an explicit LIFO worklist rather than recursing, so
// stack depth is bounded by tree height rather than the shape of the
// search. Pending frames hold the child links and absolute positions
// resolved when they were pushed, so a Shift, Insert, Erase or Move made
// while an Iterator is live is not reflected in the Ranges it yields or in
// the subtrees it goes on to visit.
type Iterator struct {
	stack []iterFrame

	// prune reports whether n's entire subtree (n included) can be
	// skipped without visiting it.
	prune func(n *Node, abs int) bool
	// children returns the child frames worth pushing for n, already
	// resolved to absolute positions. Called only when prune(n) is false.
	children func(n *Node, abs int) []iterFrame
	// match reports whether n itself belongs in the result set.
	match func(n *Node, abs int) bool
}

type iterFrame struct {
	n   *Node
	abs int
}

func newIterator(root *Node, prune, match func(*Node, int) bool, children func(*Node, int) []iterFrame) *Iterator {
	it := &Iterator{prune: prune, match: match, children: children}
	if root != nil {
		it.stack = []iterFrame{{root, rootAbs(root)}}
	}
	return it
}

// Next returns the next matching Range, or ok == false once the search is
// exhausted.
func (it *Iterator) Next() (r Range, ok bool) {
	for len(it.stack) > 0 {
		f := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		n := f.n
		if n == nil || it.prune(n, f.abs) {
			continue
		}
		it.stack = append(it.stack, it.children(n, f.abs)...)
		if it.match(n, f.abs) {
			return Range{Start: f.abs, End: f.abs + n.length, Node: n}, true
		}
	}
	return Range{}, false
}

// Collect drains it into a slice. Mainly useful for tests and for callers
// that know the result set is small.
func (it *Iterator) Collect() []Range {
	var out []Range
	for {
		r, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, r)
	}
}

func bothChildren(n *Node, abs int) []iterFrame {
	var kids []iterFrame
	if n.left != nil {
		kids = append(kids, iterFrame{n.left, abs + n.left.offset})
	}
	if n.right != nil {
		kids = append(kids, iterFrame{n.right, abs + n.right.offset})
	}
	return kids
}

// FindOverlap returns a lazy iterator over every interval that overlaps
// [start, end) at any point (start < queryEnd && end > queryStart).
func (t *Tree) FindOverlap(start, end int) *Iterator {
	prune := func(n *Node, abs int) bool {
		subMin := abs + n.minOff
		subMax := abs + n.maxOff
		// No descendant end reaches start, or no descendant start is
		// before end: nothing in the subtree can overlap.
		return subMax <= start || subMin >= end
	}
	match := func(n *Node, abs int) bool {
		return abs < end && abs+n.length > start
	}
	return newIterator(t.root, prune, match, bothChildren)
}

// FindOuter returns a lazy iterator over every interval that fully
// contains [start, end).
func (t *Tree) FindOuter(start, end int) *Iterator {
	searchLength := end - start
	prune := func(n *Node, abs int) bool {
		subMin := abs + n.minOff
		subMax := abs + n.maxOff
		// No descendant start is at or before start, or no descendant end
		// reaches end: nothing in the subtree can contain [start, end).
		return subMin > start || subMax < end
	}
	children := func(n *Node, abs int) []iterFrame {
		var kids []iterFrame
		// Right subtree lengths are all >= n.length, so they can still
		// reach searchLength even when n itself falls short.
		if n.right != nil {
			kids = append(kids, iterFrame{n.right, abs + n.right.offset})
		}
		// Left subtree lengths are all <= n.length: if n itself is
		// already shorter than the query, nothing on the left can
		// contain it either.
		if n.left != nil && n.length >= searchLength {
			kids = append(kids, iterFrame{n.left, abs + n.left.offset})
		}
		return kids
	}
	match := func(n *Node, abs int) bool {
		return n.length >= searchLength && abs <= start && abs+n.length >= end
	}
	return newIterator(t.root, prune, match, children)
}

// FindInner returns a lazy iterator over every interval fully contained
// within [start, end).
func (t *Tree) FindInner(start, end int) *Iterator {
	prune := func(n *Node, abs int) bool {
		subMin := abs + n.minOff
		subMax := abs + n.maxOff
		// No descendant end reaches start, or no descendant start is at
		// or before end: nothing in the subtree can fall inside
		// [start, end).
		return subMax < start || subMin > end
	}
	match := func(n *Node, abs int) bool {
		return abs >= start && abs+n.length <= end
	}
	return newIterator(t.root, prune, match, bothChildren)
}

// FindEqual returns a lazy iterator over every interval exactly matching
// [start, end).
func (t *Tree) FindEqual(start, end int) *Iterator {
	length := end - start
	prune := func(n *Node, abs int) bool { return false }
	children := func(n *Node, abs int) []iterFrame {
		switch {
		case length < n.length:
			// Every node in the right subtree has length >= n.length >
			// length: only the left subtree can hold a match.
			if n.left != nil {
				return []iterFrame{{n.left, abs + n.left.offset}}
			}
		case length > n.length:
			// Every node in the left subtree has length <= n.length <
			// length: only the right subtree can hold a match.
			if n.right != nil {
				return []iterFrame{{n.right, abs + n.right.offset}}
			}
		default:
			// Equal-length nodes are not guaranteed to stay on one side
			// of n after rebalancing rotations, so both subtrees must be
			// searched.
			return bothChildren(n, abs)
		}
		return nil
	}
	match := func(n *Node, abs int) bool {
		return n.length == length && abs == start
	}
	return newIterator(t.root, prune, match, children)
}

func rootAbs(root *Node) int {
	if root == nil {
		return 0
	}
	return root.offset
}
