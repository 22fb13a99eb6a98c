package omt

import (
	"github.com/Sumatoshi-tech/omt/pkg/safeconv"
)

// nweight returns the number of values in the subtree rooted at idx. The
// sentinel weighs nothing.
func (u *OMT[T]) nweight(idx uint32) uint32 {
	if idx == nilNode {
		return 0
	}

	return u.nodes[idx].weight
}

// growCapacity is the buffer sizing policy: double the requested size, with
// a small floor so tiny containers don't reallocate on every mutation.
func growCapacity(n uint32) uint32 {
	if n <= defaultCapacity {
		return 2 * defaultCapacity
	}

	return 2 * n
}

// nodeMalloc pops a cell off the free list and initializes it as a leaf
// holding value. The caller must have ensured a free cell exists.
func (u *OMT[T]) nodeMalloc(value T) uint32 {
	doAssert(u.freeHead != nilNode)

	idx := u.freeHead
	cell := &u.nodes[idx]
	u.freeHead = cell.left

	cell.weight = 1
	cell.left = nilNode
	cell.right = nilNode
	cell.value = value

	return idx
}

// nodeFree pushes a cell onto the free list. The payload is zeroed so the
// container stops retaining whatever it referenced.
func (u *OMT[T]) nodeFree(idx uint32) {
	doAssert(idx < u.capacity)

	var zero T

	cell := &u.nodes[idx]
	cell.value = zero
	cell.weight = 0
	cell.right = nilNode
	cell.left = u.freeHead
	u.freeHead = idx
}

// chainFreeCells prepends every cell in [lo, hi) onto the free list,
// ascending ids ending up in ascending pop order.
func (u *OMT[T]) chainFreeCells(lo, hi uint32) {
	for idx := hi; idx > lo; idx-- {
		u.nodes[idx-1].left = u.freeHead
		u.nodes[idx-1].weight = 0
		u.nodes[idx-1].right = nilNode
		u.freeHead = idx - 1
	}
}

// maybeResizeArray reallocates the array buffer when the region after start
// cannot hold n values, or shrinks it when it is at least twice the capacity
// growCapacity picks for n. Any reallocation compacts start back to zero.
func (u *OMT[T]) maybeResizeArray(n uint32) {
	newCapacity := growCapacity(n)
	room := u.capacity - u.start

	if room >= n && u.capacity/2 < newCapacity {
		return
	}

	newValues := make([]T, newCapacity)
	copy(newValues, u.values[u.start:u.start+u.count])

	u.values = newValues
	u.start = 0
	u.capacity = newCapacity
}

// maybeResizeOrConvert runs before any insert or delete that changes the
// logical size to n. In array mode it only resizes. In tree mode it grows the arena when
// full, or compacts through the array representation when the arena is more
// than four times oversized.
func (u *OMT[T]) maybeResizeOrConvert(n uint32) {
	if u.isArray {
		u.maybeResizeArray(n)

		return
	}

	newCapacity := growCapacity(n)

	if u.capacity/2 >= newCapacity {
		u.convertToArray()
		u.maybeResizeArray(n)

		return
	}

	if u.capacity < n {
		u.growNodes(newCapacity)
	}
}

// growNodes extends the arena to newCapacity cells and threads the fresh
// region onto the free list.
func (u *OMT[T]) growNodes(newCapacity uint32) {
	doAssert(newCapacity > u.capacity)

	grown := make([]node[T], newCapacity)
	copy(grown, u.nodes)

	oldCapacity := u.capacity
	u.nodes = grown
	u.capacity = newCapacity
	u.chainFreeCells(oldCapacity, newCapacity)
}

// convertToTree rebuilds the sorted array as a perfectly balanced tree by
// recursive midpoint selection. No-op in tree mode.
func (u *OMT[T]) convertToTree() {
	if !u.isArray {
		return
	}

	numNodes := u.count
	newCapacity := growCapacity(numNodes)
	live := u.values[u.start : u.start+u.count]

	u.nodes = make([]node[T], newCapacity)
	u.capacity = newCapacity
	u.freeHead = nilNode
	u.chainFreeCells(0, newCapacity)
	u.root = nilNode
	u.isArray = false

	u.rebuildFromSortedSlice(&u.root, live)

	u.values = nil
	u.start = 0
	u.count = 0
}

// convertToArray flattens the tree in order into a fresh contiguous buffer.
// No-op in array mode.
func (u *OMT[T]) convertToArray() {
	if u.isArray {
		return
	}

	numValues := u.nweight(u.root)
	newCapacity := growCapacity(numValues)
	newValues := make([]T, newCapacity)

	if numValues > 0 {
		u.fillValuesFromSubtree(newValues[:numValues], u.root)
	}

	u.nodes = nil
	u.root = nilNode
	u.freeHead = nilNode
	u.isArray = true
	u.values = newValues
	u.start = 0
	u.count = numValues
	u.capacity = newCapacity
}

// rebuildFromSortedSlice builds a balanced subtree over values into *slot,
// allocating cells from the free list. The midpoint becomes the root; the
// halves recurse.
func (u *OMT[T]) rebuildFromSortedSlice(slot *uint32, values []T) {
	if len(values) == 0 {
		*slot = nilNode

		return
	}

	mid := len(values) >> 1
	idx := u.nodeMalloc(values[mid])
	cell := &u.nodes[idx]
	cell.weight = safeconv.MustIntToUint32(len(values))
	*slot = idx

	u.rebuildFromSortedSlice(&cell.left, values[:mid])
	u.rebuildFromSortedSlice(&cell.right, values[mid+1:])
}

// fillValuesFromSubtree copies the subtree's values into dst in order.
// len(dst) must equal the subtree weight.
func (u *OMT[T]) fillValuesFromSubtree(dst []T, idx uint32) {
	if idx == nilNode {
		return
	}

	cell := &u.nodes[idx]
	leftWeight := u.nweight(cell.left)

	u.fillValuesFromSubtree(dst[:leftWeight], cell.left)
	dst[leftWeight] = cell.value
	u.fillValuesFromSubtree(dst[leftWeight+1:], cell.right)
}

// fillIdxsFromSubtree records the subtree's cell ids into dst in order.
func (u *OMT[T]) fillIdxsFromSubtree(dst []uint32, idx uint32) {
	if idx == nilNode {
		return
	}

	cell := &u.nodes[idx]
	leftWeight := u.nweight(cell.left)

	u.fillIdxsFromSubtree(dst[:leftWeight], cell.left)
	dst[leftWeight] = idx
	u.fillIdxsFromSubtree(dst[leftWeight+1:], cell.right)
}

// rebuildSubtreeFromIdxs relinks the cells listed in idxs (in order) into a
// perfectly balanced subtree rooted at *slot, recomputing weights. Storage
// stays in place; only links change.
func (u *OMT[T]) rebuildSubtreeFromIdxs(slot *uint32, idxs []uint32) {
	if len(idxs) == 0 {
		*slot = nilNode

		return
	}

	mid := len(idxs) >> 1
	idx := idxs[mid]
	cell := &u.nodes[idx]
	cell.weight = safeconv.MustIntToUint32(len(idxs))
	*slot = idx

	u.rebuildSubtreeFromIdxs(&cell.left, idxs[:mid])
	u.rebuildSubtreeFromIdxs(&cell.right, idxs[mid+1:])
}

// rebalance rebuilds the subtree hanging off *slot into a perfectly balanced
// one. A size-m rebuild costs O(m), but a subtree absorbs a proportional
// number of mutations before tripping the balance check again, so the
// amortized cost per mutation stays O(log N).
func (u *OMT[T]) rebalance(slot *uint32) {
	numNodes := u.nweight(*slot)
	scratch := make([]uint32, numNodes)

	u.fillIdxsFromSubtree(scratch, *slot)
	u.rebuildSubtreeFromIdxs(slot, scratch)
}

// willNeedRebalance reports whether the cell at idx violates the weight
// balance bound once the pending mutation lands. leftmod and rightmod are
// the -1/0/+1 adjustments about to be applied to the child weights; the
// unsigned addition wraps to the right value for -1.
func (u *OMT[T]) willNeedRebalance(idx uint32, leftmod, rightmod int32) bool {
	cell := &u.nodes[idx]
	weightLeft := u.nweight(cell.left) + uint32(leftmod)
	weightRight := u.nweight(cell.right) + uint32(rightmod)

	return (1+weightLeft < (2+weightRight)/2) ||
		(1+weightRight < (2+weightLeft)/2)
}
