package omt

// Insert places value at the position selected by h: the smallest index
// whose stored value makes h positive, or the end when none does. When h
// reports zero for some stored value the container is unchanged and
// ErrKeyExists is returned together with that value's index. On success the
// new value's index is returned.
func (u *OMT[T]) Insert(value T, h Heaviside[T]) (uint32, error) {
	_, idx, err := u.FindZeroPtr(h)
	if err == nil {
		return idx, ErrKeyExists
	}

	if insErr := u.InsertAt(value, idx); insErr != nil {
		return 0, insErr
	}

	return idx, nil
}

// InsertAt places value at logical index idx, shifting every value at or
// after idx one position up. idx may equal Size() to append. Amortized
// O(log N); appends and head prepends on an array stay O(1).
func (u *OMT[T]) InsertAt(value T, idx uint32) error {
	u.ensureBooted()

	size := u.Size()
	if idx > size {
		return ErrOutOfRange
	}

	u.maybeResizeOrConvert(size + 1)

	// An array absorbs appends, and prepends while start has room. Anything
	// interior shifts half the buffer, so the tree takes over.
	if u.isArray && idx != u.count && (idx != 0 || u.start == 0) {
		u.convertToTree()
	}

	if u.isArray {
		if idx == u.count {
			u.values[u.start+u.count] = value
		} else {
			u.start--
			u.values[u.start] = value
		}

		u.count++

		return nil
	}

	var rebalanceSlot *uint32

	u.insertInternal(&u.root, value, idx, &rebalanceSlot)

	if rebalanceSlot != nil {
		u.rebalance(rebalanceSlot)
	}

	return nil
}

// insertInternal descends by rank to the sentinel slot for idx, splices in a
// fresh cell and restores ancestor weights on the way down. The first
// (shallowest) ancestor that would violate the balance bound is remembered
// in rebalanceSlot for a single rebuild after the splice.
func (u *OMT[T]) insertInternal(slot *uint32, value T, idx uint32, rebalanceSlot **uint32) {
	if *slot == nilNode {
		doAssert(idx == 0)
		*slot = u.nodeMalloc(value)

		return
	}

	thisIdx := *slot
	cell := &u.nodes[thisIdx]
	cell.weight++

	if leftWeight := u.nweight(cell.left); idx <= leftWeight {
		if *rebalanceSlot == nil && u.willNeedRebalance(thisIdx, 1, 0) {
			*rebalanceSlot = slot
		}

		u.insertInternal(&cell.left, value, idx, rebalanceSlot)
	} else {
		if *rebalanceSlot == nil && u.willNeedRebalance(thisIdx, 0, 1) {
			*rebalanceSlot = slot
		}

		u.insertInternal(&cell.right, value, idx-leftWeight-1, rebalanceSlot)
	}
}

// SetAt replaces the value at logical index idx in place. Weights and
// balance are untouched.
func (u *OMT[T]) SetAt(value T, idx uint32) error {
	u.ensureBooted()

	if idx >= u.Size() {
		return ErrOutOfRange
	}

	if u.isArray {
		u.values[u.start+idx] = value

		return nil
	}

	u.setAtInternal(u.root, value, idx)

	return nil
}

func (u *OMT[T]) setAtInternal(nIdx uint32, value T, idx uint32) {
	for {
		doAssert(nIdx != nilNode)

		cell := &u.nodes[nIdx]
		leftWeight := u.nweight(cell.left)

		switch {
		case idx < leftWeight:
			nIdx = cell.left
		case idx == leftWeight:
			cell.value = value

			return
		default:
			idx -= leftWeight + 1
			nIdx = cell.right
		}
	}
}

// DeleteAt removes the value at logical index idx, shifting every value
// after it one position down. Amortized O(log N); head and tail deletes on
// an array stay O(1).
func (u *OMT[T]) DeleteAt(idx uint32) error {
	u.ensureBooted()

	size := u.Size()
	if idx >= size {
		return ErrOutOfRange
	}

	u.maybeResizeOrConvert(size - 1)

	if u.isArray && u.count > 0 && idx != 0 && idx != u.count-1 {
		u.convertToTree()
	}

	if u.isArray {
		var zero T

		if idx == 0 {
			u.values[u.start] = zero
			u.start++
		} else {
			u.values[u.start+u.count-1] = zero
		}

		u.count--

		return nil
	}

	var rebalanceSlot *uint32

	u.deleteInternal(&u.root, idx, nil, &rebalanceSlot)

	if rebalanceSlot != nil {
		u.rebalance(rebalanceSlot)
	}

	return nil
}

// deleteInternal descends by rank to the victim, decrementing ancestor
// weights and tracking the shallowest balance violator like insertInternal.
// A victim with two children instead receives its in-order successor's value
// (copyn carries it up) and the successor, which has at most one child, is
// the cell actually detached.
func (u *OMT[T]) deleteInternal(slot *uint32, idx uint32, copyn *node[T], rebalanceSlot **uint32) {
	thisIdx := *slot
	doAssert(thisIdx != nilNode)

	cell := &u.nodes[thisIdx]
	leftWeight := u.nweight(cell.left)

	switch {
	case idx < leftWeight:
		cell.weight--

		if *rebalanceSlot == nil && u.willNeedRebalance(thisIdx, -1, 0) {
			*rebalanceSlot = slot
		}

		u.deleteInternal(&cell.left, idx, copyn, rebalanceSlot)
	case idx > leftWeight:
		cell.weight--

		if *rebalanceSlot == nil && u.willNeedRebalance(thisIdx, 0, -1) {
			*rebalanceSlot = slot
		}

		u.deleteInternal(&cell.right, idx-leftWeight-1, copyn, rebalanceSlot)
	case cell.left == nilNode:
		*slot = cell.right

		if copyn != nil {
			copyn.value = cell.value
		}

		u.nodeFree(thisIdx)
	case cell.right == nilNode:
		*slot = cell.left

		if copyn != nil {
			copyn.value = cell.value
		}

		u.nodeFree(thisIdx)
	default:
		cell.weight--

		if *rebalanceSlot == nil && u.willNeedRebalance(thisIdx, 0, -1) {
			*rebalanceSlot = slot
		}

		u.deleteInternal(&cell.right, 0, cell, rebalanceSlot)
	}
}

// Fetch returns a copy of the value at logical index idx.
func (u *OMT[T]) Fetch(idx uint32) (T, error) {
	ptr, err := u.FetchPtr(idx)
	if err != nil {
		var zero T

		return zero, err
	}

	return *ptr, nil
}

// FetchPtr returns a pointer to the stored value at logical index idx. The
// pointer is valid until the next mutation.
func (u *OMT[T]) FetchPtr(idx uint32) (*T, error) {
	u.ensureBooted()

	if idx >= u.Size() {
		return nil, ErrOutOfRange
	}

	if u.isArray {
		return &u.values[u.start+idx], nil
	}

	return u.fetchInternal(u.root, idx), nil
}

func (u *OMT[T]) fetchInternal(nIdx, idx uint32) *T {
	for {
		doAssert(nIdx != nilNode)

		cell := &u.nodes[nIdx]
		leftWeight := u.nweight(cell.left)

		switch {
		case idx < leftWeight:
			nIdx = cell.left
		case idx == leftWeight:
			return &cell.value
		default:
			idx -= leftWeight + 1
			nIdx = cell.right
		}
	}
}
