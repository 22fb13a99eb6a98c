package omt

// FindZero locates the smallest index whose value makes h zero and returns a
// copy of that value. When no zero exists the error is ErrNotFound and the
// returned index is still meaningful: the smallest index with h positive, or
// Size() when the whole sequence is negative. That index is exactly where a
// keyed insert of the probed key would land.
func (u *OMT[T]) FindZero(h Heaviside[T]) (T, uint32, error) {
	ptr, idx, err := u.FindZeroPtr(h)
	if err != nil {
		var zero T

		return zero, idx, err
	}

	return *ptr, idx, nil
}

// FindZeroPtr is FindZero returning a pointer into container storage, valid
// until the next mutation. On ErrNotFound the pointer is nil and the index
// carries the first-positive position as for FindZero.
func (u *OMT[T]) FindZeroPtr(h Heaviside[T]) (*T, uint32, error) {
	u.ensureBooted()

	if u.isArray {
		return u.findZeroArray(h)
	}

	return u.findZeroTree(u.root, h)
}

// Find locates the smallest index with h positive (direction > 0) or the
// largest index with h negative (direction < 0) and returns a copy of the
// value there. Direction must not be zero. ErrNotFound when no index
// qualifies; the returned index is meaningless then.
func (u *OMT[T]) Find(h Heaviside[T], direction int) (T, uint32, error) {
	ptr, idx, err := u.FindPtr(h, direction)
	if err != nil {
		var zero T

		return zero, idx, err
	}

	return *ptr, idx, nil
}

// FindPtr is Find returning a pointer into container storage, valid until
// the next mutation.
func (u *OMT[T]) FindPtr(h Heaviside[T], direction int) (*T, uint32, error) {
	u.ensureBooted()
	doAssert(direction != 0)

	switch {
	case direction > 0 && u.isArray:
		return u.findPlusArray(h)
	case direction > 0:
		return u.findPlusTree(u.root, h)
	case u.isArray:
		return u.findMinusArray(h)
	default:
		return u.findMinusTree(u.root, h)
	}
}

// findZeroTree searches the subtree for the leftmost zero. A negative node
// sends the search right with a rank offset; a positive node sends it left;
// a zero node is the answer unless an earlier zero hides in its left
// subtree. A not-found result accumulates the rank of the first positive
// value on the way out.
func (u *OMT[T]) findZeroTree(nIdx uint32, h Heaviside[T]) (*T, uint32, error) {
	if nIdx == nilNode {
		return nil, 0, ErrNotFound
	}

	cell := &u.nodes[nIdx]
	hv := h(cell.value)

	switch {
	case hv < 0:
		ptr, idx, err := u.findZeroTree(cell.right, h)

		return ptr, idx + u.nweight(cell.left) + 1, err
	case hv > 0:
		return u.findZeroTree(cell.left, h)
	default:
		ptr, idx, err := u.findZeroTree(cell.left, h)
		if err != nil {
			return &cell.value, u.nweight(cell.left), nil
		}

		return ptr, idx, nil
	}
}

func (u *OMT[T]) findZeroArray(h Heaviside[T]) (*T, uint32, error) {
	lo, hi := u.start, u.start+u.count
	bestPlus := uint32(nilNode)
	bestZero := uint32(nilNode)

	for lo < hi {
		mid := lo + (hi-lo)/2
		hv := h(u.values[mid])

		switch {
		case hv < 0:
			lo = mid + 1
		case hv > 0:
			bestPlus = mid
			hi = mid
		default:
			bestZero = mid
			hi = mid
		}
	}

	if bestZero != nilNode {
		return &u.values[bestZero], bestZero - u.start, nil
	}

	if bestPlus != nilNode {
		return nil, bestPlus - u.start, ErrNotFound
	}

	return nil, u.count, ErrNotFound
}

// findPlusTree: a positive node is a candidate unless the left subtree holds
// an earlier one; a non-positive node pushes the search right with a rank
// offset.
func (u *OMT[T]) findPlusTree(nIdx uint32, h Heaviside[T]) (*T, uint32, error) {
	if nIdx == nilNode {
		return nil, 0, ErrNotFound
	}

	cell := &u.nodes[nIdx]

	if h(cell.value) > 0 {
		ptr, idx, err := u.findPlusTree(cell.left, h)
		if err != nil {
			return &cell.value, u.nweight(cell.left), nil
		}

		return ptr, idx, nil
	}

	ptr, idx, err := u.findPlusTree(cell.right, h)
	if err != nil {
		return nil, 0, err
	}

	return ptr, idx + u.nweight(cell.left) + 1, nil
}

func (u *OMT[T]) findPlusArray(h Heaviside[T]) (*T, uint32, error) {
	lo, hi := u.start, u.start+u.count
	best := uint32(nilNode)

	for lo < hi {
		mid := lo + (hi-lo)/2

		if h(u.values[mid]) > 0 {
			best = mid
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	if best == nilNode {
		return nil, 0, ErrNotFound
	}

	return &u.values[best], best - u.start, nil
}

// findMinusTree mirrors findPlusTree: a negative node is a candidate unless
// the right subtree holds a later one.
func (u *OMT[T]) findMinusTree(nIdx uint32, h Heaviside[T]) (*T, uint32, error) {
	if nIdx == nilNode {
		return nil, 0, ErrNotFound
	}

	cell := &u.nodes[nIdx]

	if h(cell.value) < 0 {
		ptr, idx, err := u.findMinusTree(cell.right, h)
		if err != nil {
			return &cell.value, u.nweight(cell.left), nil
		}

		return ptr, idx + u.nweight(cell.left) + 1, nil
	}

	return u.findMinusTree(cell.left, h)
}

func (u *OMT[T]) findMinusArray(h Heaviside[T]) (*T, uint32, error) {
	lo, hi := u.start, u.start+u.count
	best := uint32(nilNode)

	for lo < hi {
		mid := lo + (hi-lo)/2

		if h(u.values[mid]) < 0 {
			best = mid
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if best == nilNode {
		return nil, 0, ErrNotFound
	}

	return &u.values[best], best - u.start, nil
}
