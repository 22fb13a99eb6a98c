package omt

// Iterate walks every stored value in logical order, passing a copy of each
// to f together with its index. A non-nil return from f stops the walk and
// is returned verbatim. The container must not be mutated during the walk.
func (u *OMT[T]) Iterate(f IterFunc[T]) error {
	return u.IterateRange(0, u.Size(), f)
}

// IterateRange is Iterate restricted to logical indices [left, right).
// Returns ErrOutOfRange when right exceeds Size(). An empty range is a
// no-op.
func (u *OMT[T]) IterateRange(left, right uint32, f IterFunc[T]) error {
	u.ensureBooted()

	if right > u.Size() {
		return ErrOutOfRange
	}

	if left >= right {
		return nil
	}

	if u.isArray {
		for i := left; i < right; i++ {
			if err := f(u.values[u.start+i], i); err != nil {
				return err
			}
		}

		return nil
	}

	return u.iterateInternal(left, right, u.root, 0, f)
}

// iterateInternal visits the subtree at nIdx, whose leftmost value has
// absolute index offset, clipping both sides of the walk against [left,
// right) using subtree weights so skipped regions are never descended.
func (u *OMT[T]) iterateInternal(left, right, nIdx, offset uint32, f IterFunc[T]) error {
	if nIdx == nilNode {
		return nil
	}

	cell := &u.nodes[nIdx]
	idxRoot := offset + u.nweight(cell.left)

	if left < idxRoot {
		if err := u.iterateInternal(left, right, cell.left, offset, f); err != nil {
			return err
		}
	}

	if left <= idxRoot && idxRoot < right {
		if err := f(cell.value, idxRoot); err != nil {
			return err
		}
	}

	if idxRoot+1 < right {
		return u.iterateInternal(left, right, cell.right, idxRoot+1, f)
	}

	return nil
}

// IteratePtr walks every stored value in logical order, passing f a pointer
// into container storage so values can be edited in place. Pointers are
// valid until the next mutation; the walk itself must not mutate the
// container's structure.
func (u *OMT[T]) IteratePtr(f func(value *T, idx uint32) error) error {
	u.ensureBooted()

	size := u.Size()

	if u.isArray {
		for i := uint32(0); i < size; i++ {
			if err := f(&u.values[u.start+i], i); err != nil {
				return err
			}
		}

		return nil
	}

	return u.iteratePtrInternal(size, u.root, 0, f)
}

func (u *OMT[T]) iteratePtrInternal(right, nIdx, offset uint32, f func(value *T, idx uint32) error) error {
	if nIdx == nilNode {
		return nil
	}

	cell := &u.nodes[nIdx]
	idxRoot := offset + u.nweight(cell.left)

	if err := u.iteratePtrInternal(right, cell.left, offset, f); err != nil {
		return err
	}

	if err := f(&cell.value, idxRoot); err != nil {
		return err
	}

	if idxRoot+1 < right {
		return u.iteratePtrInternal(right, cell.right, idxRoot+1, f)
	}

	return nil
}

// FreeItems releases every stored value through free, then clears the
// container. This is the one entry point that disposes of payloads; Destroy
// never does.
func (u *OMT[T]) FreeItems(free func(T)) {
	u.ensureBooted()

	// The callback never fails, so the walk cannot either.
	_ = u.Iterate(func(value T, _ uint32) error {
		free(value)

		return nil
	})

	u.Clear()
}
