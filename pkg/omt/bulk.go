package omt

// SplitAt moves the values at logical indices [idx, Size()) into a freshly
// created container and keeps [0, idx) in this one. idx may equal Size(),
// yielding an empty right side. Both results end up in array mode. O(N).
func (u *OMT[T]) SplitAt(idx uint32) (*OMT[T], error) {
	u.ensureBooted()

	if idx > u.Size() {
		return nil, ErrOutOfRange
	}

	u.convertToArray()

	right := NewFromSortedSlice(u.values[u.start+idx : u.start+u.count])

	clear(u.values[u.start+idx : u.start+u.count])
	u.count = idx
	u.maybeResizeArray(idx)

	return right, nil
}

// Merge creates a container holding left's values followed by right's. Both
// sources are consumed: emptied and destroyed. O(N).
func Merge[T any](left, right *OMT[T]) *OMT[T] {
	left.ensureBooted()
	right.ensureBooted()

	leftSize, rightSize := left.Size(), right.Size()
	merged := createInternal[T](leftSize + rightSize)

	left.convertToArray()
	copy(merged.values[:leftSize], left.values[left.start:left.start+left.count])
	left.Destroy()

	right.convertToArray()
	copy(merged.values[leftSize:leftSize+rightSize], right.values[right.start:right.start+right.count])
	right.Destroy()

	merged.count = leftSize + rightSize

	return merged
}
