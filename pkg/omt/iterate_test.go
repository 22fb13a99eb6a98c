package omt //nolint:testpackage // exercises both representations through unexported conversions.

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterateRange(t *testing.T) {
	t.Parallel()

	inBothModes(t, []uint32{10, 20, 25, 30, 35, 40, 50}, func(t *testing.T, u *OMT[uint32]) {
		type visit struct {
			idx   uint32
			value uint32
		}

		var visits []visit

		err := u.IterateRange(1, 4, func(value uint32, idx uint32) error {
			visits = append(visits, visit{idx, value})

			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []visit{{1, 20}, {2, 25}, {3, 30}}, visits)

		err = u.IterateRange(1, 8, func(uint32, uint32) error { return nil })
		assert.ErrorIs(t, err, ErrOutOfRange)

		// Empty range visits nothing.
		err = u.IterateRange(3, 3, func(uint32, uint32) error {
			t.Fatal("unexpected visit")

			return nil
		})
		require.NoError(t, err)
	})
}

func TestIterateStopsOnCallbackError(t *testing.T) {
	t.Parallel()

	errStop := errors.New("stop here")

	inBothModes(t, []uint32{1, 2, 3, 4, 5}, func(t *testing.T, u *OMT[uint32]) {
		var seen []uint32

		err := u.Iterate(func(value uint32, _ uint32) error {
			seen = append(seen, value)
			if value == 3 {
				return errStop
			}

			return nil
		})
		assert.ErrorIs(t, err, errStop)
		assert.Equal(t, []uint32{1, 2, 3}, seen)
	})
}

func TestIteratePtrMutatesInPlace(t *testing.T) {
	t.Parallel()

	inBothModes(t, []uint32{1, 2, 3}, func(t *testing.T, u *OMT[uint32]) {
		err := u.IteratePtr(func(value *uint32, idx uint32) error {
			*value += idx * 10

			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []uint32{1, 12, 23}, collect(t, u))
	})
}

func TestFreeItems(t *testing.T) {
	t.Parallel()

	released := map[uint32]bool{}

	u := NewFromSortedSlice([]uint32{3, 5, 8})
	u.FreeItems(func(value uint32) {
		released[value] = true
	})

	assert.Equal(t, map[uint32]bool{3: true, 5: true, 8: true}, released)
	assert.Equal(t, uint32(0), u.Size())

	// Destroy after the bulk release is the usual teardown order.
	u.Destroy()
}
