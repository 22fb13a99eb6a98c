package omt //nolint:testpackage // verifies unexported structure after every mutation.

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/omt/pkg/safeconv"
)

// modelOpCount is how many random mutations each model run applies.
const modelOpCount = 2000

// runModel applies random mutations to a container and a plain slice in
// lockstep, verifying structure and contents after every step. forceMode
// optionally flips the representation between steps: -1 forces the array,
// +1 forces the tree, 0 leaves the container alone.
func runModel(t *testing.T, seed int64, forceMode int) {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	u := New[uint32]()

	var model []uint32

	for step := 0; step < modelOpCount; step++ {
		size := safeconv.MustIntToUint32(len(model))

		switch op := rng.Intn(10); {
		case op < 4: // insert at random position
			idx := uint32(rng.Intn(len(model) + 1))
			value := rng.Uint32() % 1000

			require.NoError(t, u.InsertAt(value, idx))
			model = slices.Insert(model, safeconv.MustUint32ToInt(idx), value)
		case op < 6 && size > 0: // delete at random position
			idx := uint32(rng.Intn(len(model)))

			require.NoError(t, u.DeleteAt(idx))
			model = slices.Delete(model, safeconv.MustUint32ToInt(idx), safeconv.MustUint32ToInt(idx)+1)
		case op < 7 && size > 0: // replace in place
			idx := uint32(rng.Intn(len(model)))
			value := rng.Uint32() % 1000

			require.NoError(t, u.SetAt(value, idx))
			model[idx] = value
		case op < 8 && size > 0: // point read
			idx := uint32(rng.Intn(len(model)))

			got, err := u.Fetch(idx)
			require.NoError(t, err)
			require.Equal(t, model[idx], got)
		default: // size probe
			require.Equal(t, size, u.Size())
		}

		switch forceMode {
		case 1:
			u.convertToTree()
		case -1:
			u.convertToArray()
		}

		verifyInvariants(t, u)
	}

	require.True(t, slices.Equal(model, collect(t, u)), "container diverged from the model")
}

func TestRandomOpsMatchModel(t *testing.T) {
	t.Parallel()

	for _, seed := range []int64{1, 2, 3} {
		t.Run("", func(t *testing.T) {
			t.Parallel()

			runModel(t, seed, 0)
		})
	}
}

// Forcing a representation between steps must not change any observable
// behavior.
func TestModeForcedEquivalence(t *testing.T) {
	t.Parallel()

	t.Run("always_tree", func(t *testing.T) {
		t.Parallel()

		runModel(t, 42, 1)
	})

	t.Run("always_array", func(t *testing.T) {
		t.Parallel()

		runModel(t, 42, -1)
	})
}

// A sorted workload driven through the keyed insert keeps the sequence
// ordered and the searches exact.
func TestKeyedWorkload(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	u := New[uint32]()
	inserted := map[uint32]bool{}

	for range 500 {
		key := rng.Uint32() % 300

		_, err := u.Insert(key, compareWith(key))
		if inserted[key] {
			require.ErrorIs(t, err, ErrKeyExists)
		} else {
			require.NoError(t, err)

			inserted[key] = true
		}

		verifyInvariants(t, u)
	}

	got := collect(t, u)
	require.True(t, slices.IsSorted(got))
	require.Equal(t, len(inserted), len(got))

	for _, key := range got {
		value, _, err := u.FindZero(compareWith(key))
		require.NoError(t, err)
		assert.Equal(t, key, value)
	}
}

// Deleting everything in random order drains cleanly back to empty.
func TestDrainToEmpty(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))

	values := make([]uint32, 256)
	for i := range values {
		values[i] = uint32(i)
	}

	u := NewFromSortedSlice(values)
	u.convertToTree()

	for size := uint32(256); size > 0; size-- {
		idx := uint32(rng.Intn(int(size)))
		require.NoError(t, u.DeleteAt(idx))
		verifyInvariants(t, u)
	}

	require.Equal(t, uint32(0), u.Size())
}
