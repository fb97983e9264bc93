package window

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/util"
)

// singlePartitionMask builds a partition/order mask pair for one
// partition spanning count rows with no internal peer-group splits,
// i.e. every row strictly orders after the previous one.
func fullyOrderedMasks(count int) (*util.Bitmap, *util.Bitmap) {
	p := &util.Bitmap{}
	p.SetAllInvalid(count)
	o := &util.Bitmap{}
	o.SetAllInvalid(count)
	return p, o
}

func evaluateAll(t *testing.T, spec ExecutorSpec, gstate GlobalExecState, count int) []chunk.Value {
	t.Helper()
	out := make([]chunk.Value, count)
	vec := newOutVector(spec.ReturnType(), count)
	spec.Evaluate(0, newRowChunk(nil, count), vec, nil, gstate)
	for i := 0; i < count; i++ {
		out[i] = *vec.Vector.GetValue(i)
	}
	return out
}

func TestRowNumberSinglePartition(t *testing.T) {
	spec := newRankSpec("row_number", ROW_NUMBER, 0, 1)
	pMask, oMask := fullyOrderedMasks(3)
	for i := 1; i < 3; i++ {
		oMask.SetValid(uint64(i))
	}
	gstate := spec.CreateGlobal(3, pMask, oMask)
	spec.Finalize(gstate, nil)

	got := evaluateAll(t, spec, gstate, 3)
	require.Equal(t, int64(1), got[0].I64)
	require.Equal(t, int64(2), got[1].I64)
	require.Equal(t, int64(3), got[2].I64)
}

func TestRankWithTies(t *testing.T) {
	// partition of 5 rows, order groups: [0], [1,2] tie, [3], [4]
	spec := newRankSpec("rank", RANK, 0, 1)
	pMask := &util.Bitmap{}
	pMask.SetAllInvalid(5)
	oMask := &util.Bitmap{}
	oMask.SetAllInvalid(5)
	oMask.SetValid(1)
	oMask.SetValid(3)
	oMask.SetValid(4)

	gstate := spec.CreateGlobal(5, pMask, oMask)
	spec.Finalize(gstate, nil)
	got := evaluateAll(t, spec, gstate, 5)

	require.Equal(t, []int64{1, 2, 2, 4, 5}, []int64{got[0].I64, got[1].I64, got[2].I64, got[3].I64, got[4].I64})
}

func TestDenseRankWithTies(t *testing.T) {
	spec := newRankSpec("dense_rank", DENSE_RANK, 0, 1)
	pMask := &util.Bitmap{}
	pMask.SetAllInvalid(5)
	oMask := &util.Bitmap{}
	oMask.SetAllInvalid(5)
	oMask.SetValid(1)
	oMask.SetValid(3)
	oMask.SetValid(4)

	gstate := spec.CreateGlobal(5, pMask, oMask)
	spec.Finalize(gstate, nil)
	got := evaluateAll(t, spec, gstate, 5)

	require.Equal(t, []int64{1, 2, 2, 3, 4}, []int64{got[0].I64, got[1].I64, got[2].I64, got[3].I64, got[4].I64})
}

func TestRankTwoPartitions(t *testing.T) {
	spec := newRankSpec("row_number", ROW_NUMBER, 1, 1)
	pMask := &util.Bitmap{}
	pMask.SetAllInvalid(4)
	pMask.SetValid(2)
	oMask := &util.Bitmap{}
	oMask.SetAllInvalid(4)
	oMask.SetValid(1)
	oMask.SetValid(2)
	oMask.SetValid(3)

	gstate := spec.CreateGlobal(4, pMask, oMask)
	spec.Finalize(gstate, nil)
	got := evaluateAll(t, spec, gstate, 4)

	require.Equal(t, []int64{1, 2, 1, 2}, []int64{got[0].I64, got[1].I64, got[2].I64, got[3].I64})
}

func TestNtileEvenSplit(t *testing.T) {
	spec, err := newNtileSpec("ntile", 0, 1, map[string]any{"buckets": 2})
	require.NoError(t, err)
	pMask, _ := fullyOrderedMasks(4)

	gstate := spec.CreateGlobal(4, pMask, nil)
	spec.Finalize(gstate, nil)
	got := evaluateAll(t, spec, gstate, 4)

	require.Equal(t, []int64{1, 1, 2, 2}, []int64{got[0].I64, got[1].I64, got[2].I64, got[3].I64})
}

func TestNtileRemainderGoesToLeadingBuckets(t *testing.T) {
	spec, err := newNtileSpec("ntile", 0, 1, map[string]any{"buckets": 3})
	require.NoError(t, err)
	pMask, _ := fullyOrderedMasks(5)

	gstate := spec.CreateGlobal(5, pMask, nil)
	spec.Finalize(gstate, nil)
	got := evaluateAll(t, spec, gstate, 5)

	require.Equal(t, []int64{1, 1, 2, 2, 3}, []int64{got[0].I64, got[1].I64, got[2].I64, got[3].I64, got[4].I64})
}

func TestNtileRejectsNonPositiveBuckets(t *testing.T) {
	_, err := newNtileSpec("ntile", 0, 1, map[string]any{"buckets": 0})
	require.Error(t, err)
}
