package window

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
)

// collector gathers every chunk Execute's emit callback hands back,
// safe for concurrent use across worker goroutines.
type collector struct {
	mu     sync.Mutex
	chunks []*chunk.Chunk
	batch  []int64
}

func (c *collector) emit(ch *chunk.Chunk, batch int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, ch)
	c.batch = append(c.batch, batch)
	return nil
}

func (c *collector) values(col int) []chunk.Value {
	var out []chunk.Value
	for _, ch := range c.chunks {
		for r := 0; r < ch.Card(); r++ {
			out = append(out, *ch.Data[col].GetValue(r))
		}
	}
	return out
}

// TestRowNumberSingleUnhashedPartition mirrors spec.md §8's S1: row
// numbers over an unpartitioned, ordered input produce {1,2,3} and the
// operator reports batch-index support.
func TestRowNumberSingleUnhashedPartition(t *testing.T) {
	types := []common.LType{common.BigintType()}
	spec := newRankSpec("row_number", ROW_NUMBER, 0, 1)
	pw := NewPhysicalWindow([]ExecutorSpec{spec}, types, nil, []int{0}, 1, 2)

	c := buildChunk(types, [][]int64{{30}, {10}, {20}})
	require.NoError(t, pw.Sink(c))

	verdict, err := pw.Finalize()
	require.NoError(t, err)
	require.Equal(t, Ready, verdict)
	require.True(t, pw.SupportsBatchIndex())
	require.Equal(t, FixedOrder, pw.SourceOrder())

	coll := &collector{}
	require.NoError(t, pw.Execute(coll.emit))

	ranks := coll.values(1)
	got := make([]int64, len(ranks))
	for i, v := range ranks {
		got[i] = v.I64
	}
	require.ElementsMatch(t, []int64{1, 2, 3}, got)
	require.Equal(t, 1.0, pw.GetProgress())
}

// TestPartitionedSumWithOrder exercises a hashed, multi-partition
// SUM(...) OVER (PARTITION BY ... ORDER BY ...) with more than one
// hash bin and more than one worker.
func TestPartitionedSumWithOrder(t *testing.T) {
	types := []common.LType{common.BigintType(), common.BigintType()}
	spec, err := newAggregateSpec("sum", []common.LType{common.BigintType()}, 1, 0,
		map[string]any{"func": SUM, "argColIdx": 1})
	require.NoError(t, err)

	pw := NewPhysicalWindow([]ExecutorSpec{spec}, types, []int{0}, []int{1}, 4, 3)

	var rows [][]int64
	for p := int64(0); p < 5; p++ {
		for v := int64(1); v <= 4; v++ {
			rows = append(rows, []int64{p, v})
		}
	}
	require.NoError(t, pw.Sink(buildChunk(types, rows)))

	verdict, err := pw.Finalize()
	require.NoError(t, err)
	require.Equal(t, Ready, verdict)

	coll := &collector{}
	require.NoError(t, pw.Execute(coll.emit))

	sums := coll.values(2)
	require.Len(t, sums, 20)
	for _, v := range sums {
		require.Equal(t, int64(10), v.I64)
	}
}

// TestTwoFunctionsDifferentAritiesShareOneHashGroup runs ROW_NUMBER
// (no argument, order arity 1) and SUM (argument, order arity 0)
// together over the same single hash group.
func TestTwoFunctionsDifferentAritiesShareOneHashGroup(t *testing.T) {
	types := []common.LType{common.BigintType(), common.BigintType()}
	rowNum := newRankSpec("row_number", ROW_NUMBER, 0, 1)
	sum, err := newAggregateSpec("sum", []common.LType{common.BigintType()}, 0, 0,
		map[string]any{"func": SUM, "argColIdx": 1})
	require.NoError(t, err)

	pw := NewPhysicalWindow([]ExecutorSpec{rowNum, sum}, types, nil, []int{0}, 1, 2)
	require.NoError(t, pw.Sink(buildChunk(types, [][]int64{{3, 100}, {1, 200}, {2, 300}})))

	verdict, err := pw.Finalize()
	require.NoError(t, err)
	require.Equal(t, Ready, verdict)

	coll := &collector{}
	require.NoError(t, pw.Execute(coll.emit))

	rowNumbers := coll.values(2)
	sums := coll.values(3)
	require.Len(t, rowNumbers, 3)
	require.Len(t, sums, 3)
	for _, v := range sums {
		require.Equal(t, int64(600), v.I64)
	}
}

// TestEmptyUpstreamProducesNoOutputPossible covers spec.md §8's S4:
// Finalize on a sink that never received a row reports
// NoOutputPossible and Execute is a no-op.
func TestEmptyUpstreamProducesNoOutputPossible(t *testing.T) {
	types := []common.LType{common.BigintType()}
	spec := newRankSpec("row_number", ROW_NUMBER, 0, 1)
	pw := NewPhysicalWindow([]ExecutorSpec{spec}, types, nil, []int{0}, 1, 2)

	verdict, err := pw.Finalize()
	require.NoError(t, err)
	require.Equal(t, NoOutputPossible, verdict)

	coll := &collector{}
	require.NoError(t, pw.Execute(coll.emit))
	require.Empty(t, coll.chunks)
	require.Equal(t, -1.0, pw.GetProgress())
}

func TestExecuteTwiceIsAnError(t *testing.T) {
	types := []common.LType{common.BigintType()}
	spec := newRankSpec("row_number", ROW_NUMBER, 0, 1)
	pw := NewPhysicalWindow([]ExecutorSpec{spec}, types, nil, []int{0}, 1, 1)
	require.NoError(t, pw.Sink(buildChunk(types, [][]int64{{1}})))
	_, err := pw.Finalize()
	require.NoError(t, err)

	coll := &collector{}
	require.NoError(t, pw.Execute(coll.emit))
	require.Error(t, pw.Execute(coll.emit))
}

func TestParamsToStringListsEveryExpression(t *testing.T) {
	a := newRankSpec("row_number", ROW_NUMBER, 0, 1)
	b := newRankSpec("rank", RANK, 0, 1)
	pw := NewPhysicalWindow([]ExecutorSpec{a, b}, []common.LType{common.BigintType()}, nil, []int{0}, 1, 1)
	require.Equal(t, "row_number\nrank", pw.ParamsToString())
}
