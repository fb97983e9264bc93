package window

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
)

// buildChunk materializes one chunk.Chunk with the given int64 rows,
// one column per row entry.
func buildChunk(types []common.LType, rows [][]int64) *chunk.Chunk {
	c := &chunk.Chunk{}
	c.Init(types, len(rows))
	for r, row := range rows {
		for col, v := range row {
			val := chunk.Value{Typ: types[col], I64: v}
			c.Data[col].SetValue(r, &val)
		}
	}
	c.SetCard(len(rows))
	return c
}

func TestPartitionerSingleUnhashedBin(t *testing.T) {
	types := []common.LType{common.BigintType()}
	p := newPartitioner(types, nil, []int{0}, 1)
	require.True(t, p.unhashedSingle)

	c := buildChunk(types, [][]int64{{3}, {1}, {2}})
	require.NoError(t, p.Sink(c))
	require.Equal(t, 3, p.totalRowCount)

	p.OnBeginMerge()
	sorted := p.OnSortedPartition(0)
	require.Len(t, sorted, 3)
	require.Equal(t, int64(1), sorted[0][0].I64)
	require.Equal(t, int64(2), sorted[1][0].I64)
	require.Equal(t, int64(3), sorted[2][0].I64)
}

func TestPartitionerHashesIntoMultipleBins(t *testing.T) {
	types := []common.LType{common.BigintType(), common.BigintType()}
	p := newPartitioner(types, []int{0}, []int{1}, 4)
	require.False(t, p.unhashedSingle)

	var rows [][]int64
	for i := int64(0); i < 20; i++ {
		rows = append(rows, []int64{i % 3, i})
	}
	c := buildChunk(types, rows)
	require.NoError(t, p.Sink(c))
	require.Equal(t, 20, p.totalRowCount)

	p.OnBeginMerge()
	total := 0
	for b := 0; b < p.numBins; b++ {
		rows := p.OnSortedPartition(b)
		total += len(rows)
		for i := 1; i < len(rows); i++ {
			require.LessOrEqual(t, rows[i-1][0].I64, rows[i][0].I64)
		}
	}
	require.Equal(t, 20, total)
}

func TestComputeMasksMarksPartitionAndOrderBoundaries(t *testing.T) {
	types := []common.LType{common.BigintType(), common.BigintType()}
	p := newPartitioner(types, []int{0}, []int{1}, 1)

	rows := [][]chunk.Value{
		{intVal(1), intVal(10)},
		{intVal(1), intVal(10)},
		{intVal(1), intVal(20)},
		{intVal(2), intVal(5)},
	}

	pMask := fullyOrderedMask(4)
	oMask := fullyOrderedMask(4)
	p.ComputeMasks(rows, pMask, oMask, 2)

	require.True(t, pMask.RowIsValid(0))
	require.False(t, pMask.RowIsValid(1))
	require.False(t, pMask.RowIsValid(2))
	require.True(t, pMask.RowIsValid(3))

	require.True(t, oMask.RowIsValid(0))
	require.False(t, oMask.RowIsValid(1))
	require.True(t, oMask.RowIsValid(2))
	require.True(t, oMask.RowIsValid(3))
}

func TestHasMergeTasks(t *testing.T) {
	types := []common.LType{common.BigintType()}
	p := newPartitioner(types, nil, nil, 1)
	require.False(t, p.HasMergeTasks())

	c := buildChunk(types, [][]int64{{1}})
	require.NoError(t, p.Sink(c))
	require.True(t, p.HasMergeTasks())
}
