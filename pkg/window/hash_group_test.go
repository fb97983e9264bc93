package window

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daviszhen/parwin/pkg/common"
)

func TestNewHashGroupEmptyBinIsNil(t *testing.T) {
	types := []common.LType{common.BigintType()}
	p := newPartitioner(types, []int{0}, nil, 2)
	c := buildChunk(types, [][]int64{{1}, {1}, {1}})
	require.NoError(t, p.Sink(c))
	p.OnBeginMerge()

	specs := []ExecutorSpec{newRankSpec("row_number", ROW_NUMBER, 1, 0)}
	var nonNilCount int
	for b := 0; b < p.numBins; b++ {
		if hg := newHashGroup(p, specs, types, b); hg != nil {
			nonNilCount++
		}
	}
	require.Equal(t, 1, nonNilCount)
}

func TestNewHashGroupSingleUnhashedForcesExternal(t *testing.T) {
	types := []common.LType{common.BigintType()}
	p := newPartitioner(types, nil, []int{0}, 1)
	c := buildChunk(types, [][]int64{{1}, {2}, {3}})
	require.NoError(t, p.Sink(c))
	p.OnBeginMerge()

	specs := []ExecutorSpec{newRankSpec("row_number", ROW_NUMBER, 0, 1)}
	hg := newHashGroup(p, specs, types, 0)
	require.NotNil(t, hg)
	require.True(t, hg.external)
	require.Equal(t, 3, hg.count)
	require.Equal(t, 1, hg.blocks)
}

func TestHashGroupStageTransitions(t *testing.T) {
	types := []common.LType{common.BigintType()}
	p := newPartitioner(types, nil, []int{0}, 1)
	c := buildChunk(types, [][]int64{{1}, {2}, {3}})
	require.NoError(t, p.Sink(c))
	p.OnBeginMerge()

	specs := []ExecutorSpec{newRankSpec("row_number", ROW_NUMBER, 0, 1)}
	hg := newHashGroup(p, specs, types, 0)
	require.NotNil(t, hg)

	require.Equal(t, stageSink, hg.stage())
	hg.sunk.Store(int64(hg.count))
	require.Equal(t, stageFinalize, hg.stage())
	hg.finalized.Store(int64(hg.blocks))
	require.Equal(t, stageGetData, hg.stage())
}

func TestHashGroupInitializeIsIdempotent(t *testing.T) {
	types := []common.LType{common.BigintType()}
	p := newPartitioner(types, nil, []int{0}, 1)
	c := buildChunk(types, [][]int64{{1}, {2}})
	require.NoError(t, p.Sink(c))
	p.OnBeginMerge()

	specs := []ExecutorSpec{newRankSpec("row_number", ROW_NUMBER, 0, 1)}
	hg := newHashGroup(p, specs, types, 0)
	require.NotNil(t, hg)

	first := hg.Initialize(specs)
	second := hg.Initialize(specs)
	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Same(t, first[i], second[i])
	}
}
