package window

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
)

func intVal(i int64) chunk.Value {
	return chunk.Value{Typ: common.BigintType(), I64: i}
}

func sinkAll(spec ExecutorSpec, gstate GlobalExecState, vec *chunk.Vector, count int) {
	spec.Sink(newRowChunk(vec, count), 0, count, gstate, nil)
}

func vectorOf(values []chunk.Value, typ common.LType) *chunk.Vector {
	vec := chunk.NewVector2(typ, len(values))
	for i := range values {
		v := values[i]
		vec.SetValue(i, &v)
	}
	return vec
}

func TestFirstLastValue(t *testing.T) {
	values := []chunk.Value{intVal(10), intVal(20), intVal(30)}
	vec := vectorOf(values, common.BigintType())

	first, err := newValueSpec("first_value", FIRST_VALUE, []common.LType{common.BigintType()}, 0, 1, nil)
	require.NoError(t, err)
	pMask, oMask := fullyOrderedMasks(3)
	gstate := first.CreateGlobal(3, pMask, oMask)
	sinkAll(first, gstate, vec, 3)
	first.Finalize(gstate, nil)
	got := evaluateAll(t, first, gstate, 3)
	require.Equal(t, int64(10), got[0].I64)
	require.Equal(t, int64(10), got[1].I64)
	require.Equal(t, int64(10), got[2].I64)

	last, err := newValueSpec("last_value", LAST_VALUE, []common.LType{common.BigintType()}, 0, 1, nil)
	require.NoError(t, err)
	gstate2 := last.CreateGlobal(3, pMask, oMask)
	sinkAll(last, gstate2, vec, 3)
	last.Finalize(gstate2, nil)
	got2 := evaluateAll(t, last, gstate2, 3)
	require.Equal(t, int64(30), got2[0].I64)
	require.Equal(t, int64(30), got2[1].I64)
	require.Equal(t, int64(30), got2[2].I64)
}

func TestNthValuePastPartitionEndIsNull(t *testing.T) {
	values := []chunk.Value{intVal(10), intVal(20)}
	vec := vectorOf(values, common.BigintType())

	spec, err := newValueSpec("nth_value", NTH_VALUE, []common.LType{common.BigintType()}, 0, 1, map[string]any{"nth": 5})
	require.NoError(t, err)
	pMask, oMask := fullyOrderedMasks(2)
	gstate := spec.CreateGlobal(2, pMask, oMask)
	sinkAll(spec, gstate, vec, 2)
	spec.Finalize(gstate, nil)
	got := evaluateAll(t, spec, gstate, 2)
	require.True(t, got[0].IsNull)
	require.True(t, got[1].IsNull)
}

func TestLeadLagWithDefault(t *testing.T) {
	values := []chunk.Value{intVal(1), intVal(2), intVal(3)}
	vec := vectorOf(values, common.BigintType())

	lead, err := newValueSpec("lead", LEAD_LAG, []common.LType{common.BigintType()}, 0, 1, map[string]any{
		"isLead": true, "offset": 1, "default": intVal(-1),
	})
	require.NoError(t, err)
	pMask, oMask := fullyOrderedMasks(3)
	gstate := lead.CreateGlobal(3, pMask, oMask)
	sinkAll(lead, gstate, vec, 3)
	lead.Finalize(gstate, nil)
	got := evaluateAll(t, lead, gstate, 3)
	require.Equal(t, int64(2), got[0].I64)
	require.Equal(t, int64(3), got[1].I64)
	require.Equal(t, int64(-1), got[2].I64)

	lag, err := newValueSpec("lag", LEAD_LAG, []common.LType{common.BigintType()}, 0, 1, map[string]any{
		"isLead": false, "offset": 1,
	})
	require.NoError(t, err)
	gstate2 := lag.CreateGlobal(3, pMask, oMask)
	sinkAll(lag, gstate2, vec, 3)
	lag.Finalize(gstate2, nil)
	got2 := evaluateAll(t, lag, gstate2, 3)
	require.True(t, got2[0].IsNull)
	require.Equal(t, int64(1), got2[1].I64)
	require.Equal(t, int64(2), got2[2].I64)
}

func TestValueSpecArgColumnIndexThreaded(t *testing.T) {
	spec, err := newValueSpec("first_value", FIRST_VALUE, []common.LType{common.BigintType()}, 0, 1, map[string]any{"argColIdx": 3})
	require.NoError(t, err)
	require.Equal(t, 3, spec.ArgColumnIndex())
}
