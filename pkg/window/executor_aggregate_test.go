package window

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
	"github.com/daviszhen/parwin/pkg/util"
)

func TestAggregateSumPerPartition(t *testing.T) {
	values := []chunk.Value{intVal(1), intVal(2), intVal(3), intVal(10), intVal(20)}
	vec := vectorOf(values, common.BigintType())

	spec, err := newAggregateSpec("sum", []common.LType{common.BigintType()}, 1, 0, map[string]any{"func": SUM})
	require.NoError(t, err)

	pMask := fullyOrderedMask(5)
	pMask.SetValid(3)
	gstate := spec.CreateGlobal(5, pMask, nil)
	sinkAll(spec, gstate, vec, 5)
	spec.Finalize(gstate, nil)
	got := evaluateAll(t, spec, gstate, 5)

	require.Equal(t, int64(6), got[0].I64)
	require.Equal(t, int64(6), got[1].I64)
	require.Equal(t, int64(6), got[2].I64)
	require.Equal(t, int64(30), got[3].I64)
	require.Equal(t, int64(30), got[4].I64)
}

func TestAggregateCountIgnoresNulls(t *testing.T) {
	values := []chunk.Value{intVal(1), {Typ: common.BigintType(), IsNull: true}, intVal(3)}
	vec := vectorOf(values, common.BigintType())

	spec, err := newAggregateSpec("count", []common.LType{common.BigintType()}, 0, 0, map[string]any{"func": COUNT})
	require.NoError(t, err)

	pMask := fullyOrderedMask(3)
	gstate := spec.CreateGlobal(3, pMask, nil)
	sinkAll(spec, gstate, vec, 3)
	spec.Finalize(gstate, nil)
	got := evaluateAll(t, spec, gstate, 3)

	require.Equal(t, int64(2), got[0].I64)
}

func TestAggregateAvgNumeric(t *testing.T) {
	values := []chunk.Value{intVal(2), intVal(4), intVal(6)}
	vec := vectorOf(values, common.BigintType())

	spec, err := newAggregateSpec("avg", []common.LType{common.BigintType()}, 0, 0, map[string]any{"func": AVG})
	require.NoError(t, err)

	pMask := fullyOrderedMask(3)
	gstate := spec.CreateGlobal(3, pMask, nil)
	sinkAll(spec, gstate, vec, 3)
	spec.Finalize(gstate, nil)
	got := evaluateAll(t, spec, gstate, 3)

	require.Equal(t, 4.0, got[0].F64)
}

func TestAggregateMinMax(t *testing.T) {
	values := []chunk.Value{intVal(5), intVal(-3), intVal(9)}
	vec := vectorOf(values, common.BigintType())

	minSpec, err := newAggregateSpec("min", []common.LType{common.BigintType()}, 0, 0, map[string]any{"func": MIN})
	require.NoError(t, err)
	pMask := fullyOrderedMask(3)
	gstate := minSpec.CreateGlobal(3, pMask, nil)
	sinkAll(minSpec, gstate, vec, 3)
	minSpec.Finalize(gstate, nil)
	got := evaluateAll(t, minSpec, gstate, 3)
	require.Equal(t, int64(-3), got[0].I64)

	maxSpec, err := newAggregateSpec("max", []common.LType{common.BigintType()}, 0, 0, map[string]any{"func": MAX})
	require.NoError(t, err)
	gstate2 := maxSpec.CreateGlobal(3, pMask, nil)
	sinkAll(maxSpec, gstate2, vec, 3)
	maxSpec.Finalize(gstate2, nil)
	got2 := evaluateAll(t, maxSpec, gstate2, 3)
	require.Equal(t, int64(9), got2[0].I64)
}

func TestNewAggregateSpecRejectsEmptyArgTypes(t *testing.T) {
	_, err := newAggregateSpec("sum", nil, 0, 0, map[string]any{"func": SUM})
	require.Error(t, err)
}

func fullyOrderedMask(count int) *util.Bitmap {
	m := &util.Bitmap{}
	m.SetAllInvalid(count)
	return m
}
