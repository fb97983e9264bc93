package window

import (
	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
)

// RowChunk is the scanned-chunk view an ExecutorSpec's Sink/Evaluate
// sees: one block's worth of a single argument column (an expression
// reads exactly one payload column per spec.md §4.1's evaluate
// contract).
type RowChunk struct {
	Vec   *chunk.Vector
	count int
}

func newRowChunk(vec *chunk.Vector, count int) *RowChunk {
	return &RowChunk{Vec: vec, count: count}
}

func (r *RowChunk) Count() int {
	if r == nil {
		return 0
	}
	return r.count
}

func (r *RowChunk) Value(row int) *chunk.Value {
	return r.Vec.GetValue(row)
}

// OutVector is the single output column an ExecutorSpec's Evaluate
// writes into.
type OutVector struct {
	Vector *chunk.Vector
}

func (o *OutVector) SetValue(row int, val *chunk.Value) {
	o.Vector.SetValue(row, val)
}

func newOutVector(typ common.LType, cap int) *OutVector {
	return &OutVector{Vector: chunk.NewVector2(typ, cap)}
}
