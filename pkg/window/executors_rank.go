package window

import (
	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
	"github.com/daviszhen/parwin/pkg/util"
)

// rankSpec implements the ranking family: ROW_NUMBER, RANK, DENSE_RANK,
// PERCENT_RANK, CUME_DIST. They share one shape: a single sequential
// pass over a group's partition/order boundary masks computed once in
// Finalize, read back by Evaluate.
type rankSpec struct {
	name string
	kind Kind
	p, o int
}

func newRankSpec(name string, kind Kind, p, o int) *rankSpec {
	return &rankSpec{name: name, kind: kind, p: p, o: o}
}

func (s *rankSpec) Name() string             { return s.name }
func (s *rankSpec) PartitionKeyCount() int   { return s.p }
func (s *rankSpec) OrderKeyCount() int       { return s.o }
func (s *rankSpec) ArgTypes() []common.LType { return nil }
func (s *rankSpec) ArgColumnIndex() int      { return 0 }

func (s *rankSpec) ReturnType() common.LType {
	switch s.kind {
	case PERCENT_RANK, CUME_DIST:
		return common.DoubleType()
	default:
		return common.BigintType()
	}
}

type rankGlobalState struct {
	count                     int
	partitionMask, orderMask  *util.Bitmap
	results                   []chunk.Value
	computed                  bool
}

func (s *rankSpec) CreateGlobal(count int, partitionMask, orderMask *util.Bitmap) GlobalExecState {
	return &rankGlobalState{
		count:         count,
		partitionMask: partitionMask,
		orderMask:     orderMask,
		results:       make([]chunk.Value, count),
	}
}

func (s *rankSpec) CreateLocal(GlobalExecState) LocalExecState { return nil }

// Sink is a no-op: the ranking family needs no per-row accumulation,
// only the group's boundary masks, which Finalize reads directly.
func (s *rankSpec) Sink(*RowChunk, int, int, GlobalExecState, LocalExecState) {}

func (s *rankSpec) Finalize(gstateAny GlobalExecState, _ LocalExecState) {
	gstate := gstateAny.(*rankGlobalState)
	if gstate.computed || gstate.count == 0 {
		gstate.computed = true
		return
	}
	partStarts := boundaryStarts(gstate.partitionMask, gstate.count)
	retTyp := s.ReturnType()
	for pi, pStart := range partStarts {
		pEnd := rangeEnd(partStarts, pi, gstate.count)
		partLen := pEnd - pStart
		rank := 1
		denseRank := 0
		i := pStart
		for i < pEnd {
			j := i + 1
			for j < pEnd && !gstate.orderMask.RowIsValid(uint64(j)) {
				j++
			}
			peerLen := j - i
			denseRank++
			for r := i; r < j; r++ {
				switch s.kind {
				case ROW_NUMBER:
					gstate.results[r] = chunk.Value{Typ: retTyp, I64: int64(r - pStart + 1)}
				case RANK:
					gstate.results[r] = chunk.Value{Typ: retTyp, I64: int64(rank)}
				case DENSE_RANK:
					gstate.results[r] = chunk.Value{Typ: retTyp, I64: int64(denseRank)}
				case PERCENT_RANK:
					if partLen <= 1 {
						gstate.results[r] = chunk.Value{Typ: retTyp, F64: 0}
					} else {
						gstate.results[r] = chunk.Value{Typ: retTyp, F64: float64(rank-1) / float64(partLen-1)}
					}
				case CUME_DIST:
					gstate.results[r] = chunk.Value{Typ: retTyp, F64: float64(j-pStart) / float64(partLen)}
				}
			}
			rank += peerLen
			i = j
		}
	}
	gstate.computed = true
}

func (s *rankSpec) Evaluate(outputRowOffset int, input *RowChunk, output *OutVector, _ LocalExecState, gstateAny GlobalExecState) {
	gstate := gstateAny.(*rankGlobalState)
	for i := 0; i < input.Count(); i++ {
		v := gstate.results[outputRowOffset+i]
		output.SetValue(i, &v)
	}
}

// ntileSpec implements NTILE(n): rows in each partition split into n
// buckets as evenly as possible, leading buckets taking the remainder.
type ntileSpec struct {
	name    string
	p, o    int
	buckets int
}

func newNtileSpec(name string, p, o int, extra map[string]any) (*ntileSpec, error) {
	n, _ := extra["buckets"].(int)
	if n <= 0 {
		return nil, ErrExecutor
	}
	return &ntileSpec{name: name, p: p, o: o, buckets: n}, nil
}

func (s *ntileSpec) Name() string             { return s.name }
func (s *ntileSpec) PartitionKeyCount() int   { return s.p }
func (s *ntileSpec) OrderKeyCount() int       { return s.o }
func (s *ntileSpec) ArgTypes() []common.LType { return nil }
func (s *ntileSpec) ArgColumnIndex() int      { return 0 }
func (s *ntileSpec) ReturnType() common.LType { return common.BigintType() }

type ntileGlobalState struct {
	count         int
	partitionMask *util.Bitmap
	results       []chunk.Value
	computed      bool
}

func (s *ntileSpec) CreateGlobal(count int, partitionMask, _ *util.Bitmap) GlobalExecState {
	return &ntileGlobalState{count: count, partitionMask: partitionMask, results: make([]chunk.Value, count)}
}

func (s *ntileSpec) CreateLocal(GlobalExecState) LocalExecState { return nil }
func (s *ntileSpec) Sink(*RowChunk, int, int, GlobalExecState, LocalExecState) {}

func (s *ntileSpec) Finalize(gstateAny GlobalExecState, _ LocalExecState) {
	gstate := gstateAny.(*ntileGlobalState)
	if gstate.computed || gstate.count == 0 {
		gstate.computed = true
		return
	}
	retTyp := s.ReturnType()
	partStarts := boundaryStarts(gstate.partitionMask, gstate.count)
	for pi, pStart := range partStarts {
		pEnd := rangeEnd(partStarts, pi, gstate.count)
		partLen := pEnd - pStart
		base := partLen / s.buckets
		rem := partLen % s.buckets
		row := pStart
		for bucket := 1; bucket <= s.buckets && row < pEnd; bucket++ {
			size := base
			if bucket <= rem {
				size++
			}
			for r := row; r < row+size && r < pEnd; r++ {
				gstate.results[r] = chunk.Value{Typ: retTyp, I64: int64(bucket)}
			}
			row += size
		}
	}
	gstate.computed = true
}

func (s *ntileSpec) Evaluate(outputRowOffset int, input *RowChunk, output *OutVector, _ LocalExecState, gstateAny GlobalExecState) {
	gstate := gstateAny.(*ntileGlobalState)
	for i := 0; i < input.Count(); i++ {
		v := gstate.results[outputRowOffset+i]
		output.SetValue(i, &v)
	}
}
