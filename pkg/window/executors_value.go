package window

import (
	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
	"github.com/daviszhen/parwin/pkg/util"
)

// valueSpec implements the value-navigation family: LEAD_LAG,
// FIRST_VALUE, LAST_VALUE, NTH_VALUE. All read the expression's single
// argument column at an offset relative to the current row's
// partition, computed once in Finalize against a group-wide buffer
// gathered during Sink.
type valueSpec struct {
	name      string
	kind      Kind
	argTyp    common.LType
	argColIdx int
	p, o      int
	offset    int
	isLead    bool
	nth       int
	hasDflt   bool
	dflt      chunk.Value
}

func newValueSpec(name string, kind Kind, argTypes []common.LType, p, o int, extra map[string]any) (*valueSpec, error) {
	if len(argTypes) == 0 {
		return nil, ErrExecutor
	}
	s := &valueSpec{name: name, kind: kind, argTyp: argTypes[0], p: p, o: o, offset: 1, isLead: kind == LEAD_LAG}
	if v, ok := extra["offset"].(int); ok {
		s.offset = v
	}
	if v, ok := extra["isLead"].(bool); ok {
		s.isLead = v
	}
	if v, ok := extra["nth"].(int); ok {
		s.nth = v
	}
	if v, ok := extra["default"].(chunk.Value); ok {
		s.hasDflt = true
		s.dflt = v
	}
	if v, ok := extra["argColIdx"].(int); ok {
		s.argColIdx = v
	}
	if kind == NTH_VALUE && s.nth <= 0 {
		return nil, ErrExecutor
	}
	return s, nil
}

func (s *valueSpec) Name() string             { return s.name }
func (s *valueSpec) PartitionKeyCount() int   { return s.p }
func (s *valueSpec) OrderKeyCount() int       { return s.o }
func (s *valueSpec) ArgTypes() []common.LType { return []common.LType{s.argTyp} }
func (s *valueSpec) ArgColumnIndex() int      { return s.argColIdx }
func (s *valueSpec) ReturnType() common.LType { return s.argTyp }

type valueGlobalState struct {
	count         int
	partitionMask *util.Bitmap
	argValues     []chunk.Value
	results       []chunk.Value
	computed      bool
}

func (s *valueSpec) CreateGlobal(count int, partitionMask, _ *util.Bitmap) GlobalExecState {
	return &valueGlobalState{
		count:         count,
		partitionMask: partitionMask,
		argValues:     make([]chunk.Value, count),
		results:       make([]chunk.Value, count),
	}
}

func (s *valueSpec) CreateLocal(GlobalExecState) LocalExecState { return nil }

func (s *valueSpec) Sink(input *RowChunk, inputRowOffset, scannedCount int, gstateAny GlobalExecState, _ LocalExecState) {
	gstate := gstateAny.(*valueGlobalState)
	for i := 0; i < scannedCount; i++ {
		gstate.argValues[inputRowOffset+i] = *input.Value(i)
	}
}

func (s *valueSpec) nullResult() chunk.Value {
	if s.hasDflt {
		return s.dflt
	}
	return chunk.Value{Typ: s.argTyp, IsNull: true}
}

func (s *valueSpec) Finalize(gstateAny GlobalExecState, _ LocalExecState) {
	gstate := gstateAny.(*valueGlobalState)
	if gstate.computed || gstate.count == 0 {
		gstate.computed = true
		return
	}
	partStarts := boundaryStarts(gstate.partitionMask, gstate.count)
	for pi, pStart := range partStarts {
		pEnd := rangeEnd(partStarts, pi, gstate.count)
		for r := pStart; r < pEnd; r++ {
			switch s.kind {
			case FIRST_VALUE:
				gstate.results[r] = gstate.argValues[pStart]
			case LAST_VALUE:
				gstate.results[r] = gstate.argValues[pEnd-1]
			case NTH_VALUE:
				idx := pStart + s.nth - 1
				if idx < pEnd {
					gstate.results[r] = gstate.argValues[idx]
				} else {
					gstate.results[r] = s.nullResult()
				}
			case LEAD_LAG:
				var idx int
				if s.isLead {
					idx = r + s.offset
				} else {
					idx = r - s.offset
				}
				if idx >= pStart && idx < pEnd {
					gstate.results[r] = gstate.argValues[idx]
				} else {
					gstate.results[r] = s.nullResult()
				}
			}
		}
	}
	gstate.computed = true
}

func (s *valueSpec) Evaluate(outputRowOffset int, input *RowChunk, output *OutVector, _ LocalExecState, gstateAny GlobalExecState) {
	gstate := gstateAny.(*valueGlobalState)
	for i := 0; i < input.Count(); i++ {
		v := gstate.results[outputRowOffset+i]
		output.SetValue(i, &v)
	}
}
