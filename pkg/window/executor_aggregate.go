package window

import (
	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
	"github.com/daviszhen/parwin/pkg/util"
	"github.com/govalues/decimal"
)

// AggrFunc names the reduction an aggregateSpec performs. Mirrors the
// function-pointer shape of pkg/compute/aggregate_types.go's
// AggrObject (one struct dispatching by tag) without taking a
// dependency on a fully bound compute.Expr/FunctionV2 — see
// DESIGN.md's executor_aggregate.go entry for why.
type AggrFunc int

const (
	SUM AggrFunc = iota
	COUNT
	AVG
	MIN
	MAX
)

type aggregateSpec struct {
	name      string
	fn        AggrFunc
	argTyp    common.LType
	argColIdx int
	retTyp    common.LType
	p, o      int
}

func newAggregateSpec(name string, argTypes []common.LType, p, o int, extra map[string]any) (*aggregateSpec, error) {
	if len(argTypes) == 0 {
		return nil, ErrExecutor
	}
	fn, _ := extra["func"].(AggrFunc)
	s := &aggregateSpec{name: name, fn: fn, argTyp: argTypes[0], p: p, o: o}
	if v, ok := extra["argColIdx"].(int); ok {
		s.argColIdx = v
	}
	switch fn {
	case COUNT:
		s.retTyp = common.BigintType()
	case AVG:
		if s.argTyp.Id == common.LTID_DECIMAL {
			s.retTyp = s.argTyp
		} else {
			s.retTyp = common.DoubleType()
		}
	default:
		s.retTyp = s.argTyp
	}
	return s, nil
}

func (s *aggregateSpec) Name() string             { return s.name }
func (s *aggregateSpec) PartitionKeyCount() int   { return s.p }
func (s *aggregateSpec) OrderKeyCount() int       { return s.o }
func (s *aggregateSpec) ArgTypes() []common.LType { return []common.LType{s.argTyp} }
func (s *aggregateSpec) ArgColumnIndex() int      { return s.argColIdx }
func (s *aggregateSpec) ReturnType() common.LType { return s.retTyp }

type aggregateGlobalState struct {
	count         int
	partitionMask *util.Bitmap
	argValues     []chunk.Value
	results       []chunk.Value
	computed      bool
}

func (s *aggregateSpec) CreateGlobal(count int, partitionMask, _ *util.Bitmap) GlobalExecState {
	return &aggregateGlobalState{
		count:         count,
		partitionMask: partitionMask,
		argValues:     make([]chunk.Value, count),
		results:       make([]chunk.Value, count),
	}
}

func (s *aggregateSpec) CreateLocal(GlobalExecState) LocalExecState { return nil }

func (s *aggregateSpec) Sink(input *RowChunk, inputRowOffset, scannedCount int, gstateAny GlobalExecState, _ LocalExecState) {
	gstate := gstateAny.(*aggregateGlobalState)
	for i := 0; i < scannedCount; i++ {
		gstate.argValues[inputRowOffset+i] = *input.Value(i)
	}
}

func (s *aggregateSpec) reduceDecimal(values []chunk.Value) chunk.Value {
	scale := s.argTyp.Scale
	acc, err := decimal.NewFromInt64(0, 0, scale)
	if err != nil {
		panic(err)
	}
	n := 0
	for _, v := range values {
		if v.IsNull {
			continue
		}
		d, err := decimal.NewFromInt64(v.I64, v.I64_1, scale)
		if err != nil {
			panic(err)
		}
		acc, err = acc.Add(d)
		if err != nil {
			panic(err)
		}
		n++
	}
	switch s.fn {
	case COUNT:
		return chunk.Value{Typ: s.retTyp, I64: int64(n)}
	case AVG:
		if n == 0 {
			return chunk.Value{Typ: s.retTyp, IsNull: true}
		}
		divisor, err := decimal.NewFromInt64(int64(n), 0, 0)
		if err != nil {
			panic(err)
		}
		res, err := acc.Quo(divisor)
		if err != nil {
			panic(err)
		}
		return chunk.Value{Typ: s.retTyp, Str: res.String()}
	default:
		return chunk.Value{Typ: s.retTyp, Str: acc.String()}
	}
}

func (s *aggregateSpec) reduceNumeric(values []chunk.Value) chunk.Value {
	isFloat := s.argTyp.GetInternalType() == common.DOUBLE || s.argTyp.GetInternalType() == common.FLOAT
	var sumI int64
	var sumF float64
	n := 0
	var minV, maxV *chunk.Value
	for i := range values {
		v := &values[i]
		if v.IsNull {
			continue
		}
		n++
		if isFloat {
			sumF += v.F64
		} else {
			sumI += v.I64
		}
		if minV == nil || (isFloat && v.F64 < minV.F64) || (!isFloat && v.I64 < minV.I64) {
			minV = v
		}
		if maxV == nil || (isFloat && v.F64 > maxV.F64) || (!isFloat && v.I64 > maxV.I64) {
			maxV = v
		}
	}
	switch s.fn {
	case COUNT:
		return chunk.Value{Typ: s.retTyp, I64: int64(n)}
	case MIN:
		if minV == nil {
			return chunk.Value{Typ: s.retTyp, IsNull: true}
		}
		return chunk.Value{Typ: s.retTyp, I64: minV.I64, F64: minV.F64}
	case MAX:
		if maxV == nil {
			return chunk.Value{Typ: s.retTyp, IsNull: true}
		}
		return chunk.Value{Typ: s.retTyp, I64: maxV.I64, F64: maxV.F64}
	case AVG:
		if n == 0 {
			return chunk.Value{Typ: s.retTyp, IsNull: true}
		}
		if isFloat {
			return chunk.Value{Typ: s.retTyp, F64: sumF / float64(n)}
		}
		return chunk.Value{Typ: s.retTyp, F64: float64(sumI) / float64(n)}
	default: // SUM
		if isFloat {
			return chunk.Value{Typ: s.retTyp, F64: sumF}
		}
		return chunk.Value{Typ: s.retTyp, I64: sumI}
	}
}

func (s *aggregateSpec) Finalize(gstateAny GlobalExecState, _ LocalExecState) {
	gstate := gstateAny.(*aggregateGlobalState)
	if gstate.computed || gstate.count == 0 {
		gstate.computed = true
		return
	}
	partStarts := boundaryStarts(gstate.partitionMask, gstate.count)
	for pi, pStart := range partStarts {
		pEnd := rangeEnd(partStarts, pi, gstate.count)
		var agg chunk.Value
		if s.argTyp.Id == common.LTID_DECIMAL {
			agg = s.reduceDecimal(gstate.argValues[pStart:pEnd])
		} else {
			agg = s.reduceNumeric(gstate.argValues[pStart:pEnd])
		}
		for r := pStart; r < pEnd; r++ {
			gstate.results[r] = agg
		}
	}
	gstate.computed = true
}

func (s *aggregateSpec) Evaluate(outputRowOffset int, input *RowChunk, output *OutVector, _ LocalExecState, gstateAny GlobalExecState) {
	gstate := gstateAny.(*aggregateGlobalState)
	for i := 0; i < input.Count(); i++ {
		v := gstate.results[outputRowOffset+i]
		output.SetValue(i, &v)
	}
}
