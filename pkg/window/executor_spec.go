// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package window implements the parallel, pipelined execution operator
// that evaluates SQL window functions over hash-partitioned, locally
// sorted row groups.
package window

import (
	"fmt"

	"github.com/daviszhen/parwin/pkg/common"
	"github.com/daviszhen/parwin/pkg/util"
)

type Kind int

const (
	AGGREGATE Kind = iota
	ROW_NUMBER
	RANK
	DENSE_RANK
	PERCENT_RANK
	CUME_DIST
	NTILE
	LEAD_LAG
	FIRST_VALUE
	LAST_VALUE
	NTH_VALUE
)

func (k Kind) String() string {
	switch k {
	case AGGREGATE:
		return "aggregate"
	case ROW_NUMBER:
		return "row_number"
	case RANK:
		return "rank"
	case DENSE_RANK:
		return "dense_rank"
	case PERCENT_RANK:
		return "percent_rank"
	case CUME_DIST:
		return "cume_dist"
	case NTILE:
		return "ntile"
	case LEAD_LAG:
		return "lead_lag"
	case FIRST_VALUE:
		return "first_value"
	case LAST_VALUE:
		return "last_value"
	case NTH_VALUE:
		return "nth_value"
	default:
		return "unknown"
	}
}

// GlobalExecState is the per-ExecutorSpec, per-HashGroup accumulator.
// Its concrete type is owned by the ExecutorSpec implementation.
type GlobalExecState any

// LocalExecState is the per-worker scratch state derived from a
// GlobalExecState. Its concrete type is owned by the ExecutorSpec
// implementation.
type LocalExecState any

// ExecutorSpec is the scheduler-facing contract every window function
// kind implements. It is immutable after construction and shared by
// all workers; the scheduler never inspects it beyond these methods.
type ExecutorSpec interface {
	Name() string
	ArgTypes() []common.LType
	ReturnType() common.LType

	// ArgColumnIndex reports which payload column this expression
	// reads its single argument from. Ranking functions take no
	// argument and return 0 unused.
	ArgColumnIndex() int

	// PartitionKeyCount/OrderKeyCount report the arity of this
	// expression's window frame, used to pick the matching order_mask.
	PartitionKeyCount() int
	OrderKeyCount() int

	// CreateGlobal allocates function-wide accumulators sized for
	// count rows, keyed by the partition/order masks of this group.
	CreateGlobal(count int, partitionMask, orderMask *util.Bitmap) GlobalExecState

	// CreateLocal allocates per-worker scratch bound to gstate.
	CreateLocal(gstate GlobalExecState) LocalExecState

	// Sink feeds one chunk of rows into the function's accumulator.
	// Safe to call concurrently on the same gstate with disjoint
	// [inputRowOffset, inputRowOffset+scannedCount) ranges.
	Sink(input *RowChunk, inputRowOffset, scannedCount int, gstate GlobalExecState, lstate LocalExecState)

	// Finalize completes accumulation; must not return until all
	// internal work for this group is quiescent.
	Finalize(gstate GlobalExecState, lstate LocalExecState)

	// Evaluate writes this expression's column for input.Count rows
	// starting at outputRowOffset into the output vector.
	Evaluate(outputRowOffset int, input *RowChunk, output *OutVector, lstate LocalExecState, gstate GlobalExecState)
}

// NewExecutorSpec is the ExecutorSpec factory. An unknown kind is an
// Internal error per the scheduler's error taxonomy.
func NewExecutorSpec(name string, kind Kind, argTypes []common.LType, partitionKeys, orderKeys int, extra map[string]any) (ExecutorSpec, error) {
	switch kind {
	case AGGREGATE:
		return newAggregateSpec(name, argTypes, partitionKeys, orderKeys, extra)
	case ROW_NUMBER, RANK, DENSE_RANK, PERCENT_RANK, CUME_DIST:
		return newRankSpec(name, kind, partitionKeys, orderKeys), nil
	case NTILE:
		return newNtileSpec(name, partitionKeys, orderKeys, extra)
	case LEAD_LAG, FIRST_VALUE, LAST_VALUE, NTH_VALUE:
		return newValueSpec(name, kind, argTypes, partitionKeys, orderKeys, extra)
	default:
		return nil, fmt.Errorf("%w: unknown window executor kind %d", ErrInternal, kind)
	}
}
