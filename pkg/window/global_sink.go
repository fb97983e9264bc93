package window

import (
	"fmt"

	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
)

// FinalizeVerdict is GlobalSink's Finalize outcome (spec.md §4.3/§6).
type FinalizeVerdict int

const (
	NoOutputPossible FinalizeVerdict = iota
	Ready
)

// GlobalSink is the operator-wide container holding the immutable
// ExecutorSpec list and the collection of HashGroups once upstream
// sorting completes. Grounded on physical_window.cpp's
// WindowGlobalSinkState.
type GlobalSink struct {
	specs        []ExecutorSpec
	payloadTypes []common.LType
	partitioner  *partitioner
	groups       []*HashGroup
}

func NewGlobalSink(specs []ExecutorSpec, payloadTypes []common.LType, partitionKeyIdx, orderKeyIdx []int, numBins int) *GlobalSink {
	return &GlobalSink{
		specs:        specs,
		payloadTypes: payloadTypes,
		partitioner:  newPartitioner(payloadTypes, partitionKeyIdx, orderKeyIdx, numBins),
	}
}

// Sink ingests one chunk of upstream rows.
func (gs *GlobalSink) Sink(c *chunk.Chunk) error {
	if err := gs.partitioner.Sink(c); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

// Combine is a no-op here: the partitioner's row buffers are already
// shared, guarded by its own mutex (spec.md §6's per-worker Combine()
// hook exists for parity with the rest of the pipeline's operators).
func (gs *GlobalSink) Combine() {}

// Finalize runs the partition subsystem's sort-completion step and
// constructs one HashGroup per populated bin.
func (gs *GlobalSink) Finalize() (FinalizeVerdict, error) {
	if gs.partitioner.totalRowCount == 0 {
		return NoOutputPossible, nil
	}
	gs.partitioner.OnBeginMerge()
	for b := 0; b < gs.partitioner.numBins; b++ {
		hg := newHashGroup(gs.partitioner, gs.specs, gs.payloadTypes, b)
		if hg == nil {
			continue
		}
		gs.groups = append(gs.groups, hg)
	}
	return Ready, nil
}

// SupportsBatchIndex is true exactly when there is one group, sourced
// from a single unhashed partition with an ORDER BY (spec.md §5).
func (gs *GlobalSink) SupportsBatchIndex() bool {
	return gs.partitioner.unhashedSingle && len(gs.orderKeys()) > 0 && len(gs.groups) == 1
}

func (gs *GlobalSink) orderKeys() []int {
	return gs.partitioner.orderKeyIdx
}
