package window

import (
	"sync"
	"sync/atomic"

	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
	"github.com/daviszhen/parwin/pkg/util"
)

type windowStage int

const (
	stageSink windowStage = iota
	stageFinalize
	stageGetData
	stageDone
)

// HashGroup is one sorted partition's materialized rows plus per-
// expression mask bitmaps, function global states, and stage
// counters. Grounded on original_source/.../physical_window.cpp's
// WindowHashGroup (see DESIGN.md).
type HashGroup struct {
	bin      int
	count    int
	blocks   int
	rows     []*chunk.Chunk
	external bool

	partitionMask util.Bitmap
	orderMasks    map[int]*util.Bitmap // keyed by p+o arity

	gestates []GlobalExecState
	initLock sync.Mutex

	sunk           atomic.Int64
	finalized      atomic.Int64
	tasksRemaining atomic.Int64

	batchBase int
}

// newHashGroup constructs the HashGroup for bin b from the
// partitioner's sorted output, per spec.md §4.2. Returns nil if the
// bin is empty (count == 0) — empty groups are not materialized, not
// scheduled, skipped entirely (spec.md §4.5 tie-break).
func newHashGroup(p *partitioner, specs []ExecutorSpec, payloadTypes []common.LType, bin int) *HashGroup {
	rows := p.OnSortedPartition(bin)
	singleUnhashed := bin == 0 && p.unhashedSingle && p.totalRowCount > 0

	if len(rows) == 0 && !singleUnhashed {
		return nil
	}

	hg := &HashGroup{bin: bin, count: len(rows)}

	if singleUnhashed {
		// Single unhashed partition case (spec.md §4.2 step 4): force
		// external=true unconditionally to trigger the heap-alignment
		// path, even though nothing here actually spills. Preserved
		// per spec.md §9's explicit instruction, not a guess.
		hg.external = true
	} else {
		hg.external = p.unhashedSingle
	}

	hg.materialize(rows, payloadTypes)

	hg.partitionMask.SetAllInvalid(hg.count)
	hg.orderMasks = make(map[int]*util.Bitmap)
	arities := distinctArities(specs)
	for _, arity := range arities {
		m := &util.Bitmap{}
		m.SetAllInvalid(hg.count)
		hg.orderMasks[arity] = m
	}
	if hg.count > 0 {
		for _, arity := range arities {
			p.ComputeMasks(rows, &hg.partitionMask, hg.orderMasks[arity], arity)
		}
	}

	return hg
}

func distinctArities(specs []ExecutorSpec) []int {
	seen := map[int]bool{}
	var arities []int
	for _, s := range specs {
		a := s.PartitionKeyCount() + s.OrderKeyCount()
		if !seen[a] {
			seen[a] = true
			arities = append(arities, a)
		}
	}
	return arities
}

// materialize moves the sorted row slice into fixed-capacity
// chunk.Chunk blocks (spec.md §4.2 "Materialization of sorted data").
func (hg *HashGroup) materialize(rows [][]chunk.Value, payloadTypes []common.LType) {
	if len(rows) == 0 {
		hg.blocks = 0
		return
	}
	cap := util.DefaultVectorSize
	for i := 0; i < len(rows); i += cap {
		end := i + cap
		if end > len(rows) {
			end = len(rows)
		}
		c := &chunk.Chunk{}
		c.Init(payloadTypes, cap)
		for r := i; r < end; r++ {
			for col := range payloadTypes {
				c.Data[col].SetValue(r-i, &rows[r][col])
			}
		}
		c.SetCard(end - i)
		hg.rows = append(hg.rows, c)
	}
	hg.blocks = len(hg.rows)
}

// Initialize lazily constructs gestates under initLock. Idempotent:
// calling it twice returns the same slice identity (spec.md §8
// round-trip property).
func (hg *HashGroup) Initialize(specs []ExecutorSpec) []GlobalExecState {
	hg.initLock.Lock()
	defer hg.initLock.Unlock()
	if hg.gestates != nil {
		return hg.gestates
	}
	gestates := make([]GlobalExecState, len(specs))
	for i, spec := range specs {
		arity := spec.PartitionKeyCount() + spec.OrderKeyCount()
		gestates[i] = spec.CreateGlobal(hg.count, &hg.partitionMask, hg.orderMasks[arity])
	}
	hg.gestates = gestates
	return hg.gestates
}

// stage is a pure read of sunk/count/finalized/blocks (spec.md §4.2).
func (hg *HashGroup) stage() windowStage {
	if hg.tasksRemaining.Load() == 0 && hg.blocks > 0 {
		return stageDone
	}
	sunk := hg.sunk.Load()
	if sunk < int64(hg.count) {
		return stageSink
	}
	if hg.finalized.Load() < int64(hg.blocks) {
		return stageFinalize
	}
	return stageGetData
}
