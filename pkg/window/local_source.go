package window

import (
	"fmt"

	"github.com/petermattis/goid"

	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
)

// LocalSource is one worker's view of the task stream: it pulls tasks
// from a shared GlobalSource, binds to whichever HashGroup the task
// names, and carries out the stage the task asks for (spec.md §4/§5).
// Grounded on physical_window.cpp's WindowLocalSourceState.
type LocalSource struct {
	sink   *GlobalSink
	source *GlobalSource
	specs  []ExecutorSpec

	groupIdx int
	group    *HashGroup
	gestates []GlobalExecState
	lstates  []LocalExecState
}

func newLocalSource(sink *GlobalSink, source *GlobalSource) *LocalSource {
	return &LocalSource{sink: sink, source: source, specs: sink.specs, groupIdx: -1}
}

// bindGroup (re)points this worker at task t's HashGroup, lazily
// initializing the group's GlobalExecStates and this worker's
// LocalExecStates on first touch (spec.md §4.2 Initialize()).
func (ls *LocalSource) bindGroup(t *Task) {
	if ls.groupIdx == t.Group && ls.group != nil {
		return
	}
	ls.groupIdx = t.Group
	ls.group = ls.source.groups[t.Group]
	ls.gestates = ls.group.Initialize(ls.specs)
	ls.lstates = make([]LocalExecState, len(ls.specs))
	for i, spec := range ls.specs {
		ls.lstates[i] = spec.CreateLocal(ls.gestates[i])
	}
}

// runSink feeds every row in [t.BeginIdx, t.EndIdx) of the group's
// materialized blocks through each ExecutorSpec's Sink, then advances
// the group's sunk counter by the rows just processed (spec.md §4.2
// stage Sink -> Finalize transition).
func (ls *LocalSource) runSink(t *Task) error {
	g := ls.group
	rowOffset := 0
	for b := 0; b < t.BeginIdx; b++ {
		rowOffset += g.rows[b].Card()
	}
	scanned := 0
	for b := t.BeginIdx; b < t.EndIdx; b++ {
		block := g.rows[b]
		count := block.Card()
		for si, spec := range ls.specs {
			argIdx := spec.ArgColumnIndex()
			rc := newRowChunk(block.Data[argIdx], count)
			spec.Sink(rc, rowOffset, count, ls.gestates[si], ls.lstates[si])
		}
		rowOffset += count
		scanned += count
	}
	g.sunk.Add(int64(scanned))
	return nil
}

// runFinalize builds each ExecutorSpec's per-group result set exactly
// once per block range claimed; finalize is idempotent inside the spec
// (spec.md §4.2's "may run concurrently with other group's Finalize").
func (ls *LocalSource) runFinalize(t *Task) error {
	g := ls.group
	for si, spec := range ls.specs {
		spec.Finalize(ls.gestates[si], ls.lstates[si])
	}
	g.finalized.Add(int64(t.EndIdx - t.BeginIdx))
	return nil
}

// runGetData evaluates every ExecutorSpec for [t.BeginIdx, t.EndIdx)
// and assembles the output chunk: passthrough payload columns followed
// by one evaluated column per spec, stamped with a batch index of
// batch_base + begin_idx (spec.md §5's SourceOrder/SupportsBatchIndex
// pairing).
func (ls *LocalSource) runGetData(t *Task) (*chunk.Chunk, int64, error) {
	g := ls.group
	rowOffset := 0
	for b := 0; b < t.BeginIdx; b++ {
		rowOffset += g.rows[b].Card()
	}

	outTypes := make([]common.LType, 0, len(g.rows[0].Data)+len(ls.specs))
	outTypes = append(outTypes, columnTypes(g.rows[0])...)
	for _, spec := range ls.specs {
		outTypes = append(outTypes, spec.ReturnType())
	}

	var blocks []*chunk.Chunk
	for b := t.BeginIdx; b < t.EndIdx; b++ {
		block := g.rows[b]
		count := block.Card()

		out := &chunk.Chunk{}
		out.Init(outTypes, count)
		out.ReferenceIndice(block, passthroughIndice(len(block.Data)))
		out.SetCard(count)

		for si, spec := range ls.specs {
			argIdx := spec.ArgColumnIndex()
			rc := newRowChunk(block.Data[argIdx], count)
			ov := &OutVector{Vector: out.Data[len(block.Data)+si]}
			spec.Evaluate(rowOffset, rc, ov, ls.lstates[si], ls.gestates[si])
		}

		blocks = append(blocks, out)
		rowOffset += count
	}

	merged := mergeChunks(blocks, outTypes)
	batchIdx := int64(g.batchBase + t.BeginIdx)
	return merged, batchIdx, nil
}

// finishTask reports task completion to the GlobalSource, which frees
// the HashGroup's memory on the last outstanding task (spec.md §4.4).
func (ls *LocalSource) finishTask(t *Task) {
	ls.source.FinishTask(t)
}

func columnTypes(c *chunk.Chunk) []common.LType {
	types := make([]common.LType, len(c.Data))
	for i, v := range c.Data {
		types[i] = v.Typ()
	}
	return types
}

func passthroughIndice(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// mergeChunks concatenates per-block output chunks row-wise into one
// chunk, since callers expect GetData to hand back a task's full
// [begin_idx, end_idx) range as a single result.
func mergeChunks(blocks []*chunk.Chunk, types []common.LType) *chunk.Chunk {
	if len(blocks) == 0 {
		out := &chunk.Chunk{}
		out.Init(types, 0)
		return out
	}
	if len(blocks) == 1 {
		return blocks[0]
	}
	total := 0
	for _, b := range blocks {
		total += b.Card()
	}
	out := &chunk.Chunk{}
	out.Init(types, total)
	row := 0
	for _, b := range blocks {
		for r := 0; r < b.Card(); r++ {
			for col := range types {
				out.Data[col].SetValue(row, b.Data[col].GetValue(r))
			}
			row++
		}
	}
	out.SetCard(total)
	return out
}

// workerLoop is the per-goroutine driver: pull a task, dispatch on its
// stage, emit output chunks for GetData tasks, and park via
// GlobalSource.WaitForTask when nothing is ready yet (spec.md §5's
// block-and-wake worker contract).
func (ls *LocalSource) workerLoop(emit func(*chunk.Chunk, int64) error) error {
	gid := goid.Get()
	for {
		t, done := ls.source.WaitForTask()
		if done {
			return nil
		}
		ls.source.UpdateBlockedTasks(false, gid)
		ls.bindGroup(t)

		switch t.Stage {
		case stageSink:
			if err := ls.runSink(t); err != nil {
				return fmt.Errorf("%w: sink task for group %d: %v", ErrExecutor, t.Group, err)
			}
		case stageFinalize:
			if err := ls.runFinalize(t); err != nil {
				return fmt.Errorf("%w: finalize task for group %d: %v", ErrExecutor, t.Group, err)
			}
		case stageGetData:
			out, batchIdx, err := ls.runGetData(t)
			if err != nil {
				return fmt.Errorf("%w: get_data task for group %d: %v", ErrExecutor, t.Group, err)
			}
			ls.source.addReturned(out.Card())
			if err := emit(out, batchIdx); err != nil {
				return err
			}
		}
		ls.finishTask(t)
	}
}
