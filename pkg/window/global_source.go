package window

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
	"go.uber.org/zap"

	"github.com/daviszhen/parwin/pkg/util"
)

// Task is a unit of work naming (stage, group, [begin_idx, end_idx))
// (spec.md §3). Tasks are generated once and never mutated structurally
// thereafter; only beginIdx advances as a worker drains its range.
type Task struct {
	Stage    windowStage
	Group    int
	MaxIdx   int
	BeginIdx int
	EndIdx   int
}

// GlobalSource is the task generator and scheduler: it holds the flat
// task queue, the blocked-worker set, and the aggregate progress
// counter. Grounded on physical_window.cpp's WindowGlobalSourceState.
type GlobalSource struct {
	groups []*HashGroup
	tasks  []*Task

	mu       sync.Mutex
	cond     *sync.Cond
	nextTask int
	blocked  map[int64]bool

	stopped  atomic.Bool
	returned atomic.Int64

	totalCount int
}

// NewGlobalSource builds the task schedule per spec.md §4.4: batch
// bases by running sum over blocks, groups ordered by block count
// descending, tasks emitted group-major then stage-major within each
// group — preserved verbatim even though spec.md §9 flags the
// apparent mismatch between "largest first" and group-major emission.
func NewGlobalSource(groups []*HashGroup, numThreads int) *GlobalSource {
	gs := &GlobalSource{groups: groups}
	gs.cond = sync.NewCond(&gs.mu)
	gs.blocked = make(map[int64]bool)

	base := 0
	for _, g := range groups {
		g.batchBase = base
		base += g.blocks
		gs.totalCount += g.count
	}

	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && groups[order[j]].blocks > groups[order[j-1]].blocks; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	maxBlocks := 0
	for _, g := range groups {
		if g.blocks > maxBlocks {
			maxBlocks = g.blocks
		}
	}
	if numThreads < 1 {
		numThreads = 1
	}
	perThread := (maxBlocks + numThreads - 1) / numThreads
	if perThread < 1 {
		perThread = 1
	}

	for _, gi := range order {
		g := groups[gi]
		if g.blocks == 0 {
			continue
		}
		for _, stage := range []windowStage{stageSink, stageFinalize, stageGetData} {
			for begin := 0; begin < g.blocks; begin += perThread {
				end := begin + perThread
				if end > g.blocks {
					end = g.blocks
				}
				gs.tasks = append(gs.tasks, &Task{
					Stage:    stage,
					Group:    gi,
					MaxIdx:   g.blocks,
					BeginIdx: begin,
					EndIdx:   end,
				})
				g.tasksRemaining.Add(1)
			}
		}
	}
	return gs
}

// MaxThreads caps parallelism at the task count.
func (gs *GlobalSource) MaxThreads() int {
	if len(gs.tasks) == 0 {
		return 1
	}
	return len(gs.tasks)
}

// TryNextTask returns (task, true) when a task was handed out or no
// work remains; it returns (nil, false) when the next task's stage
// isn't yet the current stage of its group — the caller must
// yield/block and retry (spec.md §4.4).
func (gs *GlobalSource) TryNextTask() (*Task, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.stopped.Load() || gs.nextTask >= len(gs.tasks) {
		return nil, true
	}
	t := gs.tasks[gs.nextTask]
	if gs.groups[t.Group].stage() == t.Stage {
		gs.nextTask++
		return t, true
	}
	return nil, false
}

// FinishTask decrements the task's group's tasksRemaining; on the 1->0
// transition the group's memory is released exactly once (spec.md
// §3/§4.4). Completing any task is exactly the event that can move a
// group's derived stage() forward (a Sink/Finalize task's caller
// updates sunk/finalized just before calling this), so it wakes every
// blocked worker to re-check TryNextTask rather than waiting for the
// next UpdateBlockedTasks(false, ...) call.
func (gs *GlobalSource) FinishTask(t *Task) {
	g := gs.groups[t.Group]
	if g.tasksRemaining.Add(-1) == 0 {
		util.AssertFunc(g.blocks >= 0)
		g.rows = nil
		g.gestates = nil
		g.orderMasks = nil
		g.partitionMask = util.Bitmap{}
		util.Debug("window: hash group destroyed", zap.Int("bin", g.bin))
	}
	gs.cond.Broadcast()
}

// UpdateBlockedTasks registers or clears the calling goroutine's
// blocked handle. blocked=false wakes every registered handle — a
// second consecutive call with no new blocked handles registered in
// between is a no-op (spec.md §8 round-trip property).
func (gs *GlobalSource) UpdateBlockedTasks(blocked bool, gid int64) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if blocked {
		gs.blocked[gid] = true
		return
	}
	if len(gs.blocked) == 0 {
		return
	}
	gs.blocked = make(map[int64]bool)
	gs.cond.Broadcast()
}

// WaitForTask implements the block-and-wake variant of spec.md §5's
// worker-level backpressure: it retries TryNextTask, parking the
// caller on gs.cond whenever the next task's stage isn't ready yet,
// until a task is granted, no work remains, or the source is stopped.
func (gs *GlobalSource) WaitForTask() (*Task, bool) {
	gid := goid.Get()
	for {
		if t, done := gs.TryNextTask(); done || t != nil {
			return t, done
		}
		gs.mu.Lock()
		if gs.stopped.Load() {
			gs.mu.Unlock()
			return nil, true
		}
		gs.blocked[gid] = true
		gs.cond.Wait()
		gs.mu.Unlock()
	}
}

// Stop sets stopped and wakes every blocked worker so it can observe
// it (spec.md §5/§7 cancellation).
func (gs *GlobalSource) Stop() {
	gs.stopped.Store(true)
	gs.mu.Lock()
	gs.blocked = make(map[int64]bool)
	gs.cond.Broadcast()
	gs.mu.Unlock()
}

func (gs *GlobalSource) Stopped() bool {
	return gs.stopped.Load()
}

// Progress returns returned/totalCount in [0,1], or -1 if totalCount
// is zero (spec.md §6/§8, mirrors physical_window.cpp's GetProgress).
func (gs *GlobalSource) Progress() float64 {
	if gs.totalCount == 0 {
		return -1
	}
	return float64(gs.returned.Load()) / float64(gs.totalCount)
}

func (gs *GlobalSource) addReturned(n int) {
	gs.returned.Add(int64(n))
}
