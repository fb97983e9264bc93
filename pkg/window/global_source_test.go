package window

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daviszhen/parwin/pkg/common"
)

func buildGroups(t *testing.T, types []common.LType, rowCounts []int) []*HashGroup {
	t.Helper()
	p := newPartitioner(types, nil, []int{0}, 1)
	var groups []*HashGroup
	for _, n := range rowCounts {
		rows := make([][]int64, n)
		for i := range rows {
			rows[i] = []int64{int64(i)}
		}
		c := buildChunk(types, rows)
		require.NoError(t, p.Sink(c))
	}
	p.OnBeginMerge()
	specs := []ExecutorSpec{newRankSpec("row_number", ROW_NUMBER, 0, 1)}
	for b := 0; b < p.numBins; b++ {
		if hg := newHashGroup(p, specs, types, b); hg != nil {
			groups = append(groups, hg)
		}
	}
	return groups
}

func TestGlobalSourceTaskScheduleCoversAllStages(t *testing.T) {
	types := []common.LType{common.BigintType()}
	groups := buildGroups(t, types, []int{5})
	gs := NewGlobalSource(groups, 2)
	g := groups[0]

	var stages []windowStage
	for {
		task, done := gs.TryNextTask()
		if done {
			break
		}
		if task == nil {
			t.Fatalf("single group driven stage-by-stage should never stall")
		}
		stages = append(stages, task.Stage)
		switch task.Stage {
		case stageSink:
			g.sunk.Add(int64(g.count))
		case stageFinalize:
			g.finalized.Add(int64(task.EndIdx - task.BeginIdx))
		}
		gs.FinishTask(task)
	}
	require.Equal(t, stageSink, stages[0])
	require.Contains(t, stages, stageFinalize)
	require.Contains(t, stages, stageGetData)
}

func TestGlobalSourceFinishTaskReleasesGroupMemoryOnLastTask(t *testing.T) {
	types := []common.LType{common.BigintType()}
	groups := buildGroups(t, types, []int{3})
	gs := NewGlobalSource(groups, 1)
	g := groups[0]

	for {
		task, done := gs.TryNextTask()
		if done {
			break
		}
		if task == nil {
			t.Fatalf("single group driven stage-by-stage should never stall")
		}
		switch task.Stage {
		case stageSink:
			g.sunk.Add(int64(g.count))
		case stageFinalize:
			g.finalized.Add(int64(task.EndIdx - task.BeginIdx))
		}
		gs.FinishTask(task)
	}
	require.Nil(t, groups[0].rows)
	require.Nil(t, groups[0].gestates)
}

func TestGlobalSourceWaitForTaskUnblocksOnStageAdvance(t *testing.T) {
	types := []common.LType{common.BigintType()}
	groups := buildGroups(t, types, []int{3})
	gs := NewGlobalSource(groups, 2)

	sinkTask, done := gs.TryNextTask()
	require.False(t, done)
	require.NotNil(t, sinkTask)

	var wg sync.WaitGroup
	wg.Add(1)
	var gotTask *Task
	go func() {
		defer wg.Done()
		gotTask, _ = gs.WaitForTask()
	}()

	time.Sleep(10 * time.Millisecond)
	groups[0].sunk.Store(int64(groups[0].count))
	gs.FinishTask(sinkTask)

	wg.Wait()
	require.NotNil(t, gotTask)
	require.Equal(t, stageFinalize, gotTask.Stage)
}

func TestGlobalSourceStopWakesBlockedWorkers(t *testing.T) {
	types := []common.LType{common.BigintType()}
	groups := buildGroups(t, types, []int{1})
	gs := NewGlobalSource(groups, 1)

	// drain the sink task but never finish it, so finalize never becomes current.
	_, _ = gs.TryNextTask()

	var wg sync.WaitGroup
	wg.Add(1)
	var done bool
	go func() {
		defer wg.Done()
		_, done = gs.WaitForTask()
	}()

	time.Sleep(10 * time.Millisecond)
	gs.Stop()
	wg.Wait()
	require.True(t, done)
	require.True(t, gs.Stopped())
}

func TestGlobalSourceProgressNegativeOneWhenEmpty(t *testing.T) {
	gs := NewGlobalSource(nil, 1)
	require.Equal(t, -1.0, gs.Progress())
}
