package window

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
	"github.com/daviszhen/parwin/pkg/util"
)

// SourceOrderType reports whether GetData's output chunks must be
// consumed in the order GetBatchIndex assigns them (spec.md §6).
type SourceOrderType int

const (
	NoOrder SourceOrderType = iota
	FixedOrder
)

// PhysicalWindow is the operator entry point: one GlobalSink collects
// Sink()/Finalize(), one GlobalSource schedules the resulting tasks
// across a worker pool, and Execute drives that pool to completion.
// Grounded on physical_window.cpp's PhysicalWindow.
type PhysicalWindow struct {
	specs        []ExecutorSpec
	payloadTypes []common.LType
	numThreads   int

	sink   *GlobalSink
	source *GlobalSource

	mu      sync.Mutex
	started bool
}

// NewPhysicalWindow constructs the operator for one window partition
// (one PARTITION BY/ORDER BY clause, possibly several window
// expressions sharing it — spec.md §1/§2). numThreads caps worker
// parallelism; values below 1 are clamped to 1.
func NewPhysicalWindow(specs []ExecutorSpec, payloadTypes []common.LType, partitionKeyIdx, orderKeyIdx []int, numBins, numThreads int) *PhysicalWindow {
	if numThreads < 1 {
		numThreads = 1
	}
	return &PhysicalWindow{
		specs:        specs,
		payloadTypes: payloadTypes,
		numThreads:   numThreads,
		sink:         NewGlobalSink(specs, payloadTypes, partitionKeyIdx, orderKeyIdx, numBins),
	}
}

// Sink ingests one upstream chunk. Safe to call concurrently from
// several upstream producers (spec.md §4.1).
func (pw *PhysicalWindow) Sink(c *chunk.Chunk) error {
	return pw.sink.Sink(c)
}

// Finalize completes the sort/partition step and builds the task
// schedule. Must be called exactly once, after every Sink call has
// returned, before Execute (spec.md §4.3).
func (pw *PhysicalWindow) Finalize() (FinalizeVerdict, error) {
	verdict, err := pw.sink.Finalize()
	if err != nil {
		return NoOutputPossible, err
	}
	if verdict == Ready {
		pw.source = NewGlobalSource(pw.sink.groups, pw.numThreads)
	}
	return verdict, nil
}

// Execute runs the worker pool to completion, invoking emit once per
// produced output chunk with its batch index. A callback-style
// GetData replaces DuckDB's pull-based GetData/GetBatchIndex pair: the
// batch index spec.md §6 calls GetBatchIndex(chunk) arrives as emit's
// second argument instead of a separate accessor. emit must be safe
// for concurrent invocation from multiple workers; a non-nil return
// stops every worker and is propagated to the caller (spec.md §7
// cancellation).
func (pw *PhysicalWindow) Execute(emit func(*chunk.Chunk, int64) error) (err error) {
	pw.mu.Lock()
	if pw.started {
		pw.mu.Unlock()
		return fmt.Errorf("%w: Execute called more than once", ErrInternal)
	}
	pw.started = true
	pw.mu.Unlock()

	if pw.source == nil {
		return nil
	}

	var emitMu sync.Mutex
	safeEmit := func(c *chunk.Chunk, batch int64) error {
		emitMu.Lock()
		defer emitMu.Unlock()
		return emit(c, batch)
	}

	threads := pw.source.MaxThreads()
	if threads > pw.numThreads {
		threads = pw.numThreads
	}
	if threads < 1 {
		threads = 1
	}

	var wg errgroup.Group
	for i := 0; i < threads; i++ {
		wg.Go(func() (retErr error) {
			defer func() {
				if r := recover(); r != nil {
					retErr = util.ConvertPanicError(r)
				}
			}()
			ls := newLocalSource(pw.sink, pw.source)
			if werr := ls.workerLoop(safeEmit); werr != nil {
				pw.source.Stop()
				return werr
			}
			return nil
		})
	}
	return wg.Wait()
}

// SupportsBatchIndex mirrors GlobalSink's verdict: true only for the
// single unhashed, ordered partition case (spec.md §5).
func (pw *PhysicalWindow) SupportsBatchIndex() bool {
	return pw.sink.SupportsBatchIndex()
}

// GetProgress reports returned/total in [0,1], or -1 before Finalize
// has produced a source (spec.md §6/§8).
func (pw *PhysicalWindow) GetProgress() float64 {
	if pw.source == nil {
		return -1
	}
	return pw.source.Progress()
}

// SourceOrder reports FixedOrder exactly when SupportsBatchIndex does,
// per spec.md §6's pairing of the two.
func (pw *PhysicalWindow) SourceOrder() SourceOrderType {
	if pw.SupportsBatchIndex() {
		return FixedOrder
	}
	return NoOrder
}

// ParamsToString renders one line per window expression name, mirrored
// from PhysicalWindow::ParamsToString.
func (pw *PhysicalWindow) ParamsToString() string {
	var b strings.Builder
	for i, spec := range pw.specs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(spec.Name())
	}
	return b.String()
}

