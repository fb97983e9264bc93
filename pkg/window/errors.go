package window

import "errors"

// Error taxonomy: Internal (fatal, scheduler/invariant bugs), Upstream
// (scan/materialize/sort failures from the partition subsystem),
// Executor (from an ExecutorSpec's Sink/Finalize/Evaluate), Resource
// (buffer/allocator exhaustion). All are propagated unchanged; none is
// locally recovered. A worker observing any of them sets the
// scheduler's stopped flag, drains and wakes blocked workers, and
// re-raises.
var (
	ErrInternal = errors.New("window: internal error")
	ErrUpstream = errors.New("window: upstream partition/sort failure")
	ErrExecutor = errors.New("window: executor failure")
	ErrResource = errors.New("window: resource exhaustion")
)
