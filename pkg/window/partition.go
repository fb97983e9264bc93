package window

import (
	"sort"
	"sync"

	"github.com/daviszhen/parwin/pkg/chunk"
	"github.com/daviszhen/parwin/pkg/common"
	"github.com/daviszhen/parwin/pkg/util"
)

// partitioner is the upstream "partition/sort subsystem" collaborator
// spec.md treats as external (§1, §6): it hashes incoming rows into
// bins by partition key, locally sorts each bin by partition+order
// keys, and exposes the boundary-mask/merge hooks HashGroup and
// GlobalSink consume. Grounded on pkg/compute/aggregate_hash.go's
// bin-assignment idea and pkg/chunk/hash.go's hash functions; see
// DESIGN.md for why the sort itself is Value-based rather than the
// unsafe-pointer radix sort in pkg/compute/sort_local.go.
type partitioner struct {
	payloadTypes    []common.LType
	partitionKeyIdx []int
	orderKeyIdx     []int
	numBins         int

	mu      sync.Mutex
	rawRows [][][]chunk.Value // [bin][row][col]

	sortedRows     [][][]chunk.Value // [bin][row][col], set by Sort()
	sorted         bool
	totalRowCount  int
	unhashedSingle bool // true if numBins == 1 (single unhashed partition path)
}

func newPartitioner(payloadTypes []common.LType, partitionKeyIdx, orderKeyIdx []int, numBins int) *partitioner {
	if numBins < 1 {
		numBins = 1
	}
	p := &partitioner{
		payloadTypes:    payloadTypes,
		partitionKeyIdx: partitionKeyIdx,
		orderKeyIdx:     orderKeyIdx,
		numBins:         numBins,
		unhashedSingle:  numBins == 1,
	}
	p.rawRows = make([][][]chunk.Value, numBins)
	return p
}

// Sink hashes the partition-key columns of c and appends each row to
// its bin's pending row buffer.
func (p *partitioner) Sink(c *chunk.Chunk) error {
	count := c.Card()
	if count == 0 {
		return nil
	}
	p.totalRowCount += count

	bins := make([]int, count)
	if p.unhashedSingle || len(p.partitionKeyIdx) == 0 {
		// single unhashed partition: every row goes to bin 0.
	} else {
		hashVec := chunk.NewVector2(common.UbigintType(), count)
		chunk.HashTypeSwitch(c.Data[p.partitionKeyIdx[0]], hashVec, nil, count, false)
		for _, ki := range p.partitionKeyIdx[1:] {
			chunk.CombineHashTypeSwitch(hashVec, c.Data[ki], nil, count, false)
		}
		hashes := chunk.GetSliceInPhyFormatFlat[uint64](hashVec)
		for i := 0; i < count; i++ {
			bins[i] = int(hashes[i] % uint64(p.numBins))
		}
	}

	ncols := len(p.payloadTypes)
	rows := make([][]chunk.Value, count)
	for i := 0; i < count; i++ {
		row := make([]chunk.Value, ncols)
		for col := 0; col < ncols; col++ {
			row[col] = *c.Data[col].GetValue(i)
		}
		rows[i] = row
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 0; i < count; i++ {
		b := bins[i]
		p.rawRows[b] = append(p.rawRows[b], rows[i])
	}
	return nil
}

// HasMergeTasks reports whether any bin holds more than one row —
// i.e. whether a real multi-partition sort is needed at all.
func (p *partitioner) HasMergeTasks() bool {
	for _, bin := range p.rawRows {
		if len(bin) > 0 {
			return true
		}
	}
	return false
}

// OnBeginMerge performs the per-bin local sort by partition+order key
// columns. Called once, single-threaded, before GlobalSource begins
// generating tasks.
func (p *partitioner) OnBeginMerge() {
	p.sortedRows = make([][][]chunk.Value, p.numBins)
	keyIdx := append(append([]int{}, p.partitionKeyIdx...), p.orderKeyIdx...)
	for b, rows := range p.rawRows {
		cp := make([][]chunk.Value, len(rows))
		copy(cp, rows)
		sort.SliceStable(cp, func(i, j int) bool {
			return rowLess(cp[i], cp[j], keyIdx)
		})
		p.sortedRows[b] = cp
	}
	p.sorted = true
}

// OnSortedPartition returns the sorted row set for bin i, or nil if
// empty.
func (p *partitioner) OnSortedPartition(i int) [][]chunk.Value {
	if !p.sorted || i >= len(p.sortedRows) {
		return nil
	}
	return p.sortedRows[i]
}

// ComputeMasks fills partitionMask/orderMask with boundary bits for
// bin i's sorted rows. orderArity is the p+o arity this mask is sized
// for; when it's larger than this partitioner's own p+o, the extra
// trailing key columns are not distinguished (callers with a larger
// arity than the partitioner's own sort key see every row as its own
// peer group beyond the sorted prefix — out of scope per spec.md §1).
func (p *partitioner) ComputeMasks(rows [][]chunk.Value, partitionMask, orderMask *util.Bitmap, orderArity int) {
	count := len(rows)
	if count == 0 {
		return
	}
	partitionMask.SetAllInvalid(count)
	orderMask.SetAllInvalid(count)
	partitionMask.SetValid(0)
	orderMask.SetValid(0)
	for i := 1; i < count; i++ {
		if rowLess(rows[i-1], rows[i], p.partitionKeyIdx) || rowLess(rows[i], rows[i-1], p.partitionKeyIdx) {
			partitionMask.SetValid(uint64(i))
			orderMask.SetValid(uint64(i))
			continue
		}
		orderArityIdx := append(append([]int{}, p.partitionKeyIdx...), p.orderKeyIdx...)
		if orderArity < len(orderArityIdx) {
			orderArityIdx = orderArityIdx[:orderArity]
		}
		if rowLess(rows[i-1], rows[i], orderArityIdx) || rowLess(rows[i], rows[i-1], orderArityIdx) {
			orderMask.SetValid(uint64(i))
		}
	}
}

func rowLess(a, b []chunk.Value, keyIdx []int) bool {
	for _, k := range keyIdx {
		c := compareValues(&a[k], &b[k])
		if c != 0 {
			return c < 0
		}
	}
	return false
}

func compareValues(a, b *chunk.Value) int {
	if a.IsNull != b.IsNull {
		if a.IsNull {
			return -1
		}
		return 1
	}
	if a.IsNull {
		return 0
	}
	switch a.Typ.GetInternalType() {
	case common.DOUBLE, common.FLOAT:
		switch {
		case a.F64 < b.F64:
			return -1
		case a.F64 > b.F64:
			return 1
		default:
			return 0
		}
	case common.VARCHAR:
		switch {
		case a.Str < b.Str:
			return -1
		case a.Str > b.Str:
			return 1
		default:
			return 0
		}
	default:
		switch {
		case a.I64 < b.I64:
			return -1
		case a.I64 > b.I64:
			return 1
		default:
			return 0
		}
	}
}
