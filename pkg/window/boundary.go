package window

import "github.com/daviszhen/parwin/pkg/util"

// boundaryStarts returns the sorted, de-duplicated row indices at
// which mask has a boundary bit set (pkg/util/bitmap.go's "valid" bit
// repurposed here as "boundary" per spec.md's HashGroup data model),
// always including index 0.
func boundaryStarts(mask *util.Bitmap, count int) []int {
	if count == 0 {
		return nil
	}
	starts := make([]int, 0, 8)
	for i := 0; i < count; i++ {
		if i == 0 || mask.RowIsValid(uint64(i)) {
			starts = append(starts, i)
		}
	}
	return starts
}

// rangeEnd returns the exclusive end of the range starting at
// starts[idx].
func rangeEnd(starts []int, idx, count int) int {
	if idx+1 < len(starts) {
		return starts[idx+1]
	}
	return count
}
