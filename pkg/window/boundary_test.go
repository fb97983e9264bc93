package window

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daviszhen/parwin/pkg/util"
)

func TestBoundaryStartsAlwaysIncludesZero(t *testing.T) {
	mask := &util.Bitmap{}
	mask.SetAllInvalid(5)
	starts := boundaryStarts(mask, 5)
	require.Equal(t, []int{0}, starts)
}

func TestBoundaryStartsFollowsMaskBits(t *testing.T) {
	mask := &util.Bitmap{}
	mask.SetAllInvalid(6)
	mask.SetValid(2)
	mask.SetValid(4)
	starts := boundaryStarts(mask, 6)
	require.Equal(t, []int{0, 2, 4}, starts)

	require.Equal(t, 2, rangeEnd(starts, 0, 6))
	require.Equal(t, 4, rangeEnd(starts, 1, 6))
	require.Equal(t, 6, rangeEnd(starts, 2, 6))
}

func TestBoundaryStartsEmpty(t *testing.T) {
	require.Nil(t, boundaryStarts(nil, 0))
}
