package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedianRTT(t *testing.T) {
	assert.Equal(t, int64(0), medianRTT(nil))
	assert.Equal(t, int64(5), medianRTT([]int64{9, 5, 1}))
	assert.Equal(t, int64(4), medianRTT([]int64{6, 2, 8, 1}))
}

func TestRemoveOutlierRTTs(t *testing.T) {
	assert.Equal(t, []int64{10, 12, 11}, removeOutlierRTTs([]int64{10, 12, 100, 11}))
	// small values are never outliers
	assert.Equal(t, []int64{1, 1, 15}, removeOutlierRTTs([]int64{1, 1, 15}))
	assert.Empty(t, removeOutlierRTTs(nil))
}
