package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFloat(t *testing.T) {
	assert.Equal(t, int64(1150), FromFloat(11.50))
	assert.Equal(t, int64(10000), FromFloat(100.00))
	assert.Equal(t, int64(1), FromFloat(0.005))
	assert.Equal(t, int64(-1), FromFloat(-0.005))
	assert.Equal(t, int64(575), FromFloat(5.75))
}

func TestApplyBasisPoints(t *testing.T) {
	// 10% of 100.00
	assert.Equal(t, int64(1000), ApplyBasisPoints(10000, 1000))
	// 5% of 100.00
	assert.Equal(t, int64(500), ApplyBasisPoints(10000, 500))
	// 5% of 11.50 = 0.575, rounds half away from zero to 0.58
	assert.Equal(t, int64(58), ApplyBasisPoints(1150, 500))
	// 5% of 11.30 = 0.565 → 0.57
	assert.Equal(t, int64(57), ApplyBasisPoints(1130, 500))
	assert.Equal(t, int64(0), ApplyBasisPoints(0, 500))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "11.50", Format(1150))
	assert.Equal(t, "0.05", Format(5))
	assert.Equal(t, "-3.07", Format(-307))
	assert.Equal(t, "100.00", Format(10000))
}
