package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/randengine"
)

func draw(e *randengine.Engine, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = e.IntnSafe(4)
	}
	return out
}

func TestSameSeedSameSequence(t *testing.T) {
	a := randengine.New(42)
	b := randengine.New(42)
	assert.Equal(t, draw(a, 32), draw(b, 32))
}

func TestReseedRestartsSequence(t *testing.T) {
	e := randengine.New(7)
	first := draw(e, 16)
	e.Reseed(7)
	assert.Equal(t, first, draw(e, 16))
}

func TestDiscreteDistributionZeroWeight(t *testing.T) {
	e := randengine.New(1)
	for i := 0; i < 100; i++ {
		v := e.DiscreteDistribution([]float64{0, 1, 0, 3})
		assert.Contains(t, []int32{1, 3}, v)
	}
}

func TestPTrueBounds(t *testing.T) {
	e := randengine.New(1)
	for i := 0; i < 100; i++ {
		assert.False(t, e.PTrue(0))
		assert.True(t, e.PTrue(1))
	}
}
