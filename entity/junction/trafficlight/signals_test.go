package trafficlight_test

import (
	"testing"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/entity/junction/trafficlight"
)

func TestSignalsStartGreen(t *testing.T) {
	s := trafficlight.NewSignals(2, false, 0)
	for _, h := range entity.Headings {
		assert.True(t, s.IsGo(h))
		assert.Equal(t, mapv2.LightState_LIGHT_STATE_GREEN, s.Get(h))
		assert.Equal(t, 0., s.SinceToggle(h, 0))
	}
}

func TestToggleFirstIsAccepted(t *testing.T) {
	s := trafficlight.NewSignals(2, false, 0)
	assert.True(t, s.Toggle(entity.North, 0.5))
	assert.False(t, s.IsGo(entity.North))
	assert.Equal(t, mapv2.LightState_LIGHT_STATE_RED, s.Get(entity.North))
	// 其他进口道不受影响
	assert.True(t, s.IsGo(entity.South))
	assert.True(t, s.IsGo(entity.East))
}

func TestToggleTwiceWithinDwellIsRejected(t *testing.T) {
	s := trafficlight.NewSignals(2, false, 0)
	assert.True(t, s.Toggle(entity.West, 1))
	assert.False(t, s.Toggle(entity.West, 2.5))
	assert.False(t, s.Toggle(entity.West, 2.9))
	assert.False(t, s.IsGo(entity.West))
	assert.InDelta(t, 1.9, s.SinceToggle(entity.West, 2.9), 1e-9)

	assert.True(t, s.Toggle(entity.West, 3.5))
	assert.True(t, s.IsGo(entity.West))
}

func TestDwellIsPerSignal(t *testing.T) {
	s := trafficlight.NewSignals(2, false, 0)
	assert.True(t, s.Toggle(entity.East, 1))
	assert.True(t, s.Toggle(entity.North, 1.1))
	assert.False(t, s.Toggle(entity.East, 1.2))
}

func TestCoupledToggle(t *testing.T) {
	s := trafficlight.NewSignals(2, true, 0)
	assert.True(t, s.Coupled())
	assert.True(t, s.Toggle(entity.North, 1))
	assert.False(t, s.IsGo(entity.North))
	assert.False(t, s.IsGo(entity.South))
	assert.True(t, s.IsGo(entity.East))
	// 对向共享保持时间
	assert.False(t, s.Toggle(entity.South, 2))
	assert.True(t, s.Toggle(entity.South, 3))
	assert.True(t, s.IsGo(entity.North))
	assert.True(t, s.IsGo(entity.South))
}

func TestSignalsReset(t *testing.T) {
	s := trafficlight.NewSignals(2, false, 0)
	s.Toggle(entity.East, 1)
	s.Reset(5)
	assert.True(t, s.IsGo(entity.East))
	assert.Equal(t, 0., s.SinceToggle(entity.East, 5))
	assert.True(t, s.Toggle(entity.East, 5))
}
