package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/env"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

func sampleObservation() env.Observation {
	return env.Observation{
		Queue:        [entity.HeadingCount]int{1, 2, 3, 4},
		TotalWaiting: 5.5,
		SinceToggle:  [entity.HeadingCount]float64{0.5, 1, 1.5, 2},
		Go:           [entity.HeadingCount]bool{true, false, false, true},
	}
}

func TestObservationVectorDiscrete(t *testing.T) {
	v := sampleObservation().Vector(config.SchemeDiscrete)
	assert.Len(t, v, env.ObservationSize(config.SchemeDiscrete))
	assert.Equal(t, []float64{1, 2, 3, 4, 5.5, 0.5, 1, 1.5, 2, 1, 0, 0, 1}, v)
}

func TestObservationVectorBitmask(t *testing.T) {
	v := sampleObservation().Vector(config.SchemeBitmask)
	assert.Len(t, v, env.ObservationSize(config.SchemeBitmask))
	// 东(bit0)与南(bit3)放行
	assert.Equal(t, []float64{1, 2, 3, 4, 5.5, 9}, v)
}

func TestReward(t *testing.T) {
	c := config.Default().Env
	c.QueueThreshold = 2
	o := sampleObservation()
	assert.Equal(t, -1.-10*2, env.Reward(c, o, false))
	assert.Equal(t, -1.-100-10*2, env.Reward(c, o, true))
	assert.Equal(t, -1., env.Reward(c, env.Observation{}, false))
}
