package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/task"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

type snapshot struct {
	step     int32
	vehicles int
	lights   [entity.HeadingCount]bool
	since    [entity.HeadingCount]float64
	spawned  int
}

func snap(ctx *task.Context) snapshot {
	s := snapshot{
		step:     ctx.Clock().InternalStep,
		vehicles: ctx.VehicleManager().Len(),
		spawned:  ctx.Spawned(),
	}
	for _, h := range entity.Headings {
		s.lights[h] = ctx.Junction().IsGo(h)
		s.since[h] = ctx.Junction().SinceToggle(h)
	}
	return s
}

func TestNewContextRejectsInvalidConfig(t *testing.T) {
	c := config.Default()
	c.World.Width = 0
	_, err := task.NewContext(c)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestResetIsIdempotent(t *testing.T) {
	ctx, err := task.NewContext(config.Default())
	require.NoError(t, err)
	ctx.Junction().Toggle(entity.North)
	for i := 0; i < 500; i++ {
		ctx.Update()
	}
	require.NotZero(t, ctx.VehicleManager().Len())

	ctx.Reset()
	first := snap(ctx)
	ctx.Reset()
	second := snap(ctx)

	assert.Equal(t, first, second)
	assert.Equal(t, 0, first.vehicles)
	assert.Equal(t, [entity.HeadingCount]bool{true, true, true, true}, first.lights)
	assert.Equal(t, [entity.HeadingCount]float64{}, first.since)
	// 重置后首次切换立即生效
	assert.True(t, ctx.Junction().Toggle(entity.South))
}

func TestResetReplaysSameEpisode(t *testing.T) {
	ctx, err := task.NewContext(config.Default())
	require.NoError(t, err)
	run := func() []entity.Heading {
		ctx.Reset()
		for i := 0; i < 1000; i++ {
			ctx.Update()
		}
		var hs []entity.Heading
		for _, v := range ctx.Vehicles() {
			hs = append(hs, v.Heading())
		}
		return hs
	}
	assert.Equal(t, run(), run())
}

func TestPassedIsMonotone(t *testing.T) {
	c := config.Default()
	c.Spawn.Interval = 0.5
	ctx, err := task.NewContext(c)
	require.NoError(t, err)

	passed := map[int32]bool{}
	for i := 0; i < 3000; i++ {
		// 周期性切换信号，制造停车与放行
		if i%150 == 0 {
			for _, h := range entity.Headings {
				ctx.Junction().Toggle(h)
			}
		}
		ctx.Update()
		for _, v := range ctx.Vehicles() {
			if passed[v.ID()] {
				require.True(t, v.Passed(), "vehicle %v lost its passed flag", v)
			}
			passed[v.ID()] = v.Passed()
		}
	}
	assert.NotEmpty(t, passed)
}

func TestWaitingTimeIsMonotone(t *testing.T) {
	ctx, err := task.NewContext(config.Default())
	require.NoError(t, err)
	for _, h := range entity.Headings {
		ctx.Junction().Toggle(h)
	}
	last := map[int32]float64{}
	for i := 0; i < 2000; i++ {
		ctx.Update()
		for _, v := range ctx.Vehicles() {
			require.GreaterOrEqual(t, v.WaitingTime(), last[v.ID()])
			last[v.ID()] = v.WaitingTime()
		}
	}
}

func TestRedLightHoldsQueue(t *testing.T) {
	c := config.Default()
	c.Spawn.Interval = 1e6
	ctx, err := task.NewContext(c)
	require.NoError(t, err)
	ctx.Junction().Toggle(entity.East)
	v := ctx.AddVehicle(entity.East, entity.Point{X: 300, Y: 425})
	for i := 0; i < 200; i++ {
		ctx.Update()
	}
	// 车辆在停车窗口起点（310）处停下
	assert.Equal(t, 310., v.Position().X)
	assert.False(t, v.Passed())
	assert.Equal(t, [entity.HeadingCount]int{1, 0, 0, 0}, ctx.VehicleManager().QueueLengths())
}
