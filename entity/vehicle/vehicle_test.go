package vehicle_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossing-sim/task"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

// newContext 创建不会自动生成车辆的仿真上下文
func newContext(t *testing.T, mutate func(c *config.Config)) *task.Context {
	t.Helper()
	c := config.Default()
	c.Spawn.Interval = 1e6
	if mutate != nil {
		mutate(&c)
	}
	ctx, err := task.NewContext(c)
	require.NoError(t, err)
	return ctx
}

func TestFollowingVehicleWaits(t *testing.T) {
	ctx := newContext(t, nil)
	leader := ctx.AddVehicle(entity.East, entity.Point{X: 110, Y: 425})
	trailer := ctx.AddVehicle(entity.East, entity.Point{X: 100, Y: 425})

	ctx.Update()

	assert.Equal(t, 111., leader.Position().X)
	assert.Equal(t, 100., trailer.Position().X)
	assert.Equal(t, 0., trailer.Speed())
	assert.InDelta(t, ctx.Clock().DT, trailer.WaitingTime(), 1e-12)
	assert.Equal(t, 0., leader.WaitingTime())
}

func TestFollowingIgnoresVehicleBehind(t *testing.T) {
	ctx := newContext(t, nil)
	// 后车插入在前，前车看不到身后的车
	back := ctx.AddVehicle(entity.West, entity.Point{X: 700, Y: 375})
	front := ctx.AddVehicle(entity.West, entity.Point{X: 690, Y: 375})

	ctx.Update()

	assert.Equal(t, 689., front.Position().X)
	assert.Equal(t, 700., back.Position().X)
}

func TestFollowingIgnoresOtherHeadings(t *testing.T) {
	ctx := newContext(t, nil)
	v := ctx.AddVehicle(entity.South, entity.Point{X: 375, Y: 100})
	ctx.AddVehicle(entity.North, entity.Point{X: 375, Y: 105})

	ctx.Update()

	assert.Equal(t, 101., v.Position().Y)
}

func TestMovementPerHeading(t *testing.T) {
	ctx := newContext(t, nil)
	start := map[entity.Heading]entity.Point{
		entity.East:  {X: 10, Y: 425},
		entity.North: {X: 425, Y: 790},
		entity.West:  {X: 790, Y: 375},
		entity.South: {X: 375, Y: 10},
	}
	want := map[entity.Heading]entity.Point{
		entity.East:  {X: 11, Y: 425},
		entity.North: {X: 425, Y: 789},
		entity.West:  {X: 789, Y: 375},
		entity.South: {X: 375, Y: 11},
	}
	vs := lo.MapValues(start, func(p entity.Point, h entity.Heading) *vehicle.Vehicle {
		return ctx.AddVehicle(h, p)
	})

	ctx.Update()

	for h, v := range vs {
		assert.Equal(t, want[h], v.Position(), "%v", h)
	}
}

func TestSameHeadingNeverCollides(t *testing.T) {
	ctx := newContext(t, nil)
	ctx.AddVehicle(entity.East, entity.Point{X: 100, Y: 425})
	ctx.AddVehicle(entity.East, entity.Point{X: 100, Y: 425})
	ctx.AddVehicle(entity.East, entity.Point{X: 101, Y: 425})
	assert.False(t, ctx.DetectCollision())
}

func TestCollisionIffCloserThanRadii(t *testing.T) {
	cases := []struct {
		name string
		dx   float64
		want bool
	}{
		{"overlap", 19.9, true},
		{"touching", 20, false},
		{"apart", 25, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newContext(t, nil)
			ctx.AddVehicle(entity.East, entity.Point{X: 400, Y: 400})
			ctx.AddVehicle(entity.South, entity.Point{X: 400 + tc.dx, Y: 400})
			assert.Equal(t, tc.want, ctx.DetectCollision())
		})
	}
}

func TestSpawnInterval(t *testing.T) {
	ctx := newContext(t, func(c *config.Config) {
		c.Spawn.Interval = 2
		c.Control.Step.Interval = 0.5
	})
	// 间隔4步，距上次生成严格超过4步才生成
	for i := 1; i <= 4; i++ {
		ctx.Update()
		assert.Equal(t, 0, ctx.VehicleManager().Len(), "step %d", i)
	}
	ctx.Update()
	require.Equal(t, 1, ctx.VehicleManager().Len())
	v := ctx.Vehicles()[0]
	assert.Equal(t, ctx.World().SpawnPoint(v.Heading()), v.Position())
	assert.Equal(t, 0., v.WaitingTime())
	assert.False(t, v.Passed())

	for i := 0; i < 4; i++ {
		ctx.Update()
	}
	assert.Equal(t, 1, ctx.VehicleManager().Len())
	ctx.Update()
	assert.Equal(t, 2, ctx.VehicleManager().Len())
	assert.Equal(t, 2, ctx.Spawned())
}

func TestSpawnWeights(t *testing.T) {
	ctx := newContext(t, func(c *config.Config) {
		c.Spawn.Interval = 1.0 / 60
		c.Spawn.Weights = []float64{0, 0, 1, 0}
	})
	for i := 0; i < 20; i++ {
		ctx.Update()
	}
	require.NotZero(t, ctx.VehicleManager().Len())
	for _, v := range ctx.Vehicles() {
		assert.Equal(t, entity.West, v.Heading())
	}
}

func TestDespawnPastExit(t *testing.T) {
	ctx := newContext(t, nil)
	ctx.AddVehicle(entity.East, entity.Point{X: 799.5, Y: 425})
	ctx.AddVehicle(entity.North, entity.Point{X: 425, Y: 0.5})
	stay := ctx.AddVehicle(entity.West, entity.Point{X: 1, Y: 375})

	ctx.Update()

	assert.Equal(t, []*vehicle.Vehicle{stay}, ctx.Vehicles())
	ctx.Update()
	ctx.Update()
	assert.Empty(t, ctx.Vehicles())
}

func TestQueueAndWaiting(t *testing.T) {
	ctx := newContext(t, nil)
	require.True(t, ctx.Junction().Toggle(entity.East))
	ctx.AddVehicle(entity.East, entity.Point{X: 340, Y: 425})
	ctx.AddVehicle(entity.East, entity.Point{X: 100, Y: 425})
	ctx.AddVehicle(entity.South, entity.Point{X: 375, Y: 500})

	ctx.Update()

	q := ctx.VehicleManager().QueueLengths()
	assert.Equal(t, [entity.HeadingCount]int{2, 0, 0, 0}, q)
	assert.InDelta(t, ctx.Clock().DT, ctx.VehicleManager().TotalWaitingTime(), 1e-12)
}
