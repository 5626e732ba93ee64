package config_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

func TestDefaultIsValid(t *testing.T) {
	c := config.Default()
	assert.NoError(t, c.Validate())
	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	assert.Equal(t, c.Control, rc.C)
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := config.Parse([]byte(`
world:
  width: 600
  height: 600
  road_width: 100
junction:
  stop_zone: 30
  min_dwell: 1.5
  coupled: true
env:
  action_scheme: bitmask
`))
	require.NoError(t, err)
	assert.Equal(t, 600., c.World.Width)
	assert.Equal(t, 1.5, c.Junction.MinDwell)
	assert.True(t, c.Junction.Coupled)
	assert.Equal(t, config.SchemeBitmask, c.Env.ActionScheme)
	// 未覆盖的字段保留默认值
	assert.Equal(t, 10., c.Vehicle.Radius)
	assert.Equal(t, 2., c.Spawn.Interval)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := config.Parse([]byte("world:\n  depth: 3\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *config.Config){
		"negative width":    func(c *config.Config) { c.World.Width = -1 },
		"road too wide":     func(c *config.Config) { c.World.RoadWidth = 900 },
		"negative speed":    func(c *config.Config) { c.Vehicle.Speed = -1 },
		"zero radius":       func(c *config.Config) { c.Vehicle.Radius = 0 },
		"negative dwell":    func(c *config.Config) { c.Junction.MinDwell = -2 },
		"zero spawn":        func(c *config.Config) { c.Spawn.Interval = 0 },
		"zero dt":           func(c *config.Config) { c.Control.Step.Interval = 0 },
		"unknown scheme":    func(c *config.Config) { c.Env.ActionScheme = "both" },
		"negative cap":      func(c *config.Config) { c.Env.MaxPopulation = -1 },
		"output without db": func(c *config.Config) { c.Output.URI = "mongodb://localhost" },
		"three weights":     func(c *config.Config) { c.Spawn.Weights = []float64{1, 1, 1} },
		"all zero weights":  func(c *config.Config) { c.Spawn.Weights = []float64{0, 0, 0, 0} },
		"zero stop zone":    func(c *config.Config) { c.Junction.StopZone = 0 },
		"stop zone < speed": func(c *config.Config) { c.Vehicle.Speed = 50 },
		"nan follow":        func(c *config.Config) { c.Vehicle.FollowDistance = math.NaN() },
		"nan stop zone":     func(c *config.Config) { c.Junction.StopZone = math.NaN() },
		"nan dwell":         func(c *config.Config) { c.Junction.MinDwell = math.NaN() },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := config.Default()
			mutate(&c)
			err := c.Validate()
			assert.ErrorIs(t, err, config.ErrInvalid)
			_, err = config.NewRuntimeConfig(c)
			assert.Error(t, err)
		})
	}
}

func TestStopZoneMayEqualSpeed(t *testing.T) {
	c := config.Default()
	c.Vehicle.Speed = c.Junction.StopZone
	assert.NoError(t, c.Validate())
	// 静止车辆不需要停车窗口
	c.Vehicle.Speed = 0
	c.Junction.StopZone = 0
	assert.NoError(t, c.Validate())
}

func TestRedactedHidesCredentials(t *testing.T) {
	c := config.Default()
	c.Output = config.Output{URI: "mongodb://user:p@ss@h1:27017,h2:27017/?authSource=admin", DB: "crossing", Col: "episodes"}
	r := c.Redacted()
	assert.Equal(t, "mongodb://***@h1:27017,h2:27017/?authSource=admin", r.Output.URI)
	assert.NotContains(t, fmt.Sprintf("%+v", r), "p@ss")
	assert.Equal(t, "crossing", r.Output.DB)
	// 原配置不受影响
	assert.Contains(t, c.Output.URI, "user:p@ss")

	c.Output.URI = "mongodb://localhost:27017"
	assert.Equal(t, "mongodb://localhost:27017", c.Redacted().Output.URI)
}
