package config

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v2"
)

// 动作编码方案
const (
	SchemeDiscrete = "discrete" // 5个离散动作：切换北/南/西/东信号灯或不操作
	SchemeBitmask  = "bitmask"  // 2位掩码：bit0控制南北，bit1控制东西
)

var (
	ErrInvalid = errors.New("invalid config")
)

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：校验配置并创建运行时配置对象
// 参数：config-原始配置对象
// 返回：运行时配置指针，配置非法时返回错误
// 说明：所有致命的配置问题只在初始化时检查一次，不在每步中检查
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &RuntimeConfig{
		All: config,
		C:   config.Control,
	}, nil
}

// Default 默认配置
// 功能：返回一份完整可用的默认配置
// 说明：800x800的世界，60Hz步长，每2秒生成一辆车，信号灯最短保持2秒
func Default() Config {
	return Config{
		World: World{
			Width:     800,
			Height:    800,
			RoadWidth: 100,
		},
		Vehicle: Vehicle{
			Speed:          1,
			Radius:         10,
			FollowDistance: 20,
		},
		Junction: Junction{
			StopZone: 40,
			MinDwell: 2,
		},
		Spawn: Spawn{
			Interval: 2,
		},
		Control: Control{
			Step: ControlStep{
				Start:    0,
				Total:    36000,
				Interval: 1.0 / 60,
			},
		},
		Env: Env{
			ActionScheme:     SchemeDiscrete,
			StepCost:         1,
			CollisionPenalty: 100,
			QueuePenalty:     10,
			QueueThreshold:   20,
			EpisodeSeconds:   20,
		},
	}
}

// Parse 解析YAML配置
// 功能：在默认配置的基础上严格解析YAML数据并校验
// 参数：data-YAML数据
// 返回：解析后的配置，解析或校验失败时返回错误
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Validate 校验配置
// 功能：检查所有会导致仿真状态不一致的配置项
// 返回：第一个发现的问题，全部合法时返回nil
// 说明：生成点由世界几何推导，因此世界尺寸与道路宽度合法即保证生成点坐标非负且位于世界边界上
func (c Config) Validate() error {
	w := c.World
	if !positive(w.Width) || !positive(w.Height) {
		return invalid("world size %vx%v must be positive", w.Width, w.Height)
	}
	if !positive(w.RoadWidth) || w.RoadWidth >= math.Min(w.Width, w.Height) {
		return invalid("road width %v must be positive and smaller than the world", w.RoadWidth)
	}
	v := c.Vehicle
	if v.Speed < 0 || math.IsNaN(v.Speed) {
		return invalid("vehicle speed %v must be non-negative", v.Speed)
	}
	if !positive(v.Radius) {
		return invalid("vehicle radius %v must be positive", v.Radius)
	}
	if v.FollowDistance < 0 || math.IsNaN(v.FollowDistance) {
		return invalid("follow distance %v must be non-negative", v.FollowDistance)
	}
	j := c.Junction
	if j.StopZone < 0 || math.IsNaN(j.StopZone) {
		return invalid("stop zone %v must be non-negative", j.StopZone)
	}
	// 停车判定只看每步开始时的位置，窗口短于每步移动距离时车辆可能一步越过停车线
	if v.Speed > 0 && (j.StopZone <= 0 || j.StopZone < v.Speed) {
		return invalid("stop zone %v must be positive and no shorter than the vehicle speed %v per step", j.StopZone, v.Speed)
	}
	if j.MinDwell < 0 || math.IsNaN(j.MinDwell) {
		return invalid("min dwell %v must be non-negative", j.MinDwell)
	}
	if !positive(c.Spawn.Interval) {
		return invalid("spawn interval %v must be positive", c.Spawn.Interval)
	}
	if ws := c.Spawn.Weights; len(ws) > 0 {
		if len(ws) != 4 {
			return invalid("spawn weights must have 4 entries (east, north, west, south), got %d", len(ws))
		}
		sum := 0.
		for _, w := range ws {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return invalid("spawn weight %v must be non-negative", w)
			}
			sum += w
		}
		if sum <= 0 {
			return invalid("spawn weights must not all be zero")
		}
	}
	s := c.Control.Step
	if !positive(s.Interval) {
		return invalid("step interval %v must be positive", s.Interval)
	}
	if s.Start < 0 || s.Total < 0 {
		return invalid("step range start=%d total=%d must be non-negative", s.Start, s.Total)
	}
	e := c.Env
	switch e.ActionScheme {
	case SchemeDiscrete, SchemeBitmask:
	default:
		return invalid("unknown action scheme %q", e.ActionScheme)
	}
	if e.QueueThreshold < 0 || e.MaxPopulation < 0 || e.EpisodeSeconds < 0 {
		return invalid("queue threshold, max population and episode seconds must be non-negative")
	}
	if c.Output.URI != "" && (c.Output.DB == "" || c.Output.Col == "") {
		return invalid("output db and col are required when output uri is set")
	}
	return nil
}
