package config

import "strings"

// World 世界与道路几何配置
// 功能：定义有界世界区域与两条垂直相交道路的尺寸
// 说明：道路几何仅用于推导各方向的生成点、停车线与离开边界
type World struct {
	Width     float64 `yaml:"width"`      // 世界宽度
	Height    float64 `yaml:"height"`     // 世界高度（y轴向下增长）
	RoadWidth float64 `yaml:"road_width"` // 道路宽度，单车道宽度为其一半
}

// Vehicle 车辆参数配置
type Vehicle struct {
	Speed          float64 `yaml:"speed"`           // 每步移动距离（世界单位）
	Radius         float64 `yaml:"radius"`          // 车辆半径，用于碰撞检测
	FollowDistance float64 `yaml:"follow_distance"` // 跟车距离阈值，小于该距离的后车停车
}

// Junction 路口与信号灯配置
type Junction struct {
	StopZone float64 `yaml:"stop_zone"` // 停车线前的停车判定窗口长度
	MinDwell float64 `yaml:"min_dwell"` // 信号灯两次切换之间的最短保持时间（秒）
	Coupled  bool    `yaml:"coupled"`   // 对向信号灯是否联动（南北、东西各为一个相位）
}

// Spawn 车辆生成配置
type Spawn struct {
	Interval float64   `yaml:"interval"`          // 生成间隔（秒）
	Seed     uint64    `yaml:"seed"`              // 随机数种子
	Weights  []float64 `yaml:"weights,omitempty"` // 东、北、西、南四个方向的生成权重，为空表示均匀
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：控制仿真的时间范围、步长和精度
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔
}

// Control 模拟器控制配置
type Control struct {
	Step ControlStep `yaml:"step"`
}

// Env 训练环境配置
// 功能：定义观测/动作编码方案、奖励参数与回合终止条件
// 说明：动作方案在环境创建后固定，不允许混用
type Env struct {
	ActionScheme     string  `yaml:"action_scheme"`     // discrete | bitmask
	StepCost         float64 `yaml:"step_cost"`         // 每步固定代价
	CollisionPenalty float64 `yaml:"collision_penalty"` // 碰撞惩罚
	QueuePenalty     float64 `yaml:"queue_penalty"`     // 单个方向排队过长的惩罚
	QueueThreshold   int     `yaml:"queue_threshold"`   // 排队长度阈值
	MaxPopulation    int     `yaml:"max_population"`    // 车辆数上限，0表示不限制
	EpisodeSeconds   float64 `yaml:"episode_seconds"`   // 回合最长仿真时间，0表示不限制
}

// Output 回合输出配置（MongoDB）
type Output struct {
	URI string `yaml:"uri,omitempty"` // MongoDB连接字符串，为空则不输出
	DB  string `yaml:"db,omitempty"`  // 数据库名
	Col string `yaml:"col,omitempty"` // 集合名
}

// GetDb 获取数据库名
func (o Output) GetDb() string {
	return o.DB
}

// Redacted 隐去连接字符串中的用户名与密码，用于日志输出
func (o Output) Redacted() Output {
	scheme, rest, ok := strings.Cut(o.URI, "://")
	if !ok {
		return o
	}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		o.URI = scheme + "://***@" + rest[i+1:]
	}
	return o
}

// GetColl 获取集合名
func (o Output) GetColl() string {
	return o.Col
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
// 说明：包含世界、车辆、路口、生成、控制、环境与输出等所有配置项
type Config struct {
	World    World    `yaml:"world"`
	Vehicle  Vehicle  `yaml:"vehicle"`
	Junction Junction `yaml:"junction"`
	Spawn    Spawn    `yaml:"spawn"`
	Control  Control  `yaml:"control"` // 模拟过程控制
	Env      Env      `yaml:"env"`
	Output   Output   `yaml:"output,omitempty"`
}

// Redacted 可以安全写入日志的配置副本
func (c Config) Redacted() Config {
	c.Output = c.Output.Redacted()
	return c
}
