package env

import (
	"fmt"

	"github.com/tsinghua-fib-lab/crossing-sim/task"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

// Reason 回合结束原因
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonCollision     Reason = "collision"      // 不同方向车辆碰撞
	ReasonTimeout       Reason = "timeout"        // 达到回合最长仿真时间
	ReasonPopulationCap Reason = "population_cap" // 车辆数超过上限
)

// StepResult 单步结果
type StepResult struct {
	Observation Observation
	Reward      float64
	Collision   bool
	Done        bool
	Reason      Reason
	Malformed   bool // 动作非法，已按不操作处理
}

// EpisodeStats 回合统计
type EpisodeStats struct {
	Episode        int     // 回合序号，从0开始
	Ticks          int32   // 本回合推进的步数
	SimTime        float64 // 本回合仿真时间（秒）
	Return         float64 // 累计奖励
	Reason         Reason  // 结束原因，进行中为空
	PeakPopulation int     // 最大车辆数
	Spawned        int     // 生成的车辆数
	Collisions     int     // 碰撞步数
}

// Environment 强化学习环境
// 功能：在仿真之上提供观测编码、动作解码、奖励计算与回合终止判定
// 说明：动作编码方案在创建时确定，之后不可更改；回合结束后由调用方调用Reset
type Environment struct {
	ctx    *task.Context
	cfg    config.Env
	scheme string

	maxTicks int32 // 回合最长步数，0表示不限制

	episodes int // 已开始的回合数
	stats    EpisodeStats
	last     Observation
}

// New 创建环境
// 参数：c-全部配置
// 返回：已重置的环境；配置非法时返回错误
func New(c config.Config) (*Environment, error) {
	ctx, err := task.NewContext(c)
	if err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	e := &Environment{
		ctx:      ctx,
		cfg:      c.Env,
		scheme:   c.Env.ActionScheme,
		maxTicks: ctx.Clock().StepsFor(c.Env.EpisodeSeconds),
	}
	e.Reset()
	return e, nil
}

// Scheme 动作编码方案
func (e *Environment) Scheme() string {
	return e.scheme
}

// Context 底层仿真上下文
func (e *Environment) Context() *task.Context {
	return e.ctx
}

// Stats 当前回合统计
func (e *Environment) Stats() EpisodeStats {
	return e.stats
}

// Observation 最近一次的观测
func (e *Environment) Observation() Observation {
	return e.last
}

// Reset 开始新回合
// 功能：清空车辆，所有信号恢复放行，返回初始观测
func (e *Environment) Reset() Observation {
	e.ctx.Reset()
	e.stats = EpisodeStats{Episode: e.episodes}
	e.episodes++
	e.last = observe(e.ctx)
	return e.last
}

// Step 执行动作并推进一步
// 算法说明：
// 1. 解码动作并切换信号，非法动作按不操作处理
// 2. 推进仿真一步
// 3. 检测碰撞并计算观测与奖励
// 4. 依次判断碰撞、车辆数上限、回合时长，得到结束原因
func (e *Environment) Step(action int32) StepResult {
	malformed := !applyAction(e.ctx.Junction(), e.scheme, action)
	if malformed {
		log.Debugf("step %d: malformed %s action %d treated as no-op", e.ctx.Clock().InternalStep, e.scheme, action)
	}
	e.ctx.Update()
	collision := e.ctx.DetectCollision()
	o := observe(e.ctx)
	r := StepResult{
		Observation: o,
		Reward:      Reward(e.cfg, o, collision),
		Collision:   collision,
		Malformed:   malformed,
	}
	e.last = o

	population := e.ctx.VehicleManager().Len()
	e.stats.Ticks++
	e.stats.SimTime = e.ctx.Clock().Elapsed()
	e.stats.Return += r.Reward
	e.stats.Spawned = e.ctx.Spawned()
	e.stats.PeakPopulation = max(e.stats.PeakPopulation, population)
	if collision {
		e.stats.Collisions++
	}

	switch {
	case collision:
		r.Reason = ReasonCollision
	case e.cfg.MaxPopulation > 0 && population > e.cfg.MaxPopulation:
		r.Reason = ReasonPopulationCap
	case e.maxTicks > 0 && e.stats.Ticks >= e.maxTicks:
		r.Reason = ReasonTimeout
	}
	if r.Reason != ReasonNone {
		r.Done = true
		e.stats.Reason = r.Reason
	}
	return r
}
