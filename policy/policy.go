// 脚本化信控策略，在没有学习器时驱动环境
package policy

import (
	"errors"
	"fmt"

	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/env"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

var (
	ErrUnknownPolicy = errors.New("unknown policy")
)

// Policy 信控策略
type Policy interface {
	Name() string
	// Reset 回合开始时重置内部计时
	Reset()
	// Act 根据观测给出动作，dt为距上次调用经过的仿真时间
	Act(o env.Observation, dt float64) int32
}

// New 按名字创建策略，参数取自命令行
// 参数：name-策略名（fixed | max_pressure | random | noop），scheme-动作编码方案，seed-随机策略的种子
func New(name string, scheme string, seed uint64) (Policy, error) {
	switch name {
	case "fixed":
		return NewFixedCycle(scheme, *phaseTime), nil
	case "max_pressure":
		return NewMaxPressure(scheme, *mpPhaseTime, *mpAllRedTime, *maxRepeatCount), nil
	case "random":
		return NewRandom(scheme, seed), nil
	case "noop":
		return NewNoOp(scheme), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// pattern 期望的信号组合，按entity.Headings顺序，true为放行
type pattern [entity.HeadingCount]bool

var (
	patternNorthSouth = pattern{entity.North: true, entity.South: true}
	patternEastWest   = pattern{entity.East: true, entity.West: true}
	patternAllStop    = pattern{}
)

// patternAction 给出使信号趋近期望组合的动作
// 算法说明：
// 1. 掩码方案：直接由南北、东西的期望状态构造掩码
// 2. 离散方案：每步只能切换一个信号，优先把应停止的信号切为停止，再把应放行的切为放行；
// 已与期望一致时不操作。切换被保持时间拒绝时下一步会再次尝试
func patternAction(scheme string, o env.Observation, want pattern) int32 {
	if scheme == config.SchemeBitmask {
		return env.Mask(want[entity.North], want[entity.East])
	}
	for _, h := range entity.Headings {
		if o.Go[h] && !want[h] {
			return env.ToggleAction(h)
		}
	}
	for _, h := range entity.Headings {
		if !o.Go[h] && want[h] {
			return env.ToggleAction(h)
		}
	}
	return env.ActionNoOp
}

// NoOp 从不切换信号
type NoOp struct {
	scheme string
}

func NewNoOp(scheme string) *NoOp {
	return &NoOp{scheme: scheme}
}

func (p *NoOp) Name() string { return "noop" }

func (p *NoOp) Reset() {}

// Act 离散方案返回不操作；掩码方案返回与当前信号一致的掩码
func (p *NoOp) Act(o env.Observation, dt float64) int32 {
	if p.scheme == config.SchemeBitmask {
		return env.Mask(o.Go[entity.North], o.Go[entity.East])
	}
	return env.ActionNoOp
}
