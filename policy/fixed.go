package policy

import (
	"flag"

	"github.com/tsinghua-fib-lab/crossing-sim/env"
)

var (
	phaseTime = flag.Float64("policy.phase_time", 10, "固定配时策略每个相位的时长（秒）")
)

// FixedCycle 固定配时策略
// 功能：南北放行与东西放行两个相位按固定时长轮换
type FixedCycle struct {
	scheme    string
	phaseTime float64

	phases     []pattern
	index      int     // 当前相位
	remainingT float64 // 当前相位剩余时间
}

func NewFixedCycle(scheme string, phaseTime float64) *FixedCycle {
	p := &FixedCycle{
		scheme:    scheme,
		phaseTime: phaseTime,
		phases:    []pattern{patternNorthSouth, patternEastWest},
	}
	p.Reset()
	return p
}

func (p *FixedCycle) Name() string { return "fixed" }

func (p *FixedCycle) Reset() {
	p.index = 0
	p.remainingT = p.phaseTime
}

// Act 相位时间走完后切换到下一相位
func (p *FixedCycle) Act(o env.Observation, dt float64) int32 {
	p.remainingT -= dt
	if p.remainingT <= 0 {
		p.index = (p.index + 1) % len(p.phases)
		p.remainingT += p.phaseTime
		log.Debugf("fixed cycle: switch to phase %d", p.index)
	}
	return patternAction(p.scheme, o, p.phases[p.index])
}
