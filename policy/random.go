package policy

import (
	"github.com/tsinghua-fib-lab/crossing-sim/env"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/randengine"
)

// Random 均匀随机选择合法动作
type Random struct {
	scheme    string
	seed      uint64
	generator *randengine.Engine
}

func NewRandom(scheme string, seed uint64) *Random {
	return &Random{scheme: scheme, seed: seed, generator: randengine.New(seed)}
}

func (p *Random) Name() string { return "random" }

// Reset 重置随机序列，使每个回合的动作序列相同
func (p *Random) Reset() {
	p.generator.Reseed(p.seed)
}

func (p *Random) Act(o env.Observation, dt float64) int32 {
	return int32(p.generator.IntnSafe(int(env.ActionCount(p.scheme))))
}
