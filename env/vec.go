package env

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

// VecEnv 向量化环境
// 功能：并行推进多个相互独立的环境，用于批量采样
// 说明：第i个环境的生成种子为spawn.seed+i，各环境不共享可变状态
type VecEnv struct {
	envs []*Environment
}

// NewVec 创建向量化环境
// 参数：n-环境个数，c-全部配置
func NewVec(n int, c config.Config) (*VecEnv, error) {
	if n <= 0 {
		return nil, fmt.Errorf("env: vec size %d must be positive", n)
	}
	envs := make([]*Environment, n)
	for i := range envs {
		ci := c
		ci.Spawn.Seed = c.Spawn.Seed + uint64(i)
		e, err := New(ci)
		if err != nil {
			return nil, err
		}
		envs[i] = e
	}
	return &VecEnv{envs: envs}, nil
}

func (v *VecEnv) Len() int {
	return len(v.envs)
}

// Env 第i个环境
func (v *VecEnv) Env(i int) *Environment {
	return v.envs[i]
}

// Reset 重置全部环境
func (v *VecEnv) Reset() []Observation {
	return parallel.GoMap(v.envs, func(e *Environment) Observation { return e.Reset() })
}

// Step 每个环境执行对应的动作并推进一步
// 说明：结束的环境会自动重置，返回结果中的观测仍为结束时的观测，
// 重置后的观测可通过Env(i).Observation()获取
func (v *VecEnv) Step(actions []int32) ([]StepResult, error) {
	if len(actions) != len(v.envs) {
		return nil, fmt.Errorf("env: got %d actions for %d environments", len(actions), len(v.envs))
	}
	return parallel.GoMap(lo.Zip2(v.envs, actions), func(p lo.Tuple2[*Environment, int32]) StepResult {
		r := p.A.Step(p.B)
		if r.Done {
			p.A.Reset()
		}
		return r
	}), nil
}
