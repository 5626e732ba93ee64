package env

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

// Reward 单步奖励
// 功能：由仿真输出计算奖励，仿真本身不感知奖励
// 参数：c-环境配置，o-推进后的观测，collision-本步是否碰撞
// 返回：-固定步代价 - 碰撞惩罚 - 排队惩罚×排队超过阈值的进口道数
func Reward(c config.Env, o Observation, collision bool) float64 {
	r := -c.StepCost
	if collision {
		r -= c.CollisionPenalty
	}
	long := lo.CountBy(o.Queue[:], func(q int) bool { return q > c.QueueThreshold })
	return r - c.QueuePenalty*float64(long)
}
