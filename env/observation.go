package env

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

// Observation 环境观测
// 说明：所有数组均按entity.Headings顺序（东、北、西、南）
type Observation struct {
	Queue        [entity.HeadingCount]int     // 各进口道尚未通过停车线的车辆数
	TotalWaiting float64                      // 全部车辆的累计等待时间之和（秒）
	SinceToggle  [entity.HeadingCount]float64 // 各信号距上次切换的仿真时间（秒）
	Go           [entity.HeadingCount]bool    // 各信号是否放行
}

// observe 读取仿真上下文生成观测
func observe(ctx entity.ITaskContext) Observation {
	j := ctx.Junction()
	vm := ctx.VehicleManager()
	o := Observation{
		Queue:        vm.QueueLengths(),
		TotalWaiting: vm.TotalWaitingTime(),
	}
	for _, h := range entity.Headings {
		o.SinceToggle[h] = j.SinceToggle(h)
		o.Go[h] = j.IsGo(h)
	}
	return o
}

// ObservationSize 指定编码方案下观测向量的长度
func ObservationSize(scheme string) int {
	if scheme == config.SchemeBitmask {
		return entity.HeadingCount + 2
	}
	return entity.HeadingCount*3 + 1
}

// LightBits 信号状态位：第i位为1表示entity.Headings[i]放行
func (o Observation) LightBits() int {
	bits := 0
	for i, g := range o.Go {
		if g {
			bits |= 1 << i
		}
	}
	return bits
}

// Vector 将观测编码为定长向量
// 功能：控制器学习的是固定形状的输入，因此顺序与含义固定
// 参数：scheme-动作编码方案
// 返回：
//   - discrete（13维）：[排队×4, 总等待时间, 距上次切换时间×4, 信号×4（放行为1）]
//   - bitmask（6维）：[排队×4, 总等待时间, 信号状态位]
func (o Observation) Vector(scheme string) []float64 {
	v := make([]float64, 0, ObservationSize(scheme))
	v = append(v, lo.Map(o.Queue[:], func(q int, _ int) float64 { return float64(q) })...)
	v = append(v, o.TotalWaiting)
	if scheme == config.SchemeBitmask {
		return append(v, float64(o.LightBits()))
	}
	v = append(v, o.SinceToggle[:]...)
	return append(v, lo.Map(o.Go[:], func(g bool, _ int) float64 { return lo.Ternary(g, 1., 0.) })...)
}
