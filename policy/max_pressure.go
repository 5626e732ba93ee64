package policy

import (
	"flag"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/env"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/container"
)

// 最大压力法不按照固定的相位顺序切换，而是在每个相位结束后计算所有相位的pressure，选取pressure最大的相位

var (
	mpPhaseTime    = flag.Float64("policy.mp_phase_time", 5, "最大压力法相位时间")
	mpAllRedTime   = flag.Float64("policy.mp_all_red_time", 3, "最大压力法切换相位前的全红时间")
	maxRepeatCount = flag.Int("policy.mp_max_repeat_count", 6, "最大压力法每个相位最多重复的次数")
)

// MaxPressure 最大压力信控策略
// 功能：相位结束时按排队车辆数计算各相位压力，选择压力最大的相位；切换相位前插入全红清空
type MaxPressure struct {
	scheme         string
	phaseTime      float64
	allRedTime     float64
	maxRepeatCount int

	phases      []pattern
	index       int     // 当前相位
	nextIndex   int     // 全红结束后的下一相位
	repeatCount int     // 当前相位重复的次数
	remainingT  float64 // 当前相位（或全红）剩余时间
	allRed      bool    // 是否处于全红过渡
}

func NewMaxPressure(scheme string, phaseTime, allRedTime float64, maxRepeatCount int) *MaxPressure {
	p := &MaxPressure{
		scheme:         scheme,
		phaseTime:      phaseTime,
		allRedTime:     allRedTime,
		maxRepeatCount: maxRepeatCount,
		phases:         []pattern{patternNorthSouth, patternEastWest},
	}
	p.Reset()
	return p
}

func (p *MaxPressure) Name() string { return "max_pressure" }

func (p *MaxPressure) Reset() {
	p.index = 0
	p.nextIndex = 0
	p.repeatCount = 1
	p.remainingT = p.phaseTime
	p.allRed = false
}

// pressure 相位压力：放行方向排队车辆数之和
func pressure(o env.Observation, ph pattern) float64 {
	return float64(lo.Sum(lo.Filter(o.Queue[:], func(_ int, i int) bool { return ph[entity.Headings[i]] })))
}

// Act 执行最大压力算法
// 算法说明：
// 1. 当前相位（或全红）没走完，保持
// 2. 全红结束，进入下一相位
// 3. 相位结束，计算各相位压力，选择压力最大的相位
// 4. 若最大压力相位未变化且未达到最大重复次数，则延长当前相位；达到次数则切换到第二大压力的相位
// 5. 有变化时先进入全红
func (p *MaxPressure) Act(o env.Observation, dt float64) int32 {
	p.remainingT -= dt
	if p.remainingT <= 0 {
		if p.allRed {
			p.allRed = false
			p.index = p.nextIndex
			p.remainingT += p.phaseTime
		} else {
			pressureHeap := container.NewPriorityQueue[int]()
			for i, ph := range p.phases {
				pressureHeap.Push(i, -pressure(o, ph)) // 小顶堆，压力越大越靠前
			}
			pressureHeap.Heapify()
			maxIndex, _ := pressureHeap.HeapPop()
			if maxIndex == p.index {
				if p.repeatCount >= p.maxRepeatCount {
					maxIndex, _ = pressureHeap.HeapPop()
				} else {
					p.remainingT += p.phaseTime
					p.repeatCount++
				}
			}
			if maxIndex != p.index {
				log.Debugf("max pressure: phase %d -> %d (queue %v)", p.index, maxIndex, o.Queue)
				p.nextIndex = maxIndex
				p.repeatCount = 1
				p.allRed = true
				p.remainingT += p.allRedTime
			}
		}
	}
	if p.allRed {
		return patternAction(p.scheme, o, patternAllStop)
	}
	return patternAction(p.scheme, o, p.phases[p.index])
}
