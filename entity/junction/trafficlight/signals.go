package trafficlight

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
)

// signal 单个进口道信号灯运行时数据
type signal struct {
	state      mapv2.LightState // 红灯表示停止，绿灯表示放行
	lastToggle float64          // 上次切换时间
	toggled    bool             // 自上次重置以来是否切换过
}

// Signals 四进口道独立信号灯
// 功能：以方向为下标维护四个二值信号，提供带最短保持时间保护的切换操作
// 说明：数组长度在编译期固定为四个进口道；联动模式下对向信号作为一个相位同时切换
type Signals struct {
	signals  [entity.HeadingCount]signal
	minDwell float64 // 最短保持时间
	coupled  bool    // 对向联动
}

// NewSignals 创建信号灯组
// 参数：minDwell-最短保持时间（秒），coupled-对向是否联动，now-当前仿真时间
// 返回：全部放行的信号灯组
func NewSignals(minDwell float64, coupled bool, now float64) *Signals {
	s := &Signals{minDwell: minDwell, coupled: coupled}
	s.Reset(now)
	return s
}

// Reset 重置信号灯
// 功能：所有信号恢复为放行，切换时间记为now（已保持时间为0）
// 说明：重置后的首次切换不受保持时间限制
func (s *Signals) Reset(now float64) {
	for i := range s.signals {
		s.signals[i] = signal{
			state:      mapv2.LightState_LIGHT_STATE_GREEN,
			lastToggle: now,
		}
	}
}

// Get 指定进口道当前信号
func (s *Signals) Get(h entity.Heading) mapv2.LightState {
	return s.signals[h].state
}

// IsGo 指定进口道是否放行
func (s *Signals) IsGo(h entity.Heading) bool {
	return s.signals[h].state == mapv2.LightState_LIGHT_STATE_GREEN
}

// SinceToggle 距上次切换（或重置）的时间
func (s *Signals) SinceToggle(h entity.Heading, now float64) float64 {
	return now - s.signals[h].lastToggle
}

// Coupled 对向信号是否联动
func (s *Signals) Coupled() bool {
	return s.coupled
}

// canToggle 保持时间检查
func (s *Signals) canToggle(h entity.Heading, now float64) bool {
	sig := s.signals[h]
	return !sig.toggled || now-sig.lastToggle >= s.minDwell
}

// Toggle 切换信号
// 功能：在保持时间满足时翻转信号并记录切换时间
// 参数：h-进口道，now-当前仿真时间
// 返回：是否切换成功；保持时间不足时为空操作并返回false
// 说明：联动模式下对向信号同时翻转并共享切换时间，二者状态始终一致
func (s *Signals) Toggle(h entity.Heading, now float64) bool {
	if !s.canToggle(h, now) {
		log.Debugf("reject toggle %v: %.3fs since last toggle < %.3fs", h, now-s.signals[h].lastToggle, s.minDwell)
		return false
	}
	s.flip(h, now)
	if s.coupled {
		o := h.Opposite()
		s.signals[o].state = s.signals[h].state
		s.signals[o].lastToggle = now
		s.signals[o].toggled = true
	}
	return true
}

func (s *Signals) flip(h entity.Heading, now float64) {
	sig := &s.signals[h]
	if sig.state == mapv2.LightState_LIGHT_STATE_GREEN {
		sig.state = mapv2.LightState_LIGHT_STATE_RED
	} else {
		sig.state = mapv2.LightState_LIGHT_STATE_GREEN
	}
	sig.lastToggle = now
	sig.toggled = true
}
