package junction

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
)

// 依赖倒置，表达junction对信号灯实现的接口需求

// 给交通参与者提供的信控读取接口
type ITrafficLightGetter interface {
	Get(h entity.Heading) mapv2.LightState             // 当前信号
	IsGo(h entity.Heading) bool                        // 是否放行
	SinceToggle(h entity.Heading, now float64) float64 // 距上次切换的时长
	Coupled() bool                                     // 对向是否联动
}

// 信号灯接口
type ITrafficLight interface {
	ITrafficLightGetter

	Toggle(h entity.Heading, now float64) bool // 切换信号（受最短保持时间约束）
	Reset(now float64)                         // 全部恢复放行
}
