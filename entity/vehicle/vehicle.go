package vehicle

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/container"
)

// Vehicle 车辆
// 功能：单个沿固定方向直行的车辆，维护位置、本步速度、累计等待时间与通过标记
// 说明：速度只在路权判定与跟车判定中被修改，移动只发生在advance中
type Vehicle struct {
	container.IncrementalItemBase

	id      int32
	heading entity.Heading

	position     entity.Point
	speed        float64 // 本步速度，0表示本步停车
	nominalSpeed float64 // 额定速度
	radius       float64

	waitingTime float64 // 累计停车时间（秒），单调不减
	passed      bool    // 是否已通过停车线，单调
}

func newVehicle(id int32, h entity.Heading, p entity.Point, speed, radius float64) *Vehicle {
	return &Vehicle{
		id:           id,
		heading:      h,
		position:     p,
		speed:        speed,
		nominalSpeed: speed,
		radius:       radius,
	}
}

func (v *Vehicle) ID() int32 {
	return v.id
}

func (v *Vehicle) Heading() entity.Heading {
	return v.heading
}

func (v *Vehicle) Position() entity.Point {
	return v.position
}

func (v *Vehicle) Speed() float64 {
	return v.speed
}

func (v *Vehicle) SetSpeed(s float64) {
	v.speed = s
}

func (v *Vehicle) NominalSpeed() float64 {
	return v.nominalSpeed
}

func (v *Vehicle) Radius() float64 {
	return v.radius
}

func (v *Vehicle) WaitingTime() float64 {
	return v.waitingTime
}

func (v *Vehicle) Passed() bool {
	return v.passed
}

func (v *Vehicle) MarkPassed() {
	v.passed = true
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle#%d{%v %v v=%.2f wait=%.2f passed=%v}", v.id, v.heading, v.position, v.speed, v.waitingTime, v.passed)
}

// progress 沿自身方向的前进量
func (v *Vehicle) progress() float64 {
	return v.heading.Progress(v.position)
}

// blockedBy 跟车判定
// 功能：检查同方向车辆中是否存在位于前方且距离小于跟车距离的车辆
// 说明：找到任意一个即返回，不要求找到最近的前车
func (v *Vehicle) blockedBy(all []*Vehicle, followDistance float64) bool {
	self := v.progress()
	return lo.ContainsBy(all, func(o *Vehicle) bool {
		if o == v || o.heading != v.heading {
			return false
		}
		gap := o.progress() - self
		return gap > 0 && gap < followDistance
	})
}

// advance 车辆每步的移动
// 参数：all-全部车辆（读取的是其他车辆当前的位置），followDistance-跟车距离，dt-步长
// 算法说明：
// 1. 跟车：前方近距离有同向车辆时本步速度置0，不移动
// 2. 移动：否则按本步速度沿方向移动
// 3. 等待：本步速度为0（跟车或信号停车）时累计一个步长的等待时间
func (v *Vehicle) advance(all []*Vehicle, followDistance, dt float64) {
	if v.blockedBy(all, followDistance) {
		v.speed = 0
	} else {
		v.position = v.heading.Move(v.position, v.speed)
	}
	if v.speed == 0 {
		v.waitingTime += dt
	}
}
