package entity

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
)

// Manager依赖倒置

// entity/junction/junction.go的依赖倒置
type IJunction interface {
	World() World // 路口所在世界的几何

	// 按当前信号灯状态为车辆施加路权：停车窗口内遇停止信号则停车，否则恢复额定速度并更新通过标记
	ApplyRightOfWay(v IVehicle)

	Light(h Heading) mapv2.LightState // 指定进口道当前信号
	IsGo(h Heading) bool              // 指定进口道是否放行
	SinceToggle(h Heading) float64    // 距上次切换的仿真时间
	Toggle(h Heading) bool            // 切换信号，保持时间不足时拒绝并返回false

	Reset() // 所有信号恢复为放行，清空切换时间
}

// entity/vehicle/manager.go的依赖倒置
type IVehicleManager interface {
	Len() int // 当前车辆数

	Reset()                          // 清空所有车辆与生成计时
	Update(dt float64)               // 更新阶段：路权判定与跟车移动
	StepPopulation(step int32)       // 生命周期：按固定间隔生成、移除驶出世界的车辆
	DetectCollision() bool           // 不同方向车辆之间是否发生碰撞
	QueueLengths() [HeadingCount]int // 各进口道尚未通过停车线的车辆数
	TotalWaitingTime() float64       // 所有车辆累计等待时间之和
}
