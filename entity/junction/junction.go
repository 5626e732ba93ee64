package junction

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	mapv2connect "git.fiblab.net/sim/protos/v2/go/city/map/v2/mapv2connect"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

// Junction 单个四路信控路口
// 功能：持有四个进口道信号灯与道路几何，按信号为车辆施加路权
type Junction struct {
	mapv2connect.UnimplementedTrafficLightServiceHandler

	ctx entity.ITaskContext

	world        entity.World
	stopZone     float64       // 停车线前的停车判定窗口
	trafficLight ITrafficLight // 信号灯模块
}

// New 创建路口
// 功能：根据世界几何与路口配置初始化路口及其信号灯
// 参数：ctx-任务上下文，world-世界几何，c-路口配置
// 返回：全部信号为放行的路口
func New(ctx entity.ITaskContext, world entity.World, c config.Junction) *Junction {
	return &Junction{
		ctx:          ctx,
		world:        world,
		stopZone:     c.StopZone,
		trafficLight: trafficlight.NewSignals(c.MinDwell, c.Coupled, ctx.Clock().T),
	}
}

func (j *Junction) World() entity.World {
	return j.world
}

// inStopZone 判断车辆是否位于停车线前的停车窗口内
// 功能：窗口为[停车线-stopZone, 停车线)，只冻结接近停车线的车辆而不是停车线前的所有车辆
// 说明：恰好位于停车线上的车辆不在窗口内
func (j *Junction) inStopZone(h entity.Heading, p entity.Point) bool {
	progress := h.Progress(p)
	stop := j.world.StopLineProgress(h)
	return progress >= stop-j.stopZone && progress < stop
}

// ApplyRightOfWay 为车辆施加路权
// 功能：在每步移动前根据信号灯决定车辆本步的速度
// 参数：v-车辆
// 算法说明：
// 1. 尚未通过路口、本进口道为停止信号、且位于停车窗口内：本步速度置0
// 2. 否则恢复额定速度；若前进量已达到停车线（含边界），永久标记为已通过
// 说明：已通过的车辆不再检查信号，避免在停车线后被重新拦停
func (j *Junction) ApplyRightOfWay(v entity.IVehicle) {
	h := v.Heading()
	if !v.Passed() && !j.trafficLight.IsGo(h) && j.inStopZone(h, v.Position()) {
		v.SetSpeed(0)
		return
	}
	v.SetSpeed(v.NominalSpeed())
	if !v.Passed() && h.Progress(v.Position()) >= j.world.StopLineProgress(h) {
		v.MarkPassed()
	}
}

// Light 获取指定进口道的信号
func (j *Junction) Light(h entity.Heading) mapv2.LightState {
	return j.trafficLight.Get(h)
}

// IsGo 指定进口道是否放行
func (j *Junction) IsGo(h entity.Heading) bool {
	return j.trafficLight.IsGo(h)
}

// SinceToggle 距上次切换的仿真时间
func (j *Junction) SinceToggle(h entity.Heading) float64 {
	return j.trafficLight.SinceToggle(h, j.ctx.Clock().T)
}

// Coupled 对向信号是否联动
func (j *Junction) Coupled() bool {
	return j.trafficLight.Coupled()
}

// Toggle 切换指定进口道的信号
// 功能：外部命令修改信号灯状态的唯一入口
// 返回：是否切换成功，保持时间内的重复调用为空操作
func (j *Junction) Toggle(h entity.Heading) bool {
	ok := j.trafficLight.Toggle(h, j.ctx.Clock().T)
	if ok {
		log.Debugf("toggle %v -> %v at %.3f", h, j.trafficLight.Get(h), j.ctx.Clock().T)
	}
	return ok
}

// Reset 所有信号恢复为放行
func (j *Junction) Reset() {
	j.trafficLight.Reset(j.ctx.Clock().T)
}
