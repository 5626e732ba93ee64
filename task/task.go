package task

import (
	"fmt"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/crossing-sim/clock"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/entity/junction"
	"github.com/tsinghua-fib-lab/crossing-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

// Context 仿真任务上下文
// 功能：包含一个路口仿真实例的全部状态（时钟、信号灯、车辆），替代全局变量
// 说明：不同Context之间不共享任何可变状态，可以在不同协程中各自推进
type Context struct {
	// 时钟
	clock *clock.Clock
	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 世界几何
	world entity.World

	// 路口（信号灯）
	junction *junction.Junction
	// 车辆管理器
	vehicleManager *vehicle.Manager
}

// NewContext 创建新的仿真任务上下文
// 功能：校验配置并初始化时钟、路口与车辆管理器
// 参数：c-配置对象
// 返回：初始化完成的Context实例；配置非法时返回错误
// 说明：所有致命的配置问题只在这里检查一次，之后每步的操作都不会失败
func NewContext(c config.Config) (*Context, error) {
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return nil, fmt.Errorf("task: %w", err)
	}
	ctx := &Context{
		clock:         clock.New(c.Control.Step),
		runtimeConfig: rc,
		world:         entity.NewWorld(c.World),
	}
	ctx.junction = junction.New(ctx, ctx.world, c.Junction)
	ctx.vehicleManager = vehicle.NewManager(ctx, ctx.world, c)
	log.Debugf("new context: world %vx%v road %v, dt %v", ctx.world.Width, ctx.world.Height, ctx.world.RoadWidth, ctx.clock.DT)
	return ctx, nil
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) World() entity.World {
	return ctx.world
}

func (ctx *Context) Junction() entity.IJunction {
	return ctx.junction
}

func (ctx *Context) VehicleManager() entity.IVehicleManager {
	return ctx.vehicleManager
}

// Vehicles 当前全部车辆（按插入顺序）
func (ctx *Context) Vehicles() []*vehicle.Vehicle {
	return ctx.vehicleManager.Vehicles()
}

// AddVehicle 立即在指定位置加入一辆车，用于布置场景
func (ctx *Context) AddVehicle(h entity.Heading, p entity.Point) *vehicle.Vehicle {
	return ctx.vehicleManager.Add(h, p)
}

// Spawned 本回合累计生成的车辆数
func (ctx *Context) Spawned() int {
	return ctx.vehicleManager.Spawned()
}

// Register 将时钟与信号灯服务注册到sidecar
func (ctx *Context) Register(sidecar *syncer.Sidecar) {
	clock.NewService(ctx.Clock).Register(sidecar)
	ctx.junction.Register(sidecar)
}

// Reset 重置仿真
// 功能：清空车辆，时钟回到起始步，所有信号恢复放行且已保持时间为0，重置生成计时与随机数序列
// 说明：连续两次Reset得到完全相同的状态
func (ctx *Context) Reset() {
	ctx.clock.Init()
	ctx.junction.Reset()
	ctx.vehicleManager.Reset()
}

// DetectCollision 不同方向车辆之间是否发生碰撞
func (ctx *Context) DetectCollision() bool {
	a, b, ok := ctx.vehicleManager.FirstCollision()
	if ok {
		log.Debugf("step %d: collision %v <-> %v", ctx.clock.InternalStep, a, b)
	}
	return ok
}
