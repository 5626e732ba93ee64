package vehicle

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/container"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/randengine"
)

// Manager 车辆管理器
// 功能：持有全部活动车辆，负责每步的路权判定、跟车移动、生成、移除与碰撞检测
// 说明：车辆以插入顺序遍历，逐个更新的结果依赖该顺序，但对同一初始状态是确定的
type Manager struct {
	ctx entity.ITaskContext

	world    entity.World
	vehicles *container.IncrementalArray[*Vehicle]

	speed          float64
	radius         float64
	followDistance float64

	generator *randengine.Engine
	seed      uint64
	weights   []float64 // 各方向生成权重，为空表示均匀

	spawnEvery    int32 // 生成间隔（步）
	lastSpawnStep int32 // 上次生成时的步数
	nextID        int32

	spawned   int // 本回合生成的车辆数
	despawned int // 本回合驶出的车辆数
}

// NewManager 创建车辆管理器
// 参数：ctx-任务上下文，world-世界几何，c-全部配置
// 说明：生成间隔在创建时换算为整数步数，避免浮点时间累加造成的漂移
func NewManager(ctx entity.ITaskContext, world entity.World, c config.Config) *Manager {
	m := &Manager{
		ctx:            ctx,
		world:          world,
		vehicles:       container.NewIncrementalArray[*Vehicle](),
		speed:          c.Vehicle.Speed,
		radius:         c.Vehicle.Radius,
		followDistance: c.Vehicle.FollowDistance,
		generator:      randengine.New(c.Spawn.Seed),
		seed:           c.Spawn.Seed,
		weights:        c.Spawn.Weights,
		spawnEvery:     ctx.Clock().StepsFor(c.Spawn.Interval),
	}
	m.lastSpawnStep = ctx.Clock().InternalStep
	return m
}

// Reset 清空所有车辆，重置生成计时与随机数序列
func (m *Manager) Reset() {
	m.vehicles.Clear()
	m.generator.Reseed(m.seed)
	m.lastSpawnStep = m.ctx.Clock().InternalStep
	m.nextID = 0
	m.spawned = 0
	m.despawned = 0
}

func (m *Manager) Len() int {
	return m.vehicles.Len()
}

// Vehicles 当前全部车辆，按插入顺序
func (m *Manager) Vehicles() []*Vehicle {
	return m.vehicles.Data()
}

// Spawned 本回合生成的车辆数
func (m *Manager) Spawned() int {
	return m.spawned
}

// Despawned 本回合驶出世界的车辆数
func (m *Manager) Despawned() int {
	return m.despawned
}

// Add 立即在指定位置加入一辆车
// 功能：供外部直接布置场景，车辆以配置的额定速度与半径创建，等待时间为0
// 参数：h-方向，p-位置
// 返回：新加入的车辆
func (m *Manager) Add(h entity.Heading, p entity.Point) *Vehicle {
	v := m.newVehicle(h, p)
	m.vehicles.Add(v)
	m.vehicles.Prepare()
	return v
}

func (m *Manager) newVehicle(h entity.Heading, p entity.Point) *Vehicle {
	v := newVehicle(m.nextID, h, p, m.speed, m.radius)
	m.nextID++
	return v
}

// Update 更新阶段
// 功能：先为全部车辆施加路权，再逐个执行跟车与移动
// 参数：dt-步长，用于累计等待时间
// 说明：移动时读取的是其他车辆在本步中已经（或尚未）更新的位置，顺序相关但确定
func (m *Manager) Update(dt float64) {
	vs := m.vehicles.Data()
	junction := m.ctx.Junction()
	for _, v := range vs {
		junction.ApplyRightOfWay(v)
	}
	for _, v := range vs {
		v.advance(vs, m.followDistance, dt)
	}
}

// StepPopulation 生命周期管理
// 功能：按固定间隔生成一辆车，并移除越过离开边界的车辆
// 参数：step-当前步数
// 算法说明：
// 1. 距上次生成的步数严格大于生成间隔时，随机选择方向并在其生成点加入一辆车
// 2. 标记所有越过与生成边界相对一侧边界的车辆
// 3. 统一执行增删
func (m *Manager) StepPopulation(step int32) {
	if step-m.lastSpawnStep > m.spawnEvery {
		h := m.randomHeading()
		v := m.newVehicle(h, m.world.SpawnPoint(h))
		m.vehicles.Add(v)
		m.lastSpawnStep = step
		m.spawned++
		log.Debugf("step %d: spawn %v", step, v)
	}
	for _, v := range m.vehicles.Data() {
		if m.world.OutOfBounds(v.heading, v.position) {
			m.vehicles.Remove(v)
			m.despawned++
		}
	}
	m.vehicles.Prepare()
}

func (m *Manager) randomHeading() entity.Heading {
	if len(m.weights) == 0 {
		return entity.Headings[m.generator.Intn(entity.HeadingCount)]
	}
	return entity.Headings[m.generator.DiscreteDistribution(m.weights)]
}

// FirstCollision 查找第一对碰撞车辆
// 功能：逐对检查不同方向的车辆，中心距离小于半径之和即为碰撞
// 返回：碰撞的两辆车与是否存在碰撞
// 说明：同方向车辆之间的接近属于跟车，无论距离多近都不算碰撞
func (m *Manager) FirstCollision() (*Vehicle, *Vehicle, bool) {
	vs := m.vehicles.Data()
	for i, a := range vs {
		for _, b := range vs[i+1:] {
			if a.heading == b.heading {
				continue
			}
			d := math.Hypot(a.position.X-b.position.X, a.position.Y-b.position.Y)
			if d < a.radius+b.radius {
				return a, b, true
			}
		}
	}
	return nil, nil, false
}

func (m *Manager) DetectCollision() bool {
	_, _, ok := m.FirstCollision()
	return ok
}

// QueueLengths 各进口道尚未通过停车线的车辆数，按entity.Headings顺序
func (m *Manager) QueueLengths() [entity.HeadingCount]int {
	var q [entity.HeadingCount]int
	for _, v := range m.vehicles.Data() {
		if !v.passed {
			q[v.heading]++
		}
	}
	return q
}

// TotalWaitingTime 全部活动车辆的累计等待时间之和
func (m *Manager) TotalWaitingTime() float64 {
	return lo.SumBy(m.vehicles.Data(), func(v *Vehicle) float64 { return v.waitingTime })
}
