package entity

import (
	"fmt"

	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

// Heading 车辆行驶方向，同时也是其所属的进口道（approach）
// 说明：坐标系y轴向下增长；方向在车辆生命周期内固定（不转弯）
type Heading int32

const (
	East  Heading = iota // 向东行驶：+x
	North                // 向北行驶：-y
	West                 // 向西行驶：-x
	South                // 向南行驶：+y

	HeadingCount = 4
)

// Headings 按固定顺序排列的全部方向，观测向量与信号灯数组均使用该顺序
var Headings = [HeadingCount]Heading{East, North, West, South}

// axis 坐标轴
type axis int

const (
	axisX axis = iota
	axisY
)

// headingSpec 每个方向的查找表项
// 功能：集中描述方向相关的轴与符号，避免在运动、信控、生成、离开判定中重复四路分支
type headingSpec struct {
	name     string
	axis     axis
	sign     float64
	opposite Heading
}

var headingSpecs = [HeadingCount]headingSpec{
	East:  {name: "east", axis: axisX, sign: 1, opposite: West},
	North: {name: "north", axis: axisY, sign: -1, opposite: South},
	West:  {name: "west", axis: axisX, sign: -1, opposite: East},
	South: {name: "south", axis: axisY, sign: 1, opposite: North},
}

func (h Heading) Valid() bool {
	return h >= 0 && h < HeadingCount
}

func (h Heading) String() string {
	if !h.Valid() {
		return fmt.Sprintf("Heading(%d)", int32(h))
	}
	return headingSpecs[h].name
}

// Opposite 对向方向（南北互为对向，东西互为对向）
func (h Heading) Opposite() Heading {
	return headingSpecs[h].opposite
}

// Progress 沿行驶方向的前进量
// 功能：将坐标投影到行驶方向的有符号轴上，前进量越大表示越靠前
// 参数：p-坐标
// 返回：East返回x，West返回-x，South返回y，North返回-y
// 说明：所有"在前方"、"越过停车线"、"驶出边界"判定都在该投影上用统一的比较完成
func (h Heading) Progress(p Point) float64 {
	s := headingSpecs[h]
	if s.axis == axisX {
		return s.sign * p.X
	}
	return s.sign * p.Y
}

// Move 沿行驶方向移动指定距离
func (h Heading) Move(p Point, distance float64) Point {
	s := headingSpecs[h]
	if s.axis == axisX {
		p.X += s.sign * distance
	} else {
		p.Y += s.sign * distance
	}
	return p
}

// project 将行驶轴上的坐标值转换为前进量
func (h Heading) project(coord float64) float64 {
	return headingSpecs[h].sign * coord
}

// Point 二维坐标（世界单位）
type Point struct {
	X float64
	Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// World 有界世界与固定道路几何
// 功能：两条固定宽度的垂直道路在中心交叉，推导各方向的生成点、停车线与离开边界
// 说明：车道宽度为道路宽度的一半，车辆沿车道中心线行驶
type World struct {
	Width     float64
	Height    float64
	RoadWidth float64
}

// NewWorld 根据配置创建世界几何
func NewWorld(c config.World) World {
	return World{Width: c.Width, Height: c.Height, RoadWidth: c.RoadWidth}
}

// LaneWidth 车道宽度
func (w World) LaneWidth() float64 {
	return w.RoadWidth / 2
}

// Center 路口中心
func (w World) Center() Point {
	return Point{X: w.Width / 2, Y: w.Height / 2}
}

// SpawnPoint 指定方向车辆的生成点（位于该方向起始边界的车道中心）
func (w World) SpawnPoint(h Heading) Point {
	c := w.Center()
	offset := w.LaneWidth() / 2
	switch h {
	case East:
		return Point{X: 0, Y: c.Y + offset}
	case North:
		return Point{X: c.X + offset, Y: w.Height}
	case West:
		return Point{X: w.Width, Y: c.Y - offset}
	case South:
		return Point{X: c.X - offset, Y: 0}
	}
	panic(fmt.Sprintf("invalid heading %v", h))
}

// StopLine 指定方向停车线在行驶轴上的坐标
// 说明：停车线位于横向道路的近侧边缘
func (w World) StopLine(h Heading) float64 {
	c := w.Center()
	half := w.RoadWidth / 2
	switch h {
	case East:
		return c.X - half
	case North:
		return c.Y + half
	case West:
		return c.X + half
	case South:
		return c.Y - half
	}
	panic(fmt.Sprintf("invalid heading %v", h))
}

// StopLineProgress 停车线对应的前进量
func (w World) StopLineProgress(h Heading) float64 {
	return h.project(w.StopLine(h))
}

// exitBound 离开边界在行驶轴上的坐标（与生成边界相对）
func (w World) exitBound(h Heading) float64 {
	switch h {
	case East:
		return w.Width
	case South:
		return w.Height
	default:
		return 0
	}
}

// OutOfBounds 判断车辆是否已越过与生成边界相对的世界边界
func (w World) OutOfBounds(h Heading, p Point) bool {
	return h.Progress(p) > h.project(w.exitBound(h))
}

// IVehicle 车辆的依赖倒置
// 功能：路口进行路权判定时对车辆的读写接口
type IVehicle interface {
	ID() int32
	Heading() Heading
	Position() Point
	Passed() bool // 是否已通过路口停车线
	MarkPassed()  // 标记已通过（单调，只能从false变为true）
	NominalSpeed() float64
	SetSpeed(v float64) // 设置本步速度
}
