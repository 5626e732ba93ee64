package clock

import (
	"fmt"
	"math"

	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

// Clock 仿真时钟
// 功能：管理仿真系统的离散时间推进
// 说明：仿真只使用步数推导出的仿真时间，不读取真实时间；等待时间与信号灯保持时间均以此计
type Clock struct {
	DT         float64 // 每个模拟步时间间隔（秒）
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，模拟区间[START, END)

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前步数
}

// New 根据配置创建新的时钟实例
// 功能：根据控制步配置初始化时钟
// 参数：stepConfig-控制步配置，包含时间间隔、起始步与总步数
// 返回：初始化完成的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		DT:         stepConfig.Interval,
		START_STEP: stepConfig.Start,
		END_STEP:   stepConfig.Start + stepConfig.Total,
	}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 功能：重置内部步数为起始步，重新计算当前时间
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Tick 时间前进一步
func (c *Clock) Tick() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// Elapsed 从起始步到当前的仿真时间
func (c *Clock) Elapsed() float64 {
	return float64(c.InternalStep-c.START_STEP) * c.DT
}

// StepsFor 将时长换算为步数（四舍五入）
// 功能：将以秒为单位的时长转换为整数步数，避免浮点累加误差
// 参数：seconds-时长（秒）
// 返回：对应的步数
func (c *Clock) StepsFor(seconds float64) int32 {
	return int32(math.Round(seconds / c.DT))
}

// String 获取时钟的字符串表示
// 功能：将当前时间格式化为可读的字符串
// 返回：格式化的时间字符串（HH:MM:SS）
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
