// 随机数引擎，包装了golang.org/x/exp/rand，提供了一些常用的随机数生成方法
package randengine

import (
	"flag"
	"log"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 说明：相同种子产生相同序列，车辆生成与随机策略的可复现性依赖于此
type Engine struct {
	*rand.Rand
	mtx sync.Mutex
}

// New 创建随机数引擎
// 参数：seed-随机数种子，实际使用的种子会加上-rand.seed_offset
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// Reseed 以新种子重置随机序列（回合重置时使用）
func (e *Engine) Reseed(seed uint64) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.Rand.Seed(seed + *seedOffset)
}

// DiscreteDistribution 按给定权重生成下标（非线程安全）
// 参数：weight-权重数组，不要求归一化
// 返回：[0, len(weight))范围内的下标
// 算法说明：
// 1. 计算总权重并在[0, 总权重)内取随机数
// 2. 累加权重直到超过随机数，返回对应下标
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// PTrue 以指定概率返回true（非线程安全）
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// IntnSafe 随机生成[0, n)内的整数（线程安全）
func (e *Engine) IntnSafe(n int) int {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Intn(n)
}
