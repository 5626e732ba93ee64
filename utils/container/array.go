package container

import (
	"sync"
)

// IIncrementalItem 支持增量更新的元素接口
// 说明：元素自行记录其在数组中的下标，便于删除时定位
type IIncrementalItem interface {
	Index() int
	SetIndex(index int)
}

// IncrementalItemBase 增量元素基类，可作为嵌入字段快速实现IIncrementalItem
type IncrementalItemBase struct {
	index int
}

func (b *IncrementalItemBase) Index() int {
	return b.index
}

func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组
// 功能：延迟执行添加与删除，在Prepare时统一生效
// 说明：Prepare保持剩余元素的相对顺序，新元素按Add调用顺序追加在末尾；
// 依赖固定遍历顺序的逐个更新（如跟车判定）因此在多次Prepare之间保持确定性
type IncrementalArray[T IIncrementalItem] struct {
	data        []T
	add         []T
	remove      []T
	addMutex    sync.Mutex
	removeMutex sync.Mutex
}

func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{
		data:   make([]T, 0),
		add:    make([]T, 0),
		remove: make([]T, 0),
	}
}

// Len 已生效的元素个数（不含待添加元素）
func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Data 已生效的元素，调用方不应修改返回的切片
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Pending 待添加与待删除的元素个数
func (a *IncrementalArray[T]) Pending() (add int, remove int) {
	return len(a.add), len(a.remove)
}

// Add 增加元素（等到Prepare时才会真正增加）
func (a *IncrementalArray[T]) Add(value T) {
	a.addMutex.Lock()
	defer a.addMutex.Unlock()
	a.add = append(a.add, value)
}

// Remove 删除元素（等到Prepare时才会真正删除）
// 说明：同一元素重复Remove只删除一次
func (a *IncrementalArray[T]) Remove(value T) {
	a.removeMutex.Lock()
	defer a.removeMutex.Unlock()
	a.remove = append(a.remove, value)
}

// Prepare 执行增量操作
// 算法说明：
// 1. 将待删除元素的下标标记到集合中
// 2. 原地压缩主数组，跳过被标记的位置，同时重写剩余元素的下标
// 3. 将待添加元素按顺序追加到末尾并设置下标
// 4. 清空待处理列表
func (a *IncrementalArray[T]) Prepare() {
	if len(a.remove) > 0 {
		removed := make(map[int]struct{}, len(a.remove))
		for _, x := range a.remove {
			removed[x.Index()] = struct{}{}
		}
		n := 0
		for i, x := range a.data {
			if _, ok := removed[i]; ok {
				continue
			}
			x.SetIndex(n)
			a.data[n] = x
			n++
		}
		// 释放尾部引用
		var zero T
		for i := n; i < len(a.data); i++ {
			a.data[i] = zero
		}
		a.data = a.data[:n]
	}
	for _, x := range a.add {
		x.SetIndex(len(a.data))
		a.data = append(a.data, x)
	}
	a.add = a.add[:0]
	a.remove = a.remove[:0]
}

// Clear 清空全部元素与待处理操作
func (a *IncrementalArray[T]) Clear() {
	a.data = a.data[:0]
	a.add = a.add[:0]
	a.remove = a.remove[:0]
}
