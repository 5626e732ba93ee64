package env

import (
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

// 离散动作编码
const (
	ActionToggleNorth int32 = iota
	ActionToggleSouth
	ActionToggleWest
	ActionToggleEast
	ActionNoOp
)

// 掩码动作编码
const (
	MaskNorthSouth int32 = 1 << iota // bit0：南北方向放行
	MaskEastWest                     // bit1：东西方向放行
)

var discreteTargets = [...]entity.Heading{
	ActionToggleNorth: entity.North,
	ActionToggleSouth: entity.South,
	ActionToggleWest:  entity.West,
	ActionToggleEast:  entity.East,
}

// ActionCount 指定编码方案下合法动作的个数
func ActionCount(scheme string) int32 {
	if scheme == config.SchemeBitmask {
		return (MaskNorthSouth | MaskEastWest) + 1
	}
	return ActionNoOp + 1
}

// ValidAction 动作是否属于该编码方案的合法取值
func ValidAction(scheme string, action int32) bool {
	return action >= 0 && action < ActionCount(scheme)
}

// applyAction 解码并执行动作
// 功能：将动作转换为对信号灯的切换操作，所有切换都经过最短保持时间检查
// 参数：j-路口，scheme-编码方案，action-动作
// 返回：动作是否合法；非法动作不做任何修改
// 算法说明：
// 1. 离散方案：0-3分别切换北、南、西、东信号，4为不操作
// 2. 掩码方案：bit0为南北方向期望放行，bit1为东西方向期望放行，
// 对每个当前状态与期望不一致的信号执行一次切换（联动模式下对向信号随之翻转，不会重复切换）
func applyAction(j entity.IJunction, scheme string, action int32) bool {
	if !ValidAction(scheme, action) {
		return false
	}
	if scheme == config.SchemeBitmask {
		for _, h := range entity.Headings {
			if j.IsGo(h) != desiredGo(h, action) {
				j.Toggle(h)
			}
		}
		return true
	}
	if action != ActionNoOp {
		j.Toggle(discreteTargets[action])
	}
	return true
}

// desiredGo 掩码中指定方向期望的信号
func desiredGo(h entity.Heading, mask int32) bool {
	if h == entity.North || h == entity.South {
		return mask&MaskNorthSouth != 0
	}
	return mask&MaskEastWest != 0
}

// Mask 由期望的南北、东西放行状态构造掩码动作
func Mask(northSouthGo, eastWestGo bool) int32 {
	var m int32
	if northSouthGo {
		m |= MaskNorthSouth
	}
	if eastWestGo {
		m |= MaskEastWest
	}
	return m
}

// ToggleAction 切换指定方向信号的离散动作
func ToggleAction(h entity.Heading) int32 {
	for a, target := range discreteTargets {
		if target == h {
			return int32(a)
		}
	}
	return ActionNoOp
}
