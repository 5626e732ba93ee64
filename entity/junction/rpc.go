package junction

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"git.fiblab.net/general/common/v2/mathutil"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	mapv2connect "git.fiblab.net/sim/protos/v2/go/city/map/v2/mapv2connect"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/crossing-sim/entity"
)

// ID 唯一路口的ID
const ID int32 = 0

var (
	ErrJunctionNotFound = errors.New("junction id does not exist")
)

// Register 将信号灯服务注册到sidecar
// 说明：使用sidecar的步进锁，外部调用只会在两步之间生效
func (j *Junction) Register(sidecar *syncer.Sidecar) {
	sidecar.Register(
		mapv2connect.TrafficLightServiceName,
		func(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
			return mapv2connect.NewTrafficLightServiceHandler(j, opts...)
		},
	)
}

// snapshot 将当前信号表示为只有一个相位的信号灯程序，状态按entity.Headings顺序
func (j *Junction) snapshot() *mapv2.TrafficLight {
	states := make([]mapv2.LightState, entity.HeadingCount)
	for _, h := range entity.Headings {
		states[h] = j.trafficLight.Get(h)
	}
	return &mapv2.TrafficLight{
		JunctionId: ID,
		Phases: []*mapv2.Phase{{
			Duration: mathutil.INF,
			States:   states,
		}},
	}
}

// GetTrafficLight RPC接口：获取信号灯状态
// 返回：单相位的信号灯程序，信号由外部切换，剩余时间为无穷大
func (j *Junction) GetTrafficLight(
	ctx context.Context, in *connect.Request[mapv2.GetTrafficLightRequest],
) (*connect.Response[mapv2.GetTrafficLightResponse], error) {
	if in.Msg.JunctionId != ID {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrJunctionNotFound)
	}
	return connect.NewResponse(&mapv2.GetTrafficLightResponse{
		TrafficLight:  j.snapshot(),
		PhaseIndex:    0,
		TimeRemaining: mathutil.INF,
	}), nil
}

// SetTrafficLight RPC接口：设置信号灯
// 功能：请求中第一个相位给出四个进口道的期望信号（东、北、西、南，只接受红灯与绿灯），
// 对每个与期望不一致的信号执行一次受保持时间约束的切换
// 说明：保持时间不足的切换被忽略，调用方可通过GetTrafficLight确认结果；对向联动时对向信号必须一致
func (j *Junction) SetTrafficLight(
	ctx context.Context, in *connect.Request[mapv2.SetTrafficLightRequest],
) (*connect.Response[mapv2.SetTrafficLightResponse], error) {
	tl := in.Msg.TrafficLight
	if tl == nil || tl.JunctionId != ID {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrJunctionNotFound)
	}
	if len(tl.Phases) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("traffic light has no phase"))
	}
	states := tl.Phases[0].States
	if len(states) != entity.HeadingCount {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("number of approaches %d and traffic light states %d does not match", entity.HeadingCount, len(states)))
	}
	for i, s := range states {
		if s != mapv2.LightState_LIGHT_STATE_GREEN && s != mapv2.LightState_LIGHT_STATE_RED {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unsupported state %v for %v", s, entity.Headings[i]))
		}
	}
	if j.trafficLight.Coupled() {
		for _, h := range entity.Headings {
			if states[h] != states[h.Opposite()] {
				return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("coupled lights %v and %v must share one state", h, h.Opposite()))
			}
		}
	}
	for _, h := range entity.Headings {
		if j.trafficLight.Get(h) != states[h] {
			j.Toggle(h)
		}
	}
	return connect.NewResponse(&mapv2.SetTrafficLightResponse{}), nil
}
