package clock

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	clockv1 "git.fiblab.net/sim/protos/v2/go/city/clock/v1"
	"git.fiblab.net/sim/protos/v2/go/city/clock/v1/clockv1connect"
	"git.fiblab.net/sim/syncer/v3"
)

// Service 时钟RPC服务
// 功能：将仿真时钟以ClockService的形式对外提供
// 说明：时钟本身不持有RPC状态，服务通过getter读取当前绑定的时钟，环境重建时钟后无需重新注册
type Service struct {
	clockv1connect.UnimplementedClockServiceHandler

	clock func() *Clock
}

// NewService 创建时钟RPC服务
func NewService(clock func() *Clock) *Service {
	return &Service{clock: clock}
}

// Register 将ClockService注册到sidecar
func (s *Service) Register(sidecar *syncer.Sidecar) {
	sidecar.Register(
		clockv1connect.ClockServiceName,
		func(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
			return clockv1connect.NewClockServiceHandler(s, opts...)
		},
	)
}

// Now 获取当前仿真时间
// 功能：RPC接口，返回当前仿真时间（秒）
func (s *Service) Now(ctx context.Context, in *connect.Request[clockv1.NowRequest]) (*connect.Response[clockv1.NowResponse], error) {
	return connect.NewResponse(&clockv1.NowResponse{
		T: s.clock().T,
	}), nil
}
