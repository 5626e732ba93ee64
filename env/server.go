package env

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/samber/lo"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// EnvServiceName 环境服务名
	EnvServiceName = "crossing.env.v1.EnvService"

	EnvServiceResetProcedure   = "/" + EnvServiceName + "/Reset"
	EnvServiceStepProcedure    = "/" + EnvServiceName + "/Step"
	EnvServiceObserveProcedure = "/" + EnvServiceName + "/Observe"
)

var (
	ErrEpisodeDone = errors.New("episode is done, call Reset first")
)

// Server 环境RPC服务
// 功能：通过connect协议对外提供Reset、Step、Observe三个一元调用，供外部学习器驱动环境
// 说明：请求与响应使用protobuf通用类型（Empty、Int32Value、Struct），调用之间互斥
type Server struct {
	mtx  sync.Mutex
	env  *Environment
	done bool
}

// NewServer 创建环境RPC服务
func NewServer(e *Environment) *Server {
	return &Server{env: e}
}

// Handler 构造HTTP处理器
// 返回：路由前缀与处理器，与connect生成代码的NewXxxServiceHandler形式一致
func (s *Server) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(EnvServiceResetProcedure, connect.NewUnaryHandler(EnvServiceResetProcedure, s.Reset, opts...))
	mux.Handle(EnvServiceStepProcedure, connect.NewUnaryHandler(EnvServiceStepProcedure, s.Step, opts...))
	mux.Handle(EnvServiceObserveProcedure, connect.NewUnaryHandler(EnvServiceObserveProcedure, s.Observe, opts...))
	return "/" + EnvServiceName + "/", mux
}

// Register 将环境服务注册到sidecar
// 说明：环境自身保证互斥，不需要sidecar的步进锁
func (s *Server) Register(sidecar *syncer.Sidecar) {
	sidecar.Register(EnvServiceName, s.Handler, syncer.WithNoLock())
}

// Reset 开始新回合并返回初始观测
func (s *Server) Reset(ctx context.Context, in *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	o := s.env.Reset()
	s.done = false
	return s.respond(map[string]any{
		"observation": s.vector(o),
	})
}

// Step 执行动作并推进一步
// 说明：非法动作按不操作处理并在响应中标记malformed；回合结束后必须先Reset
func (s *Server) Step(ctx context.Context, in *connect.Request[wrapperspb.Int32Value]) (*connect.Response[structpb.Struct], error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.done {
		return nil, connect.NewError(connect.CodeFailedPrecondition, ErrEpisodeDone)
	}
	r := s.env.Step(in.Msg.GetValue())
	s.done = r.Done
	return s.respond(map[string]any{
		"observation": s.vector(r.Observation),
		"reward":      r.Reward,
		"collision":   r.Collision,
		"done":        r.Done,
		"reason":      string(r.Reason),
		"malformed":   r.Malformed,
	})
}

// Observe 返回最近一次的观测，不推进仿真
func (s *Server) Observe(ctx context.Context, in *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.respond(map[string]any{
		"observation": s.vector(s.env.Observation()),
		"done":        s.done,
	})
}

func (s *Server) vector(o Observation) []any {
	return lo.Map(o.Vector(s.env.Scheme()), func(x float64, _ int) any { return x })
}

func (s *Server) respond(fields map[string]any) (*connect.Response[structpb.Struct], error) {
	c := s.env.Context().Clock()
	fields["step"] = float64(c.InternalStep)
	fields["t"] = c.T
	fields["scheme"] = s.env.Scheme()
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(st), nil
}
