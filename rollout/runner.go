package rollout

import (
	"context"
	"flag"
	"sync/atomic"

	"github.com/tsinghua-fib-lab/crossing-sim/env"
	"github.com/tsinghua-fib-lab/crossing-sim/policy"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/output"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 600, "心跳日志间隔步数")
)

// Stepper 步进同步器
// 功能：与外部模拟任务集群逐步对齐，*syncer.Sidecar实现了该接口
type Stepper interface {
	// Step 完成一步并等待其他参与者，close为true表示本程序即将退出；返回是否需要退出
	Step(close bool) bool
	// NotifyStepReady 通知准备阶段完成
	NotifyStepReady()
}

// Runner 回合驱动器
// 功能：用脚本化策略驱动环境，每步与同步器对齐，回合结束时输出汇总并重置
type Runner struct {
	job      string
	env      *env.Environment
	policy   policy.Policy
	stepper  Stepper
	recorder output.Recorder

	episodes int // 运行的回合数，0表示直到同步器要求退出

	closed atomic.Bool
	ticks  int64
}

// NewRunner 创建回合驱动器
// 参数：job-任务名，e-环境，p-策略，s-同步器，r-输出，episodes-回合数（0表示不限）
func NewRunner(job string, e *env.Environment, p policy.Policy, s Stepper, r output.Recorder, episodes int) *Runner {
	return &Runner{
		job:      job,
		env:      e,
		policy:   p,
		stepper:  s,
		recorder: r,
		episodes: episodes,
	}
}

// Close 请求在当前步结束后退出
func (r *Runner) Close() {
	r.closed.Store(true)
}

// Run 运行
// 算法说明：
// 1. 重置环境与策略，通知同步器初始化
// 2. 每步：策略给出动作，通知准备完成，环境推进一步
// 3. 回合结束时输出汇总，重置环境与策略
// 4. 达到回合数、同步器要求退出、调用Close或ctx取消时退出
// 返回：完成的回合数
func (r *Runner) Run(ctx context.Context) int {
	o := r.env.Reset()
	r.policy.Reset()
	dt := r.env.Context().Clock().DT
	// init syncer
	r.stepper.Step(false)
	finished := 0
	for {
		action := r.policy.Act(o, dt)
		r.stepper.NotifyStepReady()
		res := r.env.Step(action)
		o = res.Observation
		r.heartbeat(res)
		if res.Done {
			r.record(ctx, r.env.Stats())
			finished++
			o = r.env.Reset()
			r.policy.Reset()
		}
		last := r.episodes > 0 && finished >= r.episodes
		close := r.stepper.Step(last)
		if close || last || r.closed.Load() || ctx.Err() != nil {
			break
		}
	}
	log.Infof("rollout complete: %d episodes", finished)
	return finished
}

func (r *Runner) heartbeat(res env.StepResult) {
	r.ticks++
	if *heartBeatInterval <= 0 || r.ticks%int64(*heartBeatInterval) != 0 {
		return
	}
	s := r.env.Stats()
	log.Infof(
		"STEP: %d episode %d (%v) vehicles=%d queue=%v return=%.2f",
		r.ticks, s.Episode, r.env.Context().Clock(),
		r.env.Context().VehicleManager().Len(), res.Observation.Queue, s.Return,
	)
}

func (r *Runner) record(ctx context.Context, s env.EpisodeStats) {
	log.Infof("episode %d done: reason=%s ticks=%d return=%.2f peak=%d", s.Episode, s.Reason, s.Ticks, s.Return, s.PeakPopulation)
	err := r.recorder.Record(ctx, output.EpisodeRecord{
		Job:            r.job,
		Policy:         r.policy.Name(),
		Episode:        s.Episode,
		Ticks:          s.Ticks,
		SimTime:        s.SimTime,
		Return:         s.Return,
		Reason:         string(s.Reason),
		PeakPopulation: s.PeakPopulation,
		Spawned:        s.Spawned,
		Collisions:     s.Collisions,
	})
	if err != nil {
		log.Errorf("failed to record episode %d: %v", s.Episode, err)
	}
}
