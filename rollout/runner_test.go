package rollout_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossing-sim/env"
	"github.com/tsinghua-fib-lab/crossing-sim/policy"
	"github.com/tsinghua-fib-lab/crossing-sim/rollout"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/output"
)

type fakeStepper struct {
	steps    int
	ready    int
	closeAt  int // 第closeAt次Step返回true，0表示从不
	lastFlag bool
}

func (s *fakeStepper) Step(close bool) bool {
	s.steps++
	s.lastFlag = close
	return s.closeAt > 0 && s.steps >= s.closeAt
}

func (s *fakeStepper) NotifyStepReady() {
	s.ready++
}

func newEnv(t *testing.T) *env.Environment {
	t.Helper()
	c := config.Default()
	c.Env.EpisodeSeconds = 1
	e, err := env.New(c)
	require.NoError(t, err)
	return e
}

func TestRunnerStopsAfterEpisodes(t *testing.T) {
	e := newEnv(t)
	s := &fakeStepper{}
	m := &output.Memory{}
	r := rollout.NewRunner("test", e, policy.NewFixedCycle(e.Scheme(), 0.5), s, m, 2)

	n := r.Run(context.Background())

	assert.Equal(t, 2, n)
	require.Len(t, m.Records, 2)
	for i, rec := range m.Records {
		// 环境创建时已经开始了第0回合，Run会重新开始
		assert.Equal(t, i+1, rec.Episode)
		assert.Equal(t, "test", rec.Job)
		assert.Equal(t, "fixed", rec.Policy)
		assert.Equal(t, string(env.ReasonTimeout), rec.Reason)
		assert.Equal(t, int32(60), rec.Ticks)
		assert.NotEmpty(t, rec.ID)
	}
	// 初始化一次 + 每步一次
	assert.Equal(t, 120, s.ready)
	assert.Equal(t, 121, s.steps)
	assert.True(t, s.lastFlag)
}

func TestRunnerStopsWhenStepperCloses(t *testing.T) {
	e := newEnv(t)
	s := &fakeStepper{closeAt: 11}
	m := &output.Memory{}
	r := rollout.NewRunner("test", e, policy.NewNoOp(e.Scheme()), s, m, 0)

	n := r.Run(context.Background())

	assert.Equal(t, 0, n)
	assert.Empty(t, m.Records)
	assert.Equal(t, 10, s.ready)
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &fakeStepper{}
	r := rollout.NewRunner("test", e, policy.NewNoOp(e.Scheme()), s, output.Nop{}, 0)
	r.Run(ctx)
	assert.Equal(t, 1, s.ready)
}
