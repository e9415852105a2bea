package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurlyy/course_ui/pkg/config"
	"github.com/nurlyy/course_ui/pkg/logger"
)

func newTestScheduler(p Pinger) *SchedulerService {
	m := newTestMetrics()
	return NewSchedulerService(p, &config.SchedulerConfig{
		BackendProbeCron:    "*/1 * * * * *",
		BackendProbeTimeout: time.Second,
	}, m, logger.NewNopLogger())
}

func TestSchedulerService_Probe(t *testing.T) {
	pinger := &fakePinger{status: 404}
	s := newTestScheduler(pinger)

	_, ok := s.Status()
	assert.False(t, ok)

	st := s.Probe(context.Background())
	assert.True(t, st.Up)
	assert.Equal(t, 404, st.LastStatus)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.BackendUp))

	pinger.err = errBoom
	st = s.Probe(context.Background())
	assert.False(t, st.Up)
	assert.Equal(t, "boom", st.Error)
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.BackendUp))

	last, ok := s.Status()
	require.True(t, ok)
	assert.Equal(t, st, last)
}

func TestSchedulerService_StartRunsProbes(t *testing.T) {
	pinger := &fakePinger{status: 200}
	s := newTestScheduler(pinger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	require.Eventually(t, func() bool {
		return pinger.calls.Load() >= 2
	}, 5*time.Second, 50*time.Millisecond)
}

func TestSchedulerService_InvalidCron(t *testing.T) {
	s := NewSchedulerService(&fakePinger{}, &config.SchedulerConfig{
		BackendProbeCron:    "not a cron",
		BackendProbeTimeout: time.Second,
	}, nil, logger.NewNopLogger())

	require.Error(t, s.Start(context.Background()))
}
