package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/i474232898/snowdesk/internal/store"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(context.Context) (*store.Snapshot, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &store.Snapshot{Count: 1, CycleID: "test"}, nil
}

func TestScheduler_RunsOnInterval(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, 20*time.Millisecond, "", zap.NewNop().Sugar())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_FailuresKeepScheduling(t *testing.T) {
	r := &countingRefresher{err: errors.New("no records")}
	s := New(r, 20*time.Millisecond, "", zap.NewNop().Sugar())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_InvalidCron(t *testing.T) {
	s := New(&countingRefresher{}, time.Minute, "not a cron", zap.NewNop().Sugar())
	assert.Error(t, s.Start())
}

func TestScheduler_StopHaltsRuns(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, 20*time.Millisecond, "", zap.NewNop().Sugar())
	require.NoError(t, s.Start())

	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	s.Stop()
	after := r.calls.Load()

	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, r.calls.Load(), after+1)
}
