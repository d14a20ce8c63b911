package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) RefreshStats(ctx context.Context) (int, error) {
	r.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("missing deadline")
	}
	return 3, r.err
}

func TestProfileStatsScheduler_Run(t *testing.T) {
	refresher := &countingRefresher{}
	s := NewProfileStatsScheduler(refresher, "0 * * * *")

	s.Run()
	refresher.err = errors.New("database down")
	s.Run()

	assert.Equal(t, int32(2), refresher.calls.Load())
}

func TestProfileStatsScheduler_StartStop(t *testing.T) {
	s := NewProfileStatsScheduler(&countingRefresher{}, "@every 1h")

	assert.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}

func TestProfileStatsScheduler_InvalidSchedule(t *testing.T) {
	s := NewProfileStatsScheduler(&countingRefresher{}, "every other tuesday")

	assert.Error(t, s.Start())
}
