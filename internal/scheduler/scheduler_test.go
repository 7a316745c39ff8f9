package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(nil, nil)

	// Nothing scheduled yet.
	require.Error(t, s.Start())
	assert.False(t, s.IsRunning())

	err := s.ScheduleRetraining("0 4 * * *", RetrainingJob{
		Season:    2024,
		GameLimit: 10,
		ModelPath: "models/test.json",
	})
	require.NoError(t, err)

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.NextRun().IsZero())

	// Scheduling while running is rejected.
	require.Error(t, s.ScheduleRetraining("0 5 * * *", RetrainingJob{}))
	require.Error(t, s.Start())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())

	// Stopping twice is a no-op.
	require.NoError(t, s.Stop())
}

func TestScheduleRetrainingRejectsBadCron(t *testing.T) {
	s := NewScheduler(nil, nil)
	require.Error(t, s.ScheduleRetraining("not a cron expression", RetrainingJob{}))
}
