package app

import (
	"testing"
	"time"

	"riskbatch/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_RunTracker(t *testing.T) {
	t.Run("duplicate triggers for the same job type are rejected", func(t *testing.T) {
		tracker := NewRunTracker(time.Hour)

		runID, err := tracker.Start(domain.JobTypeDailyRisk)
		require.NoError(t, err)

		_, err = tracker.Start(domain.JobTypeDailyRisk)
		require.ErrorIs(t, err, domain.ErrDuplicateRun)

		// a different job type is unaffected
		_, err = tracker.Start(domain.JobTypePriceBackfill)
		require.NoError(t, err)

		// completion frees the slot
		tracker.Complete(runID, true)
		_, err = tracker.Start(domain.JobTypeDailyRisk)
		require.NoError(t, err)
	})

	t.Run("progress advances through phases", func(t *testing.T) {
		tracker := NewRunTracker(time.Hour)
		runID, err := tracker.Start(domain.JobTypeDailyRisk)
		require.NoError(t, err)

		tracker.StartPhase(runID, domain.PhaseMarketData, 10)
		state, err := tracker.GetRun(runID)
		require.NoError(t, err)
		require.Equal(t, domain.PhaseMarketData, state.CurrentPhase)
		require.Equal(t, 10, state.PendingItems)
		require.InDelta(t, 0, state.ProgressPct, 1e-9)

		tracker.UpdatePhaseProgress(runID, 5)
		state, err = tracker.GetRun(runID)
		require.NoError(t, err)
		require.Equal(t, 5, state.PendingItems)
		// half of one of five phases
		require.InDelta(t, 10, state.ProgressPct, 1e-9)

		tracker.CompletePhase(runID, domain.PhaseMarketData)
		state, err = tracker.GetRun(runID)
		require.NoError(t, err)
		require.Equal(t, 0, state.PendingItems)
		require.InDelta(t, 20, state.ProgressPct, 1e-9)

		tracker.Complete(runID, true)
		state, err = tracker.GetRun(runID)
		require.NoError(t, err)
		require.Equal(t, domain.RunStatusCompleted, state.Status)
		require.NotNil(t, state.CompletedAt)
		require.InDelta(t, 100, state.ProgressPct, 1e-9)
	})

	t.Run("failed completion is reported", func(t *testing.T) {
		tracker := NewRunTracker(time.Hour)
		runID, err := tracker.Start(domain.JobTypeDailyRisk)
		require.NoError(t, err)

		tracker.AddActivity(runID, "provider exhausted for AAPL", domain.ActivityError)
		tracker.Complete(runID, false)

		state, err := tracker.GetRun(runID)
		require.NoError(t, err)
		require.Equal(t, domain.RunStatusFailed, state.Status)
		require.Len(t, state.Activities, 1)
		require.Equal(t, domain.ActivityError, state.Activities[0].Level)
	})

	t.Run("completed runs evict after the retention window", func(t *testing.T) {
		tracker := NewRunTracker(2 * time.Hour)
		current := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
		tracker.now = func() time.Time { return current }

		runID, err := tracker.Start(domain.JobTypeDailyRisk)
		require.NoError(t, err)
		tracker.Complete(runID, true)

		// still pollable inside the window
		current = current.Add(time.Hour)
		tracker.evictExpired()
		_, err = tracker.GetRun(runID)
		require.NoError(t, err)

		current = current.Add(2 * time.Hour)
		tracker.evictExpired()
		_, err = tracker.GetRun(runID)
		require.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("in-flight runs are never evicted", func(t *testing.T) {
		tracker := NewRunTracker(time.Minute)
		current := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
		tracker.now = func() time.Time { return current }

		runID, err := tracker.Start(domain.JobTypeDailyRisk)
		require.NoError(t, err)

		current = current.Add(24 * time.Hour)
		tracker.evictExpired()
		_, err = tracker.GetRun(runID)
		require.NoError(t, err)
	})

	t.Run("unknown run id", func(t *testing.T) {
		tracker := NewRunTracker(time.Hour)
		_, err := tracker.GetRun(uuid.New())
		require.ErrorIs(t, err, domain.ErrRunNotFound)
	})
}
