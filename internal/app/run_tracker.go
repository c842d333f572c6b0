package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"riskbatch/internal/domain"
	"riskbatch/internal/logger"

	"github.com/google/uuid"
)

const (
	DefaultRunRetention  = 2 * time.Hour
	janitorSweepInterval = time.Minute
)

// RunTracker holds the in-memory state of every batch run in this
// process. It is created once at startup and passed into the
// orchestrator; nothing reads it ambiently. Completed runs stay
// pollable for the retention window and are then evicted.
type RunTracker struct {
	mu        sync.Mutex
	runs      map[uuid.UUID]*trackedRun
	activeRun map[domain.JobType]uuid.UUID
	retention time.Duration
	now       func() time.Time
}

type trackedRun struct {
	state          domain.BatchRunState
	completedCount int
	phaseTotal     int
	phaseDone      int
}

func NewRunTracker(retention time.Duration) *RunTracker {
	if retention <= 0 {
		retention = DefaultRunRetention
	}
	return &RunTracker{
		runs:      map[uuid.UUID]*trackedRun{},
		activeRun: map[domain.JobType]uuid.UUID{},
		retention: retention,
		now:       time.Now,
	}
}

// Start registers a new run for the job type. A second trigger while a
// run of the same type is still in flight is rejected, which keeps an
// overlapping cron fire or a manual re-trigger from doubling work.
func (t *RunTracker) Start(jobType domain.JobType) (uuid.UUID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if runID, ok := t.activeRun[jobType]; ok {
		return uuid.Nil, fmt.Errorf("run %s already in flight for %s: %w", runID, jobType, domain.ErrDuplicateRun)
	}

	runID := uuid.New()
	t.runs[runID] = &trackedRun{
		state: domain.BatchRunState{
			RunID:      runID,
			JobType:    jobType,
			Status:     domain.RunStatusRunning,
			StartedAt:  t.now(),
			Activities: []domain.Activity{},
		},
	}
	t.activeRun[jobType] = runID
	return runID, nil
}

func (t *RunTracker) StartPhase(runID uuid.UUID, phase domain.RunPhase, pendingItems int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, ok := t.runs[runID]
	if !ok {
		return
	}
	run.state.CurrentPhase = phase
	run.state.PendingItems = pendingItems
	run.phaseTotal = pendingItems
	run.phaseDone = 0
	run.refreshProgress()
}

// UpdatePhaseProgress records that done of the current phase's items
// have finished.
func (t *RunTracker) UpdatePhaseProgress(runID uuid.UUID, done int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, ok := t.runs[runID]
	if !ok {
		return
	}
	run.phaseDone = done
	run.state.PendingItems = run.phaseTotal - done
	if run.state.PendingItems < 0 {
		run.state.PendingItems = 0
	}
	run.refreshProgress()
}

func (t *RunTracker) CompletePhase(runID uuid.UUID, phase domain.RunPhase) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, ok := t.runs[runID]
	if !ok {
		return
	}
	run.completedCount++
	run.phaseDone = run.phaseTotal
	run.state.PendingItems = 0
	run.refreshProgress()
}

func (t *RunTracker) AddActivity(runID uuid.UUID, message string, level domain.ActivityLevel) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, ok := t.runs[runID]
	if !ok {
		return
	}
	run.state.Activities = append(run.state.Activities, domain.Activity{
		Time:    t.now(),
		Level:   level,
		Message: message,
	})
}

func (t *RunTracker) Complete(runID uuid.UUID, success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, ok := t.runs[runID]
	if !ok {
		return
	}
	run.state.Status = domain.RunStatusCompleted
	if !success {
		run.state.Status = domain.RunStatusFailed
	}
	completedAt := t.now()
	run.state.CompletedAt = &completedAt
	run.state.ProgressPct = 100
	run.state.PendingItems = 0

	if t.activeRun[run.state.JobType] == runID {
		delete(t.activeRun, run.state.JobType)
	}
}

// GetRun returns a copy of the run's current state.
func (t *RunTracker) GetRun(runID uuid.UUID) (*domain.BatchRunState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, ok := t.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, domain.ErrRunNotFound)
	}
	state := run.state
	state.Activities = append([]domain.Activity{}, run.state.Activities...)
	return &state, nil
}

// StartJanitor launches the eviction loop. It stops when ctx is done.
func (t *RunTracker) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(janitorSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.evictExpired()
			}
		}
	}()
}

func (t *RunTracker) evictExpired() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.retention)
	for runID, run := range t.runs {
		if run.state.CompletedAt == nil || run.state.CompletedAt.After(cutoff) {
			continue
		}
		logger.Info("evicting expired run %s (%s)", runID, run.state.JobType)
		delete(t.runs, runID)
	}
}

func (r *trackedRun) refreshProgress() {
	phaseFraction := 0.0
	if r.phaseTotal > 0 {
		phaseFraction = float64(r.phaseDone) / float64(r.phaseTotal)
	}
	total := float64(len(domain.AllPhases))
	r.state.ProgressPct = (float64(r.completedCount) + phaseFraction) / total * 100
	if r.state.ProgressPct > 100 {
		r.state.ProgressPct = 100
	}
}
