package domain

import (
	"time"

	"github.com/google/uuid"
)

type JobType string

const (
	JobTypeDailyRisk     JobType = "daily_risk"
	JobTypePriceBackfill JobType = "price_backfill"
)

type RunPhase string

const (
	PhaseMarketData   RunPhase = "market_data"
	PhaseFundamentals RunPhase = "fundamentals"
	PhasePnl          RunPhase = "pnl"
	PhaseValueRefresh RunPhase = "value_refresh"
	PhaseAnalytics    RunPhase = "analytics"
)

// AllPhases in execution order. Phase N+1 never starts before phase N
// completes for the run's scope.
var AllPhases = []RunPhase{
	PhaseMarketData,
	PhaseFundamentals,
	PhasePnl,
	PhaseValueRefresh,
	PhaseAnalytics,
}

type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

type ActivityLevel string

const (
	ActivityInfo  ActivityLevel = "info"
	ActivityWarn  ActivityLevel = "warn"
	ActivityError ActivityLevel = "error"
)

type Activity struct {
	Time    time.Time     `json:"time"`
	Level   ActivityLevel `json:"level"`
	Message string        `json:"message"`
}

// BatchRunState is the poll-friendly view of a run exposed through
// the status endpoint.
type BatchRunState struct {
	RunID        uuid.UUID  `json:"runId"`
	JobType      JobType    `json:"jobType"`
	Status       RunStatus  `json:"status"`
	CurrentPhase RunPhase   `json:"currentPhase"`
	PendingItems int        `json:"pendingItems"`
	ProgressPct  float64    `json:"progressPct"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Activities   []Activity `json:"activities"`
}

// Calculation quality flags. Engines degrade to a flagged result
// instead of failing the batch when history is thin.
const (
	QualityOk               = "ok"
	QualityInsufficientData = "insufficient_data"
	QualityMissingData      = "missing_data"
)

const (
	EntityTypePortfolio = "portfolio"
	EntityTypeSymbol    = "symbol"
)
