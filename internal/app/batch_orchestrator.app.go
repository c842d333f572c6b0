package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/domain"
	"riskbatch/internal/logger"
	"riskbatch/internal/repository"
	l1_service "riskbatch/internal/service/l1"
	l2_service "riskbatch/internal/service/l2"
	l3_service "riskbatch/internal/service/l3"
	"riskbatch/pkg/fundamentals"
	"riskbatch/pkg/rates"

	"github.com/google/uuid"
)

const (
	defaultMaxAttempts   = 3
	defaultBackoff       = time.Second
	defaultEngineWorkers = 4
	cacheLookbackYears   = 2
	tenYearTenorMonths   = 120
)

// RetryPolicy bounds retries around provider calls. Backoff doubles
// per attempt.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts > 0 {
		return p.MaxAttempts
	}
	return defaultMaxAttempts
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	base := p.Backoff
	if base <= 0 {
		base = defaultBackoff
	}
	return base << (attempt - 1)
}

// BatchOrchestrator drives the daily pipeline. Phases are strictly
// sequenced; within the analytics phase, independent engines run on a
// small worker pool while the stress engine waits for the beta
// engines' commit.
type BatchOrchestrator struct {
	Db      *sql.DB
	Tracker *RunTracker

	PriceService    l1_service.PriceService
	SnapshotService l3_service.SnapshotService

	PortfolioRepository    repository.PortfolioRepository
	PositionRepository     repository.PositionRepository
	AssetRepository        repository.AssetRepository
	FactorBetaRepository   repository.FactorBetaRepository
	RiskMeasureRepository  repository.RiskMeasureRepository
	StressResultRepository repository.StressResultRepository
	FundamentalsRepository repository.AssetFundamentalsRepository

	Fundamentals FundamentalsClient
	Rates        RatesClient

	Engines      []l2_service.CalculationEngine
	StressEngine l2_service.CalculationEngine

	MarketProxy   string
	FactorProxies map[string]string
	SpreadProxies map[string]l2_service.SpreadProxy
	Scenarios     []l2_service.Scenario

	Retry         RetryPolicy
	EngineWorkers int
}

// FundamentalsClient is the slice of pkg/fundamentals the orchestrator
// needs.
type FundamentalsClient interface {
	GetStatements(ctx context.Context, symbol string) ([]fundamentals.Statement, error)
}

// RatesClient is the slice of pkg/rates the orchestrator needs.
type RatesClient interface {
	GetRateSeries(ctx context.Context, monthsOut int, dates []time.Time) ([]rates.RatePoint, error)
}

// RunDailyBatch executes the full phase sequence for one calculation
// date. Per-portfolio failures are isolated: a portfolio that fails
// its P&L phase is excluded from later phases while its siblings
// continue, and the run still completes with per-phase status.
func (h *BatchOrchestrator) RunDailyBatch(ctx context.Context, date time.Time) (uuid.UUID, error) {
	runID, err := h.startDailyRun()
	if err != nil {
		return runID, err
	}
	return runID, h.executeDailyBatch(ctx, runID, date)
}

// StartDailyBatchAsync validates and registers the run, then executes
// the phases in the background. The returned run id is immediately
// pollable through the tracker.
func (h *BatchOrchestrator) StartDailyBatchAsync(ctx context.Context, date time.Time) (uuid.UUID, error) {
	runID, err := h.startDailyRun()
	if err != nil {
		return runID, err
	}
	go func() {
		if err := h.executeDailyBatch(ctx, runID, date); err != nil {
			logger.Error(fmt.Errorf("daily batch %s failed: %w", runID, err))
		}
	}()
	return runID, nil
}

func (h *BatchOrchestrator) startDailyRun() (uuid.UUID, error) {
	runID, err := h.Tracker.Start(domain.JobTypeDailyRisk)
	if err != nil {
		return uuid.Nil, err
	}
	if err := h.validateConfig(); err != nil {
		h.Tracker.AddActivity(runID, fmt.Sprintf("configuration invalid: %v", err), domain.ActivityError)
		h.Tracker.Complete(runID, false)
		return runID, err
	}
	return runID, nil
}

func (h *BatchOrchestrator) executeDailyBatch(ctx context.Context, runID uuid.UUID, date time.Time) error {
	log := logger.FromContext(ctx)

	portfolios, err := h.PortfolioRepository.List()
	if err != nil {
		h.Tracker.AddActivity(runID, fmt.Sprintf("failed to list portfolios: %v", err), domain.ActivityError)
		h.Tracker.Complete(runID, false)
		return err
	}

	symbols := h.universe(portfolios)

	cache, err := h.runMarketDataPhase(ctx, runID, symbols, date)
	if err != nil {
		h.Tracker.Complete(runID, false)
		return err
	}

	h.runFundamentalsPhase(ctx, runID, portfolios)

	failed := h.runPnlPhase(ctx, runID, portfolios, cache, date)

	h.runValueRefreshPhase(ctx, runID, portfolios, cache, date, failed)

	h.runAnalyticsPhase(ctx, runID, portfolios, cache, date, failed)

	h.Tracker.Complete(runID, true)
	log.Infow("daily batch complete",
		"runId", runID,
		"date", date.Format(time.DateOnly),
		"portfolios", len(portfolios),
		"failed", len(failed),
	)
	return nil
}

// RunPriceBackfill ingests price history for the full universe without
// running downstream phases.
func (h *BatchOrchestrator) RunPriceBackfill(ctx context.Context, through time.Time) (uuid.UUID, error) {
	runID, err := h.Tracker.Start(domain.JobTypePriceBackfill)
	if err != nil {
		return uuid.Nil, err
	}
	return runID, h.executePriceBackfill(ctx, runID, through)
}

// StartPriceBackfillAsync registers the run and ingests in the
// background. A multi-year backfill takes far longer than any HTTP
// request should, so the trigger surface returns a pollable run id
// instead of blocking.
func (h *BatchOrchestrator) StartPriceBackfillAsync(ctx context.Context, through time.Time) (uuid.UUID, error) {
	runID, err := h.Tracker.Start(domain.JobTypePriceBackfill)
	if err != nil {
		return uuid.Nil, err
	}
	go func() {
		if err := h.executePriceBackfill(ctx, runID, through); err != nil {
			logger.Error(fmt.Errorf("price backfill %s failed: %w", runID, err))
		}
	}()
	return runID, nil
}

func (h *BatchOrchestrator) executePriceBackfill(ctx context.Context, runID uuid.UUID, through time.Time) error {
	portfolios, err := h.PortfolioRepository.List()
	if err != nil {
		h.Tracker.Complete(runID, false)
		return err
	}
	symbols := h.universe(portfolios)

	h.Tracker.StartPhase(runID, domain.PhaseMarketData, len(symbols))
	err = h.withRetry(ctx, runID, "price backfill", func() error {
		return h.PriceService.SyncPrices(ctx, nil, symbols, through)
	})
	if err != nil {
		h.Tracker.AddActivity(runID, fmt.Sprintf("price backfill failed: %v", err), domain.ActivityError)
		h.Tracker.Complete(runID, false)
		return err
	}
	h.Tracker.CompletePhase(runID, domain.PhaseMarketData)
	h.Tracker.Complete(runID, true)
	return nil
}

// validateConfig runs before the first phase so a misconfigured run
// aborts instead of failing halfway through.
func (h *BatchOrchestrator) validateConfig() error {
	if h.MarketProxy == "" {
		return fmt.Errorf("no market proxy configured: %w", domain.ErrMissingConfig)
	}
	if len(h.FactorProxies) == 0 {
		return fmt.Errorf("no factor proxies configured: %w", domain.ErrMissingConfig)
	}
	for factor, symbol := range h.FactorProxies {
		if symbol == "" {
			return fmt.Errorf("factor %q has no proxy symbol: %w", factor, domain.ErrMissingConfig)
		}
	}
	if err := l2_service.ValidateScenarios(h.Scenarios, h.FactorProxies); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrMissingConfig)
	}
	return nil
}

// universe is every symbol the run touches: held symbols plus all
// factor proxies.
func (h *BatchOrchestrator) universe(portfolios []domain.Portfolio) []string {
	seen := map[string]bool{}
	symbols := []string{}
	add := func(symbol string) {
		if symbol != "" && !seen[symbol] {
			seen[symbol] = true
			symbols = append(symbols, symbol)
		}
	}

	for _, portfolio := range portfolios {
		for _, symbol := range portfolio.HeldSymbols() {
			add(symbol)
		}
	}
	add(h.MarketProxy)
	for _, symbol := range h.FactorProxies {
		add(symbol)
	}
	for _, proxy := range h.SpreadProxies {
		add(proxy.Long)
		add(proxy.Short)
	}
	return symbols
}

func (h *BatchOrchestrator) runMarketDataPhase(ctx context.Context, runID uuid.UUID, symbols []string, date time.Time) (*l1_service.PriceCache, error) {
	h.Tracker.StartPhase(runID, domain.PhaseMarketData, len(symbols))

	err := h.withRetry(ctx, runID, "price sync", func() error {
		return h.PriceService.SyncPrices(ctx, nil, symbols, date)
	})
	if err != nil {
		h.Tracker.AddActivity(runID, fmt.Sprintf("market data collection failed: %v", err), domain.ActivityError)
		return nil, err
	}

	cache, err := h.PriceService.LoadCache(nil, symbols, domain.DateRange{
		Start: date.AddDate(-cacheLookbackYears, 0, 0),
		End:   date,
	})
	if err != nil {
		h.Tracker.AddActivity(runID, fmt.Sprintf("price cache load failed: %v", err), domain.ActivityError)
		return nil, err
	}

	h.Tracker.CompletePhase(runID, domain.PhaseMarketData)
	return cache, nil
}

func (h *BatchOrchestrator) runFundamentalsPhase(ctx context.Context, runID uuid.UUID, portfolios []domain.Portfolio) {
	log := logger.FromContext(ctx)

	held := map[string]bool{}
	symbols := []string{}
	for _, portfolio := range portfolios {
		for _, symbol := range portfolio.HeldSymbols() {
			if !held[symbol] {
				held[symbol] = true
				symbols = append(symbols, symbol)
			}
		}
	}
	h.Tracker.StartPhase(runID, domain.PhaseFundamentals, len(symbols))

	done := 0
	for _, symbol := range symbols {
		err := h.withRetry(ctx, runID, "fundamentals for "+symbol, func() error {
			statements, err := h.Fundamentals.GetStatements(ctx, symbol)
			if err != nil {
				return err
			}
			models := make([]*model.AssetFundamental, 0, len(statements))
			for _, statement := range statements {
				models = append(models, &model.AssetFundamental{
					Symbol:            statement.Symbol,
					PeriodEnd:         statement.PeriodEnd,
					Revenue:           statement.Revenue,
					NetIncome:         statement.NetIncome,
					TotalAssets:       statement.TotalAssets,
					ShareholderEquity: statement.ShareholderEquity,
					EpsDiluted:        statement.EpsDiluted,
				})
			}
			return h.FundamentalsRepository.AddMany(nil, models)
		})
		if err != nil {
			// fundamentals gaps degrade analytics quality but never
			// block the run
			log.Warnw("fundamentals collection failed", "symbol", symbol, "error", err)
			h.Tracker.AddActivity(runID, fmt.Sprintf("fundamentals failed for %s: %v", symbol, err), domain.ActivityWarn)
		}
		done++
		h.Tracker.UpdatePhaseProgress(runID, done)
	}

	h.Tracker.CompletePhase(runID, domain.PhaseFundamentals)
}

// runPnlPhase builds snapshots portfolio by portfolio and returns the
// set of portfolios whose P&L failed; those are excluded from later
// phases while siblings proceed.
func (h *BatchOrchestrator) runPnlPhase(ctx context.Context, runID uuid.UUID, portfolios []domain.Portfolio, cache *l1_service.PriceCache, date time.Time) map[uuid.UUID]bool {
	log := logger.FromContext(ctx)
	h.Tracker.StartPhase(runID, domain.PhasePnl, len(portfolios))

	failed := map[uuid.UUID]bool{}
	done := 0
	for _, portfolio := range portfolios {
		err := h.inTransaction(ctx, func(tx *sql.Tx) error {
			_, err := h.SnapshotService.BuildSnapshot(ctx, tx, portfolio, cache, date)
			return err
		})
		if err != nil {
			failed[portfolio.PortfolioID] = true
			log.Errorw("pnl phase failed for portfolio",
				"portfolioId", portfolio.PortfolioID,
				"phase", domain.PhasePnl,
				"error", err,
			)
			h.Tracker.AddActivity(runID, fmt.Sprintf("pnl failed for portfolio %s: %v", portfolio.PortfolioID, err), domain.ActivityError)
		}
		done++
		h.Tracker.UpdatePhaseProgress(runID, done)
	}

	h.Tracker.CompletePhase(runID, domain.PhasePnl)
	return failed
}

func (h *BatchOrchestrator) runValueRefreshPhase(ctx context.Context, runID uuid.UUID, portfolios []domain.Portfolio, cache *l1_service.PriceCache, date time.Time, failed map[uuid.UUID]bool) {
	log := logger.FromContext(ctx)
	h.Tracker.StartPhase(runID, domain.PhaseValueRefresh, len(portfolios))

	done := 0
	for _, portfolio := range portfolios {
		if failed[portfolio.PortfolioID] {
			done++
			h.Tracker.UpdatePhaseProgress(runID, done)
			continue
		}
		valued, _ := l1_service.PreparePositionsForAggregation(ctx, portfolio.Positions, cache, date)
		for _, vp := range valued {
			if err := h.PositionRepository.UpdateMarketValue(nil, vp.Position.PositionID, vp.MarketValue.InexactFloat64()); err != nil {
				log.Errorw("failed to refresh position value",
					"positionId", vp.Position.PositionID,
					"error", err,
				)
			}
		}
		done++
		h.Tracker.UpdatePhaseProgress(runID, done)
	}

	h.Tracker.CompletePhase(runID, domain.PhaseValueRefresh)
}

func (h *BatchOrchestrator) runAnalyticsPhase(ctx context.Context, runID uuid.UUID, portfolios []domain.Portfolio, cache *l1_service.PriceCache, date time.Time, failed map[uuid.UUID]bool) {
	log := logger.FromContext(ctx)
	h.Tracker.StartPhase(runID, domain.PhaseAnalytics, len(portfolios))

	sectorMap, err := h.AssetRepository.SectorMap()
	if err != nil {
		log.Warnw("failed to load sector map", "error", err)
		sectorMap = map[string]string{}
	}

	var rateLevels []l2_service.RatePoint
	err = h.withRetry(ctx, runID, "rate series", func() error {
		points, err := h.Rates.GetRateSeries(ctx, tenYearTenorMonths, cache.TradingDays())
		if err != nil {
			return err
		}
		rateLevels = rateLevels[:0]
		for _, p := range points {
			rateLevels = append(rateLevels, l2_service.RatePoint{Date: p.Date, Level: p.Level})
		}
		return nil
	})
	if err != nil {
		// the rate beta engine degrades on an empty series
		log.Warnw("failed to load rate series", "error", err)
		h.Tracker.AddActivity(runID, fmt.Sprintf("rate series unavailable: %v", err), domain.ActivityWarn)
	}

	done := 0
	for _, portfolio := range portfolios {
		if failed[portfolio.PortfolioID] {
			done++
			h.Tracker.UpdatePhaseProgress(runID, done)
			continue
		}

		input := h.engineInput(ctx, portfolio, cache, date, sectorMap, rateLevels)
		h.runIndependentEngines(ctx, runID, input)
		h.runStressEngine(ctx, runID, input)

		done++
		h.Tracker.UpdatePhaseProgress(runID, done)
	}

	h.Tracker.CompletePhase(runID, domain.PhaseAnalytics)
}

func (h *BatchOrchestrator) engineInput(ctx context.Context, portfolio domain.Portfolio, cache *l1_service.PriceCache, date time.Time, sectorMap map[string]string, rateLevels []l2_service.RatePoint) l2_service.EngineInput {
	valued, _ := l1_service.PreparePositionsForAggregation(ctx, portfolio.Positions, cache, date)
	return l2_service.EngineInput{
		Portfolio:       portfolio,
		ValuedPositions: valued,
		Date:            date,
		Cache:           cache,
		MarketProxy:     h.MarketProxy,
		FactorProxies:   h.FactorProxies,
		SpreadProxies:   h.SpreadProxies,
		SectorMap:       sectorMap,
		RateLevels:      rateLevels,
		Scenarios:       h.Scenarios,
	}
}

// runIndependentEngines runs the beta, correlation, volatility and
// sector engines on a worker pool and commits everything they
// produce. The commit happens before the stress engine runs so its
// inputs are durable.
func (h *BatchOrchestrator) runIndependentEngines(ctx context.Context, runID uuid.UUID, input l2_service.EngineInput) {
	log := logger.FromContext(ctx)

	workers := h.EngineWorkers
	if workers <= 0 {
		workers = defaultEngineWorkers
	}

	engineCh := make(chan l2_service.CalculationEngine, len(h.Engines))
	resultCh := make(chan *l2_service.EngineResult, len(h.Engines))
	var wg sync.WaitGroup
	for _, engine := range h.Engines {
		wg.Add(1)
		engineCh <- engine
	}
	close(engineCh)

	for i := 0; i < workers; i++ {
		go func() {
			for engine := range engineCh {
				result, err := engine.Calculate(ctx, input)
				if err != nil {
					log.Errorw("engine failed",
						"engine", engine.Name(),
						"portfolioId", input.Portfolio.PortfolioID,
						"error", err,
					)
					h.Tracker.AddActivity(runID, fmt.Sprintf("%s failed for portfolio %s: %v", engine.Name(), input.Portfolio.PortfolioID, err), domain.ActivityError)
					result = nil
				}
				resultCh <- result
				wg.Done()
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	betas := []*model.FactorBeta{}
	measures := []*model.RiskMeasure{}
	for result := range resultCh {
		if result == nil {
			continue
		}
		if result.Quality != domain.QualityOk {
			h.Tracker.AddActivity(runID, fmt.Sprintf("%s degraded for portfolio %s: %s", result.Engine, input.Portfolio.PortfolioID, result.Quality), domain.ActivityWarn)
		}
		betas = append(betas, result.FactorBetas...)
		measures = append(measures, result.RiskMeasures...)
	}

	if len(betas) > 0 {
		if err := h.FactorBetaRepository.AddMany(nil, betas); err != nil {
			log.Errorw("failed to persist factor betas", "error", err)
			h.Tracker.AddActivity(runID, fmt.Sprintf("beta persistence failed for portfolio %s: %v", input.Portfolio.PortfolioID, err), domain.ActivityError)
		}
	}
	if len(measures) > 0 {
		if err := h.RiskMeasureRepository.AddMany(nil, measures); err != nil {
			log.Errorw("failed to persist risk measures", "error", err)
			h.Tracker.AddActivity(runID, fmt.Sprintf("risk measure persistence failed for portfolio %s: %v", input.Portfolio.PortfolioID, err), domain.ActivityError)
		}
	}
}

// runStressEngine runs strictly after the independent group's commit,
// reading the betas back from the store so scenario impacts always
// compose with durable inputs.
func (h *BatchOrchestrator) runStressEngine(ctx context.Context, runID uuid.UUID, input l2_service.EngineInput) {
	log := logger.FromContext(ctx)

	betas, err := h.FactorBetaRepository.List(domain.EntityTypePortfolio, input.Portfolio.PortfolioID.String(), input.Date)
	if err != nil {
		log.Errorw("failed to load committed betas for stress", "portfolioId", input.Portfolio.PortfolioID, "error", err)
		h.Tracker.AddActivity(runID, fmt.Sprintf("stress skipped for portfolio %s: %v", input.Portfolio.PortfolioID, err), domain.ActivityError)
		return
	}
	input.PortfolioBetas = betas

	result, err := h.StressEngine.Calculate(ctx, input)
	if err != nil {
		log.Errorw("stress engine failed", "portfolioId", input.Portfolio.PortfolioID, "error", err)
		h.Tracker.AddActivity(runID, fmt.Sprintf("stress failed for portfolio %s: %v", input.Portfolio.PortfolioID, err), domain.ActivityError)
		return
	}
	if result.Quality != domain.QualityOk {
		h.Tracker.AddActivity(runID, fmt.Sprintf("stress degraded for portfolio %s: %s", input.Portfolio.PortfolioID, result.Quality), domain.ActivityWarn)
	}
	if len(result.StressResults) == 0 {
		return
	}
	if err := h.StressResultRepository.AddMany(nil, result.StressResults); err != nil {
		log.Errorw("failed to persist stress results", "portfolioId", input.Portfolio.PortfolioID, "error", err)
		h.Tracker.AddActivity(runID, fmt.Sprintf("stress persistence failed for portfolio %s: %v", input.Portfolio.PortfolioID, err), domain.ActivityError)
	}
}

func (h *BatchOrchestrator) withRetry(ctx context.Context, runID uuid.UUID, op string, fn func() error) error {
	log := logger.FromContext(ctx)

	var err error
	for attempt := 1; attempt <= h.Retry.attempts(); attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !domain.IsTransient(err) || attempt == h.Retry.attempts() {
			return err
		}

		wait := h.Retry.backoff(attempt)
		log.Warnw("transient failure, retrying",
			"op", op,
			"attempt", attempt,
			"backoff", wait,
			"error", err,
		)
		h.Tracker.AddActivity(runID, fmt.Sprintf("%s attempt %d failed, retrying: %v", op, attempt, err), domain.ActivityWarn)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}

// inTransaction wraps fn in a database transaction when a database is
// attached; repositories accept a nil tx otherwise.
func (h *BatchOrchestrator) inTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if h.Db == nil {
		return fn(nil)
	}
	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
