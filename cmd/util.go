package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"riskbatch/api"
	"riskbatch/internal"
	"riskbatch/internal/app"
	"riskbatch/internal/repository"
	l1_service "riskbatch/internal/service/l1"
	l2_service "riskbatch/internal/service/l2"
	l3_service "riskbatch/internal/service/l3"
	"riskbatch/pkg/fundamentals"
	"riskbatch/pkg/marketdata"
	"riskbatch/pkg/rates"

	_ "github.com/lib/pq"
)

const defaultScenariosPath = "config/scenarios.csv"

func CloseDependencies(handler *api.ApiHandler) {
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := internal.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	scenariosPath := defaultScenariosPath
	if p := os.Getenv("RISK_SCENARIOS_PATH"); p != "" {
		scenariosPath = p
	}
	scenarios, err := l2_service.LoadScenarios(scenariosPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenarios: %w", err)
	}

	adjPriceRepository := repository.NewAdjustedPriceRepository(dbConn)
	portfolioRepository := repository.NewPortfolioRepository(dbConn)
	positionRepository := repository.NewPositionRepository(dbConn)
	assetRepository := repository.NewAssetRepository(dbConn)
	snapshotRepository := repository.NewPortfolioSnapshotRepository(dbConn)
	factorBetaRepository := repository.NewFactorBetaRepository(dbConn)
	riskMeasureRepository := repository.NewRiskMeasureRepository(dbConn)
	stressResultRepository := repository.NewStressResultRepository(dbConn)
	fundamentalsRepository := repository.NewAssetFundamentalsRepository(dbConn)

	providerChain := marketdata.NewChain(marketdata.NewYahooProvider())
	priceService := l1_service.NewPriceService(adjPriceRepository, providerChain)
	snapshotService := l3_service.NewSnapshotService(snapshotRepository, portfolioRepository)

	tracker := app.NewRunTracker(app.DefaultRunRetention)

	orchestrator := &app.BatchOrchestrator{
		Db:      dbConn,
		Tracker: tracker,

		PriceService:    priceService,
		SnapshotService: snapshotService,

		PortfolioRepository:    portfolioRepository,
		PositionRepository:     positionRepository,
		AssetRepository:        assetRepository,
		FactorBetaRepository:   factorBetaRepository,
		RiskMeasureRepository:  riskMeasureRepository,
		StressResultRepository: stressResultRepository,
		FundamentalsRepository: fundamentalsRepository,

		Fundamentals: fundamentals.NewClient(secrets.FundamentalsApiKey),
		Rates:        rates.NewClient(),

		Engines: []l2_service.CalculationEngine{
			l2_service.NewMarketBetaEngine(),
			l2_service.NewRateBetaEngine(),
			l2_service.NewMultiFactorEngine(),
			l2_service.NewSpreadFactorsEngine(),
			l2_service.NewCorrelationEngine(),
			l2_service.NewVolatilityEngine(),
			l2_service.NewSectorExposureEngine(),
		},
		StressEngine: l2_service.NewStressTestEngine(),

		MarketProxy:   l2_service.DefaultMarketProxy,
		FactorProxies: l2_service.DefaultFactorProxies,
		SpreadProxies: l2_service.DefaultSpreadProxies,
		Scenarios:     scenarios,

		Retry: app.RetryPolicy{
			MaxAttempts: 3,
			Backoff:     2 * time.Second,
		},
	}

	return &api.ApiHandler{
		Db:           dbConn,
		Orchestrator: orchestrator,
		Tracker:      tracker,
	}, nil
}
