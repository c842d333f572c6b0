package repository

import (
	"database/sql"
	"fmt"
	"time"

	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

type StressResultRepository interface {
	AddMany(tx *sql.Tx, results []*model.StressResult) error
	List(portfolioID uuid.UUID, date time.Time) ([]model.StressResult, error)
}

type stressResultRepositoryHandler struct {
	Db *sql.DB
}

func NewStressResultRepository(db *sql.DB) StressResultRepository {
	return stressResultRepositoryHandler{Db: db}
}

func (h stressResultRepositoryHandler) AddMany(tx *sql.Tx, results []*model.StressResult) error {
	if len(results) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, r := range results {
		r.CreatedAt = now
		r.UpdatedAt = now
	}

	query := table.StressResult.
		INSERT(table.StressResult.MutableColumns).
		MODELS(results).
		ON_CONFLICT(
			table.StressResult.PortfolioID,
			table.StressResult.Scenario,
			table.StressResult.Date,
		).
		DO_UPDATE(
			postgres.SET(
				table.StressResult.ImpactPct.SET(table.StressResult.EXCLUDED.ImpactPct),
				table.StressResult.ImpactAmount.SET(table.StressResult.EXCLUDED.ImpactAmount),
				table.StressResult.Quality.SET(table.StressResult.EXCLUDED.Quality),
				table.StressResult.UpdatedAt.SET(table.StressResult.EXCLUDED.UpdatedAt),
			),
		)

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to add stress results to db: %w", err)
	}

	return nil
}

func (h stressResultRepositoryHandler) List(portfolioID uuid.UUID, date time.Time) ([]model.StressResult, error) {
	query := table.StressResult.
		SELECT(table.StressResult.AllColumns).
		WHERE(
			postgres.AND(
				table.StressResult.PortfolioID.EQ(postgres.UUID(portfolioID)),
				table.StressResult.Date.EQ(postgres.DateT(date)),
			),
		).
		ORDER_BY(table.StressResult.Scenario.ASC())

	out := []model.StressResult{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list stress results for portfolio %s: %w", portfolioID.String(), err)
	}

	return out, nil
}
