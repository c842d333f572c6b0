package repository

import (
	"database/sql"
	"fmt"
	"time"

	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// RiskMeasureRepository stores scalar analytics that are not betas:
// volatility, correlation summaries, sector weights. Matrix-shaped
// detail rides along as JSON in the detail column.
type RiskMeasureRepository interface {
	AddMany(tx *sql.Tx, measures []*model.RiskMeasure) error
	List(entityID string, date time.Time) ([]model.RiskMeasure, error)
}

type riskMeasureRepositoryHandler struct {
	Db *sql.DB
}

func NewRiskMeasureRepository(db *sql.DB) RiskMeasureRepository {
	return riskMeasureRepositoryHandler{Db: db}
}

func (h riskMeasureRepositoryHandler) AddMany(tx *sql.Tx, measures []*model.RiskMeasure) error {
	if len(measures) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, m := range measures {
		m.CreatedAt = now
		m.UpdatedAt = now
	}

	query := table.RiskMeasure.
		INSERT(table.RiskMeasure.MutableColumns).
		MODELS(measures).
		ON_CONFLICT(
			table.RiskMeasure.EntityID,
			table.RiskMeasure.Measure,
			table.RiskMeasure.Date,
		).
		DO_UPDATE(
			postgres.SET(
				table.RiskMeasure.Value.SET(table.RiskMeasure.EXCLUDED.Value),
				table.RiskMeasure.Quality.SET(table.RiskMeasure.EXCLUDED.Quality),
				table.RiskMeasure.Detail.SET(table.RiskMeasure.EXCLUDED.Detail),
				table.RiskMeasure.UpdatedAt.SET(table.RiskMeasure.EXCLUDED.UpdatedAt),
			),
		)

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to add risk measures to db: %w", err)
	}

	return nil
}

func (h riskMeasureRepositoryHandler) List(entityID string, date time.Time) ([]model.RiskMeasure, error) {
	query := table.RiskMeasure.
		SELECT(table.RiskMeasure.AllColumns).
		WHERE(
			postgres.AND(
				table.RiskMeasure.EntityID.EQ(postgres.String(entityID)),
				table.RiskMeasure.Date.EQ(postgres.DateT(date)),
			),
		).
		ORDER_BY(table.RiskMeasure.Measure.ASC())

	out := []model.RiskMeasure{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list risk measures for %s: %w", entityID, err)
	}

	return out, nil
}
