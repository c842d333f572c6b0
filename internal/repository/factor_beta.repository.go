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

type FactorBetaRepository interface {
	AddMany(tx *sql.Tx, betas []*model.FactorBeta) error
	List(entityType, entityID string, date time.Time) ([]model.FactorBeta, error)
}

type factorBetaRepositoryHandler struct {
	Db *sql.DB
}

func NewFactorBetaRepository(db *sql.DB) FactorBetaRepository {
	return factorBetaRepositoryHandler{Db: db}
}

func (h factorBetaRepositoryHandler) AddMany(tx *sql.Tx, betas []*model.FactorBeta) error {
	if len(betas) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, b := range betas {
		b.CreatedAt = now
		b.UpdatedAt = now
	}

	query := table.FactorBeta.
		INSERT(table.FactorBeta.MutableColumns).
		MODELS(betas).
		ON_CONFLICT(
			table.FactorBeta.EntityType,
			table.FactorBeta.EntityID,
			table.FactorBeta.Factor,
			table.FactorBeta.Date,
		).
		DO_UPDATE(
			postgres.SET(
				table.FactorBeta.Beta.SET(table.FactorBeta.EXCLUDED.Beta),
				table.FactorBeta.Alpha.SET(table.FactorBeta.EXCLUDED.Alpha),
				table.FactorBeta.RSquared.SET(table.FactorBeta.EXCLUDED.RSquared),
				table.FactorBeta.StdError.SET(table.FactorBeta.EXCLUDED.StdError),
				table.FactorBeta.PValue.SET(table.FactorBeta.EXCLUDED.PValue),
				table.FactorBeta.IsSignificant.SET(table.FactorBeta.EXCLUDED.IsSignificant),
				table.FactorBeta.WasCapped.SET(table.FactorBeta.EXCLUDED.WasCapped),
				table.FactorBeta.OriginalBeta.SET(table.FactorBeta.EXCLUDED.OriginalBeta),
				table.FactorBeta.Quality.SET(table.FactorBeta.EXCLUDED.Quality),
				table.FactorBeta.UpdatedAt.SET(table.FactorBeta.EXCLUDED.UpdatedAt),
			),
		)

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to add factor betas to db: %w", err)
	}

	return nil
}

func (h factorBetaRepositoryHandler) List(entityType, entityID string, date time.Time) ([]model.FactorBeta, error) {
	query := table.FactorBeta.
		SELECT(table.FactorBeta.AllColumns).
		WHERE(
			postgres.AND(
				table.FactorBeta.EntityType.EQ(postgres.String(entityType)),
				table.FactorBeta.EntityID.EQ(postgres.String(entityID)),
				table.FactorBeta.Date.EQ(postgres.DateT(date)),
			),
		).
		ORDER_BY(table.FactorBeta.Factor.ASC())

	out := []model.FactorBeta{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list factor betas for %s %s: %w", entityType, entityID, err)
	}

	return out, nil
}
