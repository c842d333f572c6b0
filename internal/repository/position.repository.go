package repository

import (
	"database/sql"
	"fmt"
	"time"

	"riskbatch/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

type PositionRepository interface {
	UpdateMarketValue(tx *sql.Tx, positionID uuid.UUID, marketValue float64) error
}

type positionRepositoryHandler struct {
	Db *sql.DB
}

func NewPositionRepository(db *sql.DB) PositionRepository {
	return positionRepositoryHandler{Db: db}
}

func (h positionRepositoryHandler) UpdateMarketValue(tx *sql.Tx, positionID uuid.UUID, marketValue float64) error {
	query := table.Position.
		UPDATE(table.Position.MarketValue, table.Position.ModifiedAt).
		SET(
			postgres.Float(marketValue),
			postgres.TimestampzT(time.Now().UTC()),
		).
		WHERE(table.Position.PositionID.EQ(postgres.UUID(positionID)))

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to update market value for position %s: %w", positionID.String(), err)
	}

	return nil
}
