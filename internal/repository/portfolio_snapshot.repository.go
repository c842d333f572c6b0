package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

type PortfolioSnapshotRepository interface {
	// Upsert inserts a snapshot for (portfolio, date); re-running for
	// an existing key updates in place and never duplicates.
	Upsert(tx *sql.Tx, snapshot model.PortfolioSnapshot) (*model.PortfolioSnapshot, error)
	// Get returns the snapshot for exactly (portfolio, date), or nil
	// when none has been persisted.
	Get(portfolioID uuid.UUID, date time.Time) (*model.PortfolioSnapshot, error)
	// GetLatestBefore returns the most recent snapshot strictly before
	// date, or nil when the portfolio has never been snapshotted.
	GetLatestBefore(portfolioID uuid.UUID, date time.Time) (*model.PortfolioSnapshot, error)
}

type portfolioSnapshotRepositoryHandler struct {
	Db *sql.DB
}

func NewPortfolioSnapshotRepository(db *sql.DB) PortfolioSnapshotRepository {
	return portfolioSnapshotRepositoryHandler{Db: db}
}

func (h portfolioSnapshotRepositoryHandler) Upsert(tx *sql.Tx, snapshot model.PortfolioSnapshot) (*model.PortfolioSnapshot, error) {
	now := time.Now().UTC()
	snapshot.CreatedAt = now
	snapshot.UpdatedAt = now

	query := table.PortfolioSnapshot.
		INSERT(table.PortfolioSnapshot.MutableColumns).
		MODEL(snapshot).
		ON_CONFLICT(
			table.PortfolioSnapshot.PortfolioID, table.PortfolioSnapshot.Date,
		).
		DO_UPDATE(
			postgres.SET(
				table.PortfolioSnapshot.Equity.SET(table.PortfolioSnapshot.EXCLUDED.Equity),
				table.PortfolioSnapshot.LongExposure.SET(table.PortfolioSnapshot.EXCLUDED.LongExposure),
				table.PortfolioSnapshot.ShortExposure.SET(table.PortfolioSnapshot.EXCLUDED.ShortExposure),
				table.PortfolioSnapshot.NetExposure.SET(table.PortfolioSnapshot.EXCLUDED.NetExposure),
				table.PortfolioSnapshot.GrossExposure.SET(table.PortfolioSnapshot.EXCLUDED.GrossExposure),
				table.PortfolioSnapshot.DailyPnl.SET(table.PortfolioSnapshot.EXCLUDED.DailyPnl),
				table.PortfolioSnapshot.UpdatedAt.SET(table.PortfolioSnapshot.EXCLUDED.UpdatedAt),
			),
		).
		RETURNING(table.PortfolioSnapshot.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.PortfolioSnapshot{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert snapshot for portfolio %s on %s: %w",
			snapshot.PortfolioID.String(), snapshot.Date.Format(time.DateOnly), err)
	}

	return &out, nil
}

func (h portfolioSnapshotRepositoryHandler) Get(portfolioID uuid.UUID, date time.Time) (*model.PortfolioSnapshot, error) {
	query := table.PortfolioSnapshot.
		SELECT(table.PortfolioSnapshot.AllColumns).
		WHERE(
			postgres.AND(
				table.PortfolioSnapshot.PortfolioID.EQ(postgres.UUID(portfolioID)),
				table.PortfolioSnapshot.Date.EQ(postgres.DateT(date)),
			),
		)

	out := model.PortfolioSnapshot{}
	err := query.Query(h.Db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot for portfolio %s: %w", portfolioID.String(), err)
	}

	return &out, nil
}

func (h portfolioSnapshotRepositoryHandler) GetLatestBefore(portfolioID uuid.UUID, date time.Time) (*model.PortfolioSnapshot, error) {
	query := table.PortfolioSnapshot.
		SELECT(table.PortfolioSnapshot.AllColumns).
		WHERE(
			postgres.AND(
				table.PortfolioSnapshot.PortfolioID.EQ(postgres.UUID(portfolioID)),
				table.PortfolioSnapshot.Date.LT(postgres.DateT(date)),
			),
		).
		ORDER_BY(table.PortfolioSnapshot.Date.DESC()).
		LIMIT(1)

	out := model.PortfolioSnapshot{}
	err := query.Query(h.Db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot for portfolio %s: %w", portfolioID.String(), err)
	}

	return &out, nil
}
