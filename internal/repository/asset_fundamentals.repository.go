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

type AssetFundamentalsRepository interface {
	AddMany(tx *sql.Tx, fundamentals []*model.AssetFundamental) error
	GetLatest(symbol string) (*model.AssetFundamental, error)
}

type assetFundamentalsRepositoryHandler struct {
	Db *sql.DB
}

func NewAssetFundamentalsRepository(db *sql.DB) AssetFundamentalsRepository {
	return assetFundamentalsRepositoryHandler{Db: db}
}

func (h assetFundamentalsRepositoryHandler) AddMany(tx *sql.Tx, fundamentals []*model.AssetFundamental) error {
	if len(fundamentals) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, f := range fundamentals {
		f.CreatedAt = now
		f.UpdatedAt = now
	}

	query := table.AssetFundamental.
		INSERT(table.AssetFundamental.MutableColumns).
		MODELS(fundamentals).
		ON_CONFLICT(
			table.AssetFundamental.Symbol, table.AssetFundamental.PeriodEnd,
		).
		DO_UPDATE(
			postgres.SET(
				table.AssetFundamental.Revenue.SET(table.AssetFundamental.EXCLUDED.Revenue),
				table.AssetFundamental.NetIncome.SET(table.AssetFundamental.EXCLUDED.NetIncome),
				table.AssetFundamental.TotalAssets.SET(table.AssetFundamental.EXCLUDED.TotalAssets),
				table.AssetFundamental.ShareholderEquity.SET(table.AssetFundamental.EXCLUDED.ShareholderEquity),
				table.AssetFundamental.EpsDiluted.SET(table.AssetFundamental.EXCLUDED.EpsDiluted),
				table.AssetFundamental.UpdatedAt.SET(table.AssetFundamental.EXCLUDED.UpdatedAt),
			),
		)

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to add asset fundamentals to db: %w", err)
	}

	return nil
}

func (h assetFundamentalsRepositoryHandler) GetLatest(symbol string) (*model.AssetFundamental, error) {
	query := table.AssetFundamental.
		SELECT(table.AssetFundamental.AllColumns).
		WHERE(table.AssetFundamental.Symbol.EQ(postgres.String(symbol))).
		ORDER_BY(table.AssetFundamental.PeriodEnd.DESC()).
		LIMIT(1)

	out := model.AssetFundamental{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to get fundamentals for %s: %w", symbol, err)
	}

	return &out, nil
}
