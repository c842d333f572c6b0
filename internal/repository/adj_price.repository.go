package repository

import (
	"database/sql"
	"fmt"
	"riskbatch/internal/db/models/postgres/public/model"
	. "riskbatch/internal/db/models/postgres/public/table"
	"riskbatch/internal/domain"
	"time"

	. "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/lib/pq"
)

type AdjustedPriceRepository interface {
	Add(*sql.Tx, []model.AdjustedPrice) error
	Get(*sql.Tx, string, time.Time) (float64, error)
	ListFromRange(tx *sql.Tx, symbols []string, start, end time.Time) ([]domain.AssetPrice, error)
	ListTradingDays(tx *sql.Tx, start, end time.Time) ([]time.Time, error)
	LatestPrices(tx *sql.Tx, symbols []string) ([]domain.AssetPrice, error)
}

func NewAdjustedPriceRepository(db *sql.DB) AdjustedPriceRepository {
	return &adjustedPriceRepositoryHandler{Db: db}
}

type adjustedPriceRepositoryHandler struct {
	Db *sql.DB
}

func (h adjustedPriceRepositoryHandler) query(tx *sql.Tx, q string, args ...interface{}) (*sql.Rows, error) {
	if tx != nil {
		return tx.Query(q, args...)
	}
	return h.Db.Query(q, args...)
}

func (h adjustedPriceRepositoryHandler) Add(tx *sql.Tx, adjPrices []model.AdjustedPrice) error {
	if len(adjPrices) == 0 {
		return nil
	}

	query := AdjustedPrice.
		INSERT(AdjustedPrice.MutableColumns).
		MODELS(adjPrices).
		ON_CONFLICT(
			AdjustedPrice.Symbol, AdjustedPrice.Date,
		).DO_UPDATE(
		SET(
			AdjustedPrice.Price.SET(AdjustedPrice.EXCLUDED.Price),
		),
	)

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to add adjusted prices to db: %w", err)
	}

	return nil
}

func (h adjustedPriceRepositoryHandler) Get(tx *sql.Tx, symbol string, date time.Time) (float64, error) {
	minDate := DateT(date.AddDate(0, 0, -5))
	maxDate := DateT(date)
	// use a range so weekends and holidays resolve to the most
	// recent prior trading day
	query := AdjustedPrice.
		SELECT(AdjustedPrice.AllColumns).
		WHERE(
			AND(
				AdjustedPrice.Symbol.EQ(String(symbol)),
				AdjustedPrice.Date.BETWEEN(minDate, maxDate),
			),
		).
		ORDER_BY(AdjustedPrice.Date.DESC()).
		LIMIT(1)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	result := model.AdjustedPrice{}
	err := query.Query(db, &result)
	if err != nil {
		return 0, fmt.Errorf("failed to query price for %s on %v: %w", symbol, date, err)
	}

	return result.Price, nil
}

func (h adjustedPriceRepositoryHandler) ListFromRange(tx *sql.Tx, symbols []string, start, end time.Time) ([]domain.AssetPrice, error) {
	symbolExpressions := []Expression{}
	for _, s := range symbols {
		symbolExpressions = append(symbolExpressions, String(s))
	}

	query := AdjustedPrice.
		SELECT(AdjustedPrice.AllColumns).
		WHERE(
			AND(
				AdjustedPrice.Symbol.IN(symbolExpressions...),
				AdjustedPrice.Date.BETWEEN(DateT(start), DateT(end)),
			),
		).
		ORDER_BY(AdjustedPrice.Symbol.ASC(), AdjustedPrice.Date.ASC())

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	result := []model.AdjustedPrice{}
	err := query.Query(db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	out := []domain.AssetPrice{}
	for _, p := range result {
		out = append(out, domain.AssetPrice{
			Symbol: p.Symbol,
			Date:   p.Date,
			Price:  p.Price,
		})
	}

	return out, nil
}

func (h adjustedPriceRepositoryHandler) ListTradingDays(tx *sql.Tx, start, end time.Time) ([]time.Time, error) {
	query := AdjustedPrice.
		SELECT(AdjustedPrice.Date).
		WHERE(
			AdjustedPrice.Date.BETWEEN(DateT(start), DateT(end)),
		).
		GROUP_BY(AdjustedPrice.Date).
		HAVING(COUNT(String("*")).GT(Int(10))).
		ORDER_BY(AdjustedPrice.Date.ASC())

	q, args := query.Sql()

	rows, err := h.query(tx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trading days: %w", err)
	}
	defer rows.Close()

	out := []time.Time{}
	for rows.Next() {
		var d time.Time
		err := rows.Scan(&d)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, d)
	}

	return out, nil
}

func (h adjustedPriceRepositoryHandler) LatestPrices(tx *sql.Tx, symbols []string) ([]domain.AssetPrice, error) {
	q := `SELECT symbol, MAX(date) FROM public.adjusted_price WHERE symbol = ANY($1) GROUP BY symbol`

	rows, err := h.query(tx, q, pq.Array(symbols))
	if err != nil {
		return nil, fmt.Errorf("failed to query latest prices: %w", err)
	}
	defer rows.Close()

	out := []domain.AssetPrice{}
	for rows.Next() {
		var symbol string
		var date time.Time
		if err := rows.Scan(&symbol, &date); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, domain.AssetPrice{Symbol: symbol, Date: date})
	}

	return out, nil
}
