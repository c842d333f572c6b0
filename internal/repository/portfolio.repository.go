package repository

import (
	"database/sql"
	"fmt"
	"time"

	"riskbatch/internal/db/models/postgres/public/model"
	"riskbatch/internal/db/models/postgres/public/table"
	"riskbatch/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PortfolioRepository interface {
	Get(id uuid.UUID) (*domain.Portfolio, error)
	List() ([]domain.Portfolio, error)
	UpdateEquity(tx *sql.Tx, id uuid.UUID, equity decimal.Decimal) error
}

type portfolioRepositoryHandler struct {
	Db *sql.DB
}

func NewPortfolioRepository(db *sql.DB) PortfolioRepository {
	return portfolioRepositoryHandler{Db: db}
}

func (h portfolioRepositoryHandler) Get(id uuid.UUID) (*domain.Portfolio, error) {
	query := table.Portfolio.
		SELECT(table.Portfolio.AllColumns).
		WHERE(table.Portfolio.PortfolioID.EQ(postgres.UUID(id)))

	result := model.Portfolio{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio %s: %w", id.String(), err)
	}

	positions, err := h.listPositions(id)
	if err != nil {
		return nil, err
	}

	out := portfolioFromModel(result)
	out.Positions = positions
	return &out, nil
}

func (h portfolioRepositoryHandler) List() ([]domain.Portfolio, error) {
	query := table.Portfolio.
		SELECT(table.Portfolio.AllColumns).
		ORDER_BY(table.Portfolio.CreatedAt.ASC())

	result := []model.Portfolio{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	out := []domain.Portfolio{}
	for _, p := range result {
		positions, err := h.listPositions(p.PortfolioID)
		if err != nil {
			return nil, err
		}
		portfolio := portfolioFromModel(p)
		portfolio.Positions = positions
		out = append(out, portfolio)
	}

	return out, nil
}

func (h portfolioRepositoryHandler) UpdateEquity(tx *sql.Tx, id uuid.UUID, equity decimal.Decimal) error {
	m := model.Portfolio{
		PortfolioID: id,
		Equity:      equity.InexactFloat64(),
		ModifiedAt:  time.Now().UTC(),
	}

	query := table.Portfolio.
		UPDATE(table.Portfolio.Equity, table.Portfolio.ModifiedAt).
		MODEL(m).
		WHERE(table.Portfolio.PortfolioID.EQ(postgres.UUID(id)))

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to update equity for portfolio %s: %w", id.String(), err)
	}

	return nil
}

func (h portfolioRepositoryHandler) listPositions(portfolioID uuid.UUID) ([]domain.Position, error) {
	query := table.Position.
		SELECT(table.Position.AllColumns).
		WHERE(table.Position.PortfolioID.EQ(postgres.UUID(portfolioID))).
		ORDER_BY(table.Position.Symbol.ASC())

	result := []model.Position{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions for portfolio %s: %w", portfolioID.String(), err)
	}

	out := []domain.Position{}
	for _, p := range result {
		out = append(out, domain.Position{
			PositionID:   p.PositionID,
			Symbol:       p.Symbol,
			Quantity:     p.Quantity,
			EntryPrice:   p.EntryPrice,
			PositionType: domain.PositionType(p.PositionType),
		})
	}

	return out, nil
}

func portfolioFromModel(m model.Portfolio) domain.Portfolio {
	return domain.Portfolio{
		PortfolioID: m.PortfolioID,
		Name:        m.Name,
		Equity:      decimal.NewFromFloat(m.Equity),
	}
}
