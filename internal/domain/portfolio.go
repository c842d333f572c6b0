package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PositionType string

const (
	PositionTypeLong            PositionType = "long"
	PositionTypeShort           PositionType = "short"
	PositionTypeDerivativeLong  PositionType = "derivative_long"
	PositionTypeDerivativeShort PositionType = "derivative_short"
)

// Multiplier converts contract quantity to share-equivalent quantity.
// Derivative contracts control 100 shares each.
func (t PositionType) Multiplier() float64 {
	switch t {
	case PositionTypeDerivativeLong, PositionTypeDerivativeShort:
		return 100
	}
	return 1
}

func (t PositionType) IsShort() bool {
	return t == PositionTypeShort || t == PositionTypeDerivativeShort
}

type Position struct {
	PositionID   uuid.UUID
	Symbol       string
	Quantity     float64
	EntryPrice   float64
	PositionType PositionType
}

type Portfolio struct {
	PortfolioID uuid.UUID
	Name        string
	Equity      decimal.Decimal
	Positions   []Position
}

func (p Portfolio) HeldSymbols() []string {
	seen := map[string]bool{}
	symbols := []string{}
	for _, position := range p.Positions {
		if !seen[position.Symbol] {
			symbols = append(symbols, position.Symbol)
			seen[position.Symbol] = true
		}
	}
	return symbols
}

// ValuedPosition is a position joined with its close price on a given
// date. SignedExposure carries the short-side sign convention;
// UnsignedExposure is the absolute dollar amount at risk.
type ValuedPosition struct {
	Position         Position
	Price            float64
	MarketValue      decimal.Decimal
	SignedExposure   decimal.Decimal
	UnsignedExposure decimal.Decimal
}
