package domain

import (
	"time"

	"riskbatch/internal/util"
)

type AssetPrice struct {
	Symbol string
	Price  float64
	Date   time.Time
}

// DateRange is a closed [Start, End] span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return util.DateLte(r.Start, t) && util.DateLte(t, r.End)
}
