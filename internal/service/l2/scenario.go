package l2_service

import (
	"fmt"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
)

// Scenario is a named set of factor shocks, expressed as factor
// return moves (e.g. market: -0.20 for an equity drawdown).
type Scenario struct {
	Name   string
	Shocks map[string]float64
}

type scenarioRow struct {
	Scenario string  `csv:"scenario"`
	Factor   string  `csv:"factor"`
	Shock    float64 `csv:"shock"`
}

// LoadScenarios reads scenario shock vectors from a csv with one row
// per (scenario, factor) pair, grouping rows into Scenario values in
// file order.
func LoadScenarios(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenarios file: %w", err)
	}
	defer f.Close()

	rows := []scenarioRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse scenarios file: %w", err)
	}

	byName := map[string]map[string]float64{}
	order := []string{}
	for _, row := range rows {
		if row.Scenario == "" || row.Factor == "" {
			return nil, fmt.Errorf("scenario row missing name or factor: %+v", row)
		}
		if _, ok := byName[row.Scenario]; !ok {
			byName[row.Scenario] = map[string]float64{}
			order = append(order, row.Scenario)
		}
		byName[row.Scenario][row.Factor] = row.Shock
	}

	out := make([]Scenario, 0, len(order))
	for _, name := range order {
		out = append(out, Scenario{Name: name, Shocks: byName[name]})
	}
	return out, nil
}

// ValidateScenarios checks that every shocked factor is one an engine
// actually produces, so misconfigured scenarios abort the run up front
// instead of silently contributing zero impact.
func ValidateScenarios(scenarios []Scenario, factorProxies map[string]string) error {
	known := map[string]bool{
		marketFactorName: true,
		rateFactorName:   true,
	}
	for factor := range factorProxies {
		known[factor] = true
	}

	if len(scenarios) == 0 {
		return fmt.Errorf("no stress scenarios configured")
	}
	for _, scenario := range scenarios {
		unknown := []string{}
		for factor := range scenario.Shocks {
			if !known[factor] {
				unknown = append(unknown, factor)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return fmt.Errorf("scenario %q shocks unknown factors %v", scenario.Name, unknown)
		}
	}
	return nil
}
