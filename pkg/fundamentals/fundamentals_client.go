package fundamentals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"riskbatch/internal/domain"
	"time"
)

type Client struct {
	HttpClient *http.Client
	ApiKey     string
	BaseUrl    string
}

const defaultBaseUrl = "https://api.datajockey.io/v0"

func NewClient(apiKey string) *Client {
	return &Client{
		HttpClient: &http.Client{Timeout: 30 * time.Second},
		ApiKey:     apiKey,
		BaseUrl:    defaultBaseUrl,
	}
}

// Statement holds one reporting period's fundamentals for a symbol.
type Statement struct {
	Symbol            string
	PeriodEnd         time.Time
	Revenue           *int64
	NetIncome         *int64
	TotalAssets       *int64
	ShareholderEquity *int64
	EpsDiluted        *float64
}

type financialResponse struct {
	CompanyInfo struct {
		Ticker string `json:"ticker"`
		Name   string `json:"name"`
	} `json:"company_info"`
	FinancialData struct {
		Quarterly struct {
			Revenue           map[string]int64   `json:"revenue"`
			NetIncome         map[string]int64   `json:"net_income"`
			TotalAssets       map[string]int64   `json:"total_assets"`
			ShareholderEquity map[string]int64   `json:"shareholder_equity"`
			EpsDiluted        map[string]float64 `json:"eps_diluted"`
		} `json:"quarterly"`
	} `json:"financial_data"`
}

// GetStatements fetches quarterly statements. Period keys come back
// as yyyy-mm-dd strings keyed per metric; they're pivoted here into
// one Statement per period.
func (c *Client) GetStatements(ctx context.Context, symbol string) ([]Statement, error) {
	url := fmt.Sprintf("%s/company/financials?apikey=%s&ticker=%s&period=Q", c.BaseUrl, c.ApiKey, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	response, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, domain.NewTransientProviderError("fundamentals", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500 {
		return nil, domain.NewTransientProviderError("fundamentals", fmt.Errorf("status %d", response.StatusCode))
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fundamentals request for %s returned status %d", symbol, response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	parsed := financialResponse{}
	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fundamentals for %s: %w", symbol, err)
	}

	return pivotStatements(symbol, parsed), nil
}

func pivotStatements(symbol string, in financialResponse) []Statement {
	bySymbolPeriod := map[string]*Statement{}
	ensure := func(period string) *Statement {
		if s, ok := bySymbolPeriod[period]; ok {
			return s
		}
		periodEnd, err := time.Parse(time.DateOnly, period)
		if err != nil {
			return nil
		}
		s := &Statement{Symbol: symbol, PeriodEnd: periodEnd}
		bySymbolPeriod[period] = s
		return s
	}

	q := in.FinancialData.Quarterly
	for period, v := range q.Revenue {
		if s := ensure(period); s != nil {
			value := v
			s.Revenue = &value
		}
	}
	for period, v := range q.NetIncome {
		if s := ensure(period); s != nil {
			value := v
			s.NetIncome = &value
		}
	}
	for period, v := range q.TotalAssets {
		if s := ensure(period); s != nil {
			value := v
			s.TotalAssets = &value
		}
	}
	for period, v := range q.ShareholderEquity {
		if s := ensure(period); s != nil {
			value := v
			s.ShareholderEquity = &value
		}
	}
	for period, v := range q.EpsDiluted {
		if s := ensure(period); s != nil {
			value := v
			s.EpsDiluted = &value
		}
	}

	out := []Statement{}
	for _, s := range bySymbolPeriod {
		out = append(out, *s)
	}
	return out
}
