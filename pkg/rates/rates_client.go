package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"riskbatch/internal/domain"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// InterestRateMap holds one day's yield curve keyed by months to
// maturity.
type InterestRateMap struct {
	Rates map[int]float64
}

// GetRate returns the yield for a maturity, interpolating between the
// two nearest curve points when the exact tenor isn't quoted.
func (im InterestRateMap) GetRate(monthsOut int) float64 {
	v, ok := im.Rates[monthsOut]
	if ok {
		return v
	}

	keys := []int{}
	for k := range im.Rates {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	if len(keys) == 0 {
		return 0
	}
	if monthsOut < keys[0] {
		return im.Rates[keys[0]]
	}
	if monthsOut > keys[len(keys)-1] {
		return im.Rates[keys[len(keys)-1]]
	}

	for i := 0; i < len(keys)-1; i++ {
		if monthsOut > keys[i] && monthsOut < keys[i+1] {
			return (im.Rates[keys[i]] + im.Rates[keys[i+1]]) / 2
		}
	}

	return 0
}

type Client struct {
	HttpClient *http.Client
	BaseUrl    string

	mu    sync.Mutex
	cache map[string]InterestRateMap
}

const defaultBaseUrl = "https://www.ustreasuryyieldcurve.com/api/v1"

func NewClient() *Client {
	return &Client{
		HttpClient: &http.Client{Timeout: 30 * time.Second},
		BaseUrl:    defaultBaseUrl,
		cache:      map[string]InterestRateMap{},
	}
}

func interestRateMonthsFromApi(in string) (int, error) {
	cleanedStr := strings.Replace(in, "yield_", "", 1)
	unit := string(cleanedStr[len(cleanedStr)-1])
	cleanedStr = cleanedStr[:len(cleanedStr)-1]
	months, err := strconv.Atoi(cleanedStr)
	if err != nil {
		return 0, err
	}

	if unit == "y" {
		months *= 12
	}

	return months, nil
}

// GetYieldCurve returns the curve snapshot for a date, caching per
// date so a per-symbol loop doesn't hammer the API.
func (c *Client) GetYieldCurve(ctx context.Context, date time.Time) (*InterestRateMap, error) {
	dateStr := date.Format(time.DateOnly)

	c.mu.Lock()
	if cached, ok := c.cache[dateStr]; ok {
		c.mu.Unlock()
		return &cached, nil
	}
	c.mu.Unlock()

	url := fmt.Sprintf("%s/yield_curve_snapshot?date=%s&offset=0", c.BaseUrl, dateStr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	response, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, domain.NewTransientProviderError("treasury", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 500 || response.StatusCode == http.StatusTooManyRequests {
		return nil, domain.NewTransientProviderError("treasury", fmt.Errorf("status %d", response.StatusCode))
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yield curve request for %s returned status %d", dateStr, response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	parsed := []map[string]interface{}{}
	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yield curve for %s: %w", dateStr, err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("no yield curve data for %s", dateStr)
	}

	out := InterestRateMap{Rates: map[int]float64{}}
	for field, value := range parsed[0] {
		if !strings.HasPrefix(field, "yield_") {
			continue
		}
		rate, ok := value.(float64)
		if !ok {
			continue
		}
		months, err := interestRateMonthsFromApi(field)
		if err != nil {
			return nil, err
		}
		out.Rates[months] = rate
	}

	c.mu.Lock()
	c.cache[dateStr] = out
	c.mu.Unlock()

	return &out, nil
}

// RatePoint pairs a yield level with the curve date it was observed
// on.
type RatePoint struct {
	Date  time.Time
	Level float64
}

// GetRateSeries returns the yield of a single tenor across a list of
// dates. Dates without a published curve are skipped; each point
// carries its date so callers can align the series day by day.
func (c *Client) GetRateSeries(ctx context.Context, monthsOut int, dates []time.Time) ([]RatePoint, error) {
	out := []RatePoint{}
	for _, d := range dates {
		curve, err := c.GetYieldCurve(ctx, d)
		if err != nil {
			if domain.IsTransient(err) {
				return nil, err
			}
			continue
		}
		out = append(out, RatePoint{Date: d, Level: curve.GetRate(monthsOut)})
	}
	return out, nil
}
