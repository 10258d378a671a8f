package ecb

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/avlebedev/finops-service/internal/config"
)

// fallbackRates keeps currency normalization working when the ECB feed is
// unreachable. EUR-based, same base as the live feed.
var fallbackRates = map[string]float64{
	"EUR": 1.0,
	"USD": 1.09,
	"GBP": 0.85,
	"CHF": 0.94,
	"JPY": 163.0,
	"CNY": 7.78,
	"AUD": 1.62,
	"CAD": 1.47,
	"SEK": 11.3,
	"INR": 91.0,
}

const refreshTTL = 12 * time.Hour

// Client fetches the ECB daily FX reference rates and caches them
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger

	mu        sync.Mutex
	rates     map[string]float64
	fetchedAt time.Time
}

// NewClient initializes a new ECB rates client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.RatesURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Rates returns the current EUR-based rate table: cached feed values when
// fresh, refreshed on TTL expiry, static fallback when the feed fails.
func (c *Client) Rates() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rates != nil && time.Since(c.fetchedAt) < refreshTTL {
		return c.rates
	}

	rates, err := c.fetch()
	if err != nil {
		c.log.Warnf("Failed to fetch ECB rates, using fallback table: %v", err)
		if c.rates != nil {
			return c.rates
		}
		return fallbackRates
	}
	c.rates = rates
	c.fetchedAt = time.Now()
	c.log.Infof("Refreshed ECB reference rates: %d currencies", len(rates))
	return c.rates
}

// Convert normalizes an amount between currencies through the EUR-based
// table. The second return is false when either currency is unknown.
func (c *Client) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	if from == to {
		return amount, true
	}
	rates := c.Rates()
	fromRate, okFrom := rates[from]
	toRate, okTo := rates[to]
	if !okFrom || !okTo || fromRate == 0 {
		return amount, false
	}
	factor := decimal.NewFromFloat(toRate).Div(decimal.NewFromFloat(fromRate))
	return amount.Mul(factor).Round(2), true
}

func (c *Client) fetch() (map[string]float64, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return parseRates(body)
}

// parseRates extracts currency/rate pairs from the ECB daily XML document
func parseRates(rawBody []byte) (map[string]float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	cubes := doc.FindElements("//Cube[@currency]")
	if len(cubes) == 0 {
		return nil, fmt.Errorf("no rate data found in XML")
	}

	rates := map[string]float64{"EUR": 1.0}
	for _, cube := range cubes {
		currency := cube.SelectAttrValue("currency", "")
		rate, err := strconv.ParseFloat(cube.SelectAttrValue("rate", ""), 64)
		if err != nil || currency == "" {
			continue
		}
		rates[currency] = rate
	}
	return rates, nil
}
