package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"stockboard/internal/domain"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// YahooProvider fetches quotes and price history from the Yahoo Finance
// public API, with a page-scraping fallback for quotes when the API path
// fails. BaseURL/PageURL are overridable for tests.
type YahooProvider struct {
	Client  *http.Client
	BaseURL string
	PageURL string
}

func NewYahooProvider(timeout time.Duration) *YahooProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &YahooProvider{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: "https://query1.finance.yahoo.com",
		PageURL: "https://finance.yahoo.com",
	}
}

type yahooQuote struct {
	QuoteResponse struct {
		Result []struct {
			ShortName          string   `json:"shortName"`
			RegularMarketPrice *float64 `json:"regularMarketPrice"`
			Sector             string   `json:"sector"`
			Industry           string   `json:"industry"`
			MarketCap          *float64 `json:"marketCap"`
			TrailingPE         *float64 `json:"trailingPE"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote returns the current quote for a symbol. It never returns an error:
// if the API and the scraping fallback both fail, the result degrades to a
// symbol-only quote with a nil price, which downstream treats as degraded
// data.
func (p *YahooProvider) Quote(ctx context.Context, symbol string) *domain.Quote {
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", p.BaseURL, url.QueryEscape(symbol))
	body, contentType, err := p.get(ctx, u)
	if err != nil {
		log.Printf("quote fetch failed for %s, falling back to scraping: %v", symbol, err)
		return p.scrapeQuote(ctx, symbol)
	}
	if !strings.Contains(contentType, "json") {
		log.Printf("non-JSON quote response for %s, falling back to scraping", symbol)
		return p.scrapeQuote(ctx, symbol)
	}

	var q yahooQuote
	if err := json.Unmarshal(body, &q); err != nil || len(q.QuoteResponse.Result) == 0 {
		return p.scrapeQuote(ctx, symbol)
	}

	r := q.QuoteResponse.Result[0]
	name := r.ShortName
	if name == "" {
		name = symbol
	}
	return &domain.Quote{
		Symbol:    symbol,
		Name:      name,
		Price:     r.RegularMarketPrice,
		Sector:    r.Sector,
		Industry:  r.Industry,
		MarketCap: r.MarketCap,
		PERatio:   r.TrailingPE,
	}
}

// scrapeQuote extracts name and price from the quote page with plain string
// searches. Total failure yields a symbol-only quote.
func (p *YahooProvider) scrapeQuote(ctx context.Context, symbol string) *domain.Quote {
	fallback := &domain.Quote{Symbol: symbol, Name: symbol}

	u := fmt.Sprintf("%s/quote/%s", p.PageURL, url.PathEscape(symbol))
	body, _, err := p.get(ctx, u)
	if err != nil {
		log.Printf("quote scrape failed for %s: %v", symbol, err)
		return fallback
	}
	html := string(body)

	if start := strings.Index(html, "<h1"); start >= 0 {
		if end := strings.Index(html[start:], "</h1>"); end > 0 {
			content := html[start : start+end]
			if idx := strings.LastIndex(content, ">"); idx >= 0 {
				if name := strings.TrimSpace(content[idx+1:]); name != "" {
					fallback.Name = name
				}
			}
		}
	}

	marker := `data-field="regularMarketPrice"`
	if pos := strings.Index(html, marker); pos >= 0 {
		valueAttr := `value="`
		if vStart := strings.Index(html[pos:], valueAttr); vStart >= 0 {
			rest := html[pos+vStart+len(valueAttr):]
			if vEnd := strings.Index(rest, `"`); vEnd > 0 {
				if price, err := strconv.ParseFloat(rest[:vEnd], 64); err == nil {
					fallback.Price = &price
				}
			}
		}
	}

	return fallback
}

// History returns up to `days` daily bars, oldest first. Bars with a
// missing close are dropped; missing volumes come back as NaN.
func (p *YahooProvider) History(ctx context.Context, symbol string, days int) ([]domain.PriceBar, error) {
	rng := "3mo"
	switch {
	case days <= 14:
		rng = "1mo"
	case days <= 60:
		rng = "3mo"
	case days <= 180:
		rng = "6mo"
	default:
		rng = "1y"
	}
	bars, err := p.fetchChart(ctx, symbol, "1d", rng)
	if err != nil {
		return nil, err
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// Intraday returns bars at charting resolution for a dashboard period.
// 1D comes back at 5-minute resolution (the most recent session when
// markets are closed), 1W at hourly, 1M daily.
func (p *YahooProvider) Intraday(ctx context.Context, symbol string, period domain.HistoryPeriod) ([]domain.PriceBar, error) {
	interval, rng := "1d", "1mo"
	switch period {
	case domain.Period1D:
		interval, rng = "5m", "1d"
	case domain.Period1W:
		interval, rng = "60m", "5d"
	case domain.Period1M:
		interval, rng = "1d", "1mo"
	default:
		return nil, fmt.Errorf("unsupported history period: %s", period)
	}
	return p.fetchChart(ctx, symbol, interval, rng)
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol, interval, rng string) ([]domain.PriceBar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		p.BaseURL, url.PathEscape(symbol), interval, rng)
	body, _, err := p.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("chart fetch for %s: %w", symbol, err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("chart decode for %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error for %s: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("chart: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart: no quote columns for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	bars := make([]domain.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closeVal, ok := numberAt(quote.Close, i)
		if !ok {
			continue // bar without a close is unusable
		}
		volume := math.NaN()
		if v, ok := numberAt(quote.Volume, i); ok {
			volume = v
		}
		bars = append(bars, domain.PriceBar{
			Time:   time.Unix(ts, 0),
			Close:  closeVal,
			Volume: volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (p *YahooProvider) get(ctx context.Context, u string) (body []byte, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// numberAt reads a possibly-null numeric column entry.
func numberAt(col []interface{}, i int) (float64, bool) {
	if i >= len(col) || col[i] == nil {
		return 0, false
	}
	switch n := col[i].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
