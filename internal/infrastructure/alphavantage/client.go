package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Portafolio-api/internal/application/ports"
	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa QuoteProvider.
var _ ports.QuoteProvider = (*Client)(nil)

const (
	DefaultBaseURL = "https://www.alphavantage.co/query"
	// DefaultDays barras devueltas por /stockinfo.
	DefaultDays = 5

	maxBodyBytes = 2 << 20
)

// Config parámetros del adaptador.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration // por intento
	MaxRetries int           // reintentos adicionales ante fallos transitorios
	RetryBase  time.Duration // espera inicial del backoff exponencial
}

// Client adaptador que implementa QuoteProvider usando la API REST de Alpha Vantage.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	retryBase  time.Duration
	httpClient *http.Client
}

// NewClient construye el adaptador.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 200 * time.Millisecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		retryBase:  cfg.RetryBase,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CurrentPrice consulta GLOBAL_QUOTE y devuelve "05. price".
// Ausencia de la clave, precio no numérico o <= 0 cuentan como no disponible.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)

	var out globalQuoteResponse
	if err := c.get(ctx, params, &out); err != nil {
		return decimal.Zero, err
	}
	if out.GlobalQuote == nil || strings.TrimSpace(out.GlobalQuote.Price) == "" {
		return decimal.Zero, fmt.Errorf("%w: %s sin \"Global Quote\"", domain.ErrQuoteUnavailable, symbol)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(out.GlobalQuote.Price))
	if err != nil || !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: precio inválido %q para %s", domain.ErrQuoteUnavailable, out.GlobalQuote.Price, symbol)
	}
	return price, nil
}

// RecentDaily consulta TIME_SERIES_DAILY (compact) y devuelve las últimas days barras,
// la más reciente primero, con precios redondeados a 2 decimales.
// Sin serie en la respuesta → lista vacía.
func (c *Client) RecentDaily(ctx context.Context, symbol string, days int) ([]entity.DailyBar, error) {
	if days <= 0 {
		days = DefaultDays
	}
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", "compact")
	params.Set("datatype", "json")

	var out dailySeriesResponse
	if err := c.get(ctx, params, &out); err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(out.TimeSeries))
	for d := range out.TimeSeries {
		dates = append(dates, d)
	}
	// YYYY-MM-DD ordena lexicográficamente igual que cronológicamente
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > days {
		dates = dates[:days]
	}

	bars := make([]entity.DailyBar, 0, len(dates))
	for _, d := range dates {
		bar, err := toDailyBar(d, out.TimeSeries[d])
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrQuoteUnavailable, symbol, d, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func toDailyBar(date string, raw dailyBar) (entity.DailyBar, error) {
	fields := []string{raw.Open, raw.High, raw.Low, raw.Close}
	values := make([]decimal.Decimal, len(fields))
	for i, f := range fields {
		v, err := decimal.NewFromString(strings.TrimSpace(f))
		if err != nil {
			return entity.DailyBar{}, err
		}
		values[i] = v.Round(2)
	}
	volume, err := strconv.ParseInt(strings.TrimSpace(raw.Volume), 10, 64)
	if err != nil {
		return entity.DailyBar{}, err
	}
	return entity.DailyBar{
		Date:   date,
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: volume,
	}, nil
}

// get hace GET {baseURL}?params&apikey=.. con reintentos acotados y decodifica el JSON en out.
// Cualquier fallo termina envuelto en domain.ErrQuoteUnavailable.
func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	params.Set("apikey", c.apiKey)
	endpoint := c.baseURL + "?" + params.Encode()

	backoff := retry.WithMaxRetries(uint64(c.maxRetries), retry.NewExponential(c.retryBase))
	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, err := c.fetch(ctx, endpoint)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: timeout o cancelación: %v", domain.ErrQuoteUnavailable, ctx.Err())
		}
		return fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: respuesta malformada: %v", domain.ErrQuoteUnavailable, err)
	}
	return nil
}

// fetch un intento. Fallos de red, 429 y 5xx se marcan como reintentables.
func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, retry.RetryableError(fmt.Errorf("llamada HTTP fallida: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("leer respuesta: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		herr := &statusError{code: resp.StatusCode}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, retry.RetryableError(herr)
		}
		return nil, herr
	}
	return body, nil
}

type statusError struct{ code int }

func (e *statusError) Error() string { return fmt.Sprintf("Alpha Vantage HTTP %d", e.code) }
