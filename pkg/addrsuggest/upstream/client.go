// Package upstream provides the HTTP client for the NYC property dataset API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/dal"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/logger"
	"golang.org/x/time/rate"
)

const (
	// DefaultDatasetURL is the PLUTO dataset resource.
	DefaultDatasetURL = "https://data.cityofnewyork.us/resource/64uk-42ks.json"

	// Limit is the number of rows requested per lookup.
	Limit = 15

	selectFields = "bbl,address,borough,zipcode,unitsres"
)

// ErrDecode reports a body that could not be decoded as dataset rows.
var ErrDecode = errors.New("decode dataset response")

// Options configures a Client.
type Options struct {
	DatasetURL string
	AppToken   string
	// Timeout bounds each call. Zero leaves calls bounded only by ctx.
	Timeout time.Duration
	// RPS and Burst throttle outbound calls. RPS <= 0 disables throttling.
	RPS   float64
	Burst int

	HTTPClient *http.Client
}

// Client is the HTTP client for the dataset API.
type Client struct {
	httpClient *http.Client
	datasetURL *url.URL
	appToken   string
	limiter    *rate.Limiter
	log        *logger.Logger
}

// New creates a new dataset API client.
func New(opts Options, log *logger.Logger) (*Client, error) {
	raw := opts.DatasetURL
	if raw == "" {
		raw = DefaultDatasetURL
	}
	datasetURL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse dataset url: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient: httpClient,
		datasetURL: datasetURL,
		appToken:   opts.AppToken,
		limiter:    rate.NewLimiter(limit, burst),
		log:        log,
	}, nil
}

// Primary runs a case-insensitive substring match on the address column,
// largest buildings first.
func (c *Client) Primary(ctx context.Context, query string) ([]dal.Record, error) {
	return c.doRequest(ctx, "primary", PrimaryParams(query))
}

// Fallback runs the dataset's full-text search.
func (c *Client) Fallback(ctx context.Context, query string) ([]dal.Record, error) {
	return c.doRequest(ctx, "fallback", FallbackParams(query))
}

// PrimaryParams builds the $where address lookup.
func PrimaryParams(query string) url.Values {
	params := url.Values{}
	params.Set("$where", fmt.Sprintf("address LIKE '%%%s%%'", escapeLiteral(strings.ToUpper(query))))
	params.Set("$limit", strconv.Itoa(Limit))
	params.Set("$select", selectFields)
	params.Set("$order", "unitsres DESC")
	return params
}

// FallbackParams builds the $q full-text lookup.
func FallbackParams(query string) url.Values {
	params := url.Values{}
	params.Set("$q", query)
	params.Set("$limit", strconv.Itoa(Limit))
	params.Set("$select", selectFields)
	return params
}

// escapeLiteral doubles single quotes for a SoQL string literal.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func (c *Client) endpoint(params url.Values) string {
	u := *c.datasetURL
	u.RawQuery = params.Encode()
	return u.String()
}

func (c *Client) doRequest(ctx context.Context, operation string, params url.Values) ([]dal.Record, error) {
	log := c.log.WithContext(ctx)
	reqURL := c.endpoint(params)

	if err := c.limiter.Wait(ctx); err != nil {
		log.UpstreamError(operation, reqURL, err)
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.UpstreamError(operation, reqURL, err)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		log.Warn("dataset non-ok status", "operation", operation, "status", resp.StatusCode, "url", reqURL)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.UpstreamError(operation, reqURL, err)
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	// Error payloads come back as objects; they count as no rows.
	if len(body) == 0 || body[0] != '[' {
		log.Warn("dataset returned a non-list body", "operation", operation, "status", resp.StatusCode)
		return nil, nil
	}

	var records []dal.Record
	if err := json.Unmarshal(body, &records); err != nil {
		log.UpstreamError(operation, reqURL, err)
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	log.Debug("dataset lookup", "operation", operation, "rows", len(records))
	return records, nil
}
