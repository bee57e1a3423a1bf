package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// Client is a strongly-typed HTTP client for the swap aggregator API.
//
// Responses follow a {result, message, success, error} envelope; when
// success != true the typed error (if present) is returned so callers can
// branch on its code.
type Client struct {
	BaseURL   *url.URL
	HTTP      *http.Client
	APIKey    string
	UserAgent string
	Logger    zerolog.Logger
}

type Option func(*Client)

func WithAPIKey(key string) Option         { return func(c *Client) { c.APIKey = key } }
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTP = h } }
func WithLogger(l zerolog.Logger) Option   { return func(c *Client) { c.Logger = l } }

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("aggregator base url is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid aggregator base url")
	}
	c := &Client{
		BaseURL:   u,
		HTTP:      defaultHTTPClient,
		UserAgent: "pocketvault/1.0",
		Logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type envelope struct {
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Error   *Error          `json:"error,omitempty"`
}

type routeRequest struct {
	SrcChain    string `json:"srcChain"`
	SrcToken    string `json:"srcToken"`
	DstChain    string `json:"dstChain"`
	DstToken    string `json:"dstToken"`
	Amount      string `json:"amount"`
	Destination string `json:"destination"`
}

// Routes fetches the available routes for a swap, best first.
func (c *Client) Routes(ctx context.Context, req QuoteRequest) ([]Route, error) {
	body := routeRequest{
		SrcChain:    string(req.SrcChain),
		SrcToken:    req.SrcToken,
		DstChain:    string(req.DstChain),
		DstToken:    req.DstToken,
		Amount:      req.Amount.String(),
		Destination: req.Destination,
	}
	var routes []Route
	if err := c.do(ctx, http.MethodPost, "/v1/routes", nil, body, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// Status queries the aggregator's explorer for a submitted swap.
func (c *Client) Status(ctx context.Context, routeID, txHash string) (*SwapStatus, error) {
	q := url.Values{}
	q.Set("routeId", routeID)
	q.Set("txHash", txHash)
	var status SwapStatus
	if err := c.do(ctx, http.MethodGet, "/v1/status", q, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) do(ctx context.Context, method, p string, q url.Values, body, out any) error {
	u := *c.BaseURL
	u.Path = path.Join(u.Path, p)
	u.RawQuery = q.Encode()

	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal body")
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, "http do")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read body")
	}

	c.Logger.Info().
		Str("method", method).
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Str("duration", time.Since(start).String()).
		Msg("aggregator response")

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("aggregator http error %d: %s", resp.StatusCode, truncate(b, 512))
		}
		return errors.Wrap(err, "unmarshal envelope")
	}
	if !env.Success {
		if env.Error != nil {
			return env.Error
		}
		return fmt.Errorf("aggregator error: %s", env.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return errors.Wrap(err, "unmarshal result")
	}
	return nil
}

func truncate(b []byte, max int) string {
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}
