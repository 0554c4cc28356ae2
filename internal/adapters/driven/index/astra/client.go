package astra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/logger"
)

const (
	// APIPath is the Data API prefix below the endpoint.
	APIPath = "/api/json/v1"

	// HeaderToken carries the application token.
	HeaderToken = "Token"

	// MaxRetries is the maximum number of retries after a 429.
	MaxRetries = 3

	// MaxPages bounds a paged find.
	MaxPages = 1000

	// DeleteConcurrency bounds the deleteOne commands in flight for one
	// DeleteByPath.
	DeleteConcurrency = 8

	// maxErrorBody bounds how much of a failed response is read.
	maxErrorBody = 64 << 10
)

// Ensure Client implements the interface.
var _ driven.IndexClient = (*Client)(nil)

// Client sends Data API commands for one keyspace and table.
type Client struct {
	httpClient  *http.Client
	rateLimiter *RateLimiter
	token       string
	keyspaceURL string
	tableURL    string
	table       string
	maxRetries  int

	mu     sync.RWMutex
	closed bool
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its timeout is left as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMaxRetries sets how often a rate limited command is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRateLimiter replaces the rate limiter.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(c *Client) {
		if rl != nil {
			c.rateLimiter = rl
		}
	}
}

// NewClient creates a client for settings, which must be valid.
func NewClient(settings domain.ConnectionSettings, opts ...Option) (*Client, error) {
	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	keyspaceURL, err := url.JoinPath(settings.Endpoint, APIPath, settings.Keyspace)
	if err != nil {
		return nil, &domain.ConfigurationError{Field: "endpoint", Err: err}
	}
	tableURL, err := url.JoinPath(keyspaceURL, settings.Table)
	if err != nil {
		return nil, &domain.ConfigurationError{Field: "table", Err: err}
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: settings.Timeout()},
		rateLimiter: NewRateLimiter(settings.RequestsPerSecond),
		token:       settings.Token,
		keyspaceURL: keyspaceURL,
		tableURL:    tableURL,
		table:       settings.Table,
		maxRetries:  MaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// EnsureSchema creates the table and its indexes if they are missing.
func (c *Client) EnsureSchema(ctx context.Context) error {
	// 1. Table
	err := c.do(ctx, c.keyspaceURL, "createTable", createTableCommand{
		Name:       c.table,
		Definition: tableDefinition(),
		Options:    ifNotExists{IfNotExists: true},
	}, nil)
	if err != nil {
		return fmt.Errorf("create table %s: %w", c.table, err)
	}

	// 2. Path index, so find by path is not a full scan
	err = c.do(ctx, c.tableURL, "createIndex", createIndexCommand{
		Name:       PathIndex,
		Definition: indexDefinition{Column: "path"},
		Options:    ifNotExists{IfNotExists: true},
	}, nil)
	if err != nil {
		return fmt.Errorf("create index %s: %w", PathIndex, err)
	}

	// 3. Vector index
	err = c.do(ctx, c.tableURL, "createVectorIndex", createIndexCommand{
		Name: VectorIndex,
		Definition: indexDefinition{
			Column:  "vector",
			Options: map[string]any{"metric": "cosine"},
		},
		Options: ifNotExists{IfNotExists: true},
	}, nil)
	if err != nil {
		return fmt.Errorf("create index %s: %w", VectorIndex, err)
	}

	logger.Debug("Schema ready for table %s", c.table)
	return nil
}

// Upsert writes a record. The vector column is set to the chunk text and
// embedded by the server.
func (c *Client) Upsert(ctx context.Context, record domain.ChunkRecord) error {
	return c.do(ctx, c.tableURL, "updateOne", updateOneCommand{
		Filter: map[string]any{"_id": record.ID},
		Update: map[string]any{
			"$set": map[string]any{
				"path":       record.Path,
				"chunkIndex": record.ChunkIndex,
				"content":    record.Content,
				"vector":     record.Content,
			},
		},
	}, nil)
}

// DeleteByID removes one record.
func (c *Client) DeleteByID(ctx context.Context, id string) error {
	return c.do(ctx, c.tableURL, "deleteOne", deleteOneCommand{
		Filter: map[string]any{"_id": id},
	}, nil)
}

// DeleteByPath removes every record of path.
func (c *Client) DeleteByPath(ctx context.Context, path string) (int, error) {
	records, err := c.FindByPath(ctx, path)
	if err != nil {
		return 0, err
	}

	var removed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DeleteConcurrency)
	for _, r := range records {
		g.Go(func() error {
			if err := c.DeleteByID(gctx, r.ID); err != nil {
				return err
			}
			removed.Add(1)
			return nil
		})
	}
	err = g.Wait()
	return int(removed.Load()), err
}

// FindByPath returns every record of path, following page states.
func (c *Client) FindByPath(ctx context.Context, path string) ([]domain.ChunkRecord, error) {
	var records []domain.ChunkRecord
	pageState := ""

	for page := 0; page < MaxPages; page++ {
		cmd := findCommand{
			Filter:     map[string]any{"path": path},
			Projection: rowProjection,
		}
		if pageState != "" {
			cmd.Options = &findOptions{PageState: pageState}
		}

		var resp response
		if err := c.do(ctx, c.tableURL, "find", cmd, &resp); err != nil {
			return records, err
		}
		if resp.Data == nil {
			break
		}

		for _, r := range resp.Data.Documents {
			records = append(records, r.record())
		}

		if resp.Data.NextPageState == nil || *resp.Data.NextPageState == "" {
			break
		}
		pageState = *resp.Data.NextPageState
	}

	return records, nil
}

// QueryBySimilarity returns the topK records nearest to text, ranked by
// the server.
func (c *Client) QueryBySimilarity(ctx context.Context, text string, topK int) ([]domain.ChunkRecord, error) {
	var resp response
	err := c.do(ctx, c.tableURL, "find", findCommand{
		Sort:       map[string]any{"vector": text},
		Projection: rowProjection,
		Options:    &findOptions{Limit: topK},
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Data == nil {
		return nil, nil
	}
	records := make([]domain.ChunkRecord, len(resp.Data.Documents))
	for i, r := range resp.Data.Documents {
		records[i] = r.record()
	}
	return records, nil
}

// Close releases idle connections. Later commands return ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.httpClient.CloseIdleConnections()
	return nil
}

// do sends {name: body} to target and decodes the reply into out (which
// may be nil). A 429 is retried after the server's delay.
func (c *Client) do(ctx context.Context, target, name string, body any, out *response) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	payload, err := json.Marshal(map[string]any{name: body})
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		err := c.send(ctx, target, name, payload, out)

		var rateErr *RateLimitError
		if !errors.As(err, &rateErr) || attempt >= c.maxRetries {
			return err
		}
		logger.Debug("%s rate limited, retrying in %s", name, rateErr.RetryAfter)
	}
}

func (c *Client) send(ctx context.Context, target, name string, payload []byte, out *response) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", name, err)
	}
	req.Header.Set(HeaderToken, c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer resp.Body.Close()
	logger.Debug("astra %s -> %d (%s)", name, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if err := c.rateLimiter.CheckResponse(resp); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return err
	}

	var decoded response
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{StatusCode: resp.StatusCode, Command: name}
		if json.Unmarshal(data, &decoded) == nil {
			apiErr.Messages = messages(decoded.Errors)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	if len(decoded.Errors) > 0 {
		return &APIError{StatusCode: resp.StatusCode, Command: name, Messages: messages(decoded.Errors)}
	}

	if out != nil {
		*out = decoded
	}
	return nil
}

func messages(errs []apiMessage) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.String()
	}
	return out
}
