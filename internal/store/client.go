// Package store implements the REST client for the table-oriented remote
// store. Each table holds one logical JSON document in a singleton row with
// a fixed id; UpsertSingleton is the single write path every mutating caller
// routes through, so the create-vs-update branching lives in one place.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dvelarde/vigia/internal/common"
	"github.com/dvelarde/vigia/internal/logging"
	"github.com/dvelarde/vigia/internal/session"
)

// Row is the remote representation of a singleton document row.
type Row struct {
	ID        int64           `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SingletonStore is the surface the merge and import engines depend on.
// *Client implements it; tests substitute fakes.
type SingletonStore interface {
	GetSingleton(ctx context.Context, table string) (*Row, error)
	UpsertSingleton(ctx context.Context, table string, payload json.RawMessage) (*Row, error)
}

type Client struct {
	baseURL string
	apiKey  string
	session *session.Session
	http    *http.Client
	logger  logging.Logger
	now     func() time.Time
}

func NewClient(baseURL, apiKey string, s *session.Session, logger logging.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		session: s,
		http:    &http.Client{},
		logger:  logger.With("module", "store_client"),
		now:     time.Now,
	}
}

// GetSingleton reads the one document row of a table. A missing row is
// reported as common.ErrorNotFound.
func (c *Client) GetSingleton(ctx context.Context, table string) (*Row, error) {
	url := fmt.Sprintf("%s/%s?select=id,payload,updated_at&id=eq.%d", c.baseURL, table, common.SingletonRowID)

	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNotAcceptable:
		return nil, common.ErrorNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("get %s: unexpected status %d", table, resp.StatusCode)
	}

	rows, err := decodeRows(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	return &rows[0], nil
}

// UpsertSingleton persists a document: a conditional update of the fixed
// row, falling back to an insert when the row does not yet exist. Any other
// update failure surfaces immediately without attempting the insert.
// Concurrent callers race last-writer-wins; no further concurrency control
// is provided here.
func (c *Client) UpsertSingleton(ctx context.Context, table string, payload json.RawMessage) (*Row, error) {
	if !c.session.Valid(c.now()) {
		return nil, fmt.Errorf("upsert %s: %w", table, common.ErrorUnauthorized)
	}

	row := Row{ID: common.SingletonRowID, Payload: payload, UpdatedAt: c.now().UTC()}

	updated, err := c.update(ctx, table, row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, errRowMissing) {
		return nil, fmt.Errorf("upsert %s: %w: %w", table, common.ErrorRemoteWrite, err)
	}

	c.logger.Info(ctx, "singleton row missing, inserting", "table", table)

	inserted, err := c.insert(ctx, table, row)
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w: %w", table, common.ErrorRemoteWrite, err)
	}
	return inserted, nil
}

// errRowMissing is internal to the update-then-insert fallback.
var errRowMissing = errors.New("singleton row missing")

func (c *Client) update(ctx context.Context, table string, row Row) (*Row, error) {
	url := fmt.Sprintf("%s/%s?id=eq.%d", c.baseURL, table, common.SingletonRowID)

	body, err := json.Marshal(map[string]any{
		"payload":    row.Payload,
		"updated_at": row.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPatch, url, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		rows, err := decodeRows(resp.Body)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			// Zero rows affected: the store accepted the request but had
			// nothing to update.
			return nil, errRowMissing
		}
		return &rows[0], nil
	case http.StatusNoContent:
		// Store configured without return=representation echo.
		return &row, nil
	case http.StatusNotFound, http.StatusNotAcceptable:
		return nil, errRowMissing
	default:
		return nil, fmt.Errorf("update status %d: %s", resp.StatusCode, readError(resp.Body))
	}
}

func (c *Client) insert(ctx context.Context, table string, row Row) (*Row, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, table)

	body, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		rows, err := decodeRows(resp.Body)
		if err != nil || len(rows) == 0 {
			return &row, nil
		}
		return &rows[0], nil
	case http.StatusNoContent:
		return &row, nil
	default:
		return nil, fmt.Errorf("insert status %d: %s", resp.StatusCode, readError(resp.Body))
	}
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	if token := c.session.Token(); token != "" {
		req.Header.Set(common.AuthHeaderName, "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	return c.http.Do(req)
}

// decodeRows parses a store response, which is an array of rows for list
// semantics or a bare object when the store answers single-object style.
func decodeRows(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err == nil {
		return rows, nil
	}

	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("malformed store response: %w", err)
	}
	return []Row{row}, nil
}

func readError(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(data) == 0 {
		return "(no body)"
	}
	return string(data)
}
