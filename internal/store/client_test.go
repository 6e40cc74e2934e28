package store

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dvelarde/vigia/internal/common"
	"github.com/dvelarde/vigia/internal/logging"
	"github.com/dvelarde/vigia/internal/session"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "operador",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("secretKey"))
	require.NoError(t, err)

	s := session.New()
	s.Set("operador", signed)
	return s
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-api-key", testSession(t), testLogger())
}

func TestGetSingleton_ReturnsRow(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/libro_novedades", r.URL.Path)
		require.Equal(t, "eq.1", r.URL.Query().Get("id"))
		require.Equal(t, "test-api-key", r.Header.Get("apikey"))
		require.Contains(t, r.Header.Get("Authorization"), "Bearer ")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"payload":{"entries":[]},"updated_at":"2024-06-15T10:00:00Z"}]`))
	}))

	row, err := c.GetSingleton(context.Background(), "libro_novedades")
	require.NoError(t, err)
	require.Equal(t, int64(1), row.ID)
	require.JSONEq(t, `{"entries":[]}`, string(row.Payload))
}

func TestGetSingleton_EmptyArrayIsNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := c.GetSingleton(context.Background(), "ordenes")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpsertSingleton_UpdateSucceeds(t *testing.T) {
	var patches, posts int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			patches++
			body, _ := io.ReadAll(r.Body)
			var sent map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(body, &sent))
			require.Contains(t, sent, "payload")
			require.Contains(t, sent, "updated_at")

			_, _ = w.Write([]byte(`[{"id":1,"payload":{"v":2},"updated_at":"2024-06-15T10:00:00Z"}]`))
		case http.MethodPost:
			posts++
		}
	}))

	row, err := c.UpsertSingleton(context.Background(), "ordenes", json.RawMessage(`{"v":2}`))
	require.NoError(t, err)
	require.Equal(t, 1, patches)
	require.Zero(t, posts, "no fallback insert after a successful update")
	require.JSONEq(t, `{"v":2}`, string(row.Payload))
}

func TestUpsertSingleton_FallsBackToInsertOn404(t *testing.T) {
	var posts int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			posts++
			body, _ := io.ReadAll(r.Body)
			var row Row
			require.NoError(t, json.Unmarshal(body, &row))
			require.Equal(t, int64(1), row.ID)

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(body)
		}
	}))

	row, err := c.UpsertSingleton(context.Background(), "ordenes", json.RawMessage(`{"v":1}`))
	require.NoError(t, err)
	require.Equal(t, 1, posts)
	require.Equal(t, int64(1), row.ID)
}

func TestUpsertSingleton_FallsBackToInsertOnZeroRows(t *testing.T) {
	var posts int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			// Accepted, but no rows matched the fixed id.
			_, _ = w.Write([]byte(`[]`))
		case http.MethodPost:
			posts++
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`[{"id":1,"payload":{"v":1},"updated_at":"2024-06-15T10:00:00Z"}]`))
		}
	}))

	_, err := c.UpsertSingleton(context.Background(), "ordenes", json.RawMessage(`{"v":1}`))
	require.NoError(t, err)
	require.Equal(t, 1, posts)
}

func TestUpsertSingleton_OtherUpdateFailureDoesNotFallBack(t *testing.T) {
	var posts int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
		case http.MethodPost:
			posts++
		}
	}))

	_, err := c.UpsertSingleton(context.Background(), "ordenes", json.RawMessage(`{}`))
	require.ErrorIs(t, err, common.ErrorRemoteWrite)
	require.Zero(t, posts)
}

func TestUpsertSingleton_InsertFailureSurfaces(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			w.WriteHeader(http.StatusConflict)
		}
	}))

	_, err := c.UpsertSingleton(context.Background(), "ordenes", json.RawMessage(`{}`))
	require.ErrorIs(t, err, common.ErrorRemoteWrite)
}

func TestUpsertSingleton_RefusesWithoutSession(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "k", session.New(), testLogger())

	_, err := c.UpsertSingleton(context.Background(), "ordenes", json.RawMessage(`{}`))
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.Zero(t, calls, "no HTTP call may happen without a valid session")
}

func TestUpsertSingleton_RowCountStaysOne(t *testing.T) {
	// Simulates the remote table: first write inserts, second updates in place.
	rows := map[int64]Row{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			if _, ok := rows[1]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			body, _ := io.ReadAll(r.Body)
			var patch struct {
				Payload   json.RawMessage `json:"payload"`
				UpdatedAt time.Time       `json:"updated_at"`
			}
			_ = json.Unmarshal(body, &patch)
			rows[1] = Row{ID: 1, Payload: patch.Payload, UpdatedAt: patch.UpdatedAt}
			_ = json.NewEncoder(w).Encode([]Row{rows[1]})
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			var row Row
			_ = json.Unmarshal(body, &row)
			rows[row.ID] = row
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode([]Row{row})
		}
	}))

	_, err := c.UpsertSingleton(context.Background(), "ordenes", json.RawMessage(`{"v":1}`))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row, err := c.UpsertSingleton(context.Background(), "ordenes", json.RawMessage(`{"v":2}`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.JSONEq(t, `{"v":2}`, string(row.Payload))
}
