// Package httpapi exposes the table-store REST protocol: one singleton
// document row per table, addressed with query-string row filters.
//
//	GET    /<table>?select=...&id=eq.1
//	PATCH  /<table>?id=eq.1
//	POST   /<table>
package httpapi

import (
	"context"
	"net/http"

	"github.com/dvelarde/vigia/internal/logging"
	"github.com/dvelarde/vigia/internal/storesrv/documents"
)

// allowedTables is the fixed set of logical tables the service serves.
var allowedTables = map[string]struct{}{
	"ordenes":         {},
	"estado_guardia":  {},
	"libro_novedades": {},
	"inventario":      {},
}

// Store is the persistence surface the handlers need: row access plus a way
// to run a read-check-write sequence atomically.
type Store interface {
	documents.Repository
	InTx(ctx context.Context, fn func(docs documents.Repository) error) error
}

type Server struct {
	address   string
	docs      Store
	logger    logging.Logger
	apiKey    string
	jwtSecret []byte
}

func NewServer(address string, docs Store, apiKey, secretKey string, logger logging.Logger) *Server {
	return &Server{
		address:   address,
		docs:      docs,
		logger:    logger.With("module", "httpapi"),
		apiKey:    apiKey,
		jwtSecret: []byte(secretKey),
	}
}

// Handler builds the route table. Exposed separately so tests can drive it
// through httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{table}", s.withAuth(s.handleGet))
	mux.HandleFunc("PATCH /{table}", s.withAuth(s.handlePatch))
	mux.HandleFunc("POST /{table}", s.withAuth(s.handlePost))
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = srv.Shutdown(context.Background())
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
