package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dvelarde/vigia/internal/common"
	"github.com/dvelarde/vigia/internal/guardia"
	"github.com/dvelarde/vigia/internal/logging"
	"github.com/dvelarde/vigia/internal/state"
	"github.com/dvelarde/vigia/internal/store"
)

// StateService rehydrates the shared in-memory cache from the remote store.
// The cache itself is never persisted.
type StateService struct {
	store  store.SingletonStore
	cache  *state.Cache
	logger logging.Logger
}

func NewStateService(st store.SingletonStore, cache *state.Cache, logger logging.Logger) *StateService {
	return &StateService{store: st, cache: cache, logger: logger.With("module", "state")}
}

// Rehydrate loads the catalog and the live shift state into the cache.
func (s *StateService) Rehydrate(ctx context.Context) error {
	if err := s.LoadCatalog(ctx); err != nil {
		return err
	}
	return s.LoadShiftState(ctx)
}

func (s *StateService) LoadCatalog(ctx context.Context) error {
	row, err := s.store.GetSingleton(ctx, common.TableCatalog)
	if errors.Is(err, common.ErrorNotFound) {
		s.cache.SetCatalog(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	var doc state.CatalogDocument
	if err := json.Unmarshal(row.Payload, &doc); err != nil {
		s.logger.Warn(ctx, "malformed catalog document", "error", err)
		s.cache.SetCatalog(nil)
		return nil
	}
	s.cache.SetCatalog(doc.Entries)
	return nil
}

func (s *StateService) LoadShiftState(ctx context.Context) error {
	row, err := s.store.GetSingleton(ctx, common.TableGuardia)
	if errors.Is(err, common.ErrorNotFound) {
		s.cache.SetShiftState(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading shift state: %w", err)
	}

	var doc guardia.Document
	if err := json.Unmarshal(row.Payload, &doc); err != nil {
		s.logger.Warn(ctx, "malformed shift state document", "error", err)
		s.cache.SetShiftState(nil)
		return nil
	}
	s.cache.SetShiftState(&doc)
	return nil
}
