// Package services wires the core engines to the remote store for the
// panel: loading and publishing directive documents, applying delta
// imports, and rehydrating the shared state cache.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dvelarde/vigia/internal/common"
	"github.com/dvelarde/vigia/internal/logging"
	"github.com/dvelarde/vigia/internal/orders"
	"github.com/dvelarde/vigia/internal/store"
)

type OrdersService struct {
	store  store.SingletonStore
	logger logging.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewOrdersService(st store.SingletonStore, loc *time.Location, logger logging.Logger) *OrdersService {
	return &OrdersService{
		store:  st,
		logger: logger.With("module", "orders"),
		loc:    loc,
		now:    time.Now,
	}
}

// Load reads the current directive list. An absent row or malformed payload
// yields an empty list rather than an error; only remote failures surface.
func (s *OrdersService) Load(ctx context.Context) ([]orders.Directive, error) {
	row, err := s.store.GetSingleton(ctx, common.TableOrders)
	if errors.Is(err, common.ErrorNotFound) {
		return []orders.Directive{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading orders: %w", err)
	}

	var doc orders.Document
	if err := json.Unmarshal(row.Payload, &doc); err != nil {
		s.logger.Warn(ctx, "malformed orders document, starting empty", "error", err)
		return []orders.Directive{}, nil
	}
	if doc.Ordenes == nil {
		return []orders.Directive{}, nil
	}
	return doc.Ordenes, nil
}

// Publish persists the full directive list as the orders document.
func (s *OrdersService) Publish(ctx context.Context, list []orders.Directive) error {
	payload, err := json.Marshal(orders.Document{Ordenes: list})
	if err != nil {
		return fmt.Errorf("encoding orders: %w", err)
	}
	if _, err := s.store.UpsertSingleton(ctx, common.TableOrders, payload); err != nil {
		return fmt.Errorf("publishing orders: %w", err)
	}
	return nil
}

// ImportDelta folds a delta into the stored directive list, prunes expired
// directives and publishes the result. It returns the published list.
func (s *OrdersService) ImportDelta(ctx context.Context, delta []orders.ImportItem) ([]orders.Directive, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	merged := orders.Merge(current, delta)
	pruned := orders.FilterExpired(merged, s.now().In(s.loc))

	if err := s.Publish(ctx, pruned); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "delta imported",
		"delta_items", len(delta), "before", len(current), "after", len(pruned))
	return pruned, nil
}
