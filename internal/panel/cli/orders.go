package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dvelarde/vigia/internal/orders"
)

// ListOrders prints the current directive list.
func (a *App) ListOrders(ctx context.Context) error {
	list, err := a.ordersService.Load(ctx)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		printlnFn("No orders published")
		return nil
	}
	for _, d := range list {
		caducidad := d.Caducidad
		if caducidad == "" {
			caducidad = "-"
		}
		printlnFn(fmt.Sprintf("[%s] %s (vigencia %s, caducidad %s, %d franjas)",
			d.Num, d.TextoRef, d.Vigencia, caducidad, len(d.Franjas)))
	}
	return nil
}

// ImportDelta reads a delta file, folds it into the published orders and
// prints the resulting list size.
func (a *App) ImportDelta(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter delta file path", os.Stdout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading delta file: %w", err)
	}

	delta, err := orders.ParseDelta(data)
	if err != nil {
		return fmt.Errorf("parsing delta file: %w", err)
	}

	merged, err := a.ordersService.ImportDelta(ctx, delta)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Delta applied: %d items, %d orders now published", len(delta), len(merged)))
	return nil
}

// Reload rehydrates the shared catalog/shift-state cache.
func (a *App) Reload(ctx context.Context) error {
	if err := a.stateService.Rehydrate(ctx); err != nil {
		return err
	}
	printlnFn("State reloaded")
	return nil
}
