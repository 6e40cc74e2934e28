package cli

import (
	"context"
	"fmt"
)

// catalogTipos is the section order of the inventory listing.
var catalogTipos = []string{"personal", "vehiculo", "equipo", "municion"}

// ListCatalog prints the active catalog entries grouped by type, in the
// shared cache's display order.
func (a *App) ListCatalog(ctx context.Context) error {
	empty := true
	for _, tipo := range catalogTipos {
		entries := a.cache.Active(tipo)
		if len(entries) == 0 {
			continue
		}
		empty = false

		printlnFn(tipo + ":")
		for _, e := range entries {
			printlnFn(fmt.Sprintf("  %s (%s)", e.Label, e.Value))
		}
	}
	if empty {
		printlnFn("Catalog empty (try 'recargar')")
	}
	return nil
}
