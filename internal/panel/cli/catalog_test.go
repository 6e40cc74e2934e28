package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dvelarde/vigia/internal/state"
)

func captureOutput(t *testing.T, fn func()) []string {
	t.Helper()

	var out []string
	oldPrintln := printlnFn
	printlnFn = func(args ...any) (int, error) {
		for _, arg := range args {
			out = append(out, arg.(string))
		}
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = oldPrintln })

	fn()
	return out
}

func TestListCatalog_PrintsActiveEntriesGrouped(t *testing.T) {
	cache := state.NewCache()
	cache.SetCatalog([]state.CatalogEntry{
		{Tipo: "personal", Label: "Cabo Pérez", Value: "p1", Orden: 2, Activo: true},
		{Tipo: "personal", Label: "Soldado Ruiz", Value: "p2", Orden: 1, Activo: true},
		{Tipo: "vehiculo", Label: "De baja", Value: "v1", Activo: false},
		{Tipo: "equipo", Label: "Radio PR4G", Value: "e1", Activo: true},
	})

	a := &App{cache: cache}
	out := captureOutput(t, func() {
		require.NoError(t, a.ListCatalog(context.Background()))
	})

	require.Equal(t, []string{
		"personal:",
		"  Soldado Ruiz (p2)",
		"  Cabo Pérez (p1)",
		"equipo:",
		"  Radio PR4G (e1)",
	}, out)
}

func TestListCatalog_EmptyCatalogHintsReload(t *testing.T) {
	a := &App{cache: state.NewCache()}
	out := captureOutput(t, func() {
		require.NoError(t, a.ListCatalog(context.Background()))
	})
	require.Contains(t, strings.Join(out, "\n"), "recargar")
}
