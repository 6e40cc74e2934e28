package logbook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dvelarde/vigia/internal/guardia"
)

func prefixedLabel(tipo, value string) string { return tipo + ":" + value }

func TestCausaFor(t *testing.T) {
	require.Equal(t, "relevo", causaFor(guardia.Event{Accion: "relevo"}))
	require.Equal(t, "relevo (Patrulla P2)", causaFor(guardia.Event{Accion: "relevo", Patrulla: "P2"}))
	require.Equal(t, "Novedad de guardia", causaFor(guardia.Event{}))
}

func TestNarrativeFor_FullSnapshot(t *testing.T) {
	e := guardia.Event{
		Resumen: "Cambio de turno",
		Snapshot: &guardia.Snapshot{
			Lugar:         "Puerta principal",
			Observaciones: "Sin incidencias",
			Personal:      []string{"p1", "p2"},
			Vehiculos: []guardia.Vehiculo{
				{Value: "v1", Operativo: true, Llaves: true},
				{Value: "v2", Operativo: false, Llaves: false, Observaciones: "rueda pinchada"},
			},
			Equipo:   []string{"e1"},
			Municion: map[string]int{"9mm": 50, "7.62": 0},
		},
	}

	got := narrativeFor(e, prefixedLabel)
	lines := strings.Split(got, "\n")

	require.Equal(t, []string{
		"Cambio de turno",
		"Lugar: Puerta principal",
		"Observaciones: Sin incidencias",
		"Personal: personal:p1, personal:p2",
		"Vehículos:",
		"- vehiculo:v1",
		"- vehiculo:v2 [no operativo] [sin llaves]: rueda pinchada",
		"Equipo: equipo:e1",
		"Munición: municion:9mm x 50",
	}, lines)
}

func TestNarrativeFor_ZeroCountAmmoOmitted(t *testing.T) {
	e := guardia.Event{Snapshot: &guardia.Snapshot{Municion: map[string]int{"9mm": 0}}}
	require.Empty(t, narrativeFor(e, prefixedLabel))
}

func TestNarrativeFor_NoSnapshot(t *testing.T) {
	require.Equal(t, "Solo texto", narrativeFor(guardia.Event{Resumen: "Solo texto"}, prefixedLabel))
	require.Empty(t, narrativeFor(guardia.Event{}, prefixedLabel))
}

func TestNarrativeFor_AmmoOrderIsStable(t *testing.T) {
	e := guardia.Event{Snapshot: &guardia.Snapshot{
		Municion: map[string]int{"b": 1, "a": 2, "c": 3},
	}}

	for i := 0; i < 5; i++ {
		require.Equal(t,
			"Munición: municion:a x 2, municion:b x 1, municion:c x 3",
			narrativeFor(e, prefixedLabel))
	}
}
