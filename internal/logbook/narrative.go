package logbook

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dvelarde/vigia/internal/guardia"
)

// LabelResolver maps a catalog (tipo, value) pair to a display label.
// The shared state cache supplies the real implementation.
type LabelResolver func(tipo, value string) string

// causaFor builds the entry cause: the action label plus the patrol
// identifier when the event carries one.
func causaFor(e guardia.Event) string {
	causa := e.Accion
	if causa == "" {
		causa = "Novedad de guardia"
	}
	if e.Patrulla != "" {
		causa = fmt.Sprintf("%s (Patrulla %s)", causa, e.Patrulla)
	}
	return causa
}

// narrativeFor renders the multi-line narrative text of an imported event:
// place, observation text, and the resolved personnel/vehicle/equipment
// lists from the snapshot. Ammunition types with a zero count are omitted.
func narrativeFor(e guardia.Event, resolve LabelResolver) string {
	var lines []string

	if e.Resumen != "" {
		lines = append(lines, e.Resumen)
	}

	s := e.Snapshot
	if s == nil {
		return strings.Join(lines, "\n")
	}

	if s.Lugar != "" {
		lines = append(lines, "Lugar: "+s.Lugar)
	}
	if s.Observaciones != "" {
		lines = append(lines, "Observaciones: "+s.Observaciones)
	}

	if len(s.Personal) > 0 {
		labels := make([]string, 0, len(s.Personal))
		for _, v := range s.Personal {
			labels = append(labels, resolve("personal", v))
		}
		lines = append(lines, "Personal: "+strings.Join(labels, ", "))
	}

	if len(s.Vehiculos) > 0 {
		lines = append(lines, "Vehículos:")
		for _, v := range s.Vehiculos {
			lines = append(lines, vehicleLine(v, resolve))
		}
	}

	if len(s.Equipo) > 0 {
		labels := make([]string, 0, len(s.Equipo))
		for _, v := range s.Equipo {
			labels = append(labels, resolve("equipo", v))
		}
		lines = append(lines, "Equipo: "+strings.Join(labels, ", "))
	}

	if ammo := ammoLine(s.Municion, resolve); ammo != "" {
		lines = append(lines, ammo)
	}

	return strings.Join(lines, "\n")
}

func vehicleLine(v guardia.Vehiculo, resolve LabelResolver) string {
	var b strings.Builder
	b.WriteString("- ")
	b.WriteString(resolve("vehiculo", v.Value))
	if !v.Operativo {
		b.WriteString(" [no operativo]")
	}
	if !v.Llaves {
		b.WriteString(" [sin llaves]")
	}
	if v.Observaciones != "" {
		b.WriteString(": ")
		b.WriteString(v.Observaciones)
	}
	return b.String()
}

// ammoLine renders ammunition counts in stable (sorted) type order,
// skipping types with no rounds.
func ammoLine(municion map[string]int, resolve LabelResolver) string {
	if len(municion) == 0 {
		return ""
	}

	types := make([]string, 0, len(municion))
	for tipo, count := range municion {
		if count > 0 {
			types = append(types, tipo)
		}
	}
	if len(types) == 0 {
		return ""
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, tipo := range types {
		parts = append(parts, fmt.Sprintf("%s x %d", resolve("municion", tipo), municion[tipo]))
	}
	return "Munición: " + strings.Join(parts, ", ")
}
