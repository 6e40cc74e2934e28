// Package guardia models the live guard-shift documents produced by the
// shift subsystem: the shift-state snapshot and the heterogeneous activity
// log the panel imports into the log book.
package guardia

import (
	"strconv"
	"strings"
)

// Vehiculo is one vehicle line of a shift snapshot. Value references a
// catalog entry; the booleans and observation text are free shift state.
type Vehiculo struct {
	Value         string `json:"value"`
	Operativo     bool   `json:"operativo"`
	Llaves        bool   `json:"llaves"`
	Observaciones string `json:"observaciones,omitempty"`
}

// Snapshot captures who and what is assigned where at the moment an event
// was logged. Identifier lists reference catalog entries by value.
type Snapshot struct {
	Lugar         string         `json:"lugar,omitempty"`
	Observaciones string         `json:"observaciones,omitempty"`
	Personal      []string       `json:"personal,omitempty"`
	Vehiculos     []Vehiculo     `json:"vehiculos,omitempty"`
	Equipo        []string       `json:"equipo,omitempty"`
	Municion      map[string]int `json:"municion,omitempty"`
}

// Event is one raw shift-activity record. Records are heterogeneous; any
// field may be absent. Immutable once logged by the shift subsystem.
type Event struct {
	Ts       int64     `json:"ts,omitempty"`
	Hora     string    `json:"hora,omitempty"`
	Patrulla string    `json:"patrulla,omitempty"`
	Accion   string    `json:"accion,omitempty"`
	Resumen  string    `json:"resumen,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// Document is the shift-state table payload.
type Document struct {
	Log []Event `json:"log"`
}

// DedupKey derives the stable identity of a raw event: the timestamp when
// present, otherwise a composite of the descriptive fields. Two events with
// equal keys are the same event. An empty key means the event cannot be
// keyed and must not be imported.
func (e Event) DedupKey() string {
	if e.Ts != 0 {
		return strconv.FormatInt(e.Ts, 10)
	}
	composite := strings.Join([]string{e.Hora, e.Patrulla, e.Accion, e.Resumen}, "|")
	if composite == "|||" {
		return ""
	}
	return composite
}
