// Package logbook implements the persistent shift journal: manual entries,
// the guard-shift event importer with its at-most-once dedup bookkeeping,
// and the narrative synthesis for imported events.
package logbook

import (
	"encoding/json"
	"time"
)

// SourceGuardia marks entries synthesized from shift-activity events.
const SourceGuardia = "guardia"

// Meta carries import provenance for auto-imported entries.
type Meta struct {
	Source     string `json:"source"`
	GuardiaKey string `json:"guardia_key"`
}

// Entry is one journal line. Entries are never mutated after creation;
// the only later operation is deletion by id.
type Entry struct {
	ID      string    `json:"id"`
	Ts      time.Time `json:"ts"`
	User    string    `json:"user,omitempty"`
	Causa   string    `json:"causa"`
	Hora    string    `json:"hora"`
	Novedad string    `json:"novedad"`
	Meta    *Meta     `json:"meta,omitempty"`
}

// Imported tracks which shift events have ever been consumed. Keys are
// never removed, even when the matching entry is deleted; that is what
// keeps re-import at-most-once permanently.
type Imported struct {
	GuardiaLogKeys []string `json:"guardia_log_keys"`
}

// Document is the log-book table payload. Entries keep insertion order,
// which is chronological.
type Document struct {
	Entries  []Entry  `json:"entries"`
	Imported Imported `json:"imported"`
}

// emptyDocument is the initial shape used when the remote document is
// absent or malformed.
func emptyDocument() Document {
	return Document{
		Entries:  []Entry{},
		Imported: Imported{GuardiaLogKeys: []string{}},
	}
}

// decodeDocument parses a persisted log-book payload, defaulting any
// missing or malformed piece instead of failing the whole load.
func decodeDocument(payload json.RawMessage) Document {
	doc := emptyDocument()
	if len(payload) == 0 {
		return doc
	}

	var parsed Document
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return doc
	}
	if parsed.Entries != nil {
		doc.Entries = parsed.Entries
	}
	if parsed.Imported.GuardiaLogKeys != nil {
		doc.Imported.GuardiaLogKeys = parsed.Imported.GuardiaLogKeys
	}
	return doc
}
