// Package orders holds the directive ("orden") domain model and the pure
// engines that reconcile a local directive list with imported deltas:
// the expiration oracle and the upsert-or-delete merge.
package orders

import (
	"encoding/json"
)

// Franja is one time-slot line of a directive.
type Franja struct {
	Horario string `json:"horario"`
	Lugar   string `json:"lugar"`
	Titulo  string `json:"titulo"`
}

// Directive is a time-bounded duty instruction. Identity is Num.
type Directive struct {
	Num       string   `json:"num"`
	TextoRef  string   `json:"textoRef"`
	Vigencia  string   `json:"vigencia"`
	Caducidad string   `json:"caducidad"`
	Franjas   []Franja `json:"franjas"`
}

// Document is the orders table payload: the full current directive list.
type Document struct {
	Ordenes []Directive `json:"ordenes"`
}

// tombstoneKey marks a delta item as a deletion by directive number.
const tombstoneKey = "__ELIMINAR__"

// ImportItem is a tagged variant of a delta entry: exactly one of Tombstone
// or Upsert is set. The zero value means the raw item was malformed and
// must be skipped.
type ImportItem struct {
	// Tombstone is the num of the directive to remove, when non-empty.
	Tombstone string
	// Upsert is the directive to insert or replace, when non-nil.
	Upsert *Directive
}

// IsZero reports whether the item carries neither variant.
func (it ImportItem) IsZero() bool {
	return it.Tombstone == "" && it.Upsert == nil
}

// ParseImportItem validates one raw delta entry at the boundary and returns
// its tagged form. A malformed entry (no tombstone marker, and missing num
// or franjas-as-array) yields a zero item and ok=false; callers skip it.
func ParseImportItem(raw json.RawMessage) (ImportItem, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ImportItem{}, false
	}

	if tomb, present := fields[tombstoneKey]; present {
		var num string
		if err := json.Unmarshal(tomb, &num); err != nil || num == "" {
			return ImportItem{}, false
		}
		return ImportItem{Tombstone: num}, true
	}

	franjas, present := fields["franjas"]
	if !present || len(franjas) == 0 || franjas[0] != '[' {
		return ImportItem{}, false
	}

	var d Directive
	if err := json.Unmarshal(raw, &d); err != nil || d.Num == "" {
		return ImportItem{}, false
	}
	return ImportItem{Upsert: &d}, true
}

// ParseDelta decodes a JSON array of raw delta entries. Malformed entries
// are dropped silently; they are data noise, not an error condition.
func ParseDelta(data []byte) ([]ImportItem, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}

	items := make([]ImportItem, 0, len(raws))
	for _, raw := range raws {
		if item, ok := ParseImportItem(raw); ok {
			items = append(items, item)
		}
	}
	return items, nil
}
