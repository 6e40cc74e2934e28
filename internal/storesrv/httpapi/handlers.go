package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dvelarde/vigia/internal/common"
	"github.com/dvelarde/vigia/internal/storesrv/documents"
)

var errRowExists = errors.New("row already exists")

// wireRow is the JSON shape of a document row on the wire.
type wireRow struct {
	ID        int64           `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toWire(row *documents.Row) wireRow {
	return wireRow{ID: row.ID, Payload: row.Payload, UpdatedAt: row.UpdatedAt}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// tableFrom validates the {table} path segment against the served set.
func tableFrom(r *http.Request) (string, error) {
	table := r.PathValue("table")
	if _, ok := allowedTables[table]; !ok {
		return "", fmt.Errorf("unknown table %q", table)
	}
	return table, nil
}

// rowIDFrom parses the id=eq.<n> row filter. A missing filter defaults to the
// singleton row so that bare GET /<table> still works.
func rowIDFrom(r *http.Request) (int64, error) {
	filter := r.URL.Query().Get("id")
	if filter == "" {
		return common.SingletonRowID, nil
	}
	raw, ok := strings.CutPrefix(filter, "eq.")
	if !ok {
		return 0, fmt.Errorf("unsupported id filter %q", filter)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unsupported id filter %q", filter)
	}
	return id, nil
}

// handleGet returns the matching rows as an array: one element when the row
// exists, empty when it does not. Absence is not an error at this level.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	table, err := tableFrom(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	id, err := rowIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := s.docs.Get(r.Context(), table, id)
	if errors.Is(err, common.ErrorNotFound) {
		writeJSON(w, http.StatusOK, []wireRow{})
		return
	}
	if err != nil {
		s.logger.Error(r.Context(), "document read failed", "table", table, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, []wireRow{toWire(row)})
}

// handlePatch updates the filtered row. Zero rows matched is reported as 404
// so callers can fall back to an insert.
func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	table, err := tableFrom(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	id, err := rowIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body wireRow
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	row := &documents.Row{Table: table, ID: id, Payload: body.Payload, UpdatedAt: body.UpdatedAt}
	n, err := s.docs.Update(r.Context(), row)
	if err != nil {
		s.logger.Error(r.Context(), "document update failed", "table", table, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "no rows matched")
		return
	}

	writeJSON(w, http.StatusOK, []wireRow{toWire(row)})
}

// handlePost inserts a new row. A duplicate insert is a conflict, not a
// silent overwrite.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	table, err := tableFrom(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var body wireRow
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if body.ID == 0 {
		body.ID = common.SingletonRowID
	}

	row := &documents.Row{Table: table, ID: body.ID, Payload: body.Payload, UpdatedAt: body.UpdatedAt}

	// The existence check and the insert must see the same state, so both
	// run inside one transaction.
	err = s.docs.InTx(r.Context(), func(docs documents.Repository) error {
		_, err := docs.Get(r.Context(), table, body.ID)
		if err == nil {
			return errRowExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return docs.Insert(r.Context(), row)
	})
	if errors.Is(err, errRowExists) {
		writeError(w, http.StatusConflict, "row already exists")
		return
	}
	if err != nil {
		s.logger.Error(r.Context(), "document insert failed", "table", table, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, []wireRow{toWire(row)})
}
