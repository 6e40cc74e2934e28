package logbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvelarde/vigia/internal/common"
	"github.com/dvelarde/vigia/internal/guardia"
	"github.com/dvelarde/vigia/internal/logging"
	"github.com/dvelarde/vigia/internal/store"
)

// Book drives the log-book document: it loads it from the store, imports
// shift-activity events exactly once, and appends manual entries. One Book
// serves one process; Open serializes import passes within it, but two
// processes can still race (last write wins at the store).
type Book struct {
	store   store.SingletonStore
	resolve LabelResolver
	user    func() string
	logger  logging.Logger

	// Civil zone for "HH:MM" rendering, independent of the host zone.
	loc *time.Location
	now func() time.Time

	mu  sync.Mutex
	doc Document
}

func NewBook(st store.SingletonStore, resolve LabelResolver, user func() string, loc *time.Location, logger logging.Logger) *Book {
	return &Book{
		store:   st,
		resolve: resolve,
		user:    user,
		logger:  logger.With("module", "logbook"),
		loc:     loc,
		now:     time.Now,
		doc:     emptyDocument(),
	}
}

// Entries returns a copy of the in-memory journal, in insertion order.
func (b *Book) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Entry(nil), b.doc.Entries...)
}

// Open is the explicit "activate log-book view" command: it loads the
// journal, imports any new shift events and persists the result. It returns
// the number of entries imported and persisted. Remote failures never
// propagate; they are logged and the pass reports no change, so the view
// can always render whatever state is loaded.
func (b *Book) Open(ctx context.Context) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.load(ctx); err != nil {
		b.logger.Error(ctx, "log book load failed", "error", err)
		return 0
	}

	events, err := b.fetchShiftLog(ctx)
	if err != nil {
		b.logger.Error(ctx, "shift log fetch failed", "error", err)
		return 0
	}
	if len(events) == 0 {
		return 0
	}

	imported := b.importEvents(events)
	if imported == 0 {
		return 0
	}

	// The in-memory state keeps the import even if the write fails, but the
	// pass still reports no change; a failed remote write means a re-import
	// on next load anyway.
	if err := b.persist(ctx); err != nil {
		b.logger.Error(ctx, "log book persist failed after import", "error", err, "imported", imported)
		return 0
	}
	return imported
}

// load fetches the log-book document, defaulting to the empty shape when
// the row is absent or its payload malformed.
func (b *Book) load(ctx context.Context) error {
	row, err := b.store.GetSingleton(ctx, common.TableLogbook)
	if errors.Is(err, common.ErrorNotFound) {
		b.doc = emptyDocument()
		return nil
	}
	if err != nil {
		return err
	}
	b.doc = decodeDocument(row.Payload)
	return nil
}

func (b *Book) fetchShiftLog(ctx context.Context) ([]guardia.Event, error) {
	row, err := b.store.GetSingleton(ctx, common.TableGuardia)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc guardia.Document
	if err := json.Unmarshal(row.Payload, &doc); err != nil {
		// Malformed shift state is skipped, not fatal.
		b.logger.Warn(ctx, "malformed shift state document", "error", err)
		return nil, nil
	}
	return doc.Log, nil
}

// importEvents appends a synthesized entry per new, keyable event and
// records the consumed keys. Events are processed in source order.
func (b *Book) importEvents(events []guardia.Event) int {
	seen := make(map[string]struct{}, len(b.doc.Imported.GuardiaLogKeys))
	for _, k := range b.doc.Imported.GuardiaLogKeys {
		seen[k] = struct{}{}
	}

	imported := 0
	for _, e := range events {
		key := e.DedupKey()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		b.doc.Entries = append(b.doc.Entries, b.synthesize(e, key))
		b.doc.Imported.GuardiaLogKeys = append(b.doc.Imported.GuardiaLogKeys, key)
		imported++
	}
	return imported
}

func (b *Book) synthesize(e guardia.Event, key string) Entry {
	hora := e.Hora
	if hora == "" {
		hora = b.now().In(b.loc).Format("15:04")
	}

	return Entry{
		ID:      uuid.NewString(),
		Ts:      b.now().UTC(),
		User:    b.user(),
		Causa:   causaFor(e),
		Hora:    hora,
		Novedad: narrativeFor(e, b.resolve),
		Meta:    &Meta{Source: SourceGuardia, GuardiaKey: key},
	}
}

// AddManual appends an operator-written entry and persists. Manual entries
// are never deduplicated: every submission creates a new entry.
func (b *Book) AddManual(ctx context.Context, causa, novedad string) (Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry := Entry{
		ID:      uuid.NewString(),
		Ts:      b.now().UTC(),
		User:    b.user(),
		Causa:   causa,
		Hora:    b.now().In(b.loc).Format("15:04"),
		Novedad: novedad,
	}
	b.doc.Entries = append(b.doc.Entries, entry)

	if err := b.persist(ctx); err != nil {
		return entry, fmt.Errorf("saving entry: %w", err)
	}
	return entry, nil
}

// Delete removes an entry by id and persists. The imported key set is left
// untouched so a deleted auto-imported entry can never come back.
func (b *Book) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.doc.Entries[:0:0]
	found := false
	for _, e := range b.doc.Entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return common.ErrorNotFound
	}
	b.doc.Entries = kept

	if err := b.persist(ctx); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

func (b *Book) persist(ctx context.Context) error {
	payload, err := json.Marshal(b.doc)
	if err != nil {
		return err
	}
	_, err = b.store.UpsertSingleton(ctx, common.TableLogbook, payload)
	return err
}
