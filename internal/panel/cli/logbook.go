package cli

import (
	"context"
	"fmt"
	"os"
)

// OpenBook is the explicit "activate log-book view" command: one import
// pass, then the journal is printed.
func (a *App) OpenBook(ctx context.Context) error {
	imported := a.book.Open(ctx)
	if imported > 0 {
		printlnFn(fmt.Sprintf("Imported %d shift events", imported))
	}

	entries := a.book.Entries()
	if len(entries) == 0 {
		printlnFn("Log book is empty")
		return nil
	}
	for _, e := range entries {
		source := ""
		if e.Meta != nil {
			source = " [" + e.Meta.Source + "]"
		}
		printlnFn(fmt.Sprintf("%s  %s  %s%s\n    %s", e.ID, e.Hora, e.Causa, source, e.Novedad))
	}
	return nil
}

// AddNote records a manual log-book entry.
func (a *App) AddNote(ctx context.Context) error {
	causa, err := getSimpleText(a.reader, "Enter cause", os.Stdout)
	if err != nil {
		return err
	}

	novedad, err := GetMultiline(a.reader, "Enter narrative", os.Stdout)
	if err != nil {
		return err
	}

	entry, err := a.book.AddManual(ctx, causa, novedad)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Entry %s recorded at %s", entry.ID, entry.Hora))
	return nil
}

// DeleteNote removes a log-book entry by id. The imported-key bookkeeping
// is untouched, so deleted auto-imported entries never reappear.
func (a *App) DeleteNote(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter entry id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.book.Delete(ctx, id); err != nil {
		return err
	}

	printlnFn("Entry deleted")
	return nil
}
