package orders

import (
	"strconv"
	"strings"
	"time"
)

// SentinelNoExpiry marks a directive with no fixed expiration date.
// Matching is case-insensitive and whitespace-trimmed.
const SentinelNoExpiry = "A FINALIZAR"

// Current reports whether a directive with the given expiration marker is
// still in force at instant now. The bias is fail-open: empty, sentinel and
// unparsable markers all count as current, so malformed data can never
// silently cause a deletion downstream.
//
// A valid DD/MM/YYYY marker is current while its end-of-day instant
// (23:59:59 in now's location) has not passed.
func Current(caducidad string, now time.Time) bool {
	marker := strings.TrimSpace(caducidad)
	if marker == "" {
		return true
	}
	if strings.EqualFold(marker, SentinelNoExpiry) {
		return true
	}

	endOfDay, ok := parseExpiryDate(marker, now.Location())
	if !ok {
		return true
	}
	return !endOfDay.Before(now)
}

// parseExpiryDate parses a strict DD/MM/YYYY date and returns its end-of-day
// instant. Dates that do not round-trip through time.Date (e.g. 31/02/2024)
// are rejected.
func parseExpiryDate(s string, loc *time.Location) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, false
	}

	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 23, 59, 59, 0, loc)
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		// time.Date normalized an impossible calendar date.
		return time.Time{}, false
	}
	return t, true
}
