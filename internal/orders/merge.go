package orders

import "time"

// Merge folds a delta into the current directive list. Items apply in delta
// order: a tombstone removes every directive with the matching num (no-op if
// absent), an upsert replaces the first directive with the same num or
// appends when there is none. Zero (malformed) items are skipped.
//
// Merge never mutates its inputs and is idempotent: applying the same delta
// twice yields the same result as applying it once.
func Merge(current []Directive, delta []ImportItem) []Directive {
	result := make([]Directive, len(current))
	copy(result, current)

	for _, item := range delta {
		switch {
		case item.Tombstone != "":
			result = removeByNum(result, item.Tombstone)
		case item.Upsert != nil:
			result = upsert(result, *item.Upsert)
		}
	}
	return result
}

// FilterExpired keeps only directives the expiration oracle reports as
// current at instant now.
func FilterExpired(list []Directive, now time.Time) []Directive {
	result := make([]Directive, 0, len(list))
	for _, d := range list {
		if Current(d.Caducidad, now) {
			result = append(result, d)
		}
	}
	return result
}

func removeByNum(list []Directive, num string) []Directive {
	result := list[:0:0]
	for _, d := range list {
		if d.Num != num {
			result = append(result, d)
		}
	}
	return result
}

func upsert(list []Directive, d Directive) []Directive {
	for i := range list {
		if list[i].Num == d.Num {
			list[i] = d
			return list
		}
	}
	return append(list, d)
}
