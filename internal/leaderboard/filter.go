package leaderboard

// MinTotalMinutes is the shortest night that counts. Anything below is treated as a nap
// or a bogus upload and is dropped before scoring.
const MinTotalMinutes = 45

// Keep reports whether r is a valid night.
func Keep(r Record) bool {
	return r.TotalMinutes >= MinTotalMinutes
}

// Filter returns the records that pass Keep, preserving order.
func Filter(records []Record) []Record {
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if Keep(r) {
			kept = append(kept, r)
		}
	}
	return kept
}
