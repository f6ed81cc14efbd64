package match

// Closest scans candidates in order and returns the single best one whose
// similarity to name reaches cutoff (inclusive). A later candidate replaces
// the incumbent only on a strictly higher score, so ties resolve to the
// earliest candidate — the answer is deterministic for a fixed candidate
// order.
func Closest(name string, candidates []string, cutoff float64) (best string, score float64, ok bool) {
	for _, c := range candidates {
		r := Ratio(name, c)
		if r < cutoff {
			continue
		}
		if !ok || r > score {
			best, score, ok = c, r, true
		}
	}
	return best, score, ok
}
