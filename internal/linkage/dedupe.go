package linkage

// Dedupe keeps one candidate per profile ID: the most recent program year,
// or when years are unknown the row with the fewest missing fields. Ties
// keep the earlier row. Rows without a profile ID are all kept. Output
// order follows the first appearance of each profile.
func Dedupe(cands []*Candidate) []*Candidate {
	best := make(map[string]int, len(cands))
	out := make([]*Candidate, 0, len(cands))

	for _, c := range cands {
		id := c.Payment.ProfileID
		if id == "" {
			out = append(out, c)
			continue
		}
		i, ok := best[id]
		if !ok {
			best[id] = len(out)
			out = append(out, c)
			continue
		}
		if PreferPayment(c.Payment, out[i].Payment) {
			out[i] = c
		}
	}
	return out
}

// PreferPayment reports whether a should replace b as a profile's row.
func PreferPayment(a, b *PaymentRecord) bool {
	if a.Year != b.Year {
		return a.Year > b.Year
	}
	return a.missingFields() < b.missingFields()
}
