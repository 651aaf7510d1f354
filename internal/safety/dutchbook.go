package safety

import "fmt"

// Odds is a single outcome's (value, decimal-odds) pair as quoted by a
// market, the input shape for DutchBookFromOdds.
type Odds struct {
	Value float64
	Odds  float64 // decimal odds, e.g. 2.5 means a 1-unit stake returns 2.5
}

// ValidateDutchBook checks that a set of outcome probabilities is
// coherent: every probability in [0, 1] and the set summing to 1
// within tolerance. A violation means the quoted probabilities admit a
// Dutch book — a combination of bets that wins regardless of outcome,
// which is exactly the exposure the safety kernel exists to refuse
// (spec §8).
func ValidateDutchBook(probs []float64, tolerance float64) error {
	if len(probs) == 0 {
		return fmt.Errorf("dutch-book: no outcomes given")
	}
	total := 0.0
	for i, p := range probs {
		if p < 0 || p > 1 {
			return fmt.Errorf("dutch-book: outcome %d has probability %v outside [0, 1]", i, p)
		}
		total += p
	}
	if diff := total - 1.0; diff >= tolerance || diff <= -tolerance {
		return fmt.Errorf("dutch-book: probabilities sum to %v, outside tolerance %v of 1", total, tolerance)
	}
	return nil
}

// NormalizeDutchBook rescales probs so they sum to exactly 1,
// preserving their relative proportions — used to repair a
// slightly-off quote before it is checked again, rather than rejecting
// it outright.
func NormalizeDutchBook(probs []float64) ([]float64, error) {
	total := 0.0
	for _, p := range probs {
		total += p
	}
	if total <= 0 {
		return nil, fmt.Errorf("dutch-book: cannot normalize, probabilities sum to %v", total)
	}
	out := make([]float64, len(probs))
	for i, p := range probs {
		out[i] = p / total
	}
	return out, nil
}

// DutchBookFromOdds converts a set of decimal odds quotes into implied
// probabilities (1/odds each), returning them alongside the overround
// (the amount by which the book's implied probabilities exceed 1 — the
// bookmaker's margin). It fails only on an empty set or a quote not
// above 1; it does not check that the implied probabilities sum to 1,
// so a book with a nonzero overround is returned without error.
func DutchBookFromOdds(quotes []Odds) (probs []float64, overround float64, err error) {
	if len(quotes) == 0 {
		return nil, 0, fmt.Errorf("dutch-book: no odds quotes given")
	}
	probs = make([]float64, len(quotes))
	total := 0.0
	for i, q := range quotes {
		if q.Odds <= 1 {
			return nil, 0, fmt.Errorf("dutch-book: odds %d must be > 1, got %v", i, q.Odds)
		}
		probs[i] = 1.0 / q.Odds
		total += probs[i]
	}
	return probs, total - 1.0, nil
}
