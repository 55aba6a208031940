package cues

import (
	"errors"
	"math/rand"
)

// ErrNoAlternatives is returned when selection is attempted over an empty
// or all-non-positive-weight alternative list. Callers should treat it as a
// catalog configuration error, not a condition to recover from silently.
var ErrNoAlternatives = errors.New("no alternatives to select from")

// Select draws one alternative with probability proportional to its weight
// relative to the sum of the list. Alternatives with non-positive weight are
// never selected.
func Select(rng *rand.Rand, alternatives []WeightedAlternative) (CueType, error) {
	total := 0.0
	for _, alternative := range alternatives {
		if alternative.Weight > 0 {
			total += alternative.Weight
		}
	}
	if total <= 0 {
		return TypeNone, ErrNoAlternatives
	}

	draw := rng.Float64() * total
	accumulated := 0.0
	for _, alternative := range alternatives {
		if alternative.Weight <= 0 {
			continue
		}
		accumulated += alternative.Weight
		if draw < accumulated {
			return alternative.Type, nil
		}
	}

	// Float accumulation can leave draw a hair above the final sum; the
	// last selectable alternative takes the remainder.
	for i := len(alternatives) - 1; i >= 0; i-- {
		if alternatives[i].Weight > 0 {
			return alternatives[i].Type, nil
		}
	}
	return TypeNone, ErrNoAlternatives
}
