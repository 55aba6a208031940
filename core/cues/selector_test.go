package cues

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectErrorsWithoutAlternatives(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Select(rng, nil)
	if !errors.Is(err, ErrNoAlternatives) {
		t.Fatalf("expected ErrNoAlternatives, got %v", err)
	}

	_, err = Select(rng, []WeightedAlternative{})
	if !errors.Is(err, ErrNoAlternatives) {
		t.Fatalf("expected ErrNoAlternatives for empty list, got %v", err)
	}
}

func TestSelectErrorsWhenNoWeightIsSelectable(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Select(rng, []WeightedAlternative{
		{Weight: 0, Type: TypeAckComing},
		{Weight: -1, Type: TypeAckHere},
	})
	if !errors.Is(err, ErrNoAlternatives) {
		t.Fatalf("expected ErrNoAlternatives with only non-positive weights, got %v", err)
	}
}

func TestSelectSkipsNonPositiveWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alternatives := []WeightedAlternative{
		{Weight: 0, Type: TypeAckComing},
		{Weight: 1, Type: TypeAckHere},
		{Weight: -3, Type: TypeAckPresent},
	}

	for i := 0; i < 100; i++ {
		selected, err := Select(rng, alternatives)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if selected != TypeAckHere {
			t.Fatalf("expected only the positively weighted alternative, got %q", selected)
		}
	}
}

func TestSelectFollowsRelativeWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alternatives := []WeightedAlternative{
		{Weight: 1, Type: TypeAckComing},
		{Weight: 2, Type: TypeAckListening},
		{Weight: 3, Type: TypeAckHere},
	}

	const draws = 60_000
	counts := map[CueType]int{}
	for i := 0; i < draws; i++ {
		selected, err := Select(rng, alternatives)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[selected]++
	}

	assert.InDelta(t, 1.0/6, float64(counts[TypeAckComing])/draws, 0.02)
	assert.InDelta(t, 2.0/6, float64(counts[TypeAckListening])/draws, 0.02)
	assert.InDelta(t, 3.0/6, float64(counts[TypeAckHere])/draws, 0.02)
}
