package evaluation

import (
	"context"
	"errors"
	"testing"
)

func TestUpsertRejectsSelfEvaluation(t *testing.T) {
	store := &Store{}
	err := store.Upsert(context.Background(), "EV01", "EV01", 2024, "A", "self praise")
	if !errors.Is(err, ErrSelfEvaluation) {
		t.Fatalf("expected ErrSelfEvaluation, got %v", err)
	}
}

func TestValidRating(t *testing.T) {
	for _, rating := range []string{"S", "A", "B", "C"} {
		if !ValidRating(rating) {
			t.Fatalf("expected %q to be valid", rating)
		}
	}
	for _, rating := range []string{"", "D", "s", "AA"} {
		if ValidRating(rating) {
			t.Fatalf("expected %q to be invalid", rating)
		}
	}
}
