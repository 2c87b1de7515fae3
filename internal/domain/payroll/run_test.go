package payroll

import (
	"context"
	"errors"
	"testing"
)

func TestRunRejectsInvalidMonth(t *testing.T) {
	store := &Store{}
	for _, month := range []int{0, 13, -1} {
		if _, err := store.Run(context.Background(), 2024, month); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("month %d: expected ErrInvalidMonth, got %v", month, err)
		}
	}
}
