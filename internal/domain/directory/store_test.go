package directory

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestUpdateDepartmentRejectsSelfParent(t *testing.T) {
	// The self-parent guard fires before any query runs, so a
	// zero-value store is enough.
	store := &Store{}
	parent := 5
	if _, err := store.UpdateDepartment(context.Background(), 5, "Engineering", &parent); !errors.Is(err, ErrDepartmentCycle) {
		t.Fatalf("expected ErrDepartmentCycle, got %v", err)
	}
}

func TestBuildEmployeeQueryNoFilters(t *testing.T) {
	query, args, err := buildEmployeeQuery(EmployeeFilter{})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if strings.Contains(query, "WHERE") {
		t.Fatalf("expected no WHERE clause, got %q", query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
	if !strings.Contains(query, "ORDER BY e.id") {
		t.Fatalf("expected stable ordering, got %q", query)
	}
}

func TestBuildEmployeeQueryCombinesWithAnd(t *testing.T) {
	query, args, err := buildEmployeeQuery(EmployeeFilter{
		Search:        "kim",
		Status:        StatusActive,
		DeptID:        8,
		JobPositionID: 3,
	})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	for _, want := range []string{"e.status =", "e.dept_id =", "e.job_position_id =", "ILIKE"} {
		if !strings.Contains(query, want) {
			t.Fatalf("expected query to contain %q, got %q", want, query)
		}
	}
	// search matches name or id, so the pattern is bound twice
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d: %v", len(args), args)
	}
	if args[0] != "%kim%" || args[1] != "%kim%" {
		t.Fatalf("expected substring patterns, got %v", args)
	}
}

func TestBuildEmployeeQuerySearchOnly(t *testing.T) {
	query, args, err := buildEmployeeQuery(EmployeeFilter{Search: "2023"})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if !strings.Contains(query, "WHERE") {
		t.Fatalf("expected WHERE clause, got %q", query)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args for name/id search, got %v", args)
	}
}
