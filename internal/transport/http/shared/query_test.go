package shared

import (
	"net/http/httptest"
	"testing"
)

func TestYearMonth(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantYear  int
		wantMonth int
		wantErr   bool
	}{
		{name: "valid", target: "/?year=2024&month=6", wantYear: 2024, wantMonth: 6},
		{name: "missing year", target: "/?month=6", wantErr: true},
		{name: "missing month", target: "/?year=2024", wantErr: true},
		{name: "month out of range", target: "/?year=2024&month=13", wantErr: true},
		{name: "zero month", target: "/?year=2024&month=0", wantErr: true},
		{name: "non-numeric", target: "/?year=abcd&month=6", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			year, month, err := YearMonth(req)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if year != tc.wantYear || month != tc.wantMonth {
				t.Fatalf("want (%d,%d), got (%d,%d)", tc.wantYear, tc.wantMonth, year, month)
			}
		})
	}
}
