package attendance

import "testing"

func TestValidStatus(t *testing.T) {
	for _, status := range Statuses {
		if !ValidStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	for _, status := range []string{"", "late", "PRESENT", "half-day-am"} {
		if ValidStatus(status) {
			t.Fatalf("expected %q to be invalid", status)
		}
	}
}
