package shared

import (
	"errors"
	"net/http"
	"strconv"
)

// YearMonth pulls required year and month query params.
func YearMonth(r *http.Request) (int, int, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 {
		return 0, 0, errors.New("year query parameter is required")
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("month query parameter must be between 1 and 12")
	}
	return year, month, nil
}
