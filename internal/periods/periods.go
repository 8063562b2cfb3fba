// Package periods maps API period strings to UTC date ranges.
package periods

import (
	"strings"
	"time"

	"github.com/mwestcott/finsight/internal/domain"
)

// maxLookbackYears caps the ALL period so open-ended queries stay bounded.
const maxLookbackYears = 10

// Default is the period used when a request names none.
const Default = "1Y"

// Supported lists the accepted period strings.
var Supported = []string{"1M", "3M", "6M", "YTD", "1Y", "3Y", "5Y", "ALL"}

// Resolve maps a period string to a [start, end] range ending at now,
// normalized to UTC. Unknown strings are rejected with a validation error.
func Resolve(period string, now time.Time) (time.Time, time.Time, error) {
	end := now.UTC()

	switch strings.ToUpper(strings.TrimSpace(period)) {
	case "1M":
		return end.AddDate(0, -1, 0), end, nil
	case "3M":
		return end.AddDate(0, -3, 0), end, nil
	case "6M":
		return end.AddDate(0, -6, 0), end, nil
	case "YTD":
		return time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), end, nil
	case "1Y":
		return end.AddDate(-1, 0, 0), end, nil
	case "3Y":
		return end.AddDate(-3, 0, 0), end, nil
	case "5Y":
		return end.AddDate(-5, 0, 0), end, nil
	case "ALL":
		return end.AddDate(-maxLookbackYears, 0, 0), end, nil
	}
	return time.Time{}, time.Time{}, domain.NewValidationError("period", "must be one of "+strings.Join(Supported, ", "))
}
