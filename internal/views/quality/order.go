// Package quality holds the three data-quality checks: GPS defects, missing
// respondent details and missing individual demographics. All of them look
// at consenting households only; the views pass Input.Consenting to the
// audit functions.
package quality

import (
	"sort"

	"hdss-monitor/internal/survey"
)

// sortByLocation orders rows by village name, location number and dwelling
// number, ascending with nulls last. Ties keep their input order.
func sortByLocation[T any](rows []T, household func(T) *survey.Household) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := household(rows[i]), household(rows[j])
		if a.Village != b.Village {
			return a.Village < b.Village
		}
		if c := compareNullable(a.LocationNumber, b.LocationNumber); c != 0 {
			return c < 0
		}
		return compareNullable(a.DwellingNumber, b.DwellingNumber) < 0
	})
}

func compareNullable(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}
