package billing

import "time"

// IsLate reports whether a payment for targetMonth reported on today's date
// is past the cutoff. Within the target month itself, payment is late after
// the cutoff day. A target month already behind today's month is always late
// (the billing period closed); a future month is never late.
//
// The target month's calendar year is resolved relative to today: in
// December a target of Enero means next January, and in January a target of
// Diciembre means last December, so the deadline comparison stays meaningful
// across the year boundary.
func IsLate(targetMonth string, today time.Time, cutoffDay int) bool {
	idx, ok := MonthIndex(targetMonth)
	if !ok {
		return false
	}
	if cutoffDay < 1 {
		cutoffDay = 1
	} else if cutoffDay > 31 {
		cutoffDay = 31
	}

	year := today.Year()
	current := int(today.Month())
	switch {
	case current == 12 && idx == 1:
		year++
	case current == 1 && idx == 12:
		year--
	}

	if year == today.Year() && idx == current {
		return today.Day() > cutoffDay
	}

	targetStart := time.Date(year, time.Month(idx), 1, 0, 0, 0, 0, today.Location())
	currentStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return targetStart.Before(currentStart)
}
