package billing

import "strings"

// MonthNames is the fixed billing-month vocabulary, in calendar order.
var MonthNames = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthIndex returns the 1-based calendar index for a billing month name.
// Matching is case-insensitive and trimmed; anything outside the vocabulary
// returns ok=false.
func MonthIndex(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, m := range MonthNames {
		if strings.EqualFold(m, name) {
			return i + 1, true
		}
	}
	return 0, false
}

// CanonicalMonth normalizes a month name to its canonical spelling.
func CanonicalMonth(name string) (string, bool) {
	i, ok := MonthIndex(name)
	if !ok {
		return "", false
	}
	return MonthNames[i-1], true
}

// ValidMonth reports whether name is one of the twelve billing months.
func ValidMonth(name string) bool {
	_, ok := MonthIndex(name)
	return ok
}
