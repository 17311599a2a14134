package billing

import (
	"strings"

	"github.com/correcaminos/cuotas/internal/model"
)

// Catalog is a read-only view over a configured activity list. It is built
// from a BillingConfig snapshot and never mutates it.
type Catalog struct {
	activities []model.Activity
}

// NewCatalog wraps an activity list in catalog order.
func NewCatalog(activities []model.Activity) Catalog {
	return Catalog{activities: activities}
}

// FindActivity looks up an activity by category name. The match is exact
// after trimming whitespace and folding case; there is no fuzzy matching.
func (c Catalog) FindActivity(category string) (model.Activity, bool) {
	category = strings.TrimSpace(category)
	for _, a := range c.activities {
		if strings.EqualFold(strings.TrimSpace(a.Name), category) {
			return a, true
		}
	}
	return model.Activity{}, false
}

// DefaultActivity returns the first activity in catalog order. Members whose
// category matches nothing are priced at this activity, mirroring the club's
// long-standing fallback behavior.
func (c Catalog) DefaultActivity() (model.Activity, bool) {
	if len(c.activities) == 0 {
		return model.Activity{}, false
	}
	return c.activities[0], true
}

// Len returns the number of configured activities.
func (c Catalog) Len() int {
	return len(c.activities)
}
