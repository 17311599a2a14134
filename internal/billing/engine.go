package billing

import (
	"time"

	"github.com/correcaminos/cuotas/internal/model"
)

// DueBreakdown is the full amount a household owes for one month. PerMember
// prices exclude the late surcharge; LateFeeTotal carries it separately so
// the lines always sum to Total.
type DueBreakdown struct {
	Month        string       `json:"month"`
	PerMember    []MemberLine `json:"per_member"`
	SocialFee    int64        `json:"social_fee"`
	Late         bool         `json:"late"`
	LateFeeTotal int64        `json:"late_fee_total"`
	Total        int64        `json:"total"`
}

// Quote computes what a household owes for the given month as of today.
// It is a pure computation over the supplied snapshots: roster resolution,
// base dues, then the late surcharge applied once per member when the
// cutoff has passed. The total is never negative.
func Quote(src RosterSource, cfg model.BillingConfig, month string, today time.Time) DueBreakdown {
	members := ResolveRoster(src)
	catalog := NewCatalog(cfg.Activities)
	base := ComputeBase(members, catalog, cfg.SocialFee)

	breakdown := DueBreakdown{
		Month:     month,
		PerMember: base.PerMember,
		SocialFee: base.SocialFee,
	}

	if IsLate(month, today, cfg.LateFeeDay) && cfg.LateFeeAmount > 0 {
		breakdown.Late = true
		for i := range breakdown.PerMember {
			breakdown.PerMember[i].LateFeeApplied = true
			breakdown.LateFeeTotal += cfg.LateFeeAmount
		}
	}

	breakdown.Total = base.Subtotal + base.SocialFee + breakdown.LateFeeTotal
	if breakdown.Total < 0 {
		breakdown.Total = 0
	}
	return breakdown
}
