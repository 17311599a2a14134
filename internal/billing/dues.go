package billing

// MemberLine is one member's row in a due breakdown.
type MemberLine struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Price          int64  `json:"price"`
	LateFeeApplied bool   `json:"late_fee_applied"`
}

// BaseDues is the month's base amount before any late surcharge.
type BaseDues struct {
	PerMember        []MemberLine `json:"per_member"`
	SocialFeeApplies bool         `json:"social_fee_applies"`
	SocialFee        int64        `json:"social_fee"`
	Subtotal         int64        `json:"subtotal"`
}

// ComputeBase prices each member against the catalog and adds the social
// fee. Unmatched categories fall back to the catalog's default activity; an
// empty catalog prices members at zero. The social fee is charged once per
// household, only when at least one member's resolved activity carries it,
// and its amount does not depend on how many qualifying members exist.
// The result is deterministic for identical inputs.
func ComputeBase(members []Member, catalog Catalog, socialFee int64) BaseDues {
	dues := BaseDues{PerMember: make([]MemberLine, 0, len(members))}

	for _, m := range members {
		activity, ok := catalog.FindActivity(m.Category)
		if !ok {
			activity, ok = catalog.DefaultActivity()
		}

		var price int64
		if ok {
			price = activity.Price
			if activity.AppliesSocialFee {
				dues.SocialFeeApplies = true
			}
		}
		if price < 0 {
			price = 0
		}

		dues.PerMember = append(dues.PerMember, MemberLine{
			Name:     m.Name,
			Category: m.Category,
			Price:    price,
		})
		dues.Subtotal += price
	}

	if dues.SocialFeeApplies && socialFee > 0 {
		dues.SocialFee = socialFee
	}
	return dues
}
