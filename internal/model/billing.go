package model

import "time"

// Activity is a priced program a member can be enrolled in. Names match
// case-insensitively and trimmed.
type Activity struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Price            int64  `json:"price"`
	AppliesSocialFee bool   `json:"applies_social_fee"`
	Position         int    `json:"position"`
}

// BillingConfig is the club-wide fee configuration. It is a singleton:
// reads always return the latest fully committed update, and the activity
// list is replaced wholesale on each save.
type BillingConfig struct {
	SocialFee     int64      `json:"social_fee"`
	LateFeeAmount int64      `json:"late_fee_amount"`
	LateFeeDay    int        `json:"late_fee_day"`
	Activities    []Activity `json:"activities"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
