package model

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Household is a billable family account. Admin households carry no
// billable members.
type Household struct {
	ID        int64          `json:"id"`
	Handle    string         `json:"handle"`
	Name      string         `json:"name"`
	Email     string         `json:"email,omitempty"`
	Role      string         `json:"role"`
	Roster    string         `json:"roster"`
	Members   []MemberRecord `json:"members,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MemberRecord is a structured roster entry. When a household has any of
// these, they take precedence over the free-text Roster field.
type MemberRecord struct {
	ID          int64  `json:"id"`
	HouseholdID int64  `json:"household_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Position    int    `json:"position"`
}
