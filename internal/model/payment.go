package model

import "time"

const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

// Payment is one reported fee payment for a household and month.
// Only approved payments count toward dues; pending and rejected never do.
type Payment struct {
	ID           int64     `json:"id"`
	HouseholdID  int64     `json:"household_id"`
	Month        string    `json:"month"`
	Amount       int64     `json:"amount"`
	Status       string    `json:"status"`
	RejectReason string    `json:"reject_reason,omitempty"`
	ReceiptRef   string    `json:"receipt_ref,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
