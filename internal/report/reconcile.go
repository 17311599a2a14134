// Package report builds the admin reconciliation grid: expected dues versus
// approved payments, per household per month.
package report

import (
	"time"

	"github.com/correcaminos/cuotas/internal/billing"
	"github.com/correcaminos/cuotas/internal/model"
)

// Status classifies one household/month cell.
type Status string

const (
	// StatusFull means approved payments cover the expected amount.
	StatusFull Status = "full"
	// StatusPending means a submitted payment is still awaiting review.
	StatusPending Status = "pending"
	// StatusDebt means approved payments fall short of the expected amount.
	StatusDebt Status = "debt"
	// StatusVoid means nothing is owed (no billable members).
	StatusVoid Status = "void"
)

// MonthCell is one household/month comparison.
type MonthCell struct {
	Expected      int64  `json:"expected"`
	Paid          int64  `json:"paid"`
	PendingExists bool   `json:"pending_exists"`
	Status        Status `json:"status"`
}

// HouseholdReport is one row of the reconciliation grid.
type HouseholdReport struct {
	HouseholdID int64                `json:"household_id"`
	Handle      string               `json:"handle"`
	Name        string               `json:"name"`
	PerMonth    map[string]MonthCell `json:"per_month"`
	TotalDebt   int64                `json:"total_debt"`
}

// Build compares expected dues against the payment ledger for every
// household and month in the window. All inputs are snapshots; the
// computation is pure. Expected amounts are quoted as of today, so the late
// surcharge reflects the report generation time, not the historical billing
// date.
//
// Within a cell: a pending payment marks the month pending regardless of
// the paid amount; otherwise paid >= expected (with something owed) is
// full, a shortfall is debt, and expected = 0 is void. TotalDebt
// accumulates shortfalls of debt months only; pending months stay out of
// the total until the admin settles them.
func Build(households []model.Household, cfg model.BillingConfig, months []string, payments []model.Payment, today time.Time) []HouseholdReport {
	type key struct {
		household int64
		month     string
	}
	approved := make(map[key]int64)
	pending := make(map[key]bool)
	for _, p := range payments {
		k := key{p.HouseholdID, p.Month}
		switch p.Status {
		case model.PaymentApproved:
			approved[k] += p.Amount
		case model.PaymentPending:
			pending[k] = true
		}
	}

	reports := make([]HouseholdReport, 0, len(households))
	for _, h := range households {
		row := HouseholdReport{
			HouseholdID: h.ID,
			Handle:      h.Handle,
			Name:        h.Name,
			PerMonth:    make(map[string]MonthCell, len(months)),
		}
		src := billing.RosterSource{FreeText: h.Roster, Records: h.Members}

		for _, month := range months {
			quote := billing.Quote(src, cfg, month, today)
			k := key{h.ID, month}
			cell := MonthCell{
				Expected:      quote.Total,
				Paid:          approved[k],
				PendingExists: pending[k],
			}
			cell.Status = classify(cell)
			if cell.Status == StatusDebt {
				row.TotalDebt += cell.Expected - cell.Paid
			}
			row.PerMonth[month] = cell
		}
		reports = append(reports, row)
	}
	return reports
}

func classify(cell MonthCell) Status {
	switch {
	case cell.PendingExists:
		return StatusPending
	case cell.Expected == 0:
		return StatusVoid
	case cell.Paid >= cell.Expected:
		return StatusFull
	default:
		return StatusDebt
	}
}

// Stats are the admin dashboard counters over a filtered payment list.
type Stats struct {
	PendingCount  int   `json:"pending_count"`
	ApprovedTotal int64 `json:"approved_total"`
}

// Summarize tallies pending submissions and the approved money total,
// mirroring the counters at the top of the admin dashboard.
func Summarize(payments []model.Payment) Stats {
	var s Stats
	for _, p := range payments {
		switch p.Status {
		case model.PaymentPending:
			s.PendingCount++
		case model.PaymentApproved:
			s.ApprovedTotal += p.Amount
		}
	}
	return s
}
