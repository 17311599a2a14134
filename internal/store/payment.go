package store

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/correcaminos/cuotas/internal/billing"
	"github.com/correcaminos/cuotas/internal/model"
)

// PaymentStore is the club's payment ledger: an append-only record of
// reported payments and their approval lifecycle. Payments are never
// deleted; rejected ones are superseded by new submissions.
type PaymentStore struct {
	db *sql.DB

	mu          sync.Mutex
	subscribers map[int64]func([]model.Payment)
	nextSubID   int64
}

func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{
		db:          db,
		subscribers: make(map[int64]func([]model.Payment)),
	}
}

func scanPayment(scanner interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	err := scanner.Scan(
		&p.ID, &p.HouseholdID, &p.Month, &p.Amount, &p.Status,
		&p.RejectReason, &p.ReceiptRef, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const paymentCols = `id, household_id, month, amount, status, reject_reason, receipt_ref, created_at, updated_at`

// Record appends a pending payment to the ledger. The month must be one of
// the twelve billing months and the amount must not be negative.
func (s *PaymentStore) Record(householdID int64, month string, amount int64, receiptRef string) (*model.Payment, error) {
	canonical, ok := billing.CanonicalMonth(month)
	if !ok {
		return nil, &ValidationError{Field: "month", Reason: fmt.Sprintf("%q is not a billing month", month)}
	}
	if amount < 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	result, err := s.db.Exec(
		`INSERT INTO payments (household_id, month, amount, status, receipt_ref) VALUES (?, ?, ?, ?, ?)`,
		householdID, canonical, amount, model.PaymentPending, receiptRef,
	)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	p, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.notify()
	return p, nil
}

// StatusChange carries the optional fields of a status transition: a
// corrected amount on approval, a reason on rejection.
type StatusChange struct {
	Amount       *int64
	RejectReason string
}

// SetStatus moves a pending payment to approved or rejected. The update is
// guarded on the current status, so a concurrent caller racing against an
// already-settled payment observes ErrInvalidTransition instead of silently
// overwriting a terminal state.
func (s *PaymentStore) SetStatus(id int64, status string, change StatusChange) (*model.Payment, error) {
	if status != model.PaymentApproved && status != model.PaymentRejected {
		return nil, fmt.Errorf("set status to %q: %w", status, ErrInvalidTransition)
	}
	if change.Amount != nil && *change.Amount < 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	result, err := s.db.Exec(
		`UPDATE payments SET status = ?, amount = COALESCE(?, amount), reject_reason = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		status, change.Amount, change.RejectReason, id, model.PaymentPending,
	)
	if err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		existing, err := s.GetByID(id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("payment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("payment %d is %s: %w", id, existing.Status, ErrInvalidTransition)
	}

	p, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.notify()
	return p, nil
}

func (s *PaymentStore) GetByID(id int64) (*model.Payment, error) {
	row := s.db.QueryRow(`SELECT `+paymentCols+` FROM payments WHERE id = ?`, id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// ListByHousehold returns a household's payments, newest first.
func (s *PaymentStore) ListByHousehold(householdID int64) ([]model.Payment, error) {
	return s.queryPayments(
		`SELECT `+paymentCols+` FROM payments WHERE household_id = ? ORDER BY created_at DESC, id DESC`,
		householdID,
	)
}

// List returns every payment, newest first, optionally filtered by status
// and month. Empty filter values mean "all".
func (s *PaymentStore) List(status, month string) ([]model.Payment, error) {
	query := `SELECT ` + paymentCols + ` FROM payments WHERE 1=1`
	var args []any
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if month != "" {
		query += ` AND month = ?`
		args = append(args, month)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	return s.queryPayments(query, args...)
}

// ApprovedTotal sums the approved amounts for a household and month.
// Duplicate approvals sum; the ledger does not enforce one payment per
// month.
func (s *PaymentStore) ApprovedTotal(householdID int64, month string) (int64, error) {
	var total int64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE household_id = ? AND month = ? AND status = ?`,
		householdID, month, model.PaymentApproved,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("approved total: %w", err)
	}
	return total, nil
}

// Subscribe registers fn to receive a fresh ledger snapshot after every
// mutation. The returned function removes the subscription. Callbacks run
// on the mutating goroutine, outside store locks.
func (s *PaymentStore) Subscribe(fn func([]model.Payment)) func() {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *PaymentStore) notify() {
	s.mu.Lock()
	if len(s.subscribers) == 0 {
		s.mu.Unlock()
		return
	}
	fns := make([]func([]model.Payment), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	payments, err := s.List("", "")
	if err != nil {
		return
	}
	for _, fn := range fns {
		fn(payments)
	}
}

func (s *PaymentStore) queryPayments(query string, args ...any) ([]model.Payment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
