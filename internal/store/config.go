package store

import (
	"database/sql"
	"fmt"

	"github.com/correcaminos/cuotas/internal/model"
)

type ConfigStore struct {
	db *sql.DB
}

func NewConfigStore(db *sql.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// Get returns the current billing configuration. The singleton row and the
// activity list are read inside one transaction so callers always see a
// consistent snapshot, never a half-applied update.
func (s *ConfigStore) Get() (*model.BillingConfig, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var cfg model.BillingConfig
	err = tx.QueryRow(
		`SELECT social_fee, late_fee_amount, late_fee_day, updated_at FROM billing_config WHERE id = 1`,
	).Scan(&cfg.SocialFee, &cfg.LateFeeAmount, &cfg.LateFeeDay, &cfg.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get billing config: %w", err)
	}

	rows, err := tx.Query(
		`SELECT id, name, price, applies_social_fee, position FROM activities ORDER BY position ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Price, &a.AppliesSocialFee, &a.Position); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		cfg.Activities = append(cfg.Activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &cfg, nil
}

// Put replaces the billing configuration in one transaction. The activity
// set is replaced wholesale, matching how the admin screen saves it; readers
// see either the old config or the new one, never a mix.
func (s *ConfigStore) Put(cfg model.BillingConfig) error {
	if cfg.SocialFee < 0 {
		return &ValidationError{Field: "social_fee", Reason: "must not be negative"}
	}
	if cfg.LateFeeAmount < 0 {
		return &ValidationError{Field: "late_fee_amount", Reason: "must not be negative"}
	}
	day := cfg.LateFeeDay
	if day < 1 {
		day = 1
	} else if day > 31 {
		day = 31
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE billing_config SET social_fee = ?, late_fee_amount = ?, late_fee_day = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1`,
		cfg.SocialFee, cfg.LateFeeAmount, day,
	)
	if err != nil {
		return fmt.Errorf("update billing config: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM activities`); err != nil {
		return fmt.Errorf("clear activities: %w", err)
	}
	for i, a := range cfg.Activities {
		_, err := tx.Exec(
			`INSERT INTO activities (name, price, applies_social_fee, position) VALUES (?, ?, ?, ?)`,
			a.Name, a.Price, a.AppliesSocialFee, i,
		)
		if err != nil {
			return fmt.Errorf("insert activity %q: %w", a.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit config: %w", err)
	}
	return nil
}
