package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/correcaminos/cuotas/internal/database"
	"github.com/correcaminos/cuotas/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConfigSeedDefaults(t *testing.T) {
	cs := NewConfigStore(setupTestDB(t))

	cfg, err := cs.Get()
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if cfg.SocialFee != 3000 {
		t.Errorf("seed social fee = %d, want 3000", cfg.SocialFee)
	}
	if len(cfg.Activities) != 1 || cfg.Activities[0].Name != "Atletismo" {
		t.Fatalf("seed activities = %+v, want [Atletismo]", cfg.Activities)
	}
	if cfg.Activities[0].Price != 40000 {
		t.Errorf("seed price = %d, want 40000", cfg.Activities[0].Price)
	}
	if !cfg.Activities[0].AppliesSocialFee {
		t.Error("seed activity should carry the social fee")
	}
}

func TestConfigPutReplacesActivities(t *testing.T) {
	cs := NewConfigStore(setupTestDB(t))

	err := cs.Put(model.BillingConfig{
		SocialFee:     5000,
		LateFeeAmount: 5000,
		LateFeeDay:    12,
		Activities: []model.Activity{
			{Name: "Atletismo", Price: 45000, AppliesSocialFee: true},
			{Name: "Natacion", Price: 38000},
		},
	})
	if err != nil {
		t.Fatalf("put config: %v", err)
	}

	cfg, err := cs.Get()
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if cfg.SocialFee != 5000 || cfg.LateFeeAmount != 5000 || cfg.LateFeeDay != 12 {
		t.Errorf("config = %+v", cfg)
	}
	if len(cfg.Activities) != 2 {
		t.Fatalf("got %d activities, want 2", len(cfg.Activities))
	}
	if cfg.Activities[0].Name != "Atletismo" || cfg.Activities[1].Name != "Natacion" {
		t.Errorf("activity order = %q, %q", cfg.Activities[0].Name, cfg.Activities[1].Name)
	}
	if cfg.Activities[0].Position != 0 || cfg.Activities[1].Position != 1 {
		t.Errorf("positions = %d, %d", cfg.Activities[0].Position, cfg.Activities[1].Position)
	}
}

func TestConfigPutClampsLateFeeDay(t *testing.T) {
	cs := NewConfigStore(setupTestDB(t))

	if err := cs.Put(model.BillingConfig{LateFeeDay: 45}); err != nil {
		t.Fatalf("put config: %v", err)
	}
	cfg, err := cs.Get()
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if cfg.LateFeeDay != 31 {
		t.Errorf("late fee day = %d, want clamped 31", cfg.LateFeeDay)
	}
}

func TestConfigPutRejectsNegativeFees(t *testing.T) {
	cs := NewConfigStore(setupTestDB(t))

	err := cs.Put(model.BillingConfig{SocialFee: -1, LateFeeDay: 10})
	if err == nil {
		t.Fatal("expected validation error for negative social fee")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %T, want *ValidationError", err)
	}
}
