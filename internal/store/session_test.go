package store

import (
	"testing"

	"github.com/correcaminos/cuotas/internal/model"
)

func TestSessionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)
	ss := NewSessionStore(db)

	h, err := hs.Create("casa", "Casa", "", model.RoleMember, "")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}

	sess, err := ss.Create(h.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.HouseholdID != h.ID {
		t.Fatalf("get by token = %+v", got)
	}

	if err := ss.Delete(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	got, err = ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted session")
	}
}

func TestSessionUnknownToken(t *testing.T) {
	ss := NewSessionStore(setupTestDB(t))

	got, err := ss.GetByToken("nope")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown token")
	}
}

func TestSessionDeleteByHousehold(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)
	ss := NewSessionStore(db)

	h, err := hs.Create("casa", "Casa", "", model.RoleMember, "")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}

	first, _ := ss.Create(h.ID)
	second, _ := ss.Create(h.ID)

	if err := ss.DeleteByHousehold(h.ID); err != nil {
		t.Fatalf("delete by household: %v", err)
	}
	for _, tok := range []string{first.Token, second.Token} {
		got, err := ss.GetByToken(tok)
		if err != nil {
			t.Fatalf("get by token: %v", err)
		}
		if got != nil {
			t.Error("session survived DeleteByHousehold")
		}
	}
}
