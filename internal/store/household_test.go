package store

import (
	"testing"

	"github.com/correcaminos/cuotas/internal/model"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"flia.perez@mail.com", "flia_perez_mail_com"},
		{"  Garcia Lopez ", "garcia_lopez"},
		{"club2026", "club2026"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHouseholdCRUD(t *testing.T) {
	hs := NewHouseholdStore(setupTestDB(t))

	h, err := hs.Create("flia.perez@mail.com", "Familia Perez", "hash", model.RoleMember, "Juan (Atletismo), Maria")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	if h.Handle != "flia_perez_mail_com" {
		t.Errorf("handle = %q", h.Handle)
	}
	if h.Role != model.RoleMember {
		t.Errorf("role = %q, want member", h.Role)
	}

	got, err := hs.GetByHandle("Flia.Perez@mail.com")
	if err != nil {
		t.Fatalf("get by handle: %v", err)
	}
	if got == nil || got.ID != h.ID {
		t.Fatalf("get by handle = %+v, want id %d", got, h.ID)
	}

	updated, err := hs.Update(h.ID, "Familia Perez Garcia", "perez@mail.com", model.RoleMember, "Juan (Natacion)")
	if err != nil {
		t.Fatalf("update household: %v", err)
	}
	if updated.Name != "Familia Perez Garcia" || updated.Roster != "Juan (Natacion)" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Email != "perez@mail.com" {
		t.Errorf("email = %q", updated.Email)
	}

	if err := hs.Delete(h.ID); err != nil {
		t.Fatalf("delete household: %v", err)
	}
	got, err = hs.GetByID(h.ID)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted household")
	}
}

func TestHouseholdPasswordHash(t *testing.T) {
	hs := NewHouseholdStore(setupTestDB(t))

	h, err := hs.Create("casa", "Casa", "original", model.RoleMember, "")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}

	hash, err := hs.GetPasswordHash("casa")
	if err != nil {
		t.Fatalf("get hash: %v", err)
	}
	if hash != "original" {
		t.Errorf("hash = %q, want original", hash)
	}

	if err := hs.SetPassword(h.ID, "rotated"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	hash, err = hs.GetPasswordHash("casa")
	if err != nil {
		t.Fatalf("get hash: %v", err)
	}
	if hash != "rotated" {
		t.Errorf("hash = %q, want rotated", hash)
	}

	hash, err = hs.GetPasswordHash("desconocido")
	if err != nil {
		t.Fatalf("get unknown hash: %v", err)
	}
	if hash != "" {
		t.Errorf("unknown handle hash = %q, want empty", hash)
	}
}

func TestReplaceMembersKeepsOrder(t *testing.T) {
	hs := NewHouseholdStore(setupTestDB(t))

	h, err := hs.Create("casa", "Casa", "", model.RoleMember, "")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}

	err = hs.ReplaceMembers(h.ID, []model.MemberRecord{
		{Name: "Sofia", Category: "Natacion"},
		{Name: "Diego", Category: "Atletismo"},
	})
	if err != nil {
		t.Fatalf("replace members: %v", err)
	}

	got, err := hs.GetByID(h.ID)
	if err != nil {
		t.Fatalf("get household: %v", err)
	}
	if len(got.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(got.Members))
	}
	if got.Members[0].Name != "Sofia" || got.Members[1].Name != "Diego" {
		t.Errorf("member order = %q, %q", got.Members[0].Name, got.Members[1].Name)
	}

	// Wholesale replacement drops the old roster.
	err = hs.ReplaceMembers(h.ID, []model.MemberRecord{{Name: "Lucia", Category: "Gimnasia"}})
	if err != nil {
		t.Fatalf("replace members again: %v", err)
	}
	got, err = hs.GetByID(h.ID)
	if err != nil {
		t.Fatalf("get household: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0].Name != "Lucia" {
		t.Errorf("members after replace = %+v", got.Members)
	}
}

func TestHouseholdListLoadsMembers(t *testing.T) {
	hs := NewHouseholdStore(setupTestDB(t))

	a, _ := hs.Create("casa_a", "Casa A", "", model.RoleMember, "")
	if _, err := hs.Create("casa_b", "Casa B", "", model.RoleAdmin, ""); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if err := hs.ReplaceMembers(a.ID, []model.MemberRecord{{Name: "Juan", Category: "Atletismo"}}); err != nil {
		t.Fatalf("replace members: %v", err)
	}

	households, err := hs.List()
	if err != nil {
		t.Fatalf("list households: %v", err)
	}
	if len(households) != 2 {
		t.Fatalf("got %d households, want 2", len(households))
	}
	for _, h := range households {
		switch h.Handle {
		case "casa_a":
			if len(h.Members) != 1 {
				t.Errorf("casa_a members = %d, want 1", len(h.Members))
			}
		case "casa_b":
			if len(h.Members) != 0 {
				t.Errorf("casa_b members = %d, want 0", len(h.Members))
			}
		}
	}
}
