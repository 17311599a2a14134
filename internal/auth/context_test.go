package auth

import (
	"context"
	"testing"
)

func TestWithAuthRoundTrip(t *testing.T) {
	ac := &AuthContext{
		HouseholdID: 42,
		Handle:      "familia_perez",
		Role:        "member",
		SessionID:   7,
	}

	ctx := WithAuth(context.Background(), ac)
	got := FromContext(ctx)

	if got == nil {
		t.Fatal("expected auth context, got nil")
	}
	if got.HouseholdID != 42 || got.Handle != "familia_perez" || got.SessionID != 7 {
		t.Errorf("got %+v", got)
	}
	if got.IsAdmin() {
		t.Error("member household reported as admin")
	}
}

func TestFromContextMissing(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("expected nil for unauthenticated context, got %+v", got)
	}
}

func TestIsAdmin(t *testing.T) {
	admin := &AuthContext{Role: "admin"}
	if !admin.IsAdmin() {
		t.Error("admin role not recognized")
	}
	member := &AuthContext{Role: "member"}
	if member.IsAdmin() {
		t.Error("member role treated as admin")
	}
}
