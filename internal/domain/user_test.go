package domain

import (
	"context"
	"testing"
)

func TestRole_IsValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleReviewer, RoleMember} {
		if !role.IsValid() {
			t.Errorf("expected %q to be valid", role)
		}
	}
	for _, role := range []Role{"", "superuser", "Admin"} {
		if role.IsValid() {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}

func TestRole_Permissions(t *testing.T) {
	tests := []struct {
		role         Role
		canReview    bool
		canManageCat bool
	}{
		{RoleAdmin, true, true},
		{RoleReviewer, true, false},
		{RoleMember, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.CanReview(); got != tt.canReview {
				t.Errorf("CanReview() = %v, want %v", got, tt.canReview)
			}
			if got := tt.role.CanManageCatalog(); got != tt.canManageCat {
				t.Errorf("CanManageCatalog() = %v, want %v", got, tt.canManageCat)
			}
		})
	}
}

func TestUserContext(t *testing.T) {
	user := &User{ID: "usr_1", Role: RoleReviewer}
	ctx := ContextWithUser(context.Background(), user)

	got, ok := UserFromContext(ctx)
	if !ok {
		t.Fatal("expected user on context")
	}
	if got.ID != user.ID {
		t.Errorf("expected id %q, got %q", user.ID, got.ID)
	}

	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("expected no user on empty context")
	}
}

func TestActorID(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &User{ID: "usr_9"})
	if got := ActorID(ctx); got != "usr_9" {
		t.Errorf("expected usr_9, got %q", got)
	}
	if got := ActorID(context.Background()); got != "system" {
		t.Errorf("expected system, got %q", got)
	}
}
