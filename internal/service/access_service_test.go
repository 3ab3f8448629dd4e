package service

import (
	"context"
	"database/sql"
	"testing"

	"storefront-service/internal/entity"
)

type fakeRoleReader struct {
	roles map[string]string
}

func (f *fakeRoleReader) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	role, ok := f.roles[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &entity.User{Email: email, Role: role}, nil
}

func testAccess() *AccessService {
	return NewAccessService(&fakeRoleReader{roles: map[string]string{
		"admin@example.com":   entity.RoleAdmin,
		"manager@example.com": entity.RoleManager,
		"buyer@example.com":   entity.RoleUser,
	}})
}

func TestRequireSelfOrAdmin(t *testing.T) {
	access := testAccess()
	ctx := context.Background()

	if err := access.RequireSelfOrAdmin(ctx, "buyer@example.com", "buyer@example.com"); err != nil {
		t.Fatalf("self access denied: %v", err)
	}
	if err := access.RequireSelfOrAdmin(ctx, "admin@example.com", "buyer@example.com"); err != nil {
		t.Fatalf("admin access denied: %v", err)
	}
	if err := access.RequireSelfOrAdmin(ctx, "buyer@example.com", "other@example.com"); err != ErrForbidden {
		t.Fatalf("cross-user access allowed: %v", err)
	}
	if err := access.RequireSelfOrAdmin(ctx, "manager@example.com", "buyer@example.com"); err != ErrForbidden {
		t.Fatalf("manager is not admin for self-or-admin: %v", err)
	}
	// Empty principals never match an empty owner.
	if err := access.RequireSelfOrAdmin(ctx, "", ""); err != ErrForbidden {
		t.Fatalf("empty principal allowed: %v", err)
	}
}

func TestRequireManager(t *testing.T) {
	access := testAccess()
	ctx := context.Background()

	if err := access.RequireManager(ctx, "manager@example.com"); err != nil {
		t.Fatalf("manager denied: %v", err)
	}
	if err := access.RequireManager(ctx, "admin@example.com"); err != ErrForbidden {
		t.Fatalf("admin allowed on manager-only: %v", err)
	}
	if err := access.RequireManager(ctx, "buyer@example.com"); err != ErrForbidden {
		t.Fatalf("buyer allowed on manager-only: %v", err)
	}
	// No user record at all defaults to plain user.
	if err := access.RequireManager(ctx, "ghost@example.com"); err != ErrForbidden {
		t.Fatalf("unknown principal allowed: %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	access := testAccess()
	ctx := context.Background()

	if err := access.RequireAdmin(ctx, "admin@example.com"); err != nil {
		t.Fatalf("admin denied: %v", err)
	}
	if err := access.RequireAdmin(ctx, "manager@example.com"); err != ErrForbidden {
		t.Fatalf("manager allowed on admin-only: %v", err)
	}
	if err := access.RequireAdmin(ctx, "ghost@example.com"); err != ErrForbidden {
		t.Fatalf("unknown principal allowed: %v", err)
	}
}
