package service

import (
	"context"
	"errors"
	"testing"

	"go-shop-ledger/internal/model"
)

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := NewUserService(f.users)
	admin := f.user(t, "admin@shop.test", model.RoleAdmin)

	u, err := users.CreateUser(ctx, &CreateUserRequest{Email: " Vendor@Shop.test ", Password: "secret1", FullName: "Vee", Role: "Vendor"}, admin.Actor())
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Email != "vendor@shop.test" || u.Role != model.RoleVendor || !u.IsActive {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.HasPrivilege(model.PrivStockCreate) || !u.HasPrivilege(model.PrivSaleCreate) {
		t.Fatal("vendor privileges are wrong")
	}

	if _, err := users.CreateUser(ctx, &CreateUserRequest{Email: "vendor@shop.test", Password: "secret1", FullName: "Dup", Role: "vendor"}, admin.Actor()); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if _, err := users.CreateUser(ctx, &CreateUserRequest{Email: "x@shop.test", Password: "secret1", FullName: "X", Role: "owner"}, admin.Actor()); !errors.Is(err, ErrRoleRequired) {
		t.Fatalf("expected ErrRoleRequired, got %v", err)
	}
	var verr *ValidationError
	if _, err := users.CreateUser(ctx, &CreateUserRequest{Email: "not-an-email", Password: "1", FullName: "X", Role: "vendor"}, admin.Actor()); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := NewUserService(f.users)
	admin := f.user(t, "admin@shop.test", model.RoleAdmin)
	vendor := f.user(t, "vendor@shop.test", model.RoleVendor)

	if err := users.DeleteUser(ctx, admin.ID, admin.Actor()); !errors.Is(err, ErrDeleteSelf) {
		t.Fatalf("expected ErrDeleteSelf, got %v", err)
	}
	if err := users.DeleteUser(ctx, vendor.ID, admin.Actor()); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := users.DeleteUser(ctx, vendor.ID, admin.Actor()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	all, err := users.GetAllUsers(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected 1 remaining user, got %d (%v)", len(all), err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := NewUserService(f.users)

	var verr *ValidationError
	if _, _, err := users.EnsureAdmin(ctx, "", "Admin", "secret123"); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	u, created, err := users.EnsureAdmin(ctx, "Owner@Shop.test", "Owner", "secret123")
	if err != nil || !created {
		t.Fatalf("EnsureAdmin: created=%v err=%v", created, err)
	}
	if u.Role != model.RoleAdmin || !u.CheckPassword("secret123") {
		t.Fatalf("unexpected admin %+v", u)
	}

	again, created, err := users.EnsureAdmin(ctx, "owner@shop.test", "Owner", "another1")
	if err != nil || created {
		t.Fatalf("second EnsureAdmin: created=%v err=%v", created, err)
	}
	if again.ID != u.ID || !again.CheckPassword("another1") {
		t.Fatal("existing admin should have its password reset")
	}
}
