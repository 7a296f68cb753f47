package domain

import "testing"

func TestHasRole(t *testing.T) {
	admin := &User{ID: "1", Role: RoleAdmin}
	normal := &User{ID: "2", Role: RoleNormal}

	if !HasRole(admin, RoleAdmin) {
		t.Fatalf("admin should have admin role")
	}
	if HasRole(normal, RoleAdmin) {
		t.Fatalf("normal user must not have admin role")
	}
	if HasRole(nil, RoleAdmin) {
		t.Fatalf("nil user has no roles")
	}
	if HasRole(&User{Role: RoleAdmin}, RoleAdmin) {
		t.Fatalf("anonymous user has no roles")
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole("admin") || !ValidRole("normal") {
		t.Fatalf("known roles rejected")
	}
	if ValidRole("client") || ValidRole("") {
		t.Fatalf("unknown roles accepted")
	}
}
