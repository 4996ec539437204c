package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestShopperCanWriteProducts(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	userID := "0f8f7c1e-1111-4a4a-9b9b-123456789abc"
	if err := svc.AssignUserRole(userID); err != nil {
		t.Fatalf("assign role failed: %v", err)
	}

	cases := []struct {
		obj  string
		act  string
		want bool
	}{
		{"/api/v1/products", "post", true},
		{"/api/v1/products/prod_abc", "PUT", true},
		{"/api/v1/products/prod_abc", "DELETE", true},
		{"/api/v1/products/prod_abc/extra", "DELETE", false},
		{"/api/v1/cart", "DELETE", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceUser(userID, tc.obj, tc.act)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.act, tc.obj, err)
		}
		if allow != tc.want {
			t.Fatalf("%s %s: expected %v, got %v", tc.act, tc.obj, tc.want, allow)
		}
	}
}

func TestUserWithoutRoleIsDenied(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	allow, err := svc.EnforceUser("stranger", "/api/v1/products", "POST")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allow {
		t.Fatalf("expected deny for user without role")
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	for i := 0; i < 2; i++ {
		if err := svc.BootstrapBuiltinRoles(); err != nil {
			t.Fatalf("bootstrap #%d failed: %v", i, err)
		}
	}
	rules, err := svc.enforcer.GetFilteredPolicy(0, "role:shopper")
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("expected 3 policies, got %d: %v", len(rules), rules)
	}
}

func TestAssignUserRoleRejectsBlankUser(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.AssignUserRole("  "); err == nil {
		t.Fatalf("expected error for blank user id")
	}
	if err := svc.GrantRolePolicy("shopper", "/products", " "); err == nil {
		t.Fatalf("expected error for blank action")
	}
}

func TestNormalizeHelpers(t *testing.T) {
	if got := NormalizeObject("/api/v1/products/1"); got != "/products/1" {
		t.Fatalf("unexpected object: %s", got)
	}
	if got := NormalizeObject("products"); got != "/products" {
		t.Fatalf("unexpected object: %s", got)
	}
	if got := NormalizeObject("/api/v1"); got != "/" {
		t.Fatalf("unexpected object: %s", got)
	}
	if _, err := NormalizeRole("  "); err == nil {
		t.Fatalf("expected empty role error")
	}
	if got, _ := NormalizeRole("store keeper"); got != "role:store_keeper" {
		t.Fatalf("unexpected role: %s", got)
	}
	if SubjectForUser(" abc ") != "user:abc" {
		t.Fatalf("unexpected subject")
	}
}
