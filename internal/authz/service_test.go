package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/suhome/internal/constants"

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
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	return svc
}

func TestBuiltinRoleMatrix(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	cases := []struct {
		role  string
		op    Operation
		allow bool
	}{
		{constants.RoleSalesManager, OpDeliveryAdvance, true},
		{constants.RoleProductManager, OpDeliveryAdvance, false},
		{constants.RoleSupport, OpDeliveryAdvance, false},
		{constants.RoleCustomer, OpDeliveryAdvance, false},
		{constants.RoleAdmin, OpDeliveryAdvance, true},
		{constants.RoleCustomer, OpOrderCheckout, true},
		{constants.RoleCustomer, OpOrderReadAll, false},
		{constants.RoleSupport, OpOrderReadAll, true},
		{constants.RoleProductManager, OpProductStock, true},
		{constants.RoleProductManager, OpProductPrice, false},
		{constants.RoleSalesManager, OpProductPrice, true},
		{"unknown", OpOrderCheckout, false},
		{"", OpOrderCheckout, false},
	}
	for _, tc := range cases {
		allow, err := svc.Allow(tc.role, tc.op)
		if err != nil {
			t.Fatalf("allow %s %s failed: %v", tc.role, tc.op, err)
		}
		if allow != tc.allow {
			t.Fatalf("allow %s %s want %v got %v", tc.role, tc.op, tc.allow, allow)
		}
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	policies, err := svc.GetRolePolicies(constants.RoleSupport)
	if err != nil {
		t.Fatalf("get role policies failed: %v", err)
	}
	if len(policies) != 3 {
		t.Fatalf("support policies want 3 got %d: %+v", len(policies), policies)
	}
}

func TestGrantAndRevokeRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy(constants.RoleSupport, OpDeliveryUpdate); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if allow, _ := svc.Allow(constants.RoleSupport, OpDeliveryUpdate); !allow {
		t.Fatalf("expected allow after grant")
	}
	if err := svc.RevokeRolePolicy(constants.RoleSupport, OpDeliveryUpdate); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if allow, _ := svc.Allow(constants.RoleSupport, OpDeliveryUpdate); allow {
		t.Fatalf("expected deny after revoke")
	}
}

func TestNormalizeRole(t *testing.T) {
	got, err := NormalizeRole(" Role:Sales_Manager ")
	if err != nil || got != "role:sales_manager" {
		t.Fatalf("normalize role got %q err=%v", got, err)
	}
	if _, err := NormalizeRole("bad role"); err == nil {
		t.Fatalf("expected error for role with space")
	}
}
