package authz

import (
	"fmt"

	"github.com/suhome/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role       string
	Operations []Operation
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role:       constants.RoleAdmin,
			Operations: []Operation{{Resource: wildcard, Action: wildcard}},
		},
		{
			Role: constants.RoleCustomer,
			Operations: []Operation{
				OpOrderCheckout,
				OpReviewSubmit,
				OpPaymentRecord,
				OpInvoiceSend,
			},
		},
		{
			Role: constants.RoleSalesManager,
			Operations: []Operation{
				OpOrderReadAll,
				OpDeliveryAdvance,
				OpDeliveryUpdate,
				OpProductPrice,
				OpPaymentReadAll,
				OpPaymentRecord,
				OpInvoiceSend,
			},
		},
		{
			Role: constants.RoleProductManager,
			Operations: []Operation{
				OpProductCreate,
				OpProductStock,
				OpOrderReadAll,
				OpDeliveryUpdate,
			},
		},
		{
			Role: constants.RoleSupport,
			Operations: []Operation{
				OpOrderReadAll,
				OpPaymentReadAll,
				OpInvoiceSend,
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略（幂等）
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		for _, op := range seed.Operations {
			if err := s.GrantRolePolicy(seed.Role, op); err != nil {
				return fmt.Errorf("seed role %s failed: %w", seed.Role, err)
			}
		}
	}
	return nil
}
