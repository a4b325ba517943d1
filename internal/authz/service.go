package authz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	casbinTableName = "casbin_rule"
	rolePrefix      = "role:"
	wildcard        = "*"
)

// 角色 -> 操作 的统一判定模型，资源与动作均支持 * 通配
const defaultPolicyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// Operation 受控操作（资源 + 动作）
type Operation struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// String 返回 resource:action 形式
func (o Operation) String() string {
	return o.Resource + ":" + o.Action
}

// 受控操作清单
var (
	OpOrderCheckout   = Operation{Resource: "order", Action: "checkout"}
	OpOrderReadAll    = Operation{Resource: "order", Action: "read_all"}
	OpDeliveryAdvance = Operation{Resource: "delivery", Action: "advance"}
	OpDeliveryUpdate  = Operation{Resource: "delivery", Action: "update"}
	OpProductCreate   = Operation{Resource: "product", Action: "create"}
	OpProductStock    = Operation{Resource: "product", Action: "stock"}
	OpProductPrice    = Operation{Resource: "product", Action: "price"}
	OpReviewSubmit    = Operation{Resource: "review", Action: "submit"}
	OpPaymentRecord   = Operation{Resource: "payment", Action: "record"}
	OpPaymentReadAll  = Operation{Resource: "payment", Action: "read_all"}
	OpInvoiceSend     = Operation{Resource: "invoice", Action: "send"}
)

// Policy 权限策略
type Policy struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// Service Casbin 授权服务
// 所有写操作统一通过 Allow 判定
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务（策略持久化在数据库）
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(defaultPolicyModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

// Allow 判定角色是否可执行操作
func (s *Service) Allow(role string, op Operation) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return false, nil
	}
	return s.enforcer.Enforce(subject, normalizeToken(op.Resource), normalizeToken(op.Action))
}

// GrantRolePolicy 为角色授予操作
func (s *Service) GrantRolePolicy(role string, op Operation) error {
	subject, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	resource, action := normalizeToken(op.Resource), normalizeToken(op.Action)
	if resource == "" || action == "" {
		return fmt.Errorf("policy resource and action are required")
	}
	if _, err := s.enforcer.AddPolicy(subject, resource, action); err != nil {
		return fmt.Errorf("grant role policy failed: %w", err)
	}
	return nil
}

// RevokeRolePolicy 撤销角色操作
func (s *Service) RevokeRolePolicy(role string, op Operation) error {
	subject, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	if _, err := s.enforcer.RemovePolicy(subject, normalizeToken(op.Resource), normalizeToken(op.Action)); err != nil {
		return fmt.Errorf("revoke role policy failed: %w", err)
	}
	return nil
}

// GetRolePolicies 获取角色直接拥有的策略
func (s *Service) GetRolePolicies(role string) ([]Policy, error) {
	subject, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	if s == nil || s.enforcer == nil {
		return nil, fmt.Errorf("authz service unavailable")
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return nil, fmt.Errorf("get role policies failed: %w", err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{
			Role:     strings.TrimPrefix(rule[0], rolePrefix),
			Resource: rule[1],
			Action:   rule[2],
		})
	}
	sort.Slice(policies, func(i, j int) bool {
		if policies[i].Resource == policies[j].Resource {
			return policies[i].Action < policies[j].Action
		}
		return policies[i].Resource < policies[j].Resource
	})
	return policies, nil
}

// NormalizeRole 统一角色主体格式（role:xxx）
func NormalizeRole(role string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(role))
	trimmed = strings.TrimPrefix(trimmed, rolePrefix)
	if trimmed == "" {
		return "", fmt.Errorf("role is required")
	}
	if strings.ContainsAny(trimmed, " :,") {
		return "", fmt.Errorf("invalid role: %s", role)
	}
	return rolePrefix + trimmed, nil
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
