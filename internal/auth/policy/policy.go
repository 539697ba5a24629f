// Package policy is the single source of truth for which role may perform which action.
package policy

import "fuel-delivery-service/internal/domain"

// Action names an operation guarded by role.
type Action string

// List of actions
const (
	DeliveryCreate     Action = "delivery:create"
	DeliveryRead       Action = "delivery:read"
	DeliveryListAll    Action = "delivery:list_all"
	DeliveryTransition Action = "delivery:transition"
	PricingRead        Action = "pricing:read"
	PricingUpdate      Action = "pricing:update"
	UserCreate         Action = "user:create"
	UserListDrivers    Action = "user:list_drivers"
)

var everyone = []domain.Role{
	domain.RoleClient, domain.RoleDriver, domain.RoleOwner,
	domain.RoleAdmin, domain.RoleSupervisor, domain.RoleFinanceManager,
}

var table = build(map[Action][]domain.Role{
	DeliveryCreate:     {domain.RoleClient, domain.RoleOwner, domain.RoleAdmin},
	DeliveryRead:       everyone,
	DeliveryListAll:    {domain.RoleOwner, domain.RoleAdmin, domain.RoleSupervisor, domain.RoleFinanceManager},
	DeliveryTransition: {domain.RoleDriver, domain.RoleOwner, domain.RoleAdmin},
	PricingRead:        everyone,
	PricingUpdate:      {domain.RoleOwner, domain.RoleAdmin, domain.RoleFinanceManager},
	UserCreate:         {domain.RoleOwner, domain.RoleAdmin},
	UserListDrivers:    {domain.RoleClient, domain.RoleOwner, domain.RoleAdmin, domain.RoleSupervisor},
})

func build(src map[Action][]domain.Role) map[Action]map[domain.Role]struct{} {
	out := make(map[Action]map[domain.Role]struct{}, len(src))
	for action, roles := range src {
		set := make(map[domain.Role]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		out[action] = set
	}
	return out
}

// Allowed reports whether role may perform action. Unknown roles and actions are denied.
func Allowed(role domain.Role, action Action) bool {
	roles, ok := table[action]
	if !ok {
		return false
	}
	_, ok = roles[role]
	return ok
}

// Actions returns every action known to the table.
func Actions() []Action {
	return []Action{
		DeliveryCreate, DeliveryRead, DeliveryListAll, DeliveryTransition,
		PricingRead, PricingUpdate, UserCreate, UserListDrivers,
	}
}
