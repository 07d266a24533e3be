package model

// Privilege codes checked by route guards.
const (
	PrivCategoryView   = "category:view"
	PrivCategoryManage = "category:manage"
	PrivProductView    = "product:view"
	PrivProductCreate  = "product:create"
	PrivProductUpdate  = "product:update"
	PrivStockView      = "stock:view"
	PrivStockCreate    = "stock:create"
	PrivSaleView       = "sale:view"
	PrivSaleCreate     = "sale:create"
	PrivDashboardView  = "dashboard:view"
	PrivReportView     = "report:view"
	PrivUserManage     = "user:manage"
)

// RolePrivileges is the permission set granted to each role.
var RolePrivileges = map[Role][]string{
	RoleAdmin: {
		PrivCategoryView, PrivCategoryManage,
		PrivProductView, PrivProductCreate, PrivProductUpdate,
		PrivStockView, PrivStockCreate,
		PrivSaleView, PrivSaleCreate,
		PrivDashboardView, PrivReportView,
		PrivUserManage,
	},
	RoleVendor: {
		PrivCategoryView,
		PrivProductView,
		PrivSaleView, PrivSaleCreate,
		PrivDashboardView,
	},
}

// PrivilegesFor returns a copy of the role's privilege codes.
func PrivilegesFor(r Role) []string {
	codes := RolePrivileges[r]
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}
