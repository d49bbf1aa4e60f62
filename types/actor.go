package types

// Capability names a permission checked by the authorization gate.
type Capability string

const (
	CapViewInventory      Capability = "view_inventory"
	CapUpdateInventory    Capability = "update_inventory"
	CapManageMaterials    Capability = "manage_materials"
	CapManageComponents   Capability = "manage_components"
	CapManageConsumables  Capability = "manage_consumables"
	CapManagePackaging    Capability = "manage_packaging"
	CapViewParts          Capability = "view_parts"
	CapManageParts        Capability = "manage_parts"
	CapViewMolds          Capability = "view_molds"
	CapManageMolds        Capability = "manage_molds"
	CapProductionPlanning Capability = "production_planning"
	CapViewBOM            Capability = "view_bom"
	CapManageBOM          Capability = "manage_bom"
	CapViewReports        Capability = "view_reports"
	CapReorderManagement  Capability = "reorder_management"
	CapExportData         Capability = "export_data"
	CapViewTransactions   Capability = "view_transactions"
	CapAdminPanel         Capability = "admin_panel"
	CapSystemSettings     Capability = "system_settings"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ActorContext identifies who is calling into the core. A nil UserID means
// a system action.
type ActorContext struct {
	UserID      *uint
	Username    string
	Role        string
	Permissions []Capability
}

// SystemActor is used by seeders and background jobs.
func SystemActor() ActorContext {
	return ActorContext{Username: "system", Role: RoleAdmin}
}

// UserActor builds an actor for an authenticated user.
func UserActor(id uint, username, role string, perms ...Capability) ActorContext {
	return ActorContext{UserID: &id, Username: username, Role: role, Permissions: perms}
}
