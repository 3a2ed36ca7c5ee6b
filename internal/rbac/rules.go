package rbac

// Permissions used by the importer routes.
const (
	PermContentImport = "content:import"
	PermContentView   = "content:view"
)

const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// DefaultPolicy lets editors import and read back what they imported.
var DefaultPolicy = Policy{
	RoleViewer: {PermContentView},
	RoleEditor: {"content:*"},
	RoleAdmin:  {"*"},
}
