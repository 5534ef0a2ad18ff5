package models

// Permission catalogue understood by the backend's authorizer.
const (
	PermSourcesRead    = "sources:read"
	PermSourcesWrite   = "sources:write"
	PermJobsRead       = "jobs:read"
	PermJobsWrite      = "jobs:write"
	PermJobsRun        = "jobs:run"
	PermClientsRead    = "clients:read"
	PermClientsWrite   = "clients:write"
	PermTeamsManage    = "teams:manage"
	PermBillingManage  = "billing:manage"
	PermDomainsManage  = "domains:manage"
	PermBrandingManage = "branding:manage"
	PermSystemAdmin    = "system:admin"
)

// Permissions lists every known permission in display order.
var Permissions = []string{
	PermSourcesRead, PermSourcesWrite,
	PermJobsRead, PermJobsWrite, PermJobsRun,
	PermClientsRead, PermClientsWrite,
	PermTeamsManage, PermBillingManage,
	PermDomainsManage, PermBrandingManage,
	PermSystemAdmin,
}

// IsPermission reports whether p is in the catalogue.
func IsPermission(p string) bool {
	for _, known := range Permissions {
		if known == p {
			return true
		}
	}
	return false
}

// Role is a named permission set, edited by the role/permission editor.
type Role struct {
	RoleID      string   `json:"roleId,omitempty"`
	Name        string   `json:"name" validate:"required,max=60"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions" validate:"min=1,dive,required"`
}

// Has reports whether the role grants p.
func (r Role) Has(p string) bool {
	for _, granted := range r.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}
