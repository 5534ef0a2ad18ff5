package wizard

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
)

// RolePermissionEditor assembles a [models.Role]: name, permissions, review.
type RolePermissionEditor struct {
	*Wizard[models.Role]
}

func NewRolePermissionEditor() *RolePermissionEditor {
	return &RolePermissionEditor{New(models.Role{},
		Step[models.Role]{Title: "Role", Fields: []string{"Name"}},
		Step[models.Role]{Title: "Permissions", Fields: []string{"Permissions"}, Check: checkPermissions},
		Step[models.Role]{Title: "Review"},
	)}
}

func checkPermissions(r *models.Role) map[string]string {
	var unknown []string
	for _, p := range r.Permissions {
		if !models.IsPermission(p) {
			unknown = append(unknown, p)
		}
	}
	if len(unknown) > 0 {
		return map[string]string{"permissions": "contains unknown permission(s): " + strings.Join(unknown, ", ")}
	}
	return nil
}

// Toggle grants p when absent and revokes it otherwise, reporting whether it is now granted.
func (e *RolePermissionEditor) Toggle(p string) bool {
	role := e.Form()
	if i := slices.Index(role.Permissions, p); i >= 0 {
		role.Permissions = slices.Delete(role.Permissions, i, i+1)
		return false
	}
	role.Permissions = append(role.Permissions, p)
	return true
}

// Grant adds permissions, ignoring duplicates, and keeps them in catalogue order.
func (e *RolePermissionEditor) Grant(perms ...string) {
	role := e.Form()
	for _, p := range perms {
		if !slices.Contains(role.Permissions, p) {
			role.Permissions = append(role.Permissions, p)
		}
	}
	slices.SortStableFunc(role.Permissions, func(a, b string) int {
		return catalogueIndex(a) - catalogueIndex(b)
	})
}

func catalogueIndex(p string) int {
	if i := slices.Index(models.Permissions, p); i >= 0 {
		return i
	}
	return len(models.Permissions)
}

// Set assigns a form field by its JSON name; "permissions" takes a comma-separated list.
func (e *RolePermissionEditor) Set(field, value string) error {
	role := e.Form()
	switch field {
	case "name":
		role.Name = strings.TrimSpace(value)
	case "description":
		role.Description = value
	case "permissions":
		role.Permissions = nil
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				e.Grant(p)
			}
		}
	default:
		return fmt.Errorf("%w: unknown role field %q", shared.ErrInvalidArgument, field)
	}
	return nil
}
