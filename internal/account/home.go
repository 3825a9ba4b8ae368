package account

import "strings"

// Roles known to HelpDesk.
const (
	RoleAdministrador = "administrador"
	RoleComercial     = "comercial"
	RoleSistemas      = "sistemas"
	RoleContabilidad  = "contabilidad"
)

var homeByRole = map[string]string{
	RoleAdministrador: "/admin",
	RoleComercial:     "/comercial",
	RoleSistemas:      "/sistemas",
	RoleContabilidad:  "/contabilidad",
}

// HomeFor returns the landing path for role, or "/" for unknown roles.
func HomeFor(role string) string {
	if home, ok := homeByRole[strings.ToLower(strings.TrimSpace(role))]; ok {
		return home
	}
	return "/"
}

// KnownRole reports whether role has a landing area.
func KnownRole(role string) bool {
	_, ok := homeByRole[strings.ToLower(strings.TrimSpace(role))]
	return ok
}
