package handler

import (
	"fmt"
	"net/http"

	"github.com/menezmethod/helpdesk/internal/session"
)

// Area serves the landing page of a business area. The area controllers
// (entidades, contratos, facturación, agenda...) mount under these paths.
//
//	GET /admin, /comercial, /sistemas, /contabilidad
func Area(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := session.IdentityFromContext(r.Context())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "HelpDesk · %s\nBienvenido, %s (%s)\n", title, id.Name, id.Role)
	}
}

// Entity serves the detail page of one entidad.
//
//	GET /comercial/entidades/{id}
func Entity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "Entidad %s\n", r.PathValue("id"))
	}
}
