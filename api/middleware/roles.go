package middleware

import (
	"net/http"

	"github.com/campusfound/lostfound-backend/api/responses"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/logger"
)

// RequireRole admits only tokens carrying the given role. It must run after Auth.
func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actual := enums.UserRole(RoleFromContext(r.Context()))
			if actual == role {
				next.ServeHTTP(w, r)
				return
			}
			if logg != nil {
				ctx := logg.WithFields(r.Context(), map[string]any{
					"required_role": string(role),
					"path":          r.URL.Path,
				})
				logg.Warn(ctx, "access.denied")
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeForbidden, "%s role required", role))
		})
	}
}
