package middleware

import (
	"net/http"
	"strings"

	"github.com/campusfound/lostfound-backend/api/responses"
	pkgAuth "github.com/campusfound/lostfound-backend/pkg/auth"
	"github.com/campusfound/lostfound-backend/pkg/auth/session"
	"github.com/campusfound/lostfound-backend/pkg/config"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/logger"
)

// Auth validates a bearer token against the live session store and seeds the
// request context with the caller id and role.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(r, cfg, verifier)
			if err != nil {
				if logg != nil && pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
					logg.Debug(logg.WithField(r.Context(), "reason", err.Error()), "auth.rejected")
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithRole(ctx, string(claims.Role))
			if logg != nil {
				ctx = logg.WithActorRole(logg.WithUserID(ctx, claims.UserID.String()), string(claims.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, cfg config.JWTConfig, verifier session.AccessSessionChecker) (*pkgAuth.AccessTokenClaims, error) {
	token := BearerToken(r)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	switch {
	case claims.ID == "":
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	case !claims.Role.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown role")
	}

	if verifier == nil {
		return claims, nil
	}
	ok, err := verifier.HasSession(r.Context(), claims.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked")
	}
	return claims, nil
}

// BearerToken extracts the raw token from the Authorization header. A bare
// token without the scheme prefix is accepted.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	return raw
}
