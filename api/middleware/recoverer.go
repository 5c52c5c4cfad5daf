package middleware

import (
	"fmt"
	"net/http"

	"github.com/campusfound/lostfound-backend/api/responses"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/logger"
)

// Recoverer turns a handler panic into an INTERNAL_ERROR envelope. If the
// handler already started the response, only the log line is written.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				panicked := recover()
				if panicked == nil {
					return
				}
				if panicked == http.ErrAbortHandler {
					panic(panicked)
				}
				err := fmt.Errorf("panic in %s %s: %v", r.Method, r.URL.Path, panicked)
				ctx := r.Context()
				if rec.status != 0 {
					if logg != nil {
						logg.Error(logg.WithField(ctx, "status", rec.status), "panic.after_write", err)
					}
					return
				}
				responses.WriteError(ctx, logg, rec, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected failure"))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
