package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/api/middleware"
	"github.com/campusfound/lostfound-backend/internal/events"
	"github.com/campusfound/lostfound-backend/internal/notifications"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
)

// EventNotifier turns committed domain events into notifications.
type EventNotifier interface {
	Notify(ctx context.Context, evts ...events.Event) []*notifications.Result
}

func requireUserID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return id, nil
}

// notify runs after the response payload is known; delivery problems are
// logged by the notifier and never change the HTTP outcome.
func notify(ctx context.Context, notifier EventNotifier, evts []events.Event) {
	if notifier == nil || len(evts) == 0 {
		return
	}
	notifier.Notify(ctx, evts...)
}

func serviceUnavailable(name string) error {
	return pkgerrors.Newf(pkgerrors.CodeInternal, "%s service unavailable", name)
}
