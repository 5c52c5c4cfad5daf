package items

import (
	"errors"
	"fmt"
	"time"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
)

// ErrInvalidTransition is returned when the requested status cannot follow
// the item's current effective status.
var ErrInvalidTransition = errors.New("invalid item status transition")

var transitions = map[enums.ItemStatus][]enums.ItemStatus{
	enums.ItemStatusActive: {
		enums.ItemStatusClaimed,
		enums.ItemStatusClosed,
		enums.ItemStatusPendingVerification,
		enums.ItemStatusVerified,
		enums.ItemStatusDroppedOff,
	},
	enums.ItemStatusPendingVerification: {
		enums.ItemStatusVerified,
		enums.ItemStatusDroppedOff,
		enums.ItemStatusActive,
		enums.ItemStatusClosed,
	},
	enums.ItemStatusVerified: {
		enums.ItemStatusDroppedOff,
		enums.ItemStatusReadyForClaim,
		enums.ItemStatusClosed,
	},
	enums.ItemStatusDroppedOff: {
		enums.ItemStatusVerified,
		enums.ItemStatusReadyForClaim,
		enums.ItemStatusClosed,
	},
	enums.ItemStatusReadyForClaim: {
		enums.ItemStatusClaimed,
		enums.ItemStatusClosed,
	},
	enums.ItemStatusExpired: {
		enums.ItemStatusClosed,
		enums.ItemStatusPendingVerification,
		enums.ItemStatusDroppedOff,
	},
}

// EffectiveStatus returns the status callers observe. Active items older than
// the expiry window read as expired; nothing rewrites the stored value.
func EffectiveStatus(item models.Item, now time.Time, window time.Duration) enums.ItemStatus {
	if item.Status == enums.ItemStatusActive && window > 0 && !item.CreatedAt.IsZero() && now.Sub(item.CreatedAt) > window {
		return enums.ItemStatusExpired
	}
	return item.Status
}

// CanTransition reports whether to may follow from. Staying put is always allowed.
func CanTransition(from, to enums.ItemStatus) bool {
	if from == to {
		return true
	}
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to enums.ItemStatus) error {
	if !to.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid item status %q", to)
	}
	if to == enums.ItemStatusExpired {
		return pkgerrors.New(pkgerrors.CodeValidation, "expired is derived from the item age and cannot be set")
	}
	if !CanTransition(from, to) {
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrInvalidTransition, fmt.Sprintf("cannot move item from %s to %s", from, to)).
			WithDetails(map[string]string{"from": string(from), "to": string(to)})
	}
	return nil
}
