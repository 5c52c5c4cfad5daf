package items

import (
	"errors"
	"testing"
	"time"

	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to enums.ItemStatus
		want     bool
	}{
		{enums.ItemStatusActive, enums.ItemStatusClaimed, true},
		{enums.ItemStatusActive, enums.ItemStatusReadyForClaim, false},
		{enums.ItemStatusPendingVerification, enums.ItemStatusActive, true},
		{enums.ItemStatusVerified, enums.ItemStatusReadyForClaim, true},
		{enums.ItemStatusVerified, enums.ItemStatusClaimed, false},
		{enums.ItemStatusDroppedOff, enums.ItemStatusVerified, true},
		{enums.ItemStatusDroppedOff, enums.ItemStatusClaimed, false},
		{enums.ItemStatusReadyForClaim, enums.ItemStatusClaimed, true},
		{enums.ItemStatusExpired, enums.ItemStatusClosed, true},
		{enums.ItemStatusExpired, enums.ItemStatusClaimed, false},
		{enums.ItemStatusClaimed, enums.ItemStatusActive, false},
		{enums.ItemStatusClosed, enums.ItemStatusActive, false},
		{enums.ItemStatusClosed, enums.ItemStatusClosed, true},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, status := range []enums.ItemStatus{enums.ItemStatusClaimed, enums.ItemStatusClosed} {
		if len(transitions[status]) != 0 {
			t.Fatalf("expected %s to be terminal", status)
		}
		if !status.IsTerminal() {
			t.Fatalf("expected %s to report terminal", status)
		}
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	window := 30 * 24 * time.Hour

	fresh := models.Item{Status: enums.ItemStatusActive, CreatedAt: now.Add(-29 * 24 * time.Hour)}
	if got := EffectiveStatus(fresh, now, window); got != enums.ItemStatusActive {
		t.Fatalf("expected active, got %s", got)
	}

	stale := models.Item{Status: enums.ItemStatusActive, CreatedAt: now.Add(-31 * 24 * time.Hour)}
	if got := EffectiveStatus(stale, now, window); got != enums.ItemStatusExpired {
		t.Fatalf("expected expired, got %s", got)
	}

	verified := models.Item{Status: enums.ItemStatusVerified, CreatedAt: now.Add(-90 * 24 * time.Hour)}
	if got := EffectiveStatus(verified, now, window); got != enums.ItemStatusVerified {
		t.Fatalf("only active items expire, got %s", got)
	}
}

func TestCheckTransitionErrors(t *testing.T) {
	err := checkTransition(enums.ItemStatusClaimed, enums.ItemStatusActive)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict code, got %v", err)
	}

	if err := checkTransition(enums.ItemStatusActive, enums.ItemStatusExpired); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error when setting expired, got %v", err)
	}
	if err := checkTransition(enums.ItemStatusActive, enums.ItemStatus("lost_forever")); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
	if err := checkTransition(enums.ItemStatusActive, enums.ItemStatusVerified); err != nil {
		t.Fatalf("expected allowed transition, got %v", err)
	}
}
