package items

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfound/lostfound-backend/internal/events"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
)

func TestVerifyRecordsOperationAndEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "x-owner@campus.edu", false)
	admin := f.user(t, "admin42@campus.edu", true)

	created, err := f.svc.Create(ctx, owner.ID, foundInput("Item X", 0))
	require.NoError(t, err)

	out, err := f.svc.Verify(ctx, admin.ID, created.Item.ID, "matches description")
	require.NoError(t, err)
	assert.Equal(t, enums.ItemStatusVerified, out.Item.Status)
	assert.True(t, out.Item.AdminVerified)
	require.NotNil(t, out.Item.VerifiedAt)
	assert.Equal(t, []string{"item_verified", "admin_action"}, eventNames(out.Events))

	verified, ok := out.Events[0].(events.ItemVerified)
	require.True(t, ok)
	assert.Equal(t, admin.ID, verified.Verifier.ID)
	assert.Equal(t, owner.ID, verified.Item.OwnerID)
	assert.Equal(t, enums.ItemStatusVerified, verified.Item.Status)

	action, ok := out.Events[1].(events.AdminActionRequired)
	require.True(t, ok)
	assert.Equal(t, enums.AdminOperationVerify, action.Operation.Operation)

	var stored models.Item
	require.NoError(t, f.client.DB().First(&stored, "id = ?", created.Item.ID).Error)
	require.NotNil(t, stored.VerifiedByID)
	assert.Equal(t, admin.ID, *stored.VerifiedByID)
	assert.Contains(t, stored.AdminNotes, "admin42 Tester: matches description")

	ops, err := f.svc.Operations(ctx, created.Item.ID)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, enums.ItemStatusActive, ops[0].PreviousStatus)
	assert.Equal(t, enums.ItemStatusVerified, ops[0].NewStatus)
	assert.Equal(t, "Verify Item", ops[0].Label)
	assert.Equal(t, admin.ID, ops[0].AdminID)

	again, err := f.svc.Verify(ctx, admin.ID, created.Item.ID, "")
	require.NoError(t, err)
	assert.Empty(t, again.Events)
	ops, err = f.svc.Operations(ctx, created.Item.ID)
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestAdminOperationsRequireStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "student@campus.edu", false)

	created, err := f.svc.Create(ctx, owner.ID, foundInput("Laptop", 0))
	require.NoError(t, err)

	_, err = f.svc.Verify(ctx, owner.ID, created.Item.ID, "")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden), "got %v", err)
}

func TestCustodyFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "flow-owner@campus.edu", false)
	admin := f.user(t, "desk@campus.edu", true)

	created, err := f.svc.Create(ctx, owner.ID, foundInput("Headphones", 0))
	require.NoError(t, err)
	id := created.Item.ID

	dropped, err := f.svc.DropOff(ctx, admin.ID, id, "")
	require.NoError(t, err)
	assert.Equal(t, enums.ItemStatusDroppedOff, dropped.Item.Status)
	assert.True(t, dropped.Item.DroppedAtAdmin)
	assert.Equal(t, []string{"item_dropped_off", "admin_action"}, eventNames(dropped.Events))

	_, err = f.svc.ProcessClaim(ctx, admin.ID, id, ClaimInput{ClaimerName: "Sam"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	ready, err := f.svc.UpdateStatus(ctx, admin.ID, id, enums.ItemStatusReadyForClaim, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"item_ready_claim"}, eventNames(ready.Events))

	claimed, err := f.svc.ProcessClaim(ctx, admin.ID, id, ClaimInput{ClaimerName: "Sam Lee", IDVerified: true, Notes: "checked card"})
	require.NoError(t, err)
	assert.Equal(t, enums.ItemStatusClaimed, claimed.Item.Status)
	assert.True(t, claimed.Item.ClaimedFromAdmin)
	assert.Equal(t, "Sam Lee", claimed.Item.ClaimerName)
	assert.Equal(t, []string{"admin_action"}, eventNames(claimed.Events))

	noted, err := f.svc.AddNote(ctx, admin.ID, id, "owner signed the log")
	require.NoError(t, err)
	assert.Empty(t, noted.Events)
	assert.Equal(t, enums.ItemStatusClaimed, noted.Item.Status)

	var stored models.Item
	require.NoError(t, f.client.DB().First(&stored, "id = ?", id).Error)
	lines := strings.Split(stored.AdminNotes, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "checked card")
	assert.Contains(t, lines[1], "owner signed the log")

	ops, err := f.svc.Operations(ctx, id)
	require.NoError(t, err)
	kinds := make([]enums.AdminOperationKind, 0, len(ops))
	for _, op := range ops {
		kinds = append(kinds, op.Operation)
	}
	assert.ElementsMatch(t, []enums.AdminOperationKind{
		enums.AdminOperationDropOff,
		enums.AdminOperationUpdateStatus,
		enums.AdminOperationClaim,
		enums.AdminOperationAddNote,
	}, kinds)
}

func TestUpdateStatusClaimedOutsideCustodyRaisesClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "c-owner@campus.edu", false)
	admin := f.user(t, "c-admin@campus.edu", true)

	created, err := f.svc.Create(ctx, owner.ID, foundInput("Bike lock", 0))
	require.NoError(t, err)

	out, err := f.svc.UpdateStatus(ctx, admin.ID, created.Item.ID, enums.ItemStatusClaimed, "")
	require.NoError(t, err)
	require.Len(t, out.Events, 1)
	evt, ok := out.Events[0].(events.ItemClaimed)
	require.True(t, ok)
	assert.Equal(t, "Unknown User", evt.ClaimerName)

	_, err = f.svc.UpdateStatus(ctx, admin.ID, created.Item.ID, enums.ItemStatusExpired, "")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestAddNoteRequiresText(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "n-admin@campus.edu", true)
	owner := f.user(t, "n-owner@campus.edu", false)
	created, err := f.svc.Create(context.Background(), owner.ID, foundInput("Mug", 0))
	require.NoError(t, err)

	_, err = f.svc.AddNote(context.Background(), admin.ID, created.Item.ID, "   ")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
