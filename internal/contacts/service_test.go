package contacts

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfound/lostfound-backend/internal/events"
	"github.com/campusfound/lostfound-backend/internal/items"
	"github.com/campusfound/lostfound-backend/internal/users"
	"github.com/campusfound/lostfound-backend/pkg/db"
	"github.com/campusfound/lostfound-backend/pkg/db/dbtest"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
	"github.com/campusfound/lostfound-backend/pkg/logger"
)

func setup(t *testing.T) (*db.Client, Service, *models.User, *models.Item) {
	t.Helper()
	client := dbtest.Open(t)
	ctx := context.Background()

	owner, err := users.NewRepository(client.DB()).Create(ctx, users.CreateUserDTO{
		Email:        "owner@campus.edu",
		PasswordHash: "hash",
		FirstName:    "Olive",
		LastName:     "Owner",
	})
	require.NoError(t, err)

	itemRepo := items.NewRepository(client.DB())
	item := &models.Item{
		ID:           uuid.New(),
		Title:        "Green Umbrella",
		Description:  "left in lecture hall B",
		Kind:         enums.ItemKindLost,
		Status:       enums.ItemStatusActive,
		ContactName:  "Olive",
		ContactEmail: "owner@campus.edu",
		OwnerID:      owner.ID,
	}
	require.NoError(t, itemRepo.Create(ctx, item))

	svc, err := NewService(NewRepository(client.DB()), itemRepo, logger.Nop())
	require.NoError(t, err)
	return client, svc, owner, item
}

func TestCreateContactRaisesEvent(t *testing.T) {
	_, svc, _, item := setup(t)
	phone := "  "

	dto, evts, err := svc.Create(context.Background(), item.ID, CreateContactInput{
		Name:    " Finn ",
		Email:   "finn@campus.edu",
		Phone:   &phone,
		Message: "I think I saw this at the cafe",
	})
	require.NoError(t, err)
	assert.Equal(t, "Finn", dto.Name)
	assert.Nil(t, dto.Phone)
	assert.False(t, dto.IsResponded)

	require.Len(t, evts, 1)
	received, ok := evts[0].(events.ContactReceived)
	require.True(t, ok)
	assert.Equal(t, item.ID, received.Item.ID)
	assert.Equal(t, dto.ID, received.Contact.ID)
	assert.Equal(t, "contact_received", received.Name())
}

func TestCreateContactValidation(t *testing.T) {
	_, svc, _, item := setup(t)

	cases := map[string]CreateContactInput{
		"missing name":  {Email: "a@campus.edu", Message: "hi"},
		"bad email":     {Name: "A", Email: "not-an-email", Message: "hi"},
		"display name":  {Name: "A", Email: "A <a@campus.edu>", Message: "hi"},
		"empty message": {Name: "A", Email: "a@campus.edu", Message: "   "},
		"long message":  {Name: "A", Email: "a@campus.edu", Message: strings.Repeat("x", maxMessageLength+1)},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, evts, err := svc.Create(context.Background(), item.ID, input)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)
			assert.Nil(t, evts)
		})
	}
}

func TestCreateContactUnknownItem(t *testing.T) {
	_, svc, _, _ := setup(t)
	_, _, err := svc.Create(context.Background(), uuid.New(), CreateContactInput{Name: "A", Email: "a@campus.edu", Message: "hi"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestOwnerListsAndMarksResponded(t *testing.T) {
	client, svc, owner, item := setup(t)
	ctx := context.Background()

	first, _, err := svc.Create(ctx, item.ID, CreateContactInput{Name: "A", Email: "a@campus.edu", Message: "first"})
	require.NoError(t, err)
	_, _, err = svc.Create(ctx, item.ID, CreateContactInput{Name: "B", Email: "b@campus.edu", Message: "second"})
	require.NoError(t, err)

	list, err := svc.ListForOwner(ctx, owner.ID, item.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.ListForOwner(ctx, uuid.New(), item.ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden), "got %v", err)

	_, err = svc.MarkResponded(ctx, uuid.New(), first.ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden), "got %v", err)

	marked, err := svc.MarkResponded(ctx, owner.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsResponded)

	var stored models.Contact
	require.NoError(t, client.DB().First(&stored, "id = ?", first.ID).Error)
	assert.True(t, stored.IsResponded)

	_, err = svc.MarkResponded(ctx, owner.ID, uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, nil, nil); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
