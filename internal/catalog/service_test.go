package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfound/lostfound-backend/pkg/db/dbtest"
	"github.com/campusfound/lostfound-backend/pkg/db/models"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
)

func newService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t).DB()))
	require.NoError(t, err)
	return svc
}

func TestEnsureCategoryIsIdempotent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, created, err := svc.EnsureCategory(ctx, CategoryInput{Name: "Electronics", Icon: "laptop"})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.EnsureCategory(ctx, CategoryInput{Name: "electronics"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	_, _, err = svc.EnsureCategory(ctx, CategoryInput{Name: "Keys"})
	require.NoError(t, err)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Electronics", list[0].Name)
	assert.Equal(t, "Keys", list[1].Name)
}

func TestEnsureLocationRendersFullLocation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	spot := "next to the vending machine"

	loc, created, err := svc.EnsureLocation(ctx, LocationInput{
		LocationType:     enums.LocationTypeGroundFloor,
		FloorArea:        "Library",
		SpecificLocation: &spot,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Ground Floor - Library - next to the vending machine", loc.FullLocation)
	assert.Equal(t, "Ground Floor", loc.LocationLabel)

	_, created, err = svc.EnsureLocation(ctx, LocationInput{LocationType: enums.LocationTypeGroundFloor, FloorArea: " Library "})
	require.NoError(t, err)
	assert.False(t, created)

	list, err := svc.ListLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEnsureValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, _, err := svc.EnsureCategory(ctx, CategoryInput{Name: " "})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, _, err = svc.EnsureLocation(ctx, LocationInput{LocationType: "roof", FloorArea: "A"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, _, err = svc.EnsureLocation(ctx, LocationInput{LocationType: enums.LocationTypeParking})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestListBannersShowsOnlyCurrentWindow(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	today := time.Date(2025, 9, 15, 14, 30, 0, 0, time.UTC)
	svc.(*service).now = func() time.Time { return today }

	yesterday := today.AddDate(0, 0, -1)
	nextWeek := today.AddDate(0, 0, 7)
	inactive := false
	seed := []BannerInput{
		{Title: "Open ended", BannerType: enums.BannerTypeAnnouncement, Priority: 1},
		{Title: "Ends today", BannerType: enums.BannerTypeEvent, Priority: 1, StartDate: today.AddDate(0, 0, -3), EndDate: &today},
		{Title: "Top sponsor", BannerType: enums.BannerTypeSponsor, Priority: 9, Sponsor: "Campus Bookstore"},
		{Title: "Expired", BannerType: enums.BannerTypeClub, Priority: 20, StartDate: today.AddDate(0, 0, -10), EndDate: &yesterday},
		{Title: "Starts later", BannerType: enums.BannerTypeEvent, Priority: 20, StartDate: nextWeek},
		{Title: "Switched off", BannerType: enums.BannerTypeClub, Priority: 20, IsActive: &inactive},
	}
	for _, input := range seed {
		_, created, err := svc.EnsureBanner(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)
	}

	list, err := svc.ListBanners(ctx)
	require.NoError(t, err)
	titles := make([]string, 0, len(list))
	for _, b := range list {
		titles = append(titles, b.Title)
	}
	// equal priority breaks ties on the later start date
	assert.Equal(t, []string{"Top sponsor", "Open ended", "Ends today"}, titles)
	assert.Equal(t, "2025-09-15", list[0].StartDate)
	require.NotNil(t, list[2].EndDate)
	assert.Equal(t, "2025-09-15", *list[2].EndDate)
}

func TestListBannersCapsResults(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	for i := range MaxBanners + 2 {
		_, _, err := svc.EnsureBanner(ctx, BannerInput{Title: "Banner " + string(rune('A'+i)), BannerType: enums.BannerTypeEvent, Priority: i})
		require.NoError(t, err)
	}
	list, err := svc.ListBanners(ctx)
	require.NoError(t, err)
	require.Len(t, list, MaxBanners)
	assert.Equal(t, "Banner G", list[0].Title)
}

func TestEnsureBannerValidatesAndDeduplicates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, created, err := svc.EnsureBanner(ctx, BannerInput{Title: " Desk Hours ", BannerType: enums.BannerTypeAnnouncement})
	require.NoError(t, err)
	assert.True(t, created)
	again, created, err := svc.EnsureBanner(ctx, BannerInput{Title: "Desk Hours", BannerType: enums.BannerTypeAnnouncement})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	start := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, 0, -1)
	for name, input := range map[string]BannerInput{
		"missing title":   {BannerType: enums.BannerTypeClub},
		"unknown type":    {Title: "Poster", BannerType: "billboard"},
		"negative":        {Title: "Poster", BannerType: enums.BannerTypeClub, Priority: -1},
		"inverted window": {Title: "Poster", BannerType: enums.BannerTypeClub, StartDate: start, EndDate: &before},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.EnsureBanner(ctx, input)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}

func TestBannerIsCurrentMatchesListing(t *testing.T) {
	today := time.Date(2025, 9, 15, 23, 59, 0, 0, time.UTC)
	end := models.Day(today)
	b := models.Banner{IsActive: true, StartDate: models.Day(today), EndDate: &end}
	assert.True(t, b.IsCurrent(today))
	assert.False(t, b.IsCurrent(today.AddDate(0, 0, 1)))
	assert.False(t, b.IsCurrent(today.AddDate(0, 0, -1)))
	b.IsActive = false
	assert.False(t, b.IsCurrent(today))
}
