package models

import (
	"testing"

	"github.com/campusfound/lostfound-backend/pkg/enums"
)

func TestLocationFullLocation(t *testing.T) {
	spot := "  Room 204 "
	cases := []struct {
		name string
		loc  Location
		want string
	}{
		{
			name: "area only",
			loc:  Location{LocationType: enums.LocationTypeGroundFloor, FloorArea: "Lobby"},
			want: "Ground Floor - Lobby",
		},
		{
			name: "with specific spot",
			loc:  Location{LocationType: enums.LocationTypeSecondFloor, FloorArea: "Library", SpecificLocation: &spot},
			want: "Second Floor - Library - Room 204",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.loc.FullLocation(); got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}

func TestUserFullNameFallsBackToEmail(t *testing.T) {
	u := User{Email: "a@campus.edu"}
	if u.FullName() != "a@campus.edu" {
		t.Fatalf("unexpected name %q", u.FullName())
	}
	u.FirstName, u.LastName = "Ada", "Lovelace"
	if u.FullName() != "Ada Lovelace" {
		t.Fatalf("unexpected name %q", u.FullName())
	}
}
