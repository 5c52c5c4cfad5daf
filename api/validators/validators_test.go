package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
)

type itemBody struct {
	Title string `json:"title" validate:"required,max=200"`
	Kind  string `json:"kind" validate:"required,item_kind"`
	Coins int    `json:"reward_coins" validate:"gte=0"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"","kind":"stolen","reward_coins":-1}`))
	var body itemBody
	err := DecodeJSONBody(req, &body)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	for field, want := range map[string]string{
		"title":        "is required",
		"kind":         "must be lost or found",
		"reward_coins": "must be greater than or equal to 0",
	} {
		if details[field] != want {
			t.Fatalf("field %s: expected %q got %q", field, want, details[field])
		}
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Keys","kind":"found","owner_id":"x"}`))
	var body itemBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsMalformedEnvelopes(t *testing.T) {
	cases := map[string]string{
		"empty":    "   ",
		"trailing": `{"title":"Keys","kind":"found"} {"title":"again"}`,
		"oversize": `{"title":"` + strings.Repeat("a", MaxBodyBytes) + `","kind":"found"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
			var body itemBody
			if err := DecodeJSONBody(req, &body); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestParseQueryHelpers(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&category="+id.String()+"&unread=true&bad=nope", nil)

	limit, err := ParseQueryInt(req, "limit", 20, 1, 100)
	if err != nil || limit != 5 {
		t.Fatalf("limit: %d %v", limit, err)
	}
	if _, err := ParseQueryInt(req, "limit", 20, 10, 100); err == nil {
		t.Fatal("expected out of range error")
	}
	got, err := ParseQueryUUID(req, "category")
	if err != nil || got == nil || *got != id {
		t.Fatalf("category: %v %v", got, err)
	}
	missing, err := ParseQueryUUID(req, "location")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing uuid, got %v %v", missing, err)
	}
	unread, err := ParseQueryBool(req, "unread", false)
	if err != nil || !unread {
		t.Fatalf("unread: %v %v", unread, err)
	}
	if _, err := ParseQueryBool(req, "bad", false); err == nil {
		t.Fatal("expected bool parse error")
	}
}

func TestParseURLUUID(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("itemId", id.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	got, err := ParseURLUUID(req, "itemId")
	if err != nil || got != id {
		t.Fatalf("expected %s got %s (%v)", id, got, err)
	}
	if _, err := ParseURLUUID(req, "voucherId"); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeStringCountsRunes(t *testing.T) {
	if got := SanitizeString("  Café au lait  ", 4); got != "Café" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString(" keep ", 0); got != "keep" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestIsEmail(t *testing.T) {
	for email, want := range map[string]bool{
		"sam@campus.edu":        true,
		"":                      false,
		"sam":                   false,
		"Sam <sam@campus.edu>":  false,
		"sam@campus.edu, x@y.z": false,
	} {
		if got := IsEmail(email); got != want {
			t.Errorf("IsEmail(%q) = %v, want %v", email, got, want)
		}
	}
}
