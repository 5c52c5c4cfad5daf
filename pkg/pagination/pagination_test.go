package pagination

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -4: DefaultLimit, 10: 10, MaxLimit + 50: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
	if LimitWithBuffer(10) != 11 {
		t.Fatalf("expected buffer of one")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	original := Cursor{CreatedAt: time.Date(2025, 3, 1, 10, 30, 0, 123, time.UTC), ID: uuid.New()}
	parsed, err := ParseCursor(EncodeCursor(original))
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if !parsed.CreatedAt.Equal(original.CreatedAt) || parsed.ID != original.ID {
		t.Fatalf("cursor mismatch: %+v vs %+v", parsed, original)
	}
	if empty, err := ParseCursor("  "); err != nil || empty != nil {
		t.Fatalf("expected nil cursor for blank input, got %v %v", empty, err)
	}
	for _, bad := range []string{"not-base64!", EncodeCursor(original)[:8], "bm8tc2VwYXJhdG9y"} {
		if _, err := ParseCursor(bad); !errors.Is(err, ErrInvalidCursor) {
			t.Fatalf("expected ErrInvalidCursor for %q, got %v", bad, err)
		}
	}
	if strings.ContainsAny(EncodeCursor(original), "+/=") {
		t.Fatal("cursor must be safe to place in a query string")
	}
}

func TestTrim(t *testing.T) {
	type row struct {
		id uuid.UUID
		at time.Time
	}
	now := time.Now().UTC()
	rows := []row{{uuid.New(), now}, {uuid.New(), now.Add(-time.Minute)}, {uuid.New(), now.Add(-2 * time.Minute)}}
	cursorOf := func(r row) Cursor { return Cursor{CreatedAt: r.at, ID: r.id} }

	page, next := Trim(rows, 2, cursorOf)
	if len(page) != 2 {
		t.Fatalf("expected 2 rows got %d", len(page))
	}
	if next == nil || next.ID != rows[1].id {
		t.Fatalf("expected cursor at last kept row, got %+v", next)
	}

	page, next = Trim(rows[:2], 2, cursorOf)
	if len(page) != 2 || next != nil {
		t.Fatalf("expected full page without cursor, got %d %+v", len(page), next)
	}
}
