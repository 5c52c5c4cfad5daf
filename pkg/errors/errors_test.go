package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInsufficient, status: http.StatusConflict, publicMsg: "insufficient coin balance", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	plain := New(CodeNotFound, "item not found")
	if plain.Error() != "NOT_FOUND: item not found" {
		t.Fatalf("unexpected message %q", plain.Error())
	}
	wrapped := Wrap(CodeDependency, stdErrors.New("dial tcp: refused"), "redis unavailable")
	if wrapped.Error() != "DEPENDENCY_ERROR: redis unavailable: dial tcp: refused" {
		t.Fatalf("unexpected message %q", wrapped.Error())
	}
	if !MetadataFor(CodeStateConflict).ExposeMessage || MetadataFor(CodeInternal).ExposeMessage {
		t.Fatal("internal messages must stay private while state conflicts are shown")
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestHasCodeWalksWrappedChain(t *testing.T) {
	inner := New(CodeInsufficient, "balance too low")
	outer := fmt.Errorf("redeem voucher: %w", inner)
	if !HasCode(outer, CodeInsufficient) {
		t.Fatal("expected HasCode to find the wrapped code")
	}
	if HasCode(outer, CodeNotFound) {
		t.Fatal("unexpected match for a different code")
	}
	if HasCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatal("plain errors carry no code")
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(CodeStateConflict, "cannot move item from %s to %s", "claimed", "active")
	if err.Message() != "cannot move item from claimed to active" {
		t.Fatalf("unexpected message %q", err.Message())
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(CodeDependency, stdErrors.New("db down"), "list items"))
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(dump.Chain), dump.Chain)
	}
}

func TestDumpClassifiesViolations(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		want   Violation
		target string
	}{
		{name: "pg unique", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}), want: ViolationUnique},
		{name: "pq foreign key", err: &pq.Error{Code: "23503"}, want: ViolationForeignKey},
		{name: "sqlite unique", err: stdErrors.New("UNIQUE constraint failed: vouchers.name"), want: ViolationUnique, target: "vouchers.name"},
		{name: "sqlite check", err: stdErrors.New("CHECK constraint failed: coin_ledgers_balance_check"), want: ViolationCheck, target: "coin_ledgers_balance_check"},
		{name: "plain", err: stdErrors.New("connection reset"), want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dump := Dump(tc.err)
			if dump.Violation != tc.want {
				t.Fatalf("expected violation %q got %q", tc.want, dump.Violation)
			}
			if dump.SQLiteTarget != tc.target {
				t.Fatalf("expected target %q got %q", tc.target, dump.SQLiteTarget)
			}
		})
	}
}
