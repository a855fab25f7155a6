package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeBusinessRule, status: http.StatusBadRequest, publicMsg: "operation not allowed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "please log in first"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "too many attempts, try again later"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error"},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
	if meta.ExposeMessage {
		t.Fatal("internal errors must not expose their message")
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

	base.WithDetails(map[string]any{"field": "foo"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeBusinessRule, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeBusinessRule {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}

	formatted := Newf(CodeBusinessRule, "limit reached (%d/%d)", 3, 3)
	if formatted.Message() != "limit reached (3/3)" {
		t.Fatalf("unexpected formatted message %q", formatted.Message())
	}
}

func TestAsAndIsCodeFollowWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeForbidden, "no entry"))
	typed := As(err)
	if typed == nil || typed.Code() != CodeForbidden {
		t.Fatalf("expected forbidden typed error, got %v", typed)
	}
	if !IsCode(err, CodeForbidden) || IsCode(err, CodeNotFound) {
		t.Fatal("IsCode mismatch")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain errors must not be typed")
	}
}

func TestInternalKeepsTypedErrors(t *testing.T) {
	typed := New(CodeNotFound, "missing")
	if got := Internal(typed, "load"); got != error(typed) {
		t.Fatalf("expected typed error to pass through, got %v", got)
	}
	wrapped := Internal(stdErrors.New("db down"), "load")
	if !IsCode(wrapped, CodeInternal) {
		t.Fatalf("expected internal code, got %v", wrapped)
	}
	if Internal(nil, "noop") != nil {
		t.Fatal("nil stays nil")
	}
}
