package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/poultrygear/poultrygear-backend/pkg/errors"
)

type samplePayload struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=10"`
}

func decodeRequest(t *testing.T, body string, dest any) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return DecodeJSONBody(req, dest)
}

func TestDecodeJSONBodySuccess(t *testing.T) {
	var payload samplePayload
	if err := decodeRequest(t, `{"email":"shopper@example.com","quantity":3}`, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Email != "shopper@example.com" || payload.Quantity != 3 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var payload samplePayload
	err := decodeRequest(t, `{"email":"shopper@example.com","quantity":3,"role":"admin"}`, &payload)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	var payload samplePayload
	err := decodeRequest(t, `{"email":`, &payload)
	if err == nil {
		t.Fatal("expected error for malformed json")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyFieldErrorsUseJSONNames(t *testing.T) {
	var payload samplePayload
	err := decodeRequest(t, `{"email":"not-an-email","quantity":99}`, &payload)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if _, ok := details["email"]; !ok {
		t.Fatalf("expected email field error, got %v", details)
	}
	if _, ok := details["quantity"]; !ok {
		t.Fatalf("expected quantity field error, got %v", details)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=25", nil)
	got, err := ParseQueryInt(req, "limit", 20, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 25 {
		t.Fatalf("expected 25 got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	got, err = ParseQueryInt(req, "limit", 20, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 20 {
		t.Fatalf("expected default 20 got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	if _, err := ParseQueryInt(req, "limit", 20, 1, 100); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 100); got != "hello" {
		t.Fatalf("expected trimmed string got %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("expected clamp to 3 bytes got %q", got)
	}
}
