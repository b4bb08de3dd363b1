package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromMapsTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing", fmt.Errorf("header: %w", ErrMissingCredential), http.StatusUnauthorized, "unauthorized"},
		{"invalid", fmt.Errorf("jwt: %w", ErrInvalidCredential), http.StatusUnauthorized, "unauthorized"},
		{"validation", Validation("password too short"), http.StatusBadRequest, "validation_error"},
		{"conflict", fmt.Errorf("email: %w", ErrConflict), http.StatusConflict, "conflict"},
		{"not_found", ErrNotFound, http.StatusNotFound, "not_found"},
		{"suggestion", fmt.Errorf("%w: timeout", ErrSuggestionUnavailable), http.StatusBadGateway, "suggestion_unavailable"},
		{"config", ErrConfiguration, http.StatusInternalServerError, "configuration_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		{"explicit", New(http.StatusTeapot, "teapot", nil), http.StatusTeapot, "teapot"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := From(tc.err)
			if got.Status != tc.status || got.Code != tc.code {
				t.Fatalf("From(%v)=(%d,%q), want (%d,%q)", tc.err, got.Status, got.Code, tc.status, tc.code)
			}
		})
	}
}

func TestValidationIsMatchable(t *testing.T) {
	err := Validation("missing %s", "ingredients.pantry")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is(ErrValidation)")
	}
	if err.Error() != "validation error: missing ingredients.pantry" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestPublic(t *testing.T) {
	if From(errors.New("db down")).Public() {
		t.Fatalf("internal errors must not be public")
	}
	if !From(ErrConflict).Public() {
		t.Fatalf("conflict should be public")
	}
}
