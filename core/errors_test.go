package core

import (
	"testing"

	"github.com/pkg/errors"
)

func TestErrorTaxonomy(t *testing.T) {
	authErr := AuthenticationError{Message: "bad credentials"}
	netErr := NetworkError{Op: "/auth/login", Err: errors.New("connection refused")}
	tokenErr := TokenDecodeError{Err: errors.New("bad segment")}

	if !IsAuthenticationError(authErr) {
		t.Error("IsAuthenticationError(authErr) = false")
	}
	if !IsAuthenticationError(errors.Wrap(authErr, "logging in")) {
		t.Error("IsAuthenticationError() = false for wrapped error")
	}
	if IsAuthenticationError(netErr) {
		t.Error("IsAuthenticationError(netErr) = true")
	}

	if !IsNetworkError(netErr) {
		t.Error("IsNetworkError(netErr) = false")
	}
	if !IsTokenDecodeError(tokenErr) {
		t.Error("IsTokenDecodeError(tokenErr) = false")
	}

	if (AuthenticationError{}).Error() == "" {
		t.Error("zero AuthenticationError has no message")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(errors.New("invalid input"), FieldError{Field: "userName", Error: "required"})

	vErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("NewValidationError() = %T, want *ValidationError", err)
	}
	if vErr.Error() != "invalid input" {
		t.Errorf("Error() = %q", vErr.Error())
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "userName" {
		t.Errorf("Fields = %+v", vErr.Fields)
	}
}
