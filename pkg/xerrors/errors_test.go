package xerrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{InvalidArg("bad"), http.StatusBadRequest},
		{Unauthenticated("who"), http.StatusUnauthorized},
		{PermissionDenied("no"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{AlreadyExists("dup"), http.StatusConflict},
		{Internal("boom", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.err.Type, got, tc.want)
		}
	}
}

func TestWrapPreservesType(t *testing.T) {
	base := NotFound("strategy not found")
	wrapped := Wrap(base, ErrInternal, "lookup failed")

	if wrapped.Type != ErrNotFound {
		t.Errorf("wrap must keep the original type, got %s", wrapped.Type)
	}
	if wrapped.Message != "lookup failed" {
		t.Errorf("message = %q", wrapped.Message)
	}
}

func TestWrapInternalPlainError(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := WrapInternal(cause, "db down")

	if wrapped.Type != ErrInternal {
		t.Errorf("type = %s, want Internal", wrapped.Type)
	}
	if !errors.Is(wrapped, cause) {
		t.Errorf("wrapped error must unwrap to cause")
	}
	if !IsType(wrapped, ErrInternal) {
		t.Errorf("IsType failed on wrapped error")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ErrInternal, "x") != nil {
		t.Errorf("Wrap(nil) must return nil")
	}
}
