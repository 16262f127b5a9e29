package apierr

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	cases := []struct {
		err  *Error
		want string
	}{
		{Unavailable("progress_store_unavailable", cause), "progress_store_unavailable: dial tcp: refused"},
		{New(http.StatusNotFound, "", cause), "dial tcp: refused"},
		{BadRequest("invalid_format", nil), "invalid_format"},
		{New(http.StatusTeapot, "", nil), "api error (418)"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error() = %q, want %q", got, tc.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	var err error = Unavailable("x", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost")
	}
	var ae *Error
	if !errors.As(err, &ae) || ae.Status != http.StatusServiceUnavailable {
		t.Fatalf("status = %+v", ae)
	}
}
