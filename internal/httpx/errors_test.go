package httpx

import (
	"testing"

	"github.com/sundayezeilo/brandcatalog/internal/errx"
)

func TestErrorKindToCode(t *testing.T) {
	tests := []struct {
		kind errx.Kind
		want string
	}{
		{errx.Invalid, "invalid_input"},
		{errx.NotFound, "not_found"},
		{errx.Conflict, "conflict"},
		{errx.Unavailable, "upstream_unavailable"},
		{errx.Internal, "internal_error"},
		{errx.Unknown, "internal_error"},
		{errx.Kind(42), "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := ErrorKindToCode(tt.kind); got != tt.want {
				t.Errorf("ErrorKindToCode(%v) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}
