package httpx

import (
	"github.com/sundayezeilo/brandcatalog/internal/errx"
)

// ErrorKindToCode maps errx.Kind to the code field of JSON error responses.
// Catalog endpoints answer every failure with 500, so the code is what lets
// a client tell a rejected request from an upstream outage.
func ErrorKindToCode(kind errx.Kind) string {
	switch kind {
	case errx.Invalid:
		return "invalid_input"
	case errx.NotFound:
		return "not_found"
	case errx.Conflict:
		return "conflict"
	case errx.Unavailable:
		return "upstream_unavailable"
	default:
		return "internal_error"
	}
}
