package catalog

import (
	"strconv"
	"strings"
)

// Accepted Telegram link prefixes.
const (
	TelegramHTTPS = "https://t.me/"
	TelegramHTTP  = "http://t.me/"
)

// Validator checks a Request before any backing store is touched.
type Validator struct {
	prefixes []string
}

// NewValidator returns a Validator accepting URLs with any of prefixes.
// With no prefixes it accepts only TelegramHTTPS.
func NewValidator(prefixes ...string) Validator {
	if len(prefixes) == 0 {
		prefixes = []string{TelegramHTTPS}
	}
	return Validator{prefixes: prefixes}
}

func (v Validator) Validate(req Request) (Change, error) {
	const op = "catalog.Validator.Validate"

	if req.Action == "" || req.Category == "" || req.Brand == "" {
		return Change{}, E(op, ErrValidation, "Missing required fields: action, category, or brand", nil)
	}

	switch Action(req.Action) {
	case ActionAdd:
		if req.URL == "" {
			return Change{}, E(op, ErrValidation, "Missing required field: url", nil)
		}
		if !v.accepts(req.URL) {
			return Change{}, E(op, ErrValidation, v.urlMessage(), nil)
		}
		return Change{Action: ActionAdd, Category: req.Category, Brand: req.Brand, URL: req.URL}, nil

	case ActionDelete:
		return Change{Action: ActionDelete, Category: req.Category, Brand: req.Brand}, nil

	default:
		return Change{}, E(op, ErrInvalidAction, `Invalid action. Use "add" or "delete".`, nil)
	}
}

func (v Validator) accepts(url string) bool {
	for _, p := range v.prefixes {
		if strings.HasPrefix(url, p) {
			return true
		}
	}
	return false
}

func (v Validator) urlMessage() string {
	quoted := make([]string, len(v.prefixes))
	for i, p := range v.prefixes {
		quoted[i] = strconv.Quote(p)
	}
	return "Invalid URL. It must start with " + strings.Join(quoted, " or ")
}
