package catalog

import (
	"errors"
	"testing"

	"github.com/sundayezeilo/brandcatalog/internal/errx"
)

func TestValidator_Validate(t *testing.T) {
	redeploy := NewValidator()
	commit := NewValidator(TelegramHTTPS, TelegramHTTP)

	tests := []struct {
		name      string
		validator Validator
		req       Request
		want      Change
		wantCode  error
		wantMsg   string
	}{
		{
			name:      "add with https link",
			validator: redeploy,
			req:       Request{Action: "add", Category: "Shoes", Brand: "Acme", URL: "https://t.me/acme"},
			want:      Change{Action: ActionAdd, Category: "Shoes", Brand: "Acme", URL: "https://t.me/acme"},
		},
		{
			name:      "delete ignores url",
			validator: redeploy,
			req:       Request{Action: "delete", Category: "Shoes", Brand: "Acme", URL: "ftp://nope"},
			want:      Change{Action: ActionDelete, Category: "Shoes", Brand: "Acme"},
		},
		{
			name:      "commit accepts http link",
			validator: commit,
			req:       Request{Action: "add", Category: "Shoes", Brand: "Acme", URL: "http://t.me/acme"},
			want:      Change{Action: ActionAdd, Category: "Shoes", Brand: "Acme", URL: "http://t.me/acme"},
		},
		{
			name:      "redeploy rejects http link",
			validator: redeploy,
			req:       Request{Action: "add", Category: "Shoes", Brand: "Acme", URL: "http://t.me/acme"},
			wantCode:  ErrValidation,
			wantMsg:   `Invalid URL. It must start with "https://t.me/"`,
		},
		{
			name:      "commit lists both prefixes",
			validator: commit,
			req:       Request{Action: "add", Category: "Shoes", Brand: "Acme", URL: "https://example.com"},
			wantCode:  ErrValidation,
			wantMsg:   `Invalid URL. It must start with "https://t.me/" or "http://t.me/"`,
		},
		{
			name:      "missing brand",
			validator: redeploy,
			req:       Request{Action: "add", Category: "Shoes", URL: "https://t.me/acme"},
			wantCode:  ErrValidation,
			wantMsg:   "Missing required fields: action, category, or brand",
		},
		{
			name:      "missing action",
			validator: redeploy,
			req:       Request{Category: "Shoes", Brand: "Acme"},
			wantCode:  ErrValidation,
			wantMsg:   "Missing required fields: action, category, or brand",
		},
		{
			name:      "add without url",
			validator: redeploy,
			req:       Request{Action: "add", Category: "Shoes", Brand: "Acme"},
			wantCode:  ErrValidation,
			wantMsg:   "Missing required field: url",
		},
		{
			name:      "unknown action",
			validator: redeploy,
			req:       Request{Action: "rename", Category: "Shoes", Brand: "Acme"},
			wantCode:  ErrInvalidAction,
			wantMsg:   `Invalid action. Use "add" or "delete".`,
		},
		{
			name:      "action is case sensitive",
			validator: redeploy,
			req:       Request{Action: "ADD", Category: "Shoes", Brand: "Acme", URL: "https://t.me/acme"},
			wantCode:  ErrInvalidAction,
			wantMsg:   `Invalid action. Use "add" or "delete".`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.validator.Validate(tt.req)

			if tt.wantCode == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("Validate() = %+v, want %+v", got, tt.want)
				}
				return
			}

			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("error = %v, want %v", err, tt.wantCode)
			}
			if errx.KindOf(err) != errx.Invalid {
				t.Errorf("kind = %v, want Invalid", errx.KindOf(err))
			}
			if msg := MessageOf(err); msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}
