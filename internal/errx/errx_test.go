package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestE(t *testing.T) {
	t.Run("returns nil when error is nil", func(t *testing.T) {
		if got := E("op", NotFound, nil); got != nil {
			t.Errorf("E() with nil error = %v, want nil", got)
		}
	})

	t.Run("constructs Error with all fields", func(t *testing.T) {
		root := errors.New("brand missing")
		err := E("catalog.Apply", NotFound, root)

		var e *Error
		if !errors.As(err, &e) {
			t.Fatal("expected error to be of type *errx.Error")
		}
		if got, want := e.Op, "catalog.Apply"; got != want {
			t.Errorf("Op = %q, want %q", got, want)
		}
		if got, want := e.Kind, NotFound; got != want {
			t.Errorf("Kind = %v, want %v", got, want)
		}
		if !errors.Is(e.Err, root) {
			t.Errorf("Err = %v, want %v", e.Err, root)
		}
	})

	t.Run("preserves all error kinds", func(t *testing.T) {
		kinds := []Kind{Unknown, Invalid, NotFound, Conflict, Unavailable, Internal}
		root := errors.New("test error")

		for _, kind := range kinds {
			t.Run(kind.String(), func(t *testing.T) {
				if got := KindOf(E("operation", kind, root)); got != kind {
					t.Errorf("KindOf() = %v, want %v", got, kind)
				}
			})
		}
	})
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "nil inner error returns op",
			err:  &Error{Op: "store.Commit.Fetch", Kind: Unavailable},
			want: "store.Commit.Fetch",
		},
		{
			name: "empty op returns inner error message",
			err:  &Error{Kind: Unknown, Err: errors.New("root cause")},
			want: "root cause",
		},
		{
			name: "formats op and error",
			err:  &Error{Op: "store.Commit.Publish", Kind: Conflict, Err: errors.New("sha mismatch")},
			want: "store.Commit.Publish: sha mismatch",
		},
		{
			name: "both empty returns empty op",
			err:  &Error{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	t.Run("supports nested wrapping", func(t *testing.T) {
		root := errors.New("connection reset")
		layer1 := E("github.Client.GetContents", Unavailable, root)
		layer2 := E("store.Commit.Fetch", KindOf(layer1), layer1)
		layer3 := E("catalog.Service.Apply", KindOf(layer2), layer2)

		if !errors.Is(layer3, root) {
			t.Error("errors.Is() failed with nested errors")
		}
	})

	t.Run("returns nil when Err is nil", func(t *testing.T) {
		err := &Error{Op: "test"}
		if unwrapped := err.Unwrap(); unwrapped != nil {
			t.Errorf("Unwrap() = %v, want nil", unwrapped)
		}
	})
}

func TestKindOf(t *testing.T) {
	t.Run("returns Unknown for standard and nil errors", func(t *testing.T) {
		if got := KindOf(errors.New("plain")); got != Unknown {
			t.Errorf("KindOf() = %v, want %v", got, Unknown)
		}
		if got := KindOf(nil); got != Unknown {
			t.Errorf("KindOf(nil) = %v, want %v", got, Unknown)
		}
	})

	t.Run("finds kind through fmt.Errorf wrapping", func(t *testing.T) {
		err := fmt.Errorf("context: %w", E("operation", Conflict, errors.New("stale")))
		if got := KindOf(err); got != Conflict {
			t.Errorf("KindOf() = %v, want %v", got, Conflict)
		}
	})
}

func TestOpOf(t *testing.T) {
	t.Run("returns empty for standard error", func(t *testing.T) {
		if got := OpOf(errors.New("plain")); got != "" {
			t.Errorf("OpOf() = %q, want empty string", got)
		}
	})

	t.Run("extracts outermost op from chain", func(t *testing.T) {
		inner := E("netlify.Client.CreateDeploy", Unavailable, errors.New("502"))
		outer := E("store.Redeploy.Publish", KindOf(inner), inner)

		if got, want := OpOf(outer), "store.Redeploy.Publish"; got != want {
			t.Errorf("OpOf() = %q, want %q", got, want)
		}
	})
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Unknown, "Unknown"},
		{Invalid, "Invalid"},
		{NotFound, "NotFound"},
		{Conflict, "Conflict"},
		{Unavailable, "Unavailable"},
		{Internal, "Internal"},
		{Kind(99), "Kind(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}
