package errors_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	stepwiseerrors "github.com/chazuruo/stepwise/internal/errors"
)

// TestBaseErrors verifies that all base error types have correct messages.
func TestBaseErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrNotFound", stepwiseerrors.ErrNotFound, "not found"},
		{"ErrInvalid", stepwiseerrors.ErrInvalid, "invalid"},
		{"ErrAmbiguous", stepwiseerrors.ErrAmbiguous, "ambiguous"},
		{"ErrIO", stepwiseerrors.ErrIO, "I/O error"},
		{"ErrCanceled", stepwiseerrors.ErrCanceled, "canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestTemplateError verifies TemplateError formatting and unwrapping.
func TestTemplateError(t *testing.T) {
	tests := []struct {
		name string
		err  *stepwiseerrors.TemplateError
		want string
	}{
		{
			name: "with content",
			err:  &stepwiseerrors.TemplateError{Op: "new", Err: stepwiseerrors.ErrInvalid, Content: "I have $count"},
			want: `template new "I have $count": invalid`,
		},
		{
			name: "without content",
			err:  &stepwiseerrors.TemplateError{Op: "new", Err: fmt.Errorf("content cannot be nil")},
			want: "template new: content cannot be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("Unwrap returns original error", func(t *testing.T) {
		wrapped := &stepwiseerrors.TemplateError{Op: "new", Err: stepwiseerrors.ErrInvalid}
		if !errors.Is(wrapped, stepwiseerrors.ErrInvalid) {
			t.Error("Unwrap() did not return the original error for errors.Is")
		}
	})
}

// TestStepError verifies StepError formatting and unwrapping.
func TestStepError(t *testing.T) {
	tests := []struct {
		name string
		err  *stepwiseerrors.StepError
		want string
	}{
		{
			name: "with text",
			err:  &stepwiseerrors.StepError{Op: "resolve", Err: stepwiseerrors.ErrNotFound, Text: "I have 5 cucumbers"},
			want: `step resolve "I have 5 cucumbers": not found`,
		},
		{
			name: "without text",
			err:  &stepwiseerrors.StepError{Op: "complete", Err: stepwiseerrors.ErrInvalid},
			want: "step complete: invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("Unwrap returns original error", func(t *testing.T) {
		wrapped := &stepwiseerrors.StepError{Op: "resolve", Err: stepwiseerrors.ErrNotFound}
		if !stepwiseerrors.IsNotFound(wrapped) {
			t.Error("IsNotFound() = false for wrapped ErrNotFound")
		}
	})
}

// TestCatalogError verifies CatalogError formatting and unwrapping.
func TestCatalogError(t *testing.T) {
	tests := []struct {
		name string
		err  *stepwiseerrors.CatalogError
		want string
	}{
		{
			name: "with path",
			err:  &stepwiseerrors.CatalogError{Path: "cart.steps.yaml", Err: os.ErrNotExist},
			want: "catalog cart.steps.yaml: file does not exist",
		},
		{
			name: "without path",
			err:  &stepwiseerrors.CatalogError{Err: stepwiseerrors.ErrInvalid},
			want: "catalog: invalid",
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

// TestConfigError verifies ConfigError formatting and unwrapping.
func TestConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *stepwiseerrors.ConfigError
		want string
	}{
		{
			name: "with path",
			err:  &stepwiseerrors.ConfigError{Path: "/home/user/.config/stepwise/config.toml", Err: stepwiseerrors.ErrInvalid},
			want: "config /home/user/.config/stepwise/config.toml: invalid",
		},
		{
			name: "without path",
			err:  &stepwiseerrors.ConfigError{Err: stepwiseerrors.ErrNotFound},
			want: "config: not found",
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

// TestWrap verifies Wrap adds context while preserving the chain.
func TestWrap(t *testing.T) {
	err := stepwiseerrors.Wrap(stepwiseerrors.ErrIO, "loadCatalog")
	if got, want := err.Error(), "loadCatalog: I/O error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stepwiseerrors.IsIO(err) {
		t.Error("IsIO() = false for wrapped ErrIO")
	}
}

// TestIsHelpers verifies all Is* helpers through nested wrapping.
func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"IsNotFound", stepwiseerrors.ErrNotFound, stepwiseerrors.IsNotFound},
		{"IsInvalid", stepwiseerrors.ErrInvalid, stepwiseerrors.IsInvalid},
		{"IsAmbiguous", stepwiseerrors.ErrAmbiguous, stepwiseerrors.IsAmbiguous},
		{"IsIO", stepwiseerrors.ErrIO, stepwiseerrors.IsIO},
		{"IsCanceled", stepwiseerrors.ErrCanceled, stepwiseerrors.IsCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nested := fmt.Errorf("outer: %w", stepwiseerrors.Wrap(tt.err, "inner"))
			if !tt.check(nested) {
				t.Errorf("%s() = false for nested error", tt.name)
			}
			if tt.check(fmt.Errorf("unrelated")) {
				t.Errorf("%s() = true for unrelated error", tt.name)
			}
		})
	}
}

// TestAsHelpers verifies As* helpers extract typed errors.
func TestAsHelpers(t *testing.T) {
	t.Run("AsTemplateError", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", &stepwiseerrors.TemplateError{Op: "new", Err: stepwiseerrors.ErrInvalid})
		te, ok := stepwiseerrors.AsTemplateError(err)
		if !ok || te.Op != "new" {
			t.Errorf("AsTemplateError() = %v, %v", te, ok)
		}
	})

	t.Run("AsStepError", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", &stepwiseerrors.StepError{Op: "resolve", Err: stepwiseerrors.ErrNotFound})
		se, ok := stepwiseerrors.AsStepError(err)
		if !ok || se.Op != "resolve" {
			t.Errorf("AsStepError() = %v, %v", se, ok)
		}
	})

	t.Run("AsCatalogError", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", &stepwiseerrors.CatalogError{Path: "a.yaml", Err: stepwiseerrors.ErrIO})
		ce, ok := stepwiseerrors.AsCatalogError(err)
		if !ok || ce.Path != "a.yaml" {
			t.Errorf("AsCatalogError() = %v, %v", ce, ok)
		}
	})

	t.Run("AsConfigError", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", &stepwiseerrors.ConfigError{Path: "c.toml", Err: stepwiseerrors.ErrInvalid})
		ce, ok := stepwiseerrors.AsConfigError(err)
		if !ok || ce.Path != "c.toml" {
			t.Errorf("AsConfigError() = %v, %v", ce, ok)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, ok := stepwiseerrors.AsStepError(stepwiseerrors.ErrNotFound); ok {
			t.Error("AsStepError() = true for sentinel error")
		}
	})
}
