package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"bare", New(ErrCodeInvalidKind, "unknown kind %q", "spur"), `INVALID_KIND: unknown kind "spur"`},
		{"wrapped", Wrap(ErrCodeInvalidInput, errors.New("eof"), "decode %s", "a.toml"), "INVALID_INPUT: decode a.toml: eof"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	cause := errors.New("eof")
	if err := Wrap(ErrCodeInternal, cause, "x"); !errors.Is(err, cause) || errors.Unwrap(err) != cause {
		t.Error("Wrap should keep the cause reachable")
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		err  error
		want Class
	}{
		{New(ErrCodeInvalidElement, "x"), ClassValidation},
		{New(ErrCodeInvalidConfig, "x"), ClassValidation},
		{New(ErrCodeSessionNotFound, "x"), ClassNotFound},
		{New(ErrCodeFileNotFound, "x"), ClassNotFound},
		{New(ErrCodeUnsupported, "x"), ClassUnsupported},
		{New(ErrCodeUnavailable, "x"), ClassUnavailable},
		{New(ErrCodeInternal, "x"), ClassInternal},
		{New("SOMETHING_ELSE", "x"), ClassInternal},
		{errors.New("plain"), ClassInternal},
		{nil, ClassInternal},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.err), func(t *testing.T) {
			if got := ClassOf(tt.err); got != tt.want {
				t.Errorf("ClassOf() = %s, want %s", got, tt.want)
			}
			if IsValidation(tt.err) != (tt.want == ClassValidation) {
				t.Error("IsValidation disagrees with ClassOf")
			}
			if IsNotFound(tt.err) != (tt.want == ClassNotFound) {
				t.Error("IsNotFound disagrees with ClassOf")
			}
			if IsUnavailable(tt.err) != (tt.want == ClassUnavailable) {
				t.Error("IsUnavailable disagrees with ClassOf")
			}
		})
	}
}

func TestIsAndGetCode(t *testing.T) {
	outer := Wrap(ErrCodeInternal, New(ErrCodeInvalidInput, "inner"), "outer")
	if !Is(outer, ErrCodeInternal) || Is(outer, ErrCodeInvalidInput) {
		t.Error("Is should match the outermost code only")
	}
	if Is(nil, "") || Is(errors.New("plain"), "") {
		t.Error("an empty code never matches")
	}
	plainWrapped := fmt.Errorf("ctx: %w", New(ErrCodeInvalidKind, "x"))
	if GetCode(plainWrapped) != ErrCodeInvalidKind {
		t.Errorf("GetCode through fmt wrapping = %q", GetCode(plainWrapped))
	}
}

func TestAnnotate(t *testing.T) {
	if Annotate(nil, "element %d", 1) != nil {
		t.Fatal("Annotate(nil) should be nil")
	}

	err := Annotate(Annotate(New(ErrCodeInvalidKind, "unknown kind %q", "spur"), "variant %d", 2), "element %d", 3)
	if GetCode(err) != ErrCodeInvalidKind {
		t.Errorf("code = %q, want INVALID_KIND", GetCode(err))
	}
	if got, want := UserMessage(err), `element 3: variant 2: unknown kind "spur"`; got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}

	if got := GetCode(Annotate(errors.New("disk"), "write")); got != ErrCodeInternal {
		t.Errorf("plain cause code = %q, want INTERNAL_ERROR", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain", errors.New("plain error"), "plain error"},
		{"plain cause", Wrap(ErrCodeInvalidConfig, errors.New("line 3"), "decode tuning.toml"), "decode tuning.toml: line 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"interrupted", fmt.Errorf("layout: %w", context.Canceled), ExitInterrupted},
		{"invalid definition", Annotate(New(ErrCodeInvalidElement, "x"), "gearbox.toml"), ExitInvalid},
		{"missing file", New(ErrCodeFileNotFound, "x"), ExitFailure},
		{"plain", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
