package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := WithMetadata(CodeUnknownReference, "species 9999 is not defined", map[string]string{"id": "9999"})
	wrapped := fmt.Errorf("build prevolutions: %w", err)

	if !stderrors.Is(wrapped, New(CodeUnknownReference, "")) {
		t.Fatal("expected wrapped error to match by code")
	}
	if stderrors.Is(wrapped, New(CodeDuplicateID, "")) {
		t.Fatal("expected different code not to match")
	}
	if !HasCode(wrapped, CodeUnknownReference) {
		t.Fatal("expected HasCode to find the code")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("code = %s, want %s", got, CodeUnknown)
	}
	cause := stderrors.New("boom")
	err := fmt.Errorf("outer: %w", Wrap(CodeMissingLocaleKey, "missing", cause))
	if got := CodeOf(err); got != CodeMissingLocaleKey {
		t.Fatalf("code = %s, want %s", got, CodeMissingLocaleKey)
	}
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
}

func TestCodeIsConfiguration(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{CodeUnknownReference, true},
		{CodeNotInitialized, true},
		{CodeIncompleteLocale, true},
		{CodeMissingLocaleKey, false},
		{CodeNotFound, false},
		{CodeUnknown, false},
	}
	for _, tt := range tests {
		if got := tt.code.IsConfiguration(); got != tt.want {
			t.Fatalf("%s.IsConfiguration() = %v, want %v", tt.code, got, tt.want)
		}
	}
}
