// Package errors provides structured error handling for the game data layer.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Table and index integrity errors
	CodeUnknownReference     Code = "UNKNOWN_REFERENCE"
	CodeConflictingReference Code = "CONFLICTING_REFERENCE"
	CodeDuplicateID          Code = "DUPLICATE_ID"
	CodeInvalidRecord        Code = "INVALID_RECORD"

	// Initialization errors
	CodeNotInitialized Code = "NOT_INITIALIZED"

	// Lookup errors
	CodeNotFound Code = "NOT_FOUND"

	// Locale errors
	CodeMissingLocaleKey   Code = "MISSING_LOCALE_KEY"
	CodeMissingPlaceholder Code = "MISSING_PLACEHOLDER"
	CodeUnsupportedLocale  Code = "UNSUPPORTED_LOCALE"
	CodeIncompleteLocale   Code = "INCOMPLETE_LOCALE"

	// Unlock errors
	CodeInvalidCondition Code = "INVALID_CONDITION"

	// Account errors
	CodeInvalidSessionToken Code = "INVALID_SESSION_TOKEN"
)

// IsConfiguration reports whether the code signals broken static data or a
// broken bootstrap sequence rather than a bad runtime input.
func (c Code) IsConfiguration() bool {
	switch c {
	case CodeUnknownReference,
		CodeConflictingReference,
		CodeDuplicateID,
		CodeInvalidRecord,
		CodeNotInitialized,
		CodeIncompleteLocale,
		CodeInvalidCondition:
		return true
	default:
		return false
	}
}
