package errors

import (
	"maps"
	"slices"
)

// ErrorCategory groups errors by the part of blogkit that raised them. The
// CLI maps each category to an exit code.
type ErrorCategory string

const (
	// User input and project layout.
	CategoryConfig        ErrorCategory = "config"
	CategoryValidation    ErrorCategory = "validation"
	CategoryNotFound      ErrorCategory = "not_found"
	CategoryAlreadyExists ErrorCategory = "already_exists"

	// Asset and content stages.
	CategoryContent    ErrorCategory = "content"
	CategoryImage      ErrorCategory = "image"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Template source.
	CategoryGit     ErrorCategory = "git"
	CategoryNetwork ErrorCategory = "network"
	CategoryUpdate  ErrorCategory = "update"

	CategoryVerification ErrorCategory = "verification"
	CategoryRuntime      ErrorCategory = "runtime"
	CategoryInternal     ErrorCategory = "internal"
)

// ErrorSeverity is how far an error propagates.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // aborts the command
	SeverityError   ErrorSeverity = "error"   // fails the current stage
	SeverityWarning ErrorSeverity = "warning" // reported, run continues
)

// RetryStrategy tells callers whether repeating the operation can help.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user"
)

// HintKey is the context key holding a suggestion shown to the user.
const HintKey = "hint"

// ErrorContext carries key/value details rendered after the message.
type ErrorContext map[string]any

// Set stores value under key, allocating the map when needed.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = ErrorContext{}
	}
	c[key] = value
	return c
}

func (c ErrorContext) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// GetString returns the value for key when it is a string.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// Merge returns a new context with other's entries over c's.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	out := make(ErrorContext, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}

func (c ErrorContext) keys() []string {
	return slices.Sorted(maps.Keys(c))
}
