// Package errors provides the classified error primitives used across blogkit.
//
// Every stage that can abort a run returns a ClassifiedError so the CLI can
// pick an exit code and decide how loudly to report it. Best-effort asset
// stages log per-file failures and only surface setup problems this way.
//
// Key features:
//   - ErrorCategory: broad classification (config, image, content, git, update, ...)
//   - ErrorSeverity: impact level (fatal, error, warning)
//   - RetryStrategy: whether a caller may try again
//   - ErrorBuilder: fluent construction with context and cause
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.ImageError("resize failed").
//		WithContext("path", src).
//		WithCause(decodeErr).
//		Build()
package errors
