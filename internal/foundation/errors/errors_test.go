package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("basic creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "blog.config.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		assert.Equal(t, "blog.config.yaml", file)
	})

	t.Run("detection", func(t *testing.T) {
		err := ConfigError("bad value").Build()

		_, ok := AsClassified(err)
		assert.True(t, ok)
		assert.True(t, HasCategory(err, CategoryConfig))
		assert.False(t, err.CanRetry())
		assert.True(t, err.IsFatal())
	})

	t.Run("error string is stable", func(t *testing.T) {
		err := ImageError("resize failed").
			WithContext("width", 400).
			WithContext("path", "public/a.jpg").
			WithCause(errors.New("bad header")).
			Build()

		assert.Equal(t, "[image:error] resize failed path=public/a.jpg width=400: bad header", err.Error())
	})
}

func TestErrorBuilder(t *testing.T) {
	original := errors.New("dial tcp: timeout")
	err := WrapError(original, CategoryNetwork, "fetch tags").
		WithSeverity(SeverityWarning).
		Retryable().
		WithContext("remote", "origin").
		Build()

	assert.Equal(t, CategoryNetwork, err.Category())
	assert.Equal(t, SeverityWarning, err.Severity())
	assert.Equal(t, RetryBackoff, err.RetryStrategy())
	assert.True(t, err.CanRetry())
	assert.ErrorIs(t, err, original)
	assert.Equal(t, original, errors.Unwrap(err))
}

func TestAsClassifiedThroughWrapping(t *testing.T) {
	inner := UpdateError("sync failed").Build()
	wrapped := fmt.Errorf("update: %w", inner)

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.Same(t, inner, got)
	assert.True(t, HasCategory(wrapped, CategoryUpdate))
	assert.Equal(t, SeverityFatal, got.Severity())

	_, ok = AsClassified(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, HasCategory(errors.New("plain"), CategoryInternal))
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := ContentError("missing title").WithContext("path", "a.md").Build()
	extended := base.WithContext("collection", "blog")

	_, ok := base.Context().Get("collection")
	assert.False(t, ok)
	v, ok := extended.Context().GetString("collection")
	require.True(t, ok)
	assert.Equal(t, "blog", v)
	path, _ := extended.Context().GetString("path")
	assert.Equal(t, "a.md", path)
}

func TestIsMatchesCategoryAndMessage(t *testing.T) {
	a := NotFoundError("config not found").Build()
	b := NotFoundError("config not found").WithContext("path", "x").Build()
	c := NotFoundError("other").Build()

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestErrorContextMerge(t *testing.T) {
	var empty ErrorContext
	other := ErrorContext{"a": 1}
	assert.Equal(t, other, empty.Merge(other))

	merged := ErrorContext{"a": 1, "b": 2}.Merge(ErrorContext{"b": 3})
	assert.Equal(t, ErrorContext{"a": 1, "b": 3}, merged)

	_, ok := empty.Get("a")
	assert.False(t, ok)

	ctx := ErrorContext{}.Set("n", 5)
	_, ok = ctx.GetString("n")
	assert.False(t, ok)
}

func TestConstructorDefaults(t *testing.T) {
	tests := []struct {
		name     string
		err      *ClassifiedError
		category ErrorCategory
		retry    bool
	}{
		{"validation", ValidationError("x").Build(), CategoryValidation, false},
		{"filesystem", FileSystemError("x").Build(), CategoryFileSystem, true},
		{"git", GitError("x").Build(), CategoryGit, true},
		{"verification", VerificationError("x").Build(), CategoryVerification, false},
		{"runtime", RuntimeError("x").Build(), CategoryRuntime, false},
		{"internal", InternalError("x").Build(), CategoryInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category())
			assert.Equal(t, tt.retry, tt.err.CanRetry())
		})
	}
}
