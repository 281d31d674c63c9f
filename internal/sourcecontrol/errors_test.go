package sourcecontrol

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      NewNotFoundError("application not found", nil),
			expected: "application not found",
		},
		{
			name:     "message with cause",
			err:      NewGitOperationError("failed to clone repository", errors.New("connection refused")),
			expected: "failed to clone repository: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")
	err := NewAuthenticationConfigError("failed to resolve credentials", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestItemError(t *testing.T) {
	t.Parallel()

	cause := NewNotFoundError("no configuration for application \"ghost\" in the repository", nil)
	err := &ItemError{Name: "ghost", Err: cause}

	assert.Equal(t, `application ghost: no configuration for application "ghost" in the repository`, err.Error())
	assert.Equal(t, KindNotFound, KindOf(err))

	joined := errors.Join(err, &ItemError{Name: "broken", Err: NewInvalidConfigError("bad json", nil)})
	var itemErr *ItemError
	require.ErrorAs(t, joined, &itemErr)
	assert.Equal(t, "ghost", itemErr.Name)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{
			name:     "classified error",
			err:      NewInvalidPathError("path escapes base directory", nil),
			expected: KindInvalidPath,
		},
		{
			name:     "wrapped classified error",
			err:      fmt.Errorf("push failed: %w", NewNoChangesToPushError("no changes to push", nil)),
			expected: KindNoChangesToPush,
		},
		{
			name:     "joined errors return first kind",
			err:      errors.Join(NewNotFoundError("missing", nil), NewInvalidConfigError("bad json", nil)),
			expected: KindNotFound,
		},
		{
			name:     "unclassified error",
			err:      errors.New("something else"),
			expected: "",
		},
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
		expected  bool
	}{
		{
			name:      "authentication config match",
			err:       NewAuthenticationConfigError("no token", nil),
			predicate: IsAuthenticationConfig,
			expected:  true,
		},
		{
			name:      "git operation match",
			err:       NewGitOperationError("push rejected", nil),
			predicate: IsGitOperation,
			expected:  true,
		},
		{
			name:      "not found match",
			err:       NewNotFoundError("missing", nil),
			predicate: IsNotFound,
			expected:  true,
		},
		{
			name:      "invalid config match",
			err:       NewInvalidConfigError("bad json", nil),
			predicate: IsInvalidConfig,
			expected:  true,
		},
		{
			name:      "invalid path match",
			err:       NewInvalidPathError("symlink", nil),
			predicate: IsInvalidPath,
			expected:  true,
		},
		{
			name:      "no changes match",
			err:       NewNoChangesToPushError("clean tree", nil),
			predicate: IsNoChangesToPush,
			expected:  true,
		},
		{
			name:      "kind mismatch",
			err:       NewNotFoundError("missing", nil),
			predicate: IsGitOperation,
			expected:  false,
		},
		{
			name:      "unclassified error",
			err:       errors.New("plain"),
			predicate: IsNotFound,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.predicate(tt.err))
		})
	}
}
