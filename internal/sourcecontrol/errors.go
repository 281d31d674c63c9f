package sourcecontrol

import (
	"errors"
)

// Kind classifies a synchronization failure. Every error returned by an
// OperationRunner operation either carries a Kind or is an internal error
// that callers should treat as unexpected.
type Kind string

const (
	// KindAuthenticationConfig indicates credential or connection setup
	// failed before any repository content was touched.
	KindAuthenticationConfig Kind = "authentication_config"
	// KindGitOperation indicates a transport-level git failure during
	// clone, push, or content hash lookup.
	KindGitOperation Kind = "git_operation"
	// KindNotFound indicates a requested application or configuration
	// file does not exist.
	KindNotFound Kind = "not_found"
	// KindInvalidConfig indicates a configuration file exists but could
	// not be decoded or failed validation.
	KindInvalidConfig Kind = "invalid_config"
	// KindInvalidPath indicates a computed file path escapes the
	// repository base directory or is not a regular file.
	KindInvalidPath Kind = "invalid_path"
	// KindNoChangesToPush indicates the working tree already matched the
	// requested state, so there was nothing to commit.
	KindNoChangesToPush Kind = "no_changes_to_push"
)

// Error is the uniform error type for synchronization operations. It wraps
// the underlying cause so callers can classify failures with KindOf or the
// Is* predicates without losing the original error chain.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewAuthenticationConfigError creates an error for credential or
// connection setup failures.
func NewAuthenticationConfigError(message string, err error) *Error {
	return &Error{Kind: KindAuthenticationConfig, Message: message, Err: err}
}

// NewGitOperationError creates an error for transport-level git failures.
func NewGitOperationError(message string, err error) *Error {
	return &Error{Kind: KindGitOperation, Message: message, Err: err}
}

// NewNotFoundError creates an error for missing applications or
// configuration files.
func NewNotFoundError(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

// NewInvalidConfigError creates an error for configuration files that
// exist but cannot be decoded or validated.
func NewInvalidConfigError(message string, err error) *Error {
	return &Error{Kind: KindInvalidConfig, Message: message, Err: err}
}

// NewInvalidPathError creates an error for file paths that escape the
// repository base directory or resolve to something other than a regular
// file.
func NewInvalidPathError(message string, err error) *Error {
	return &Error{Kind: KindInvalidPath, Message: message, Err: err}
}

// NewNoChangesToPushError creates an error for push requests that would
// produce an empty commit.
func NewNoChangesToPushError(message string, err error) *Error {
	return &Error{Kind: KindNoChangesToPush, Message: message, Err: err}
}

// ItemError attributes a failure to a single application inside a batch
// operation. MultiPull joins one ItemError per failed item so callers can
// report which applications failed while the rest of the batch succeeded.
type ItemError struct {
	Name string
	Err  error
}

func (e *ItemError) Error() string {
	return "application " + e.Name + ": " + e.Err.Error()
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first classified error in err's chain, or
// the empty string when the chain contains no classified error.
func KindOf(err error) Kind {
	var scErr *Error
	if errors.As(err, &scErr) {
		return scErr.Kind
	}
	return ""
}

// IsAuthenticationConfig reports whether err is classified as an
// authentication or connection setup failure.
func IsAuthenticationConfig(err error) bool {
	return KindOf(err) == KindAuthenticationConfig
}

// IsGitOperation reports whether err is classified as a transport-level
// git failure.
func IsGitOperation(err error) bool {
	return KindOf(err) == KindGitOperation
}

// IsNotFound reports whether err is classified as a missing application
// or configuration file.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsInvalidConfig reports whether err is classified as an undecodable or
// invalid configuration file.
func IsInvalidConfig(err error) bool {
	return KindOf(err) == KindInvalidConfig
}

// IsInvalidPath reports whether err is classified as a path validation
// failure.
func IsInvalidPath(err error) bool {
	return KindOf(err) == KindInvalidPath
}

// IsNoChangesToPush reports whether err is classified as an empty push.
func IsNoChangesToPush(err error) bool {
	return KindOf(err) == KindNoChangesToPush
}
