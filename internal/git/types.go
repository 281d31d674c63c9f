package git

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

var (
	// ErrNoChangesToPush is returned by CommitAndPush when staging the
	// requested files leaves the working tree clean.
	ErrNoChangesToPush = errors.New("no changes to push")
	// ErrFileNotFound is returned by FileHash when the path is not
	// tracked in the commit's tree.
	ErrFileNotFound = errors.New("file not found in commit tree")
	// ErrNotCloned is returned by operations that require CloneRemote to
	// have been called first.
	ErrNotCloned = errors.New("repository not cloned")
)

// BasicAuth carries token credentials for HTTPS remotes. A nil BasicAuth
// means anonymous access.
type BasicAuth struct {
	Username string
	Token    string
}

// RemoteConfig describes the remote repository a namespace synchronizes
// against. PathPrefix is the slash-separated directory inside the
// repository that holds configuration files, empty for the root.
type RemoteConfig struct {
	URL        string
	Branch     string
	PathPrefix string
	Auth       *BasicAuth
}

// Validate checks that the remote configuration is complete enough to
// clone.
func (c *RemoteConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("repository URL is required")
	}
	if c.Branch == "" {
		return fmt.Errorf("repository branch is required")
	}
	if c.PathPrefix != "" && !filepath.IsLocal(c.PathPrefix) {
		return fmt.Errorf("invalid path prefix %q: must stay inside the repository", c.PathPrefix)
	}
	return nil
}

// CommitMeta describes the authorship and message of a synchronization
// commit.
type CommitMeta struct {
	AuthorName  string
	AuthorEmail string
	Message     string
}

// Validate checks that the commit metadata is complete.
func (m *CommitMeta) Validate() error {
	if m.AuthorName == "" {
		return fmt.Errorf("commit author name is required")
	}
	if m.AuthorEmail == "" {
		return fmt.Errorf("commit author email is required")
	}
	if m.Message == "" {
		return fmt.Errorf("commit message is required")
	}
	return nil
}

// CommittedFile reports the blob hash a file received in a synchronization
// commit.
type CommittedFile struct {
	Path string
	Hash string
}

// IsAuthenticationError reports whether err is an authentication or
// authorization failure surfaced by the git transport.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, transport.ErrAuthenticationRequired) ||
		errors.Is(err, transport.ErrAuthorizationFailed) ||
		errors.Is(err, transport.ErrInvalidAuthMethod)
}
