// Package git manages scoped clones of remote configuration repositories.
// A Factory opens one Repository handle per synchronization operation; the
// handle owns an isolated working directory on disk and must be closed
// when the operation completes.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

const (
	defaultMaxCloneFiles = 10 * 1000
	defaultMaxCloneBytes = 100 * 1024 * 1024
)

//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks github.com/confsync/confsync/internal/git Factory,Repository

// Factory opens Repository handles scoped to a single synchronization
// operation.
type Factory interface {
	Open(ctx context.Context, namespace string, remote RemoteConfig) (Repository, error)
}

// Repository is a handle on one clone of a remote repository. Handles are
// not safe for concurrent use.
type Repository interface {
	// CloneRemote clones the configured branch into the handle's working
	// directory and returns the head commit id. Calling it again returns
	// the commit id of the existing clone.
	CloneRemote(ctx context.Context) (string, error)
	// RootPath returns the absolute path of the clone's working tree.
	RootPath() string
	// BasePath returns the absolute path of the configuration directory
	// inside the clone.
	BasePath() string
	// FileRelativePath returns the slash-separated path of fileName
	// relative to the repository root.
	FileRelativePath(fileName string) string
	// FileHash returns the git blob hash of relPath in the tree of
	// commitID. It returns ErrFileNotFound when the path is not tracked
	// at that commit.
	FileHash(relPath, commitID string) (string, error)
	// CommitAndPush stages relPaths, records them as a single commit,
	// and pushes the branch to the remote. The returned files are
	// ordered like relPaths. It returns ErrNoChangesToPush when staging
	// produced no changes.
	CommitAndPush(ctx context.Context, meta CommitMeta, relPaths []string) ([]CommittedFile, error)
	// Close removes the working directory.
	Close() error
}

// FactoryOption configures a Factory.
type FactoryOption func(*factory)

// WithWorkRoot sets the directory clones are created under. The default
// is the system temporary directory.
func WithWorkRoot(dir string) FactoryOption {
	return func(f *factory) {
		f.workRoot = dir
	}
}

// WithCloneLimits overrides the per-clone file count and total size
// limits. Zero values keep the defaults.
func WithCloneLimits(maxFiles, maxBytes int64) FactoryOption {
	return func(f *factory) {
		if maxFiles > 0 {
			f.maxFiles = maxFiles
		}
		if maxBytes > 0 {
			f.maxBytes = maxBytes
		}
	}
}

type factory struct {
	workRoot string
	maxFiles int64
	maxBytes int64
}

// NewFactory creates a Factory with the given options.
func NewFactory(opts ...FactoryOption) Factory {
	f := &factory{
		maxFiles: defaultMaxCloneFiles,
		maxBytes: defaultMaxCloneBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *factory) Open(_ context.Context, namespace string, remote RemoteConfig) (Repository, error) {
	if namespace == "" || !filepath.IsLocal(namespace) {
		return nil, fmt.Errorf("invalid namespace %q", namespace)
	}
	if err := remote.Validate(); err != nil {
		return nil, err
	}
	if f.workRoot != "" {
		if err := os.MkdirAll(f.workRoot, 0750); err != nil {
			return nil, fmt.Errorf("failed to create work root %s: %w", f.workRoot, err)
		}
	}
	dir, err := os.MkdirTemp(f.workRoot, "confsync-"+namespace+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	return &repository{
		namespace: namespace,
		remote:    remote,
		dir:       dir,
		maxFiles:  f.maxFiles,
		maxBytes:  f.maxBytes,
	}, nil
}

type repository struct {
	namespace string
	remote    RemoteConfig
	dir       string
	maxFiles  int64
	maxBytes  int64

	repo *git.Repository
	head plumbing.Hash
}

func (r *repository) CloneRemote(ctx context.Context) (string, error) {
	if r.repo != nil {
		return r.head.String(), nil
	}

	worktreeFs := &LimitedFs{
		Fs:            osfs.New(r.dir),
		MaxFiles:      r.maxFiles,
		TotalFileSize: r.maxBytes,
	}
	storerFs := &LimitedFs{
		Fs:            osfs.New(filepath.Join(r.dir, git.GitDirName)),
		MaxFiles:      r.maxFiles,
		TotalFileSize: r.maxBytes,
	}
	storer := filesystem.NewStorage(storerFs, cache.NewObjectLRUDefault())

	opts := &git.CloneOptions{
		URL:           r.remote.URL,
		ReferenceName: plumbing.NewBranchReferenceName(r.remote.Branch),
		SingleBranch:  true,
	}
	if auth := r.transportAuth(); auth != nil {
		opts.Auth = auth
	}

	repo, err := git.CloneContext(ctx, storer, worktreeFs, opts)
	if err != nil {
		return "", fmt.Errorf("failed to clone %s: %w", r.remote.URL, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD after clone: %w", err)
	}

	r.repo = repo
	r.head = head.Hash()
	return r.head.String(), nil
}

func (r *repository) RootPath() string {
	return r.dir
}

func (r *repository) BasePath() string {
	return filepath.Join(r.dir, filepath.FromSlash(r.remote.PathPrefix))
}

// FileRelativePath joins without cleaning so that traversal segments in
// fileName survive for path validation instead of being silently
// collapsed.
func (r *repository) FileRelativePath(fileName string) string {
	prefix := strings.TrimSuffix(r.remote.PathPrefix, "/")
	if prefix == "" {
		return fileName
	}
	return prefix + "/" + fileName
}

func (r *repository) FileHash(relPath, commitID string) (string, error) {
	if r.repo == nil {
		return "", ErrNotCloned
	}
	commit, err := r.repo.CommitObject(plumbing.NewHash(commitID))
	if err != nil {
		return "", fmt.Errorf("failed to resolve commit %s: %w", commitID, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("failed to read tree of commit %s: %w", commitID, err)
	}
	entry, err := tree.File(path.Clean(filepath.ToSlash(relPath)))
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", fmt.Errorf("%s at commit %s: %w", relPath, commitID, ErrFileNotFound)
		}
		return "", fmt.Errorf("failed to look up %s at commit %s: %w", relPath, commitID, err)
	}
	return entry.Hash.String(), nil
}

func (r *repository) CommitAndPush(ctx context.Context, meta CommitMeta, relPaths []string) ([]CommittedFile, error) {
	if r.repo == nil {
		return nil, ErrNotCloned
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	for _, relPath := range relPaths {
		if _, err := wt.Add(filepath.ToSlash(relPath)); err != nil {
			return nil, fmt.Errorf("failed to stage %s: %w", relPath, err)
		}
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read worktree status: %w", err)
	}
	if status.IsClean() {
		return nil, ErrNoChangesToPush
	}

	commitHash, err := wt.Commit(meta.Message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  meta.AuthorName,
			Email: meta.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	pushOpts := &git.PushOptions{RemoteName: git.DefaultRemoteName}
	if auth := r.transportAuth(); auth != nil {
		pushOpts.Auth = auth
	}
	if err := r.repo.PushContext(ctx, pushOpts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, fmt.Errorf("failed to push to %s: %w", r.remote.URL, err)
	}
	r.head = commitHash

	commit, err := r.repo.CommitObject(commitHash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", commitHash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of commit %s: %w", commitHash, err)
	}
	committed := make([]CommittedFile, 0, len(relPaths))
	for _, relPath := range relPaths {
		entry, err := tree.File(filepath.ToSlash(relPath))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve hash for %s: %w", relPath, err)
		}
		committed = append(committed, CommittedFile{Path: relPath, Hash: entry.Hash.String()})
	}
	return committed, nil
}

func (r *repository) Close() error {
	r.repo = nil
	if r.dir == "" {
		return nil
	}
	if err := os.RemoveAll(r.dir); err != nil {
		return fmt.Errorf("failed to remove work directory %s: %w", r.dir, err)
	}
	r.dir = ""
	return nil
}

func (r *repository) transportAuth() transport.AuthMethod {
	if r.remote.Auth == nil || r.remote.Auth.Token == "" {
		return nil
	}
	username := r.remote.Auth.Username
	if username == "" {
		username = "git"
	}
	return &githttp.BasicAuth{Username: username, Password: r.remote.Auth.Token}
}
