package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TestRemoteConfig contains configuration for creating a seeded remote repository
type TestRemoteConfig struct {
	Files  map[string]string // Map of slash-separated path to content
	Author *object.Signature // Author for the seed commit (uses default if nil)
}

// DefaultTestAuthor returns the commit author used when a config does not
// provide one
func DefaultTestAuthor() *object.Signature {
	return &object.Signature{
		Name:  "Test Author",
		Email: "test@example.com",
		When:  time.Now(),
	}
}

// CreateRemoteRepo creates a bare repository seeded with the given files in
// a single commit on branch main. The returned path works as a remote URL
// for clone and push operations, so tests run without network access.
func CreateRemoteRepo(t *testing.T, config TestRemoteConfig) string {
	t.Helper()

	remoteDir := t.TempDir()
	_, err := git.PlainInitWithOptions(remoteDir, &git.PlainInitOptions{
		Bare:        true,
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		t.Fatalf("Failed to init bare repository: %v", err)
	}

	seedRemoteRepo(t, remoteDir, config)
	return remoteDir
}

// seedRemoteRepo pushes one commit with the given files to branch main of a
// bare repository
func seedRemoteRepo(t *testing.T, remoteDir string, config TestRemoteConfig) {
	t.Helper()

	workDir := t.TempDir()
	repo, err := git.PlainInitWithOptions(workDir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		t.Fatalf("Failed to init work repository: %v", err)
	}

	workTree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	author := config.Author
	if author == nil {
		author = DefaultTestAuthor()
	}

	for filename, content := range config.Files {
		filePath := filepath.Join(workDir, filepath.FromSlash(filename))

		dir := filepath.Dir(filePath)
		if dir != workDir {
			if err := os.MkdirAll(dir, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", dir, err)
			}
		}

		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file %s: %v", filename, err)
		}

		if _, err := workTree.Add(filepath.ToSlash(filename)); err != nil {
			t.Fatalf("Failed to add file %s: %v", filename, err)
		}
	}

	_, err = workTree.Commit("Seed repository", &git.CommitOptions{
		Author:            author,
		AllowEmptyCommits: true,
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{remoteDir},
	}); err != nil {
		t.Fatalf("Failed to add remote: %v", err)
	}

	if err := repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{"refs/heads/main:refs/heads/main"},
	}); err != nil {
		t.Fatalf("Failed to push seed commit: %v", err)
	}
}

// RemoteHead returns the commit id at the tip of branch main
func RemoteHead(t *testing.T, remoteDir string) string {
	t.Helper()

	repo, err := git.PlainOpen(remoteDir)
	if err != nil {
		t.Fatalf("Failed to open repository %s: %v", remoteDir, err)
	}
	ref, err := repo.Reference(plumbing.Main, true)
	if err != nil {
		t.Fatalf("Failed to resolve branch main: %v", err)
	}
	return ref.Hash().String()
}

// RemoteFileContent returns the content of a file at the tip of branch main
func RemoteFileContent(t *testing.T, remoteDir, path string) string {
	t.Helper()

	repo, err := git.PlainOpen(remoteDir)
	if err != nil {
		t.Fatalf("Failed to open repository %s: %v", remoteDir, err)
	}
	ref, err := repo.Reference(plumbing.Main, true)
	if err != nil {
		t.Fatalf("Failed to resolve branch main: %v", err)
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		t.Fatalf("Failed to read head commit: %v", err)
	}
	file, err := commit.File(path)
	if err != nil {
		t.Fatalf("Failed to read %s at head: %v", path, err)
	}
	content, err := file.Contents()
	if err != nil {
		t.Fatalf("Failed to read contents of %s: %v", path, err)
	}
	return content
}

// RemoteCommitMessages returns the messages of all commits reachable from
// branch main, newest first
func RemoteCommitMessages(t *testing.T, remoteDir string) []string {
	t.Helper()

	repo, err := git.PlainOpen(remoteDir)
	if err != nil {
		t.Fatalf("Failed to open repository %s: %v", remoteDir, err)
	}
	ref, err := repo.Reference(plumbing.Main, true)
	if err != nil {
		t.Fatalf("Failed to resolve branch main: %v", err)
	}
	iter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		t.Fatalf("Failed to read commit log: %v", err)
	}
	defer iter.Close()

	var messages []string
	err = iter.ForEach(func(c *object.Commit) error {
		messages = append(messages, strings.TrimSpace(c.Message))
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to iterate commit log: %v", err)
	}
	return messages
}
