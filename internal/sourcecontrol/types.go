package sourcecontrol

import (
	"github.com/confsync/confsync/internal/appconfig"
	"github.com/confsync/confsync/internal/git"
)

// PushRequest asks for one application's configuration to be written to
// the namespace's repository.
type PushRequest struct {
	Namespace string
	Repo      git.RemoteConfig
	Meta      git.CommitMeta
	App       *appconfig.AppConfig
}

// MultiPushRequest asks for the named applications' stored configurations
// to be written to the namespace's repository in one commit.
type MultiPushRequest struct {
	Namespace string
	Repo      git.RemoteConfig
	Meta      git.CommitMeta
	Names     []string
}

// PullRequest asks for one application's configuration to be read from
// the namespace's repository.
type PullRequest struct {
	Namespace string
	Repo      git.RemoteConfig
	Name      string
}

// MultiPullRequest asks for the named applications' configurations to be
// read from one clone of the namespace's repository.
type MultiPullRequest struct {
	Namespace string
	Repo      git.RemoteConfig
	Names     []string
}

// ListRequest asks for the applications whose configuration files the
// namespace's repository tracks.
type ListRequest struct {
	Namespace string
	Repo      git.RemoteConfig
}

// PushResult reports the outcome of pushing one application's
// configuration. FileHash is the git blob hash the file has in the
// synchronization commit.
type PushResult struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	FileHash string `json:"fileHash"`
}

// PullResult carries one pulled configuration together with the blob hash
// git reports for its file at the pulled commit.
type PullResult struct {
	Name     string               `json:"name"`
	FileHash string               `json:"fileHash"`
	Config   *appconfig.AppConfig `json:"config"`
}

// ListedApp is one entry in a repository listing.
type ListedApp struct {
	Name     string `json:"name"`
	FileHash string `json:"fileHash"`
}

// PullSink consumes pulled configurations as they become available. An
// error from the sink aborts the remaining batch.
type PullSink func(*PullResult) error
