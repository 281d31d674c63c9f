// Package git provides test helpers for exercising synchronization flows
// against real Git repositories.
//
// Helpers create bare repositories on the local filesystem, seeded with an
// initial commit on branch main. A bare repository path works as a remote
// URL for clone and push operations, so tests cover the full clone,
// commit, and push cycle without network access.
package git
