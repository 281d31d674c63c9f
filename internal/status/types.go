// Package status persists the last synchronization outcome for each
// namespace and application.
package status

import "time"

// Operation names the kind of synchronization that produced a status
// entry.
type Operation string

const (
	OperationPush Operation = "push"
	OperationPull Operation = "pull"
)

// Record describes one application touched by a synchronization
// operation.
type Record struct {
	Name     string
	Version  string
	FileHash string
}

// AppStatus is the persisted synchronization state of one application.
// Version and FileHash track the most recent operation, while
// LatestVersion is the highest version ever synchronized and never moves
// backwards.
type AppStatus struct {
	Name          string    `json:"name"`
	Version       string    `json:"version,omitempty"`
	LatestVersion string    `json:"latestVersion,omitempty"`
	FileHash      string    `json:"fileHash,omitempty"`
	Operation     Operation `json:"operation"`
	SyncedAt      time.Time `json:"syncedAt"`
}

// NamespaceStatus aggregates the synchronization state of one namespace.
type NamespaceStatus struct {
	Namespace     string               `json:"namespace"`
	LastOperation Operation            `json:"lastOperation,omitempty"`
	LastSyncedAt  *time.Time           `json:"lastSyncedAt,omitempty"`
	Apps          map[string]AppStatus `json:"apps,omitempty"`
}
