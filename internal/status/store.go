package status

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/confsync/confsync/internal/versions"
)

const (
	statusFileName = "status.json"
	lockRetryDelay = 100 * time.Millisecond
)

// Store persists and retrieves namespace synchronization status.
type Store interface {
	// RecordSync updates the status of a namespace after a successful
	// synchronization operation.
	RecordSync(ctx context.Context, namespace string, op Operation, records []Record) error
	// Load returns the status of a namespace. A namespace that has never
	// synchronized yields an empty status, not an error.
	Load(ctx context.Context, namespace string) (*NamespaceStatus, error)
	// LoadAll returns the status of every namespace that has one,
	// skipping entries that cannot be read.
	LoadAll(ctx context.Context) (map[string]*NamespaceStatus, error)
}

type fileStore struct {
	basePath string
}

// NewFileStore creates a Store backed by one JSON file per namespace
// under basePath. Updates are serialized with a file lock and written
// atomically.
func NewFileStore(basePath string) Store {
	return &fileStore{basePath: basePath}
}

func (s *fileStore) statusPath(namespace string) (string, error) {
	if namespace == "" || !filepath.IsLocal(namespace) {
		return "", fmt.Errorf("invalid namespace %q", namespace)
	}
	return filepath.Join(s.basePath, namespace, statusFileName), nil
}

func (s *fileStore) RecordSync(ctx context.Context, namespace string, op Operation, records []Record) error {
	path, err := s.statusPath(namespace)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create status directory for namespace %q: %w", namespace, err)
	}

	fileLock := flock.New(path + ".lock")
	locked, err := fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire status lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire status lock")
	}
	defer func() { _ = fileLock.Unlock() }()

	current, err := loadStatusFile(path, namespace)
	if err != nil {
		return err
	}
	if current.Apps == nil {
		current.Apps = make(map[string]AppStatus, len(records))
	}

	now := time.Now().UTC()
	for _, record := range records {
		latest := current.Apps[record.Name].LatestVersion
		if record.Version != "" && (latest == "" || versions.IsNewerVersion(record.Version, latest)) {
			latest = record.Version
		}
		current.Apps[record.Name] = AppStatus{
			Name:          record.Name,
			Version:       record.Version,
			LatestVersion: latest,
			FileHash:      record.FileHash,
			Operation:     op,
			SyncedAt:      now,
		}
	}
	current.LastOperation = op
	current.LastSyncedAt = &now

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	data = append(data, '\n')

	// Write to a temporary file and rename for an atomic replace.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write status file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace status file: %w", err)
	}
	return nil
}

func (s *fileStore) Load(_ context.Context, namespace string) (*NamespaceStatus, error) {
	path, err := s.statusPath(namespace)
	if err != nil {
		return nil, err
	}
	return loadStatusFile(path, namespace)
}

func (s *fileStore) LoadAll(_ context.Context) (map[string]*NamespaceStatus, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*NamespaceStatus{}, nil
		}
		return nil, fmt.Errorf("failed to read status directory: %w", err)
	}

	all := make(map[string]*NamespaceStatus, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		namespace := entry.Name()
		path := filepath.Join(s.basePath, namespace, statusFileName)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		status, err := loadStatusFile(path, namespace)
		if err != nil {
			slog.Warn("Skipping unreadable status file", "namespace", namespace, "error", err)
			continue
		}
		all[namespace] = status
	}
	return all, nil
}

// loadStatusFile reads a namespace status file, returning an empty status
// when the file does not exist yet.
func loadStatusFile(path, namespace string) (*NamespaceStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &NamespaceStatus{Namespace: namespace}, nil
		}
		return nil, fmt.Errorf("failed to read status file %s: %w", path, err)
	}
	var status NamespaceStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status file %s: %w", path, err)
	}
	status.Namespace = namespace
	return &status, nil
}
