package appregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/tidwall/gjson"

	"github.com/confsync/confsync/internal/appconfig"
)

const (
	registryFileName = "applications.json"
	lockRetryDelay   = 100 * time.Millisecond
)

// registryDocument is the on-disk layout of a namespace's registry file.
type registryDocument struct {
	Applications []*appconfig.AppConfig `json:"applications"`
}

type fileRegistry struct {
	basePath string
}

// NewFileRegistry creates a Registry backed by one JSON file per
// namespace under basePath. Writes are serialized with a file lock and
// applied atomically, so concurrent readers always see a complete
// document.
func NewFileRegistry(basePath string) Registry {
	return &fileRegistry{basePath: basePath}
}

func (r *fileRegistry) registryPath(namespace string) (string, error) {
	if namespace == "" || !filepath.IsLocal(namespace) {
		return "", fmt.Errorf("invalid namespace %q", namespace)
	}
	return filepath.Join(r.basePath, namespace, registryFileName), nil
}

func (r *fileRegistry) Get(_ context.Context, namespace, name string) (*appconfig.AppConfig, error) {
	path, err := r.registryPath(namespace)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("application %q in namespace %q: %w", name, namespace, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read registry for namespace %q: %w", namespace, err)
	}

	result := gjson.GetBytes(data, fmt.Sprintf("applications.#(name==%q)", name))
	if !result.Exists() {
		return nil, fmt.Errorf("application %q in namespace %q: %w", name, namespace, ErrNotFound)
	}
	app, err := appconfig.Decode([]byte(result.Raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored configuration for %q: %w", name, err)
	}
	return app, nil
}

func (r *fileRegistry) Put(ctx context.Context, namespace string, app *appconfig.AppConfig) error {
	if app == nil {
		return fmt.Errorf("app config cannot be nil")
	}
	if err := app.Validate(); err != nil {
		return err
	}
	path, err := r.registryPath(namespace)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create registry directory for namespace %q: %w", namespace, err)
	}

	unlock, err := lockRegistry(ctx, path)
	if err != nil {
		return err
	}
	defer unlock()

	doc, existing, err := readRegistryDocument(path)
	if err != nil {
		return err
	}

	replaced := false
	for i, stored := range doc.Applications {
		if stored.Name == app.Name {
			doc.Applications[i] = app
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Applications = append(doc.Applications, app)
	}
	sort.Slice(doc.Applications, func(i, j int) bool {
		return doc.Applications[i].Name < doc.Applications[j].Name
	})

	return writeRegistryDocument(path, doc, existing)
}

func (r *fileRegistry) List(_ context.Context, namespace string) ([]string, error) {
	path, err := r.registryPath(namespace)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read registry for namespace %q: %w", namespace, err)
	}

	result := gjson.GetBytes(data, "applications.#.name")
	values := result.Array()
	names := make([]string, 0, len(values))
	for _, value := range values {
		names = append(names, value.String())
	}
	return names, nil
}

func (r *fileRegistry) Delete(ctx context.Context, namespace, name string) error {
	path, err := r.registryPath(namespace)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("application %q in namespace %q: %w", name, namespace, ErrNotFound)
		}
		return fmt.Errorf("failed to read registry for namespace %q: %w", namespace, err)
	}

	unlock, err := lockRegistry(ctx, path)
	if err != nil {
		return err
	}
	defer unlock()

	doc, existing, err := readRegistryDocument(path)
	if err != nil {
		return err
	}

	kept := make([]*appconfig.AppConfig, 0, len(doc.Applications))
	for _, stored := range doc.Applications {
		if stored.Name != name {
			kept = append(kept, stored)
		}
	}
	if len(kept) == len(doc.Applications) {
		return fmt.Errorf("application %q in namespace %q: %w", name, namespace, ErrNotFound)
	}
	doc.Applications = kept

	return writeRegistryDocument(path, doc, existing)
}

// lockRegistry acquires an exclusive lock on the registry's lock file and
// returns the release function.
func lockRegistry(ctx context.Context, path string) (func(), error) {
	fileLock := flock.New(path + ".lock")
	locked, err := fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire registry lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire registry lock")
	}
	return func() { _ = fileLock.Unlock() }, nil
}

// readRegistryDocument loads the registry file, returning an empty
// document and nil raw bytes when the file does not exist yet.
func readRegistryDocument(path string) (*registryDocument, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &registryDocument{}, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read registry file %s: %w", path, err)
	}
	var doc registryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}
	return &doc, data, nil
}

// writeRegistryDocument writes the document atomically, skipping the write
// when the new content is canonically equal to what is already stored.
func writeRegistryDocument(path string, doc *registryDocument, existing []byte) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry document: %w", err)
	}
	data = append(data, '\n')

	if existing != nil && appconfig.Equal(existing, data) {
		return nil
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace registry file: %w", err)
	}
	return nil
}
