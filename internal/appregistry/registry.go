// Package appregistry stores application configuration documents by
// namespace and name. Multi-push operations resolve their configurations
// from a Registry before anything is written to a repository.
package appregistry

import (
	"context"
	"errors"

	"github.com/confsync/confsync/internal/appconfig"
)

// ErrNotFound is returned when a namespace or application has no stored
// configuration.
var ErrNotFound = errors.New("application not found")

//go:generate mockgen -destination=mocks/mock_registry.go -package=mocks github.com/confsync/confsync/internal/appregistry Registry

// Registry provides access to stored application configurations.
type Registry interface {
	// Get returns the stored configuration for an application. It
	// returns an error wrapping ErrNotFound when the namespace or
	// application does not exist.
	Get(ctx context.Context, namespace, name string) (*appconfig.AppConfig, error)
	// Put stores an application configuration, replacing any existing
	// configuration with the same name.
	Put(ctx context.Context, namespace string, app *appconfig.AppConfig) error
	// List returns the names of all applications stored in a namespace,
	// sorted ascending. A namespace with no stored applications yields an
	// empty list.
	List(ctx context.Context, namespace string) ([]string, error)
	// Delete removes an application's stored configuration. It returns
	// an error wrapping ErrNotFound when no configuration exists.
	Delete(ctx context.Context, namespace, name string) error
}
