package sourcecontrol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/confsync/confsync/internal/appconfig"
	"github.com/confsync/confsync/internal/appregistry"
	"github.com/confsync/confsync/internal/git"
	"github.com/confsync/confsync/internal/otel"
	"github.com/confsync/confsync/internal/status"
)

// resolveConcurrency bounds how many registry lookups a multi-push runs
// at once.
const resolveConcurrency = 4

// Push writes one application's configuration to the namespace's
// repository as a single commit and reports the file's blob hash.
func (r *Runner) Push(ctx context.Context, req PushRequest) (*PushResult, error) {
	if err := r.ensureRunning(); err != nil {
		return nil, err
	}
	if req.App == nil {
		return nil, fmt.Errorf("app config is required")
	}

	start := time.Now()
	logger := slog.With("op_id", uuid.NewString(), "namespace", req.Namespace, "operation", "push")
	logger.Info("Starting push", "app", req.App.Name)

	ctx, span := otel.StartSpan(ctx, r.tracer, "confsync.push", trace.WithAttributes(
		otel.AttrNamespace.String(req.Namespace),
		otel.AttrOperation.String("push"),
		otel.AttrAppName.String(req.App.Name),
	))
	defer span.End()

	results, err := r.pushApps(ctx, req.Namespace, req.Repo, req.Meta, []*appconfig.AppConfig{req.App})
	r.metrics.RecordOperation(ctx, "push", err == nil, time.Since(start), len(results))
	if err != nil {
		otel.RecordError(span, err)
		logger.Error("Push failed", "app", req.App.Name, "error", err)
		return nil, err
	}

	r.recordStatus(ctx, req.Namespace, status.OperationPush, pushRecords(results))
	logger.Info("Push complete", "app", req.App.Name, "file_hash", results[0].FileHash, "duration", time.Since(start))
	return &results[0], nil
}

// MultiPush resolves the named applications from the registry and writes
// all of their configurations to the namespace's repository in one
// commit. Resolution happens before anything is written, so a missing
// application fails the whole request.
func (r *Runner) MultiPush(ctx context.Context, req MultiPushRequest) ([]PushResult, error) {
	if err := r.ensureRunning(); err != nil {
		return nil, err
	}
	if len(req.Names) == 0 {
		return nil, fmt.Errorf("at least one application name is required")
	}

	start := time.Now()
	logger := slog.With("op_id", uuid.NewString(), "namespace", req.Namespace, "operation", "multipush")
	logger.Info("Starting multi-push", "apps", len(req.Names))

	ctx, span := otel.StartSpan(ctx, r.tracer, "confsync.multipush", trace.WithAttributes(
		otel.AttrNamespace.String(req.Namespace),
		otel.AttrOperation.String("multipush"),
		otel.AttrAppCount.Int(len(req.Names)),
	))
	defer span.End()

	apps, err := r.resolveApps(ctx, req.Namespace, req.Names)
	if err == nil {
		var results []PushResult
		results, err = r.pushApps(ctx, req.Namespace, req.Repo, req.Meta, apps)
		r.metrics.RecordOperation(ctx, "multipush", err == nil, time.Since(start), len(results))
		if err == nil {
			r.recordStatus(ctx, req.Namespace, status.OperationPush, pushRecords(results))
			logger.Info("Multi-push complete", "apps", len(results), "duration", time.Since(start))
			return results, nil
		}
	} else {
		r.metrics.RecordOperation(ctx, "multipush", false, time.Since(start), 0)
	}

	otel.RecordError(span, err)
	logger.Error("Multi-push failed", "error", err)
	return nil, err
}

// resolveApps loads the named configurations from the registry with
// bounded concurrency. The result preserves the request order.
func (r *Runner) resolveApps(ctx context.Context, namespace string, names []string) ([]*appconfig.AppConfig, error) {
	apps := make([]*appconfig.AppConfig, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, name := range names {
		g.Go(func() error {
			app, err := r.registry.Get(gctx, namespace, name)
			if err != nil {
				if errors.Is(err, appregistry.ErrNotFound) {
					return NewNotFoundError(fmt.Sprintf("application %q not found in namespace %q", name, namespace), err)
				}
				return fmt.Errorf("failed to resolve application %q: %w", name, err)
			}
			apps[i] = app
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return apps, nil
}

// pushApps clones the remote, writes every configuration file, and
// records them as one commit. Validation and writing complete for all
// applications before the commit is attempted, so a failure on any file
// leaves the remote untouched.
func (r *Runner) pushApps(ctx context.Context, namespace string, remote git.RemoteConfig, meta git.CommitMeta, apps []*appconfig.AppConfig) ([]PushResult, error) {
	handle, err := r.repos.Open(ctx, namespace, remote)
	if err != nil {
		return nil, NewAuthenticationConfigError("failed to prepare repository access", err)
	}
	defer closeRepository(handle, namespace)

	if _, err := handle.CloneRemote(ctx); err != nil {
		return nil, classifyCloneError(remote.URL, err)
	}
	if err := os.MkdirAll(handle.BasePath(), 0750); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	// Validate the whole batch before writing anything so a rejected
	// application never leaves a partial write set behind.
	type stagedFile struct {
		relPath string
		absPath string
		data    []byte
	}
	staged := make([]stagedFile, len(apps))
	for i, app := range apps {
		if app == nil {
			return nil, fmt.Errorf("app config cannot be nil")
		}
		relPath := handle.FileRelativePath(appconfig.FileName(app.Name))
		absPath, err := validateConfigPath(handle.RootPath(), relPath)
		if err != nil {
			return nil, err
		}
		data, err := appconfig.Encode(app)
		if err != nil {
			return nil, NewInvalidConfigError(fmt.Sprintf("invalid configuration for application %q", app.Name), err)
		}
		staged[i] = stagedFile{relPath: relPath, absPath: absPath, data: data}
	}

	relPaths := make([]string, len(staged))
	for i, file := range staged {
		if err := os.WriteFile(file.absPath, file.data, 0600); err != nil {
			return nil, fmt.Errorf("failed to write configuration file %s: %w", file.relPath, err)
		}
		relPaths[i] = file.relPath
	}

	committed, err := handle.CommitAndPush(ctx, meta, relPaths)
	if err != nil {
		switch {
		case errors.Is(err, git.ErrNoChangesToPush):
			return nil, NewNoChangesToPushError(fmt.Sprintf("repository already matches the requested configuration for namespace %q", namespace), err)
		case git.IsAuthenticationError(err):
			return nil, NewAuthenticationConfigError("authentication failed while pushing", err)
		default:
			return nil, NewGitOperationError("failed to commit and push configuration", err)
		}
	}

	results := make([]PushResult, len(apps))
	for i, app := range apps {
		results[i] = PushResult{Name: app.Name, Version: app.Version, FileHash: committed[i].Hash}
	}
	return results, nil
}

func pushRecords(results []PushResult) []status.Record {
	records := make([]status.Record, len(results))
	for i, result := range results {
		records[i] = status.Record{Name: result.Name, Version: result.Version, FileHash: result.FileHash}
	}
	return records
}
