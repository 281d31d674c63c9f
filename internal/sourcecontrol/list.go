package sourcecontrol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/confsync/confsync/internal/appconfig"
	"github.com/confsync/confsync/internal/git"
	"github.com/confsync/confsync/internal/otel"
)

// List reports the applications whose configuration files exist in the
// namespace's repository at the current branch head. Untracked files in
// the worktree are not listed.
func (r *Runner) List(ctx context.Context, req ListRequest) ([]ListedApp, error) {
	if err := r.ensureRunning(); err != nil {
		return nil, err
	}

	start := time.Now()
	logger := slog.With("op_id", uuid.NewString(), "namespace", req.Namespace, "operation", "list")

	ctx, span := otel.StartSpan(ctx, r.tracer, "confsync.list", trace.WithAttributes(
		otel.AttrNamespace.String(req.Namespace),
		otel.AttrOperation.String("list"),
	))
	defer span.End()

	apps, err := r.listApps(ctx, req, logger)
	r.metrics.RecordOperation(ctx, "list", err == nil, time.Since(start), len(apps))
	if err != nil {
		otel.RecordError(span, err)
		logger.Error("List failed", "error", err)
		return nil, err
	}
	logger.Info("List complete", "apps", len(apps), "duration", time.Since(start))
	return apps, nil
}

func (r *Runner) listApps(ctx context.Context, req ListRequest, logger *slog.Logger) ([]ListedApp, error) {
	handle, err := r.repos.Open(ctx, req.Namespace, req.Repo)
	if err != nil {
		return nil, NewAuthenticationConfigError("failed to prepare repository access", err)
	}
	defer closeRepository(handle, req.Namespace)

	head, err := handle.CloneRemote(ctx)
	if err != nil {
		return nil, classifyCloneError(req.Repo.URL, err)
	}

	base := handle.BasePath()
	info, err := os.Stat(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewNotFoundError(fmt.Sprintf("path %q does not exist in the repository", req.Repo.PathPrefix), err)
		}
		return nil, fmt.Errorf("failed to stat configuration directory: %w", err)
	}
	if !info.IsDir() {
		return nil, NewNotFoundError(fmt.Sprintf("path %q is not a directory in the repository", req.Repo.PathPrefix), nil)
	}

	// ReadDir returns entries sorted by name, which fixes the order of
	// the listing.
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration directory: %w", err)
	}

	apps := make([]ListedApp, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		fileName := entry.Name()
		if !strings.HasSuffix(fileName, appconfig.Extension) {
			continue
		}

		hash, err := handle.FileHash(handle.FileRelativePath(fileName), head)
		if err != nil {
			if errors.Is(err, git.ErrFileNotFound) {
				// Present in the worktree but not in the commit, so it
				// is not part of the repository's content.
				logger.Warn("Skipping untracked configuration file", "file", fileName)
				continue
			}
			return nil, NewGitOperationError(fmt.Sprintf("failed to resolve hash for %s", fileName), err)
		}
		apps = append(apps, ListedApp{Name: strings.TrimSuffix(fileName, appconfig.Extension), FileHash: hash})
	}
	return apps, nil
}
