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

	"github.com/confsync/confsync/internal/appconfig"
	"github.com/confsync/confsync/internal/git"
	"github.com/confsync/confsync/internal/otel"
	"github.com/confsync/confsync/internal/status"
)

// Pull reads one application's configuration from the namespace's
// repository at the current branch head.
func (r *Runner) Pull(ctx context.Context, req PullRequest) (*PullResult, error) {
	var result *PullResult
	sink := func(pulled *PullResult) error {
		result = pulled
		return nil
	}

	multiReq := MultiPullRequest{Namespace: req.Namespace, Repo: req.Repo, Names: []string{req.Name}}
	if err := r.multiPull(ctx, "pull", multiReq, sink); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("pull produced no result for application %q", req.Name)
	}
	return result, nil
}

// MultiPull reads the named configurations from the namespace's
// repository and streams each one to the sink as it is decoded. Items
// that fail for reasons local to one application are collected and
// reported together after the remaining items have been delivered.
func (r *Runner) MultiPull(ctx context.Context, req MultiPullRequest, sink PullSink) error {
	return r.multiPull(ctx, "multipull", req, sink)
}

func (r *Runner) multiPull(ctx context.Context, operation string, req MultiPullRequest, sink PullSink) error {
	if err := r.ensureRunning(); err != nil {
		return err
	}
	if len(req.Names) == 0 {
		return fmt.Errorf("at least one application name is required")
	}
	if sink == nil {
		return fmt.Errorf("pull sink is required")
	}

	start := time.Now()
	logger := slog.With("op_id", uuid.NewString(), "namespace", req.Namespace, "operation", operation)
	logger.Info("Starting pull", "apps", len(req.Names))

	ctx, span := otel.StartSpan(ctx, r.tracer, "confsync."+operation, trace.WithAttributes(
		otel.AttrNamespace.String(req.Namespace),
		otel.AttrOperation.String(operation),
		otel.AttrAppCount.Int(len(req.Names)),
	))
	defer span.End()

	pulled, err := r.pullApps(ctx, req, sink)
	r.metrics.RecordOperation(ctx, operation, err == nil, time.Since(start), len(pulled))

	// Items that were delivered before a later one failed are still
	// synchronized state worth recording.
	r.recordStatus(ctx, req.Namespace, status.OperationPull, pulled)

	if err != nil {
		otel.RecordError(span, err)
		logger.Error("Pull failed", "delivered", len(pulled), "error", err)
		return err
	}
	logger.Info("Pull complete", "apps", len(pulled), "duration", time.Since(start))
	return nil
}

// pullApps clones the remote once and reads each named configuration
// from the worktree. A failure that is local to one application is
// collected and the loop continues; failures of the clone or the sink
// abort immediately.
func (r *Runner) pullApps(ctx context.Context, req MultiPullRequest, sink PullSink) ([]status.Record, error) {
	handle, err := r.repos.Open(ctx, req.Namespace, req.Repo)
	if err != nil {
		return nil, NewAuthenticationConfigError("failed to prepare repository access", err)
	}
	defer closeRepository(handle, req.Namespace)

	head, err := handle.CloneRemote(ctx)
	if err != nil {
		return nil, classifyCloneError(req.Repo.URL, err)
	}

	var pulled []status.Record
	var itemErrs []error
	for _, name := range req.Names {
		result, err := pullApp(handle, name, head)
		if err != nil {
			if isRecoverableItemError(err) {
				itemErrs = append(itemErrs, &ItemError{Name: name, Err: err})
				continue
			}
			return pulled, err
		}
		if err := sink(result); err != nil {
			return pulled, fmt.Errorf("pull sink failed for application %q: %w", name, err)
		}
		pulled = append(pulled, status.Record{Name: result.Name, Version: result.Config.Version, FileHash: result.FileHash})
	}
	return pulled, errors.Join(itemErrs...)
}

// pullApp reads and decodes a single configuration file from the clone.
func pullApp(handle git.Repository, name, head string) (*PullResult, error) {
	relPath := handle.FileRelativePath(appconfig.FileName(name))
	absPath, err := validateConfigPath(handle.RootPath(), relPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewNotFoundError(fmt.Sprintf("no configuration for application %q in the repository", name), err)
		}
		return nil, fmt.Errorf("failed to read configuration file %s: %w", relPath, err)
	}

	hash, err := handle.FileHash(relPath, head)
	if err != nil {
		if errors.Is(err, git.ErrFileNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("configuration for application %q is not tracked at the current commit", name), err)
		}
		return nil, NewGitOperationError(fmt.Sprintf("failed to resolve hash for %s", relPath), err)
	}

	app, err := appconfig.Decode(data)
	if err != nil {
		return nil, NewInvalidConfigError(fmt.Sprintf("configuration for application %q is not valid", name), err)
	}
	return &PullResult{Name: name, FileHash: hash, Config: app}, nil
}

// isRecoverableItemError reports whether a pull failure concerns only
// one application, leaving the rest of a multi-pull deliverable.
func isRecoverableItemError(err error) bool {
	switch KindOf(err) {
	case KindNotFound, KindInvalidConfig, KindInvalidPath:
		return true
	default:
		return false
	}
}
