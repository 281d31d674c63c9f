// Package sourcecontrol orchestrates synchronization of application
// configuration files between the service and remote git repositories.
// The OperationRunner facade exposes push, pull, and listing operations;
// each operation acquires a fresh repository clone, performs its work,
// and releases the clone before returning.
package sourcecontrol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"

	"github.com/confsync/confsync/internal/appregistry"
	"github.com/confsync/confsync/internal/git"
	"github.com/confsync/confsync/internal/status"
	"github.com/confsync/confsync/internal/telemetry"
)

// ErrNotRunning is returned when an operation is invoked outside the
// Start/Stop window.
var ErrNotRunning = errors.New("operation runner is not running")

// State is the lifecycle state of an OperationRunner.
type State int32

const (
	StateNotStarted State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

//go:generate mockgen -destination=mocks/mock_runner.go -package=mocks github.com/confsync/confsync/internal/sourcecontrol OperationRunner

// OperationRunner is the service facade for synchronization operations.
// Operations are only available while the runner is running; a runner
// that was stopped cannot be restarted.
type OperationRunner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	State() State
	// Push writes one application's configuration to the namespace's
	// repository as a single commit.
	Push(ctx context.Context, req PushRequest) (*PushResult, error)
	// MultiPush resolves the named applications from the registry and
	// writes all of their configurations as a single commit.
	MultiPush(ctx context.Context, req MultiPushRequest) ([]PushResult, error)
	// Pull reads one application's configuration from the namespace's
	// repository.
	Pull(ctx context.Context, req PullRequest) (*PullResult, error)
	// MultiPull streams the named applications' configurations to sink
	// as they are read. Failures on individual applications do not stop
	// the batch; they are joined into the returned error.
	MultiPull(ctx context.Context, req MultiPullRequest, sink PullSink) error
	// List enumerates the configuration files the repository currently
	// tracks under the configured path prefix.
	List(ctx context.Context, req ListRequest) ([]ListedApp, error)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStatusStore makes the runner record synchronization outcomes in
// store.
func WithStatusStore(store status.Store) RunnerOption {
	return func(r *Runner) {
		r.status = store
	}
}

// WithMetrics makes the runner record operation metrics.
func WithMetrics(metrics *telemetry.SyncMetrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = metrics
	}
}

// WithTracer makes the runner record a span per operation.
func WithTracer(tracer trace.Tracer) RunnerOption {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

// Runner implements OperationRunner against real repository clones.
type Runner struct {
	repos    git.Factory
	registry appregistry.Registry
	status   status.Store
	metrics  *telemetry.SyncMetrics
	tracer   trace.Tracer
	state    atomic.Int32
}

var _ OperationRunner = (*Runner)(nil)

// NewRunner creates an OperationRunner that clones through repos and
// resolves multi-push configurations from registry. The runner must be
// started before operations are accepted.
func NewRunner(repos git.Factory, registry appregistry.Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		repos:    repos,
		registry: registry,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start transitions the runner to the running state and hardens the git
// environment for the process.
func (r *Runner) Start(_ context.Context) error {
	if !r.state.CompareAndSwap(int32(StateNotStarted), int32(StateRunning)) {
		return fmt.Errorf("cannot start operation runner from state %s", r.State())
	}
	hardenGitEnvironment()
	slog.Info("Operation runner started")
	return nil
}

// Stop transitions the runner to the stopped state. Operations invoked
// after Stop fail with ErrNotRunning.
func (r *Runner) Stop(_ context.Context) error {
	if !r.state.CompareAndSwap(int32(StateRunning), int32(StateStopped)) {
		return fmt.Errorf("cannot stop operation runner from state %s", r.State())
	}
	slog.Info("Operation runner stopped")
	return nil
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

func (r *Runner) ensureRunning() error {
	if r.State() != StateRunning {
		return ErrNotRunning
	}
	return nil
}

// recordStatus persists the outcome of a successful operation. Status is
// advisory, so failures are logged and swallowed.
func (r *Runner) recordStatus(ctx context.Context, namespace string, op status.Operation, records []status.Record) {
	if r.status == nil || len(records) == 0 {
		return
	}
	if err := r.status.RecordSync(ctx, namespace, op, records); err != nil {
		slog.Warn("Failed to record sync status", "namespace", namespace, "operation", string(op), "error", err)
	}
}

// classifyCloneError maps a clone failure onto the error taxonomy.
func classifyCloneError(url string, err error) error {
	if git.IsAuthenticationError(err) {
		return NewAuthenticationConfigError(fmt.Sprintf("authentication failed for repository %s", url), err)
	}
	return NewGitOperationError(fmt.Sprintf("failed to clone repository %s", url), err)
}

func closeRepository(handle git.Repository, namespace string) {
	if err := handle.Close(); err != nil {
		slog.Warn("Failed to clean up repository clone", "namespace", namespace, "error", err)
	}
}
