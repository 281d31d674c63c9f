// Package v0 provides the REST API handlers for the configuration
// synchronization service.
package v0

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/confsync/confsync/internal/api/common"
	"github.com/confsync/confsync/internal/appconfig"
	"github.com/confsync/confsync/internal/appregistry"
	"github.com/confsync/confsync/internal/config"
	"github.com/confsync/confsync/internal/git"
	"github.com/confsync/confsync/internal/sourcecontrol"
	"github.com/confsync/confsync/internal/status"
	"github.com/confsync/confsync/pkg/versions"
)

// Dependencies carries the collaborators the API handlers operate on.
type Dependencies struct {
	Runner   sourcecontrol.OperationRunner
	Registry appregistry.Registry
	Status   status.Store
	Config   *config.Config
}

// CommitMetaRequest is the commit authorship block accepted by the push
// endpoints.
type CommitMetaRequest struct {
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
	Message     string `json:"message"`
}

// PushBody is the request body for pushing a single application
// configuration.
type PushBody struct {
	Meta CommitMetaRequest `json:"meta"`
	App  json.RawMessage   `json:"app"`
}

// MultiPushBody is the request body for pushing several registered
// applications in one commit.
type MultiPushBody struct {
	Meta  CommitMetaRequest `json:"meta"`
	Names []string          `json:"names"`
}

// MultiPushResponse reports the outcome of a multi-application push.
type MultiPushResponse struct {
	Results []sourcecontrol.PushResult `json:"results"`
	Count   int                        `json:"count"`
}

// MultiPullBody is the request body for pulling several applications in
// one clone.
type MultiPullBody struct {
	Names []string `json:"names"`
	Apply bool     `json:"apply"`
}

// PullFailure is the NDJSON line emitted for an application that could
// not be pulled.
type PullFailure struct {
	Name  string            `json:"name"`
	Error PullFailureDetail `json:"error"`
}

// PullFailureDetail describes why an application could not be pulled.
type PullFailureDetail struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// ListResponse lists the configuration files tracked in a namespace's
// repository.
type ListResponse struct {
	Apps  []sourcecontrol.ListedApp `json:"apps"`
	Count int                       `json:"count"`
}

// AppsResponse lists the applications registered in a namespace.
type AppsResponse struct {
	Apps  []string `json:"apps"`
	Count int      `json:"count"`
}

// StatusResponse aggregates the synchronization status of every
// namespace.
type StatusResponse struct {
	Namespaces map[string]*status.NamespaceStatus `json:"namespaces"`
	Count      int                                `json:"count"`
}

// Routes handles HTTP requests for the synchronization API.
type Routes struct {
	deps Dependencies
}

// NewRoutes creates a new Routes instance with the provided dependencies.
func NewRoutes(deps Dependencies) *Routes {
	return &Routes{
		deps: deps,
	}
}

// Router creates and configures the HTTP router for the synchronization
// API.
func Router(deps Dependencies) http.Handler {
	routes := NewRoutes(deps)

	r := chi.NewRouter()

	r.Get("/status", routes.getAllStatus)

	r.Route("/namespaces/{namespace}", func(r chi.Router) {
		r.Post("/push", routes.push)
		r.Post("/multipush", routes.multiPush)
		r.Get("/pull/{name}", routes.pull)
		r.Post("/multipull", routes.multiPull)
		r.Get("/configs", routes.listConfigs)
		r.Get("/status", routes.getNamespaceStatus)

		r.Route("/apps", func(r chi.Router) {
			r.Get("/", routes.listApps)
			r.Put("/{name}", routes.putApp)
			r.Get("/{name}", routes.getApp)
			r.Delete("/{name}", routes.deleteApp)
		})
	})

	return r
}

// resolveNamespace extracts the namespace URL parameter and resolves the
// repository it synchronizes against. It writes the error response and
// returns false when the namespace is invalid or not configured.
func (routes *Routes) resolveNamespace(w http.ResponseWriter, r *http.Request) (string, git.RemoteConfig, bool) {
	namespace, err := common.GetAndValidateURLParam(r, "namespace")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return "", git.RemoteConfig{}, false
	}

	remote, err := routes.deps.Config.RepositoryForNamespace(namespace)
	if err != nil {
		if errors.Is(err, config.ErrUnknownNamespace) {
			common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
		} else {
			slog.Error("Failed to resolve namespace repository", "namespace", namespace, "error", err)
			common.WriteErrorResponse(w, err.Error(), http.StatusInternalServerError)
		}
		return "", git.RemoteConfig{}, false
	}

	return namespace, remote, true
}

// statusForError maps a synchronization failure to its HTTP status code.
func statusForError(err error) int {
	if errors.Is(err, sourcecontrol.ErrNotRunning) {
		return http.StatusServiceUnavailable
	}

	switch sourcecontrol.KindOf(err) {
	case sourcecontrol.KindNotFound:
		return http.StatusNotFound
	case sourcecontrol.KindInvalidPath:
		return http.StatusBadRequest
	case sourcecontrol.KindInvalidConfig:
		return http.StatusUnprocessableEntity
	case sourcecontrol.KindNoChangesToPush:
		return http.StatusConflict
	case sourcecontrol.KindAuthenticationConfig, sourcecontrol.KindGitOperation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeOperationError writes the error response for a failed
// synchronization operation.
func writeOperationError(w http.ResponseWriter, operation string, err error) {
	statusCode := statusForError(err)
	if statusCode >= http.StatusInternalServerError {
		slog.Error("Synchronization operation failed", "operation", operation, "error", err)
	}
	common.WriteErrorResponseKind(w, err.Error(), string(sourcecontrol.KindOf(err)), statusCode)
}

// push handles POST /api/v0/namespaces/{namespace}/push
//
// @Summary		Push one application configuration
// @Description	Commit and push a single application's configuration to the namespace repository
// @Tags			sync
// @Accept			json
// @Produce		json
// @Param			namespace	path		string		true	"Namespace name"
// @Param			request		body		PushBody	true	"Commit metadata and application configuration"
// @Success		200			{object}	sourcecontrol.PushResult
// @Failure		400			{object}	common.ErrorResponse
// @Failure		404			{object}	common.ErrorResponse
// @Failure		409			{object}	common.ErrorResponse
// @Failure		422			{object}	common.ErrorResponse
// @Failure		502			{object}	common.ErrorResponse
// @Router			/api/v0/namespaces/{namespace}/push [post]
func (routes *Routes) push(w http.ResponseWriter, r *http.Request) {
	namespace, remote, ok := routes.resolveNamespace(w, r)
	if !ok {
		return
	}

	var body PushBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.WriteErrorResponse(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	meta, ok := commitMeta(w, body.Meta)
	if !ok {
		return
	}

	if len(body.App) == 0 {
		common.WriteErrorResponse(w, "Application configuration is required", http.StatusBadRequest)
		return
	}
	app, err := appconfig.Decode(body.App)
	if err != nil {
		common.WriteErrorResponse(w, "Invalid application configuration: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	result, err := routes.deps.Runner.Push(r.Context(), sourcecontrol.PushRequest{
		Namespace: namespace,
		Repo:      remote,
		Meta:      meta,
		App:       app,
	})
	if err != nil {
		writeOperationError(w, "push", err)
		return
	}

	common.WriteJSONResponse(w, result, http.StatusOK)
}

// multiPush handles POST /api/v0/namespaces/{namespace}/multipush
//
// @Summary		Push several registered applications
// @Description	Resolve the named applications from the registry and push them as one commit
// @Tags			sync
// @Accept			json
// @Produce		json
// @Param			namespace	path		string			true	"Namespace name"
// @Param			request		body		MultiPushBody	true	"Commit metadata and application names"
// @Success		200			{object}	MultiPushResponse
// @Failure		400			{object}	common.ErrorResponse
// @Failure		404			{object}	common.ErrorResponse
// @Failure		409			{object}	common.ErrorResponse
// @Failure		502			{object}	common.ErrorResponse
// @Router			/api/v0/namespaces/{namespace}/multipush [post]
func (routes *Routes) multiPush(w http.ResponseWriter, r *http.Request) {
	namespace, remote, ok := routes.resolveNamespace(w, r)
	if !ok {
		return
	}

	var body MultiPushBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.WriteErrorResponse(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	meta, ok := commitMeta(w, body.Meta)
	if !ok {
		return
	}

	if len(body.Names) == 0 {
		common.WriteErrorResponse(w, "At least one application name is required", http.StatusBadRequest)
		return
	}

	results, err := routes.deps.Runner.MultiPush(r.Context(), sourcecontrol.MultiPushRequest{
		Namespace: namespace,
		Repo:      remote,
		Meta:      meta,
		Names:     body.Names,
	})
	if err != nil {
		writeOperationError(w, "multipush", err)
		return
	}

	common.WriteJSONResponse(w, MultiPushResponse{Results: results, Count: len(results)}, http.StatusOK)
}

// pull handles GET /api/v0/namespaces/{namespace}/pull/{name}
//
// @Summary		Pull one application configuration
// @Description	Read an application's configuration from the namespace repository
// @Tags			sync
// @Produce		json
// @Param			namespace	path		string	true	"Namespace name"
// @Param			name		path		string	true	"Application name"
// @Param			apply		query		bool	false	"Store the pulled configuration in the application registry"
// @Success		200			{object}	sourcecontrol.PullResult
// @Failure		400			{object}	common.ErrorResponse
// @Failure		404			{object}	common.ErrorResponse
// @Failure		422			{object}	common.ErrorResponse
// @Failure		502			{object}	common.ErrorResponse
// @Router			/api/v0/namespaces/{namespace}/pull/{name} [get]
func (routes *Routes) pull(w http.ResponseWriter, r *http.Request) {
	namespace, remote, ok := routes.resolveNamespace(w, r)
	if !ok {
		return
	}

	name, err := common.GetAndValidateURLParam(r, "name")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	apply, ok := applyParam(w, r)
	if !ok {
		return
	}

	result, err := routes.deps.Runner.Pull(r.Context(), sourcecontrol.PullRequest{
		Namespace: namespace,
		Repo:      remote,
		Name:      name,
	})
	if err != nil {
		writeOperationError(w, "pull", err)
		return
	}

	if apply {
		if err := routes.deps.Registry.Put(r.Context(), namespace, result.Config); err != nil {
			slog.Error("Failed to store pulled configuration", "namespace", namespace, "name", name, "error", err)
			common.WriteErrorResponse(w, "Failed to store pulled configuration: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	common.WriteJSONResponse(w, result, http.StatusOK)
}

// multiPull handles POST /api/v0/namespaces/{namespace}/multipull
//
// Results are streamed as NDJSON, one configuration per line, in request
// order. Applications that fail do not stop the batch; each failure is
// appended as a trailing line carrying the failure kind and message.
//
// @Summary		Pull several application configurations
// @Description	Stream the named applications' configurations from one repository clone as NDJSON
// @Tags			sync
// @Accept			json
// @Produce		application/x-ndjson
// @Param			namespace	path		string			true	"Namespace name"
// @Param			request		body		MultiPullBody	true	"Application names and apply flag"
// @Success		200			{object}	sourcecontrol.PullResult
// @Failure		400			{object}	common.ErrorResponse
// @Failure		404			{object}	common.ErrorResponse
// @Failure		502			{object}	common.ErrorResponse
// @Router			/api/v0/namespaces/{namespace}/multipull [post]
func (routes *Routes) multiPull(w http.ResponseWriter, r *http.Request) {
	namespace, remote, ok := routes.resolveNamespace(w, r)
	if !ok {
		return
	}

	var body MultiPullBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.WriteErrorResponse(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(body.Names) == 0 {
		common.WriteErrorResponse(w, "At least one application name is required", http.StatusBadRequest)
		return
	}

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)

	started := false
	startStream := func() {
		if started {
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)
		started = true
	}

	sink := func(result *sourcecontrol.PullResult) error {
		if body.Apply {
			if err := routes.deps.Registry.Put(r.Context(), namespace, result.Config); err != nil {
				return err
			}
		}
		startStream()
		if err := enc.Encode(result); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	err := routes.deps.Runner.MultiPull(r.Context(), sourcecontrol.MultiPullRequest{
		Namespace: namespace,
		Repo:      remote,
		Names:     body.Names,
	}, sink)
	if err == nil {
		return
	}

	// If nothing has been streamed yet and the failure is not attributable
	// to individual applications, the response can still carry a proper
	// status code.
	var itemErr *sourcecontrol.ItemError
	if !started && !errors.As(err, &itemErr) {
		writeOperationError(w, "multipull", err)
		return
	}

	startStream()
	for _, failure := range pullFailures(err) {
		if encodeErr := enc.Encode(failure); encodeErr != nil {
			slog.Error("Failed to encode pull failure line", "namespace", namespace, "error", encodeErr)
			return
		}
	}
	if flusher != nil {
		flusher.Flush()
	}
}

// pullFailures flattens a MultiPull error into NDJSON failure lines.
// Joined per-application errors become one line each; any other failure
// becomes a single line without an application name.
func pullFailures(err error) []PullFailure {
	errs := []error{err}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		errs = joined.Unwrap()
	}

	failures := make([]PullFailure, 0, len(errs))
	for _, e := range errs {
		failure := PullFailure{
			Error: PullFailureDetail{
				Kind:    string(sourcecontrol.KindOf(e)),
				Message: e.Error(),
			},
		}
		var itemErr *sourcecontrol.ItemError
		if errors.As(e, &itemErr) {
			failure.Name = itemErr.Name
			failure.Error.Message = itemErr.Err.Error()
		}
		failures = append(failures, failure)
	}
	return failures
}

// listConfigs handles GET /api/v0/namespaces/{namespace}/configs
//
// @Summary		List tracked configurations
// @Description	Enumerate the configuration files the namespace repository currently tracks
// @Tags			sync
// @Produce		json
// @Param			namespace	path		string	true	"Namespace name"
// @Success		200			{object}	ListResponse
// @Failure		404			{object}	common.ErrorResponse
// @Failure		502			{object}	common.ErrorResponse
// @Router			/api/v0/namespaces/{namespace}/configs [get]
func (routes *Routes) listConfigs(w http.ResponseWriter, r *http.Request) {
	namespace, remote, ok := routes.resolveNamespace(w, r)
	if !ok {
		return
	}

	apps, err := routes.deps.Runner.List(r.Context(), sourcecontrol.ListRequest{
		Namespace: namespace,
		Repo:      remote,
	})
	if err != nil {
		writeOperationError(w, "list", err)
		return
	}

	if apps == nil {
		apps = []sourcecontrol.ListedApp{}
	}
	common.WriteJSONResponse(w, ListResponse{Apps: apps, Count: len(apps)}, http.StatusOK)
}

// getNamespaceStatus handles GET /api/v0/namespaces/{namespace}/status
//
// @Summary		Get namespace synchronization status
// @Description	Get the last synchronization outcome recorded for a namespace
// @Tags			status
// @Produce		json
// @Param			namespace	path		string	true	"Namespace name"
// @Success		200			{object}	status.NamespaceStatus
// @Failure		400			{object}	common.ErrorResponse
// @Router			/api/v0/namespaces/{namespace}/status [get]
func (routes *Routes) getNamespaceStatus(w http.ResponseWriter, r *http.Request) {
	namespace, err := common.GetAndValidateURLParam(r, "namespace")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := routes.deps.Status.Load(r.Context(), namespace)
	if err != nil {
		slog.Error("Failed to load namespace status", "namespace", namespace, "error", err)
		common.WriteErrorResponse(w, "Failed to load namespace status: "+err.Error(), http.StatusInternalServerError)
		return
	}

	common.WriteJSONResponse(w, st, http.StatusOK)
}

// getAllStatus handles GET /api/v0/status
//
// @Summary		Get synchronization status for all namespaces
// @Description	Get the last synchronization outcome recorded for every namespace
// @Tags			status
// @Produce		json
// @Success		200	{object}	StatusResponse
// @Failure		500	{object}	common.ErrorResponse
// @Router			/api/v0/status [get]
func (routes *Routes) getAllStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := routes.deps.Status.LoadAll(r.Context())
	if err != nil {
		slog.Error("Failed to load namespace statuses", "error", err)
		common.WriteErrorResponse(w, "Failed to load namespace statuses: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if statuses == nil {
		statuses = map[string]*status.NamespaceStatus{}
	}
	common.WriteJSONResponse(w, StatusResponse{Namespaces: statuses, Count: len(statuses)}, http.StatusOK)
}

// listApps handles GET /api/v0/namespaces/{namespace}/apps
//
// @Summary		List registered applications
// @Description	List the application names stored in the namespace registry
// @Tags			registry
// @Produce		json
// @Param			namespace	path		string	true	"Namespace name"
// @Success		200			{object}	AppsResponse
// @Failure		400			{object}	common.ErrorResponse
// @Router			/api/v0/namespaces/{namespace}/apps [get]
func (routes *Routes) listApps(w http.ResponseWriter, r *http.Request) {
	namespace, err := common.GetAndValidateURLParam(r, "namespace")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	names, err := routes.deps.Registry.List(r.Context(), namespace)
	if err != nil {
		slog.Error("Failed to list registered applications", "namespace", namespace, "error", err)
		common.WriteErrorResponse(w, "Failed to list applications: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if names == nil {
		names = []string{}
	}
	common.WriteJSONResponse(w, AppsResponse{Apps: names, Count: len(names)}, http.StatusOK)
}

// putApp handles PUT /api/v0/namespaces/{namespace}/apps/{name}
//
// @Summary		Register an application configuration
// @Description	Store an application configuration in the namespace registry, replacing any existing one
// @Tags			registry
// @Accept			json
// @Produce		json
// @Param			namespace	path		string				true	"Namespace name"
// @Param			name		path		string				true	"Application name"
// @Param			request		body		appconfig.AppConfig	true	"Application configuration document"
// @Success		200			{object}	appconfig.AppConfig
// @Failure		400			{object}	common.ErrorResponse
// @Failure		422			{object}	common.ErrorResponse
// @Router			/api/v0/namespaces/{namespace}/apps/{name} [put]
func (routes *Routes) putApp(w http.ResponseWriter, r *http.Request) {
	namespace, name, ok := appParams(w, r)
	if !ok {
		return
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		common.WriteErrorResponse(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	app, err := appconfig.Decode(raw)
	if err != nil {
		common.WriteErrorResponse(w, "Invalid application configuration: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if app.Name != name {
		common.WriteErrorResponse(w, "Application name in URL does not match name in body", http.StatusBadRequest)
		return
	}

	if err := routes.deps.Registry.Put(r.Context(), namespace, app); err != nil {
		slog.Error("Failed to store application configuration", "namespace", namespace, "name", name, "error", err)
		common.WriteErrorResponse(w, "Failed to store application: "+err.Error(), http.StatusInternalServerError)
		return
	}

	common.WriteJSONResponse(w, app, http.StatusOK)
}

// getApp handles GET /api/v0/namespaces/{namespace}/apps/{name}
//
// @Summary		Get a registered application configuration
// @Description	Get the application configuration stored in the namespace registry
// @Tags			registry
// @Produce		json
// @Param			namespace	path		string	true	"Namespace name"
// @Param			name		path		string	true	"Application name"
// @Success		200			{object}	appconfig.AppConfig
// @Failure		400			{object}	common.ErrorResponse
// @Failure		404			{object}	common.ErrorResponse
// @Router			/api/v0/namespaces/{namespace}/apps/{name} [get]
func (routes *Routes) getApp(w http.ResponseWriter, r *http.Request) {
	namespace, name, ok := appParams(w, r)
	if !ok {
		return
	}

	app, err := routes.deps.Registry.Get(r.Context(), namespace, name)
	if err != nil {
		if errors.Is(err, appregistry.ErrNotFound) {
			common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
			return
		}
		slog.Error("Failed to load application configuration", "namespace", namespace, "name", name, "error", err)
		common.WriteErrorResponse(w, "Failed to load application: "+err.Error(), http.StatusInternalServerError)
		return
	}

	common.WriteJSONResponse(w, app, http.StatusOK)
}

// deleteApp handles DELETE /api/v0/namespaces/{namespace}/apps/{name}
//
// @Summary		Remove a registered application configuration
// @Description	Remove the application configuration stored in the namespace registry
// @Tags			registry
// @Param			namespace	path	string	true	"Namespace name"
// @Param			name		path	string	true	"Application name"
// @Success		204
// @Failure		400	{object}	common.ErrorResponse
// @Failure		404	{object}	common.ErrorResponse
// @Router			/api/v0/namespaces/{namespace}/apps/{name} [delete]
func (routes *Routes) deleteApp(w http.ResponseWriter, r *http.Request) {
	namespace, name, ok := appParams(w, r)
	if !ok {
		return
	}

	if err := routes.deps.Registry.Delete(r.Context(), namespace, name); err != nil {
		if errors.Is(err, appregistry.ErrNotFound) {
			common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
			return
		}
		slog.Error("Failed to delete application configuration", "namespace", namespace, "name", name, "error", err)
		common.WriteErrorResponse(w, "Failed to delete application: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// commitMeta converts and validates the commit metadata block. It writes
// the error response and returns false when the metadata is incomplete.
func commitMeta(w http.ResponseWriter, req CommitMetaRequest) (git.CommitMeta, bool) {
	meta := git.CommitMeta{
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Message:     req.Message,
	}
	if err := meta.Validate(); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return git.CommitMeta{}, false
	}
	return meta, true
}

// applyParam parses the optional apply query parameter.
func applyParam(w http.ResponseWriter, r *http.Request) (bool, bool) {
	applyStr := r.URL.Query().Get("apply")
	if applyStr == "" {
		return false, true
	}
	apply, err := strconv.ParseBool(applyStr)
	if err != nil {
		common.WriteErrorResponse(w, "Invalid apply parameter: must be a boolean", http.StatusBadRequest)
		return false, false
	}
	return apply, true
}

// appParams extracts and validates the namespace and application name URL
// parameters.
func appParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	namespace, err := common.GetAndValidateURLParam(r, "namespace")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return "", "", false
	}
	name, err := common.GetAndValidateURLParam(r, "name")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return "", "", false
	}
	return namespace, name, true
}

// HealthRouter creates a router for health check endpoints
func HealthRouter(runner sourcecontrol.OperationRunner) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(runner))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
//
// @Summary		Health check
// @Description	Check if the synchronization API is healthy
// @Tags			system
// @Produce		json
// @Success		200	{object}	map[string]string
// @Router			/health [get]
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessHandler handles readiness check requests
//
// @Summary		Readiness check
// @Description	Check if the operation runner is ready to serve requests
// @Tags			system
// @Produce		json
// @Success		200	{object}	map[string]string
// @Failure		503	{object}	common.ErrorResponse
// @Router			/readiness [get]
func readinessHandler(runner sourcecontrol.OperationRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if state := runner.State(); state != sourcecontrol.StateRunning {
			common.WriteErrorResponse(w, "Operation runner not ready: state "+state.String(), http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}

// versionHandler handles version information requests
//
// @Summary		Version information
// @Description	Get version information about the synchronization API
// @Tags			system
// @Produce		json
// @Success		200	{object}	map[string]string
// @Router			/version [get]
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()

	response := map[string]string{
		"version":    info.Version,
		"commit":     info.Commit,
		"build_date": info.BuildDate,
		"go_version": info.GoVersion,
		"platform":   info.Platform,
	}

	common.WriteJSONResponse(w, response, http.StatusOK)
}
