package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/confsync/confsync/internal/api"
	v0 "github.com/confsync/confsync/internal/api/v0"
	"github.com/confsync/confsync/internal/sourcecontrol"
	"github.com/confsync/confsync/internal/sourcecontrol/mocks"
)

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRunner := mocks.NewMockOperationRunner(ctrl)
	// No expectations needed - health check doesn't call the runner
	server := api.NewServer(v0.Dependencies{Runner: mockRunner})

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]string
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		state          sourcecontrol.State
		expectedStatus int
	}{
		{
			name:           "runner running",
			state:          sourcecontrol.StateRunning,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "runner not started",
			state:          sourcecontrol.StateNotStarted,
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "runner stopped",
			state:          sourcecontrol.StateStopped,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			t.Cleanup(ctrl.Finish)

			mockRunner := mocks.NewMockOperationRunner(ctrl)
			mockRunner.EXPECT().State().Return(tt.state)

			server := api.NewServer(v0.Dependencies{Runner: mockRunner})

			req, err := http.NewRequest("GET", "/readiness", nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			server.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var response map[string]string
			err = json.Unmarshal(rr.Body.Bytes(), &response)
			require.NoError(t, err)

			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "ready", response["status"])
			} else {
				assert.Contains(t, response["error"], tt.state.String())
			}
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRunner := mocks.NewMockOperationRunner(ctrl)
	// No expectations needed - version check doesn't call the runner
	server := api.NewServer(v0.Dependencies{Runner: mockRunner})

	req, err := http.NewRequest("GET", "/version", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]string
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)

	// Version info should contain these fields
	assert.Contains(t, response, "version")
	assert.Contains(t, response, "commit")
	assert.Contains(t, response, "build_date")
	assert.Contains(t, response, "go_version")
	assert.Contains(t, response, "platform")
}

func TestLoggingMiddleware(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRunner := mocks.NewMockOperationRunner(ctrl)
	server := api.NewServer(v0.Dependencies{Runner: mockRunner},
		api.WithMiddlewares(api.LoggingMiddleware))

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	// The middleware must pass the request through untouched
	assert.Equal(t, http.StatusOK, rr.Code)
}
