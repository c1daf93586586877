package ops

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triviad/triviad/internal/metrics"
	"github.com/triviad/triviad/internal/model"
	"github.com/triviad/triviad/internal/services/questions"
	"github.com/triviad/triviad/internal/services/scoreboard"
	"github.com/triviad/triviad/internal/storage/memory"
	"github.com/triviad/triviad/internal/testutil"
)

func newTestRouter(t *testing.T) (*memory.Registry, http.Handler) {
	t.Helper()

	registry := memory.New()
	bank := questions.New(testutil.NopLogger())
	bank.LoadQuestions(model.ThemeTech, make([]model.Question, 5))
	bank.LoadQuestions(model.ThemeGeneral, make([]model.Question, 5))

	router := NewRouter(RouterConfig{
		Logger:     testutil.NopLogger(),
		Scoreboard: scoreboard.New(registry, bank),
		Metrics:    metrics.New(),
	})
	return registry, router
}

func TestHealthz(t *testing.T) {
	_, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestScoreboardEndpoint(t *testing.T) {
	registry, router := newTestRouter(t)

	_, err := registry.Register(context.Background(), "sess-1", "alice")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scoreboard", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Active participants (1):")
	assert.Contains(t, rec.Body.String(), "alice")
}

func TestMetricsEndpoint(t *testing.T) {
	_, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "triviad_active_sessions")
}

func TestScoreboardRejectsPost(t *testing.T) {
	_, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scoreboard", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
