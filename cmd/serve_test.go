package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/internal/store"
)

type mockStore struct {
	mock.Mock
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) CreateRun(ctx context.Context, corpus model.Corpus) (*model.Run, error) {
	args := m.Called(ctx, corpus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	return m.Called(ctx, runID, status).Error(0)
}

func (m *mockStore) UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error {
	return m.Called(ctx, runID, result).Error(0)
}

func (m *mockStore) FailRun(ctx context.Context, runID string, errMsg string) error {
	return m.Called(ctx, runID, errMsg).Error(0)
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

func testRouter(st store.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/runs", handleListRuns(st))
	r.Get("/runs/{runID}", handleGetRun(st))
	return r
}

func TestHandleListRuns(t *testing.T) {
	st := &mockStore{}
	st.On("ListRuns", mock.Anything, store.RunFilter{Status: model.RunStatusComplete, Limit: 10}).
		Return([]model.Run{
			{ID: "run-1", Source: "corpus.txt", Status: model.RunStatusComplete},
		}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/runs?status=complete&limit=10", nil)
	testRouter(st).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"id":"run-1"`)
	st.AssertExpectations(t)
}

func TestHandleListRuns_EmptyIsArray(t *testing.T) {
	st := &mockStore{}
	st.On("ListRuns", mock.Anything, mock.Anything).Return(nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	testRouter(st).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestHandleListRuns_StoreError(t *testing.T) {
	st := &mockStore{}
	st.On("ListRuns", mock.Anything, mock.Anything).
		Return(nil, eris.New("db down"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	testRouter(st).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "list runs failed")
}

func TestHandleGetRun(t *testing.T) {
	st := &mockStore{}
	st.On("GetRun", mock.Anything, "run-1").
		Return(&model.Run{
			ID:       "run-1",
			CorpusID: "abc123",
			Status:   model.RunStatusComplete,
			Result:   &model.RunResult{SegmentCount: 4},
		}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/runs/run-1", nil)
	testRouter(st).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"segment_count":4`)
}

func TestHandleGetRun_NotFound(t *testing.T) {
	st := &mockStore{}
	st.On("GetRun", mock.Anything, "missing").
		Return(nil, eris.Wrapf(store.ErrRunNotFound, "%s", "missing"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/runs/missing", nil)
	testRouter(st).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "run not found")
}

func TestFormatRunsList(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []model.Run{
		{ID: "run-1", Source: "corpus.txt", Status: model.RunStatusComplete, CreatedAt: created},
		{ID: "run-2", Source: "corpus.txt", Status: model.RunStatusFailed, CreatedAt: created,
			Error: strings.Repeat("x", 60)},
	}

	var sb strings.Builder
	formatRunsList(&sb, runs)
	out := sb.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, strings.Repeat("x", 40)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 41))
}
