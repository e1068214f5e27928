package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/delivery/http/dto/dashboard/response"
	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/LavaJover/shvark-dashboard-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockDashboardUsecase struct{ mock.Mock }

func (m *mockDashboardUsecase) Render(ctx context.Context, userID uuid.UUID, query domain.RateQuery) domain.DashboardView {
	return m.Called(ctx, userID, query).Get(0).(domain.DashboardView)
}

type mockSettingsUsecase struct{ mock.Mock }

func (m *mockSettingsUsecase) Overrides(ctx context.Context) map[string]bool {
	overrides, _ := m.Called(ctx).Get(0).(map[string]bool)
	return overrides
}

func (m *mockSettingsUsecase) EffectiveSettings(ctx context.Context) domain.EffectiveSettings {
	return m.Called(ctx).Get(0).(domain.EffectiveSettings)
}

func (m *mockSettingsUsecase) SetModuleEnabled(ctx context.Context, key string, enabled bool) error {
	return m.Called(ctx, key, enabled).Error(0)
}

func (m *mockSettingsUsecase) ResetModule(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockLayoutUsecase struct{ mock.Mock }

func (m *mockLayoutUsecase) PersistedOrder(ctx context.Context, userID uuid.UUID) []string {
	order, _ := m.Called(ctx, userID).Get(0).([]string)
	return order
}

func (m *mockLayoutUsecase) ResolvedOrder(ctx context.Context, userID uuid.UUID) []string {
	order, _ := m.Called(ctx, userID).Get(0).([]string)
	return order
}

func (m *mockLayoutUsecase) SaveOrder(ctx context.Context, userID uuid.UUID, keys []string) error {
	return m.Called(ctx, userID, keys).Error(0)
}

func (m *mockLayoutUsecase) ResetOrder(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type countingFetcher struct {
	calls atomic.Int32
}

func (f *countingFetcher) Fetch(_ context.Context, query domain.RateQuery) (domain.RateQuote, error) {
	f.calls.Add(1)
	return domain.RateQuote{
		Price:         decimal.RequireFromString("36.5"),
		BaseAsset:     query.Asset,
		QuoteCurrency: query.Fiat,
		Side:          query.Side,
	}, nil
}

type countingRecorder struct {
	available, unavailable int
}

func (r *countingRecorder) RecordRender(ok bool) {
	if ok {
		r.available++
		return
	}
	r.unavailable++
}

var (
	defaultQuery  = domain.RateQuery{Asset: "USDT", Fiat: "VES", Side: domain.SideBuy}
	servedQueries = []domain.RateQuery{
		defaultQuery,
		{Asset: "USDT", Fiat: "ARS", Side: domain.SideSell},
	}
)

type fixture struct {
	router    *gin.Engine
	dashboard *mockDashboardUsecase
	settings  *mockSettingsUsecase
	layout    *mockLayoutUsecase
	renders   *countingRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		dashboard: new(mockDashboardUsecase),
		settings:  new(mockSettingsUsecase),
		layout:    new(mockLayoutUsecase),
		renders:   &countingRecorder{},
	}
	registry := usecase.MustNewModuleRegistry(usecase.DefaultModules)
	logger := zap.NewNop()

	f.router = NewRouter(Handlers{
		Dashboard: NewDashboardHandler(f.dashboard, f.settings, registry, defaultQuery, servedQueries, f.renders, logger),
		Settings:  NewSettingsHandler(f.settings, logger),
		Layout:    NewLayoutHandler(f.layout, logger),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
	}, logger)
	return f
}

func (f *fixture) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestGetDashboard(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	fetchedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	query := domain.RateQuery{Asset: "USDT", Fiat: "ARS", Side: domain.SideSell}

	f.dashboard.On("Render", mock.Anything, userID, query).Return(domain.DashboardView{
		UserID: userID,
		ActiveModules: []domain.ModuleDescriptor{
			{Key: "taller", Label: "Taller", Path: "/taller"},
			{Key: "dashboard", Label: "Dashboard", Path: "/dashboard"},
		},
		CurrentRate: domain.RateSnapshot{
			Available: true,
			Quote: domain.RateQuote{
				Price:         decimal.RequireFromString("1250.5"),
				BaseAsset:     "USDT",
				QuoteCurrency: "ARS",
				Side:          domain.SideSell,
				FetchedAt:     fetchedAt,
			},
		},
	})

	w := f.do(http.MethodGet, "/api/dashboard?fiat=ars&side=sell", nil, map[string]string{UserIDHeader: userID.String()})

	require.Equal(t, http.StatusOK, w.Code)
	var resp response.DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, userID.String(), resp.UserID)
	require.Len(t, resp.Modules, 2)
	assert.Equal(t, "taller", resp.Modules[0].Key)
	assert.True(t, resp.Modules[0].Enabled)
	assert.True(t, resp.Rate.Available)
	assert.Equal(t, "1250.5", resp.Rate.Price)
	assert.Equal(t, "SELL", resp.Rate.Side)
	require.NotNil(t, resp.Rate.FetchedAt)
	assert.True(t, fetchedAt.Equal(*resp.Rate.FetchedAt))
	assert.Equal(t, 1, f.renders.available)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestGetDashboard_RateNotAvailable(t *testing.T) {
	f := newFixture(t)
	f.dashboard.On("Render", mock.Anything, domain.SystemScope, defaultQuery).Return(domain.DashboardView{
		CurrentRate: domain.RateNotAvailable,
	})

	w := f.do(http.MethodGet, "/api/dashboard", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		fmt.Sprintf(`{"user_id":%q,"modules":[],"rate":{"available":false}}`, uuid.Nil.String()),
		w.Body.String(),
	)
	assert.Equal(t, 1, f.renders.unavailable)
}

func TestGetDashboard_BadInput(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/dashboard", nil, map[string]string{UserIDHeader: "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/dashboard?side=hold", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.dashboard.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetDashboard_UnservedQuery(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{
		"/api/dashboard?asset=JUNK1",
		"/api/dashboard?fiat=eur",
		"/api/dashboard?fiat=ars",
		"/api/dashboard?side=sell",
	} {
		w := f.do(http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	f.dashboard.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, f.renders.available+f.renders.unavailable)
}

func TestGetDashboard_UnservedQueryNeverReachesCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fetcher := &countingFetcher{}
	cache := usecase.NewRateCache(fetcher)
	registry := usecase.MustNewModuleRegistry(usecase.DefaultModules)
	settings := new(mockSettingsUsecase)
	settings.On("Overrides", mock.Anything).Return(map[string]bool{})
	layout := new(mockLayoutUsecase)
	layout.On("PersistedOrder", mock.Anything, mock.Anything).Return([]string{})
	dashboard := usecase.NewDefaultDashboardUsecase(usecase.NewDashboardComposer(registry, cache), settings, layout)

	router := NewRouter(Handlers{
		Dashboard: NewDashboardHandler(dashboard, settings, registry, defaultQuery, nil, nil, zap.NewNop()),
		Settings:  NewSettingsHandler(settings, zap.NewNop()),
		Layout:    NewLayoutHandler(layout, zap.NewNop()),
	}, zap.NewNop())

	for i := 0; i < 100; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/dashboard?asset=JUNK%d", i), nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.Zero(t, fetcher.calls.Load())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestListModules(t *testing.T) {
	f := newFixture(t)
	f.settings.On("EffectiveSettings", mock.Anything).Return(domain.EffectiveSettings{
		"dashboard": true, "flota": false, "personal": true, "taller": true, "almacen": true,
	})

	w := f.do(http.MethodGet, "/api/modules", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp response.ModulesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Modules, 5)
	assert.Equal(t, "flota", resp.Modules[1].Key)
	assert.False(t, resp.Modules[1].Enabled)
	assert.True(t, resp.Modules[3].Enabled)
}

func TestUpdateModule(t *testing.T) {
	f := newFixture(t)
	f.settings.On("SetModuleEnabled", mock.Anything, "taller", true).Return(nil)
	f.settings.On("SetModuleEnabled", mock.Anything, "ghost", true).
		Return(fmt.Errorf("set module: %w", domain.ErrUnknownModule))
	f.settings.On("SetModuleEnabled", mock.Anything, "flota", true).Return(errors.New("db down"))

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPut, "/api/settings/modules/taller", gin.H{"enabled": true}, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPut, "/api/settings/modules/ghost", gin.H{"enabled": true}, nil).Code)
	assert.Equal(t, http.StatusInternalServerError, f.do(http.MethodPut, "/api/settings/modules/flota", gin.H{"enabled": true}, nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/api/settings/modules/taller", gin.H{}, nil).Code)
}

func TestResetModule(t *testing.T) {
	f := newFixture(t)
	f.settings.On("ResetModule", mock.Anything, "taller").Return(nil)

	w := f.do(http.MethodDelete, "/api/settings/modules/taller", nil, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	f.settings.AssertExpectations(t)
}

func TestSaveLayout(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	headers := map[string]string{UserIDHeader: userID.String()}

	f.layout.On("SaveOrder", mock.Anything, userID, []string{"taller", "dashboard"}).Return(nil)
	f.layout.On("SaveOrder", mock.Anything, userID, []string{"ghost"}).
		Return(fmt.Errorf("%w: unknown module", domain.ErrInvalidLayout))
	f.layout.On("ResolvedOrder", mock.Anything, userID).
		Return([]string{"taller", "dashboard", "flota", "personal", "almacen"})

	w := f.do(http.MethodPut, "/api/layout", gin.H{"order": []string{"taller", "dashboard"}}, headers)
	require.Equal(t, http.StatusOK, w.Code)
	var resp response.LayoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"taller", "dashboard", "flota", "personal", "almacen"}, resp.Order)

	w = f.do(http.MethodPut, "/api/layout", gin.H{"order": []string{"ghost"}}, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPut, "/api/layout", gin.H{}, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAndResetLayout(t *testing.T) {
	f := newFixture(t)
	f.layout.On("ResolvedOrder", mock.Anything, domain.SystemScope).Return([]string{"dashboard"})
	f.layout.On("ResetOrder", mock.Anything, domain.SystemScope).Return(nil)

	w := f.do(http.MethodGet, "/api/layout", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"order":["dashboard"]}`, w.Body.String())

	w = f.do(http.MethodDelete, "/api/layout", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMetricsAndHealthRoutes(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", nil, nil).Code)

	w := f.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# metrics", w.Body.String())
}
