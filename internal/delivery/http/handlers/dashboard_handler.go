package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/LavaJover/shvark-dashboard-service/internal/delivery/http/dto/dashboard/response"
	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/LavaJover/shvark-dashboard-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const UserIDHeader = "X-User-ID"

// RenderRecorder counts rendered dashboards.
type RenderRecorder interface {
	RecordRender(rateAvailable bool)
}

type DashboardHandler struct {
	dashboard    usecase.DashboardUsecase
	settings     usecase.SettingsUsecase
	registry     *usecase.ModuleRegistry
	defaultQuery domain.RateQuery
	served       map[string]struct{}
	renders      RenderRecorder
	logger       *zap.Logger
}

func NewDashboardHandler(
	dashboard usecase.DashboardUsecase,
	settings usecase.SettingsUsecase,
	registry *usecase.ModuleRegistry,
	defaultQuery domain.RateQuery,
	served []domain.RateQuery,
	renders RenderRecorder,
	logger *zap.Logger,
) *DashboardHandler {
	keys := map[string]struct{}{defaultQuery.CacheKey(): {}}
	for _, q := range served {
		keys[q.CacheKey()] = struct{}{}
	}
	return &DashboardHandler{
		dashboard:    dashboard,
		settings:     settings,
		registry:     registry,
		defaultQuery: defaultQuery,
		served:       keys,
		renders:      renders,
		logger:       logger,
	}
}

// GetDashboard renders the active modules and the current rate.
// Query parameters asset, fiat and side override the configured rate query,
// as long as the result is one of the served queries.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}

	query, err := h.rateQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	view := h.dashboard.Render(c.Request.Context(), userID, query)
	if h.renders != nil {
		h.renders.RecordRender(view.CurrentRate.Available)
	}

	modules := make([]response.ModuleResponse, len(view.ActiveModules))
	for i, m := range view.ActiveModules {
		modules[i] = toModuleResponse(m, true)
	}

	c.JSON(http.StatusOK, response.DashboardResponse{
		UserID:  view.UserID.String(),
		Modules: modules,
		Rate:    toRateResponse(view.CurrentRate),
	})
}

// ListModules returns the whole catalog with the effective flags.
func (h *DashboardHandler) ListModules(c *gin.Context) {
	effective := h.settings.EffectiveSettings(c.Request.Context())

	all := h.registry.All()
	modules := make([]response.ModuleResponse, len(all))
	for i, m := range all {
		modules[i] = toModuleResponse(m, effective.Enabled(m.Key))
	}
	c.JSON(http.StatusOK, response.ModulesResponse{Modules: modules})
}

func (h *DashboardHandler) rateQuery(c *gin.Context) (domain.RateQuery, error) {
	query := h.defaultQuery
	if asset := strings.TrimSpace(c.Query("asset")); asset != "" {
		query.Asset = strings.ToUpper(asset)
	}
	if fiat := strings.TrimSpace(c.Query("fiat")); fiat != "" {
		query.Fiat = strings.ToUpper(fiat)
	}
	if side := c.Query("side"); side != "" {
		parsed, err := domain.ParseTradeSide(side)
		if err != nil {
			return domain.RateQuery{}, err
		}
		query.Side = parsed
	}
	if _, ok := h.served[query.CacheKey()]; !ok {
		return domain.RateQuery{}, fmt.Errorf("rate %s is not served", query.CacheKey())
	}
	return query, nil
}

// userIDFromHeader reads the optional user scope. A missing header selects
// the system default scope. On a malformed id it writes 400 and returns false.
func userIDFromHeader(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader(UserIDHeader)
	if raw == "" {
		return domain.SystemScope, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid " + UserIDHeader})
		return uuid.Nil, false
	}
	return id, true
}

func toModuleResponse(m domain.ModuleDescriptor, enabled bool) response.ModuleResponse {
	return response.ModuleResponse{
		Key:     m.Key,
		Label:   m.Label,
		Path:    m.Path,
		Enabled: enabled,
	}
}

func toRateResponse(s domain.RateSnapshot) response.RateResponse {
	if !s.Available {
		return response.RateResponse{Available: false}
	}
	fetchedAt := s.Quote.FetchedAt
	return response.RateResponse{
		Available:        true,
		Price:            s.Quote.Price.String(),
		Asset:            s.Quote.BaseAsset,
		Fiat:             s.Quote.QuoteCurrency,
		Side:             string(s.Quote.Side),
		CounterpartyName: s.Quote.CounterpartyName,
		FetchedAt:        &fetchedAt,
	}
}
