package handlers

import (
	"errors"
	"net/http"

	"github.com/LavaJover/shvark-dashboard-service/internal/delivery/http/dto/dashboard/request"
	"github.com/LavaJover/shvark-dashboard-service/internal/delivery/http/dto/dashboard/response"
	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/LavaJover/shvark-dashboard-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	settings usecase.SettingsUsecase
	logger   *zap.Logger
}

func NewSettingsHandler(settings usecase.SettingsUsecase, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

func (h *SettingsHandler) UpdateModule(c *gin.Context) {
	key := c.Param("key")

	var req request.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.settings.SetModuleEnabled(c.Request.Context(), key, *req.Enabled); err != nil {
		h.writeError(c, key, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetModule drops the override so the catalog default applies again.
func (h *SettingsHandler) ResetModule(c *gin.Context) {
	key := c.Param("key")
	if err := h.settings.ResetModule(c.Request.Context(), key); err != nil {
		h.writeError(c, key, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SettingsHandler) writeError(c *gin.Context, key string, err error) {
	if errors.Is(err, domain.ErrUnknownModule) {
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
		return
	}
	h.logger.Error("failed to update module setting", zap.String("module", key), zap.Error(err))
	c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to update module setting"})
}
