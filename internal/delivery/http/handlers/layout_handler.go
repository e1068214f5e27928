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

type LayoutHandler struct {
	layout usecase.LayoutUsecase
	logger *zap.Logger
}

func NewLayoutHandler(layout usecase.LayoutUsecase, logger *zap.Logger) *LayoutHandler {
	return &LayoutHandler{layout: layout, logger: logger}
}

func (h *LayoutHandler) GetLayout(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.LayoutResponse{Order: h.layout.ResolvedOrder(c.Request.Context(), userID)})
}

// SaveLayout replaces the caller's order. Without X-User-ID it replaces the
// system default order.
func (h *LayoutHandler) SaveLayout(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}

	var req request.SaveLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.layout.SaveOrder(c.Request.Context(), userID, req.Order); err != nil {
		if errors.Is(err, domain.ErrInvalidLayout) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("failed to save layout", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to save layout"})
		return
	}

	c.JSON(http.StatusOK, response.LayoutResponse{Order: h.layout.ResolvedOrder(c.Request.Context(), userID)})
}

func (h *LayoutHandler) ResetLayout(c *gin.Context) {
	userID, ok := userIDFromHeader(c)
	if !ok {
		return
	}
	if err := h.layout.ResetOrder(c.Request.Context(), userID); err != nil {
		h.logger.Error("failed to reset layout", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to reset layout"})
		return
	}
	c.Status(http.StatusNoContent)
}
