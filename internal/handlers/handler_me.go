package handlers

import (
	"net/http"

	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/cliquepay/cliquepay_backend/internal/dto"
	"github.com/cliquepay/cliquepay_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// meHandler serves the caller's own profile and balances.
type meHandler struct {
	userService      portssvc.UserSvcFacade
	financialService portssvc.FinancialSvcFacade
}

// registerMeRoutes registers the /me routes.
func registerMeRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, financialService portssvc.FinancialSvcFacade) {
	h := &meHandler{userService: userService, financialService: financialService}

	me := rg.Group("/me")
	{
		me.GET("", h.getMe)
		me.GET("/summary", h.getSummary)
		me.GET("/settlement-sheet", h.getSettlementSheet)
	}
}

// getMe godoc
// @Summary Get the current user
// @Tags me
// @Produce  json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve user"
// @Security BearerAuth
// @Router /me [get]
func (h *meHandler) getMe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// getSummary godoc
// @Summary Get the caller's balances
// @Description youOwe is what the caller still owes others, theyOwe what others still owe the caller,
// @Description and totalBill the sum of both.
// @Tags me
// @Produce  json
// @Success 200 {object} dto.FinancialSummaryResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute summary"
// @Security BearerAuth
// @Router /me/summary [get]
func (h *meHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	summary, err := h.financialService.GetFinancialSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute summary")
		return
	}

	c.JSON(http.StatusOK, dto.ToFinancialSummaryResponse(summary))
}

// getSettlementSheet godoc
// @Summary Get the caller's settlement sheet
// @Description Groups every outstanding debt of the caller by creditor.
// @Tags me
// @Produce  json
// @Success 200 {object} dto.SettlementSheetResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to build settlement sheet"
// @Security BearerAuth
// @Router /me/settlement-sheet [get]
func (h *meHandler) getSettlementSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	sheet, err := h.financialService.GetSettlementSheet(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to build settlement sheet")
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementSheetResponse(sheet))
}
