package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/cliquepay/cliquepay_backend/internal/dto"
	"github.com/cliquepay/cliquepay_backend/internal/middleware"
	"github.com/cliquepay/cliquepay_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	settlementService portssvc.SettlementSvcFacade
	posthogClient     *utils.PosthogClientWrapper
}

func newPaymentHandler(ss portssvc.SettlementSvcFacade, posthogClient *utils.PosthogClientWrapper) *paymentHandler {
	return &paymentHandler{
		settlementService: ss,
		posthogClient:     posthogClient,
	}
}

// registerPaymentRoutes registers all payment-related routes.
func registerPaymentRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade, posthogClient *utils.PosthogClientWrapper) {
	h := newPaymentHandler(settlementService, posthogClient)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.recordPayment)
		payments.GET("", h.listPayments)
	}
}

// recordPayment godoc
// @Summary Record a payment
// @Description Pays down what the caller owes to one user (userID) or within one group (groupID), oldest debt first.
// @Description Any amount beyond what is owed is reported back as amountLeftover.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Nothing is owed to the target"
// @Failure 500 {object} dto.ErrorResponse "Failed to record payment"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	payerID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to record payment", slog.String("amount", req.Amount.String()))

	payment, err := h.settlementService.RecordPayment(c.Request.Context(), req, payerID)
	if err != nil {
		respondError(c, logger, err, "Failed to record payment")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "payment_recorded", map[string]any{
		"payment_id":      payment.PaymentID,
		"target_kind":     payment.Target.Kind(),
		"amount_applied":  payment.AmountApplied.StringFixed(domain.MoneyPlaces),
		"amount_leftover": payment.AmountLeftover.StringFixed(domain.MoneyPlaces),
	})
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// listPayments godoc
// @Summary List payments
// @Description Lists the payments the caller has recorded, newest first, with the splits each one paid down.
// @Tags payments
// @Produce  json
// @Param   limit query int false "Maximum number of payments" default(50) minimum(1) maximum(200)
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list payments"
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	payments, err := h.settlementService.ListPayments(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListPaymentsResponse(payments))
}
