package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/dto"
	"github.com/cliquepay/cliquepay_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError writes the JSON error body for a service error. Server-side
// failures are reported with the fallback message so store details stay in
// the logs.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := apperrors.StatusCode(err)
	kind := apperrors.Kind(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()), slog.String("kind", kind))
		c.JSON(status, dto.ErrorResponse{Error: fallback, Kind: kind})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.String("kind", kind))
	c.JSON(status, dto.ErrorResponse{Error: err.Error(), Kind: kind})
}

// respondBindError reports a request that could not be decoded or failed
// binding validation.
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid request format: " + err.Error(),
		Kind:  apperrors.Kind(apperrors.ErrValidation),
	})
}

// requireUserID returns the authenticated caller or writes a 401.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Kind: apperrors.Kind(apperrors.ErrUnauthorized)})
		return "", false
	}
	return userID, true
}
