package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	"github.com/SscSPs/momo_backend/internal/dto"
	"github.com/SscSPs/momo_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const msgInternalError = "Something went wrong. Please try again later."

// ValidationErrorResponse is returned when a request fails field validation.
type ValidationErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// respondError maps a service error to a status code and a client-safe body.
// Anything that is not a known failure is logged and reported as 500.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
		logger.Warn("Request failed", slog.Int("status", appErr.Code), slog.String("error", err.Error()))
		c.JSON(appErr.Code, dto.MessageResponse{Message: appErr.Message})
		return
	}

	switch {
	case apperrors.IsBusinessRule(err):
		msg := apperrors.ErrInsufficientBalance.Error()
		if errors.Is(err, apperrors.ErrSelfTransfer) {
			msg = apperrors.ErrSelfTransfer.Error()
		}
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msg})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, dto.MessageResponse{Message: "The given data was invalid."})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.MessageResponse{Message: "Not found."})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, dto.MessageResponse{Message: "Resource already exists."})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.MessageResponse{Message: "Forbidden."})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Unauthenticated."})
	default:
		logger.Error("Request failed", slog.String("error", err.Error()))
		msg := msgInternalError
		if appErr != nil {
			msg = appErr.Message
		}
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msg})
	}
}

// respondBindError reports a request that could not be bound. Field
// validation failures become 422 with per-field messages; anything else
// (bad JSON, wrong types) is a 400.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
			Message: "The given data was invalid.",
			Errors:  fieldErrors(verrs),
		})
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Malformed request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "Malformed request."})
}
