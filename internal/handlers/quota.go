package handlers

import (
	"errors"
	"net/http"

	"github.com/stetat/ToDo-bot/internal/dto"
	"github.com/stetat/ToDo-bot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type QuotaHandler struct {
	svc *service.QuotaService
	log *logrus.Entry
}

// NewQuotaHandler returns a new QuotaHandler.
func NewQuotaHandler(svc *service.QuotaService, log *logrus.Entry) *QuotaHandler {
	return &QuotaHandler{svc: svc, log: log}
}

// Check godoc
// @Summary      Check the user's daily advice quota
// @Description  The first check on a new calendar day resets the counter (lazy rollover), so checking can mutate state.
// @Tags         quota
// @Produce      json
// @Param        user_id  path  int  true  "User ID"
// @Success      200  {object}  dto.QuotaResponse
// @Failure      404  {object}  map[string]string
// @Router       /quota/{user_id} [get]
func (h *QuotaHandler) Check(c *gin.Context) {
	userID, ok := parseInt64Param(c, "user_id")
	if !ok {
		return
	}
	allowed, err := h.svc.Check(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, dto.QuotaResponse{OK: allowed})
}

// Consume godoc
// @Summary      Count one advice request against the user's quota
// @Tags         quota
// @Param        user_id  path  int  true  "User ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /quota/{user_id}/consume [post]
func (h *QuotaHandler) Consume(c *gin.Context) {
	userID, ok := parseInt64Param(c, "user_id")
	if !ok {
		return
	}
	if err := h.svc.Consume(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err, h.log)
		return
	}
	c.Status(http.StatusNoContent)
}

// GrantUnlimited godoc
// @Summary      Permanently lift the daily limit for a user
// @Tags         quota
// @Param        user_id  path  int  true  "User ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /quota/{user_id}/unlimited [post]
func (h *QuotaHandler) GrantUnlimited(c *gin.Context) {
	userID, ok := parseInt64Param(c, "user_id")
	if !ok {
		return
	}
	if err := h.svc.GrantUnlimited(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err, h.log)
		return
	}
	c.Status(http.StatusNoContent)
}

// Advice godoc
// @Summary      Get AI advice for the task at the given ordinal
// @Description  Consumes one quota unit only after a successful advice round-trip.
// @Tags         quota
// @Produce      json
// @Param        owner_id  path  int  true  "Owner ID"
// @Param        ordinal   path  int  true  "1-based position in the owner's listing"
// @Success      200  {object}  dto.AdviceResponse
// @Failure      404  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /tasks/{owner_id}/advice/{ordinal} [post]
func (h *QuotaHandler) Advice(c *gin.Context) {
	ownerID, ok := parseInt64Param(c, "owner_id")
	if !ok {
		return
	}
	ordinal, ok := parseOrdinalParam(c)
	if !ok {
		return
	}
	text, err := h.svc.RequestAdvice(c.Request.Context(), ownerID, ordinal)
	if err != nil {
		respondServiceError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, dto.AdviceResponse{Advice: text})
}

// respondServiceError translates service errors into the HTTP taxonomy.
// Quota exhaustion is a normal business outcome, not a fault.
func respondServiceError(c *gin.Context, err error, log *logrus.Entry) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": service.ErrQuotaExceeded.Error()})
	case errors.Is(err, service.ErrAdviceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": service.ErrAdviceUnavailable.Error()})
	default:
		log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
