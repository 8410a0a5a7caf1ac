package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type cardHandler struct {
	cardService portssvc.CardSvc
}

func registerCardRoutes(rg *gin.RouterGroup, cardService portssvc.CardSvc) {
	h := &cardHandler{cardService: cardService}
	rg.GET("/card", h.getCard)
}

// getCard godoc
// @Summary Virtual card
// @Description Returns the caller's virtual card. The card number changes on every call.
// @Tags card
// @Produce  json
// @Success 200 {object} dto.CardEnvelope
// @Failure 401 {object} dto.MessageResponse "Unauthorized"
// @Failure 404 {object} dto.MessageResponse "User not found"
// @Failure 500 {object} dto.MessageResponse
// @Security BearerAuth
// @Router /card [get]
func (h *cardHandler) getCard(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCardResponse(card))
}
