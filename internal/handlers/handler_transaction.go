package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/dto"
	"github.com/SscSPs/momo_backend/internal/middleware"
	"github.com/SscSPs/momo_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// transactionHandler serves balance reads and money movements for the caller.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	rg.GET("/balance", h.getBalance)
	rg.GET("/transactions", h.listTransactions)
	rg.POST("/recharge", h.recharge)
	rg.POST("/transfer", h.transfer)
}

// callerID reads the authenticated user or answers 401.
func callerID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Unauthenticated."})
	}
	return userID, ok
}

// recharge godoc
// @Summary Recharge balance
// @Description Credits the caller's balance from an external provider
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   recharge body dto.RechargeRequest true "Recharge details"
// @Success 200 {object} dto.BalanceMutationResponse
// @Failure 400 {object} dto.MessageResponse "Malformed request"
// @Failure 401 {object} dto.MessageResponse "Unauthorized"
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} dto.MessageResponse "Recharge failed"
// @Security BearerAuth
// @Router /recharge [post]
func (h *transactionHandler) recharge(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.transactionService.Recharge(c.Request.Context(), userID, req.Amount, req.Provider, req.TransactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceMutationResponse{
		Message:    "Recharge successful",
		NewBalance: utils.FormatAmount(result.NewBalance),
	})
}

// transfer godoc
// @Summary Transfer money
// @Description Sends money from the caller to the user owning recipient_phone
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.BalanceMutationResponse
// @Failure 400 {object} dto.MessageResponse "Insufficient balance, self-transfer or malformed request"
// @Failure 401 {object} dto.MessageResponse "Unauthorized"
// @Failure 404 {object} dto.MessageResponse "Recipient not found"
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} dto.MessageResponse "Transfer failed"
// @Security BearerAuth
// @Router /transfer [post]
func (h *transactionHandler) transfer(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.transactionService.Transfer(c.Request.Context(), userID, req.RecipientPhone, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceMutationResponse{
		Message:    "Transfer successful",
		NewBalance: utils.FormatAmount(result.NewBalance),
	})
}

// getBalance godoc
// @Summary Get balance
// @Description Returns the caller's current balance
// @Tags transactions
// @Produce  json
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} dto.MessageResponse "Unauthorized"
// @Failure 404 {object} dto.MessageResponse "User not found"
// @Failure 500 {object} dto.MessageResponse
// @Security BearerAuth
// @Router /balance [get]
func (h *transactionHandler) getBalance(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	balance, err := h.transactionService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: utils.FormatAmount(balance)})
}

// listTransactions godoc
// @Summary Transaction history
// @Description Lists the caller's recharges, sent and received transfers, newest first
// @Tags transactions
// @Produce  json
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} dto.MessageResponse "Unauthorized"
// @Failure 404 {object} dto.MessageResponse "User not found"
// @Failure 500 {object} dto.MessageResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	history, err := h.transactionService.GetTransactionsHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(history))
}
