package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/middleware"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountUseCase usecase.AccountUseCase
	logger         coreport.Logger
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(accountUseCase usecase.AccountUseCase, logger coreport.Logger) *AccountHandler {
	return &AccountHandler{
		accountUseCase: accountUseCase,
		logger:         logger,
	}
}

// OpenAccount handles the POST /v1/accounts endpoint
func (h *AccountHandler) OpenAccount(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return
	}

	// The body is optional
	var req dto.OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondInvalidRequest(c, "Invalid request format: "+err.Error())
		return
	}

	account, err := h.accountUseCase.OpenAccount(c.Request.Context(), accountID, req.ReferralCode)
	if account == nil {
		respondError(c, h.logger, "openAccount", err)
		return
	}

	resp := dto.NewAccountResponse(account)
	if err != nil {
		// Signup succeeded but the referrer was not credited
		h.logger.Warn("Account opened without referral credit", map[string]any{
			"account_id": accountID.String(),
			"error":      err.Error(),
		})
		referralErr := NewErrorResponse(err)
		resp.ReferralError = &referralErr
	}

	c.JSON(http.StatusCreated, resp)
}
