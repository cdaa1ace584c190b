package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/middleware"
)

// LedgerHandler handles balance, referral and payout requests of the calling account
type LedgerHandler struct {
	ledger        usecase.LedgerUseCase
	referralBonus int64
	logger        coreport.Logger
}

// NewLedgerHandler creates a new ledger handler instance
func NewLedgerHandler(ledger usecase.LedgerUseCase, referralBonus int64, logger coreport.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:        ledger,
		referralBonus: referralBonus,
		logger:        logger,
	}
}

// GetSummary handles the GET /v1/me/summary endpoint
func (h *LedgerHandler) GetSummary(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return
	}

	summary, err := h.ledger.GetAccountSummary(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, h.logger, "getAccountSummary", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSummaryResponse(summary))
}

// SetPayoutDestination handles the PUT /v1/me/payout-destination endpoint
func (h *LedgerHandler) SetPayoutDestination(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return
	}

	var req dto.PayoutDestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, "Invalid request format: "+err.Error())
		return
	}

	account, err := h.ledger.SetPayoutDestination(c.Request.Context(), accountID, req.Email)
	if err != nil {
		respondError(c, h.logger, "setPayoutDestination", err)
		return
	}

	c.JSON(http.StatusOK, dto.PayoutDestinationResponse{
		AccountID:   account.ID.String(),
		PayoutEmail: account.PayoutEmail,
	})
}

// RequestPayout handles the POST /v1/me/payouts endpoint
func (h *LedgerHandler) RequestPayout(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return
	}

	payout, err := h.ledger.RequestPayout(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, h.logger, "requestPayout", err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewPayoutResponse(payout))
}

// ListPayouts handles the GET /v1/me/payouts endpoint
func (h *LedgerHandler) ListPayouts(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return
	}

	payouts, err := h.ledger.ListPayouts(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, h.logger, "listPayouts", err)
		return
	}

	resp := dto.PayoutListResponse{Payouts: make([]dto.PayoutResponse, 0, len(payouts))}
	for _, p := range payouts {
		resp.Payouts = append(resp.Payouts, dto.NewPayoutResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// ListReferrals handles the GET /v1/me/referrals endpoint
func (h *LedgerHandler) ListReferrals(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return
	}

	edges, err := h.ledger.ListReferrals(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, h.logger, "listReferrals", err)
		return
	}

	resp := dto.ReferralListResponse{Referrals: make([]dto.ReferralResponse, 0, len(edges))}
	for _, e := range edges {
		resp.Referrals = append(resp.Referrals, dto.NewReferralResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}

// CreditReferral handles the POST /v1/referrals endpoint.
// The caller is the referrer; the bonus amount comes from configuration.
func (h *LedgerHandler) CreditReferral(c *gin.Context) {
	referrerID, ok := middleware.AccountID(c)
	if !ok {
		return
	}

	var req dto.CreditReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, "Invalid request format: "+err.Error())
		return
	}
	referredID, err := uuid.Parse(req.ReferredID)
	if err != nil {
		respondInvalidRequest(c, "Invalid referred account ID")
		return
	}

	edge, err := h.ledger.CreditReferralBonus(c.Request.Context(), referrerID, referredID, h.referralBonus)
	if err != nil {
		respondError(c, h.logger, "creditReferralBonus", err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewReferralResponse(edge))
}
