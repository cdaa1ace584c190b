package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/repository/inmemory"
	timeadapter "github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/time"
)

const testSecret = "test-secret"

type testAPI struct {
	router   *gin.Engine
	store    *inmemory.Store
	verifier *middleware.TokenVerifier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := inmemory.NewStore()
	tp := timeadapter.NewRealTimeProvider()
	log := logger.NewNoopLogger()
	recorder := metrics.NewRecorder()

	ledgerService := ledger.NewService(store, tp, log, ledger.Config{
		MinimumPayout:    1000,
		OperationTimeout: 2 * coreport.Second,
	}, ledger.WithMetrics(recorder))
	accountUseCase := account.NewUseCase(store, ledgerService, tp, log, account.Config{
		SignupBonus:      1000,
		ReferralBonus:    1000,
		OperationTimeout: 2 * coreport.Second,
	})

	verifier := middleware.NewTokenVerifier(testSecret, "referral-ledger")
	router := gin.New()
	SetupMiddlewares(router, log, nil, recorder)
	SetupRoutes(router, Handlers{
		Account:     handler.NewAccountHandler(accountUseCase, log),
		Ledger:      handler.NewLedgerHandler(ledgerService, 1000, log),
		Health:      handler.NewHealthHandler(nil, log),
		Metrics:     recorder.Handler(),
		MetricsPath: "/metrics",
	}, verifier, log)

	return &testAPI{router: router, store: store, verifier: verifier}
}

func (a *testAPI) token(t *testing.T, id uuid.UUID) string {
	t.Helper()
	token, err := a.verifier.Sign(id, time.Now(), time.Hour)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// openAccount signs up id and returns its token and referral code
func (a *testAPI) openAccount(t *testing.T, id uuid.UUID, referralCode string) (string, dto.AccountResponse) {
	t.Helper()
	token := a.token(t, id)
	w := a.do(t, http.MethodPost, "/v1/accounts", token, dto.OpenAccountRequest{ReferralCode: referralCode})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return token, decode[dto.AccountResponse](t, w)
}

func TestAuth(t *testing.T) {
	api := newTestAPI(t)

	t.Run("missing token", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/v1/me/summary", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, errs.CodeUnauthorized, decode[dto.ErrorResponse](t, w).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := api.verifier.Sign(uuid.New(), time.Now().Add(-2*time.Hour), time.Hour)
		require.NoError(t, err)
		w := api.do(t, http.MethodGet, "/v1/me/summary", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := middleware.NewTokenVerifier("another-secret", "referral-ledger")
		token, err := other.Sign(uuid.New(), time.Now(), time.Hour)
		require.NoError(t, err)
		w := api.do(t, http.MethodGet, "/v1/me/summary", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := middleware.NewTokenVerifier(testSecret, "someone-else")
		token, err := other.Sign(uuid.New(), time.Now(), time.Hour)
		require.NoError(t, err)
		w := api.do(t, http.MethodGet, "/v1/me/summary", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSignupWithReferralCreditsReferrer(t *testing.T) {
	api := newTestAPI(t)

	referrerToken, referrer := api.openAccount(t, uuid.New(), "")
	assert.Equal(t, int64(1000), referrer.Balance)
	assert.Equal(t, "10.00", referrer.BalanceFormatted)
	assert.Equal(t, "CAD", referrer.Currency)

	referredID := uuid.New()
	_, referred := api.openAccount(t, referredID, referrer.ReferralCode)
	assert.Nil(t, referred.ReferralError)

	w := api.do(t, http.MethodGet, "/v1/me/summary", referrerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[dto.SummaryResponse](t, w)
	assert.Equal(t, int64(2000), summary.Balance)
	assert.Equal(t, "20.00", summary.BalanceFormatted)
	assert.Equal(t, int64(1), summary.ReferralCount)

	w = api.do(t, http.MethodGet, "/v1/me/referrals", referrerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	referrals := decode[dto.ReferralListResponse](t, w)
	require.Len(t, referrals.Referrals, 1)
	assert.Equal(t, referredID.String(), referrals.Referrals[0].ReferredID)

	t.Run("repeated credit is rejected", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/v1/referrals", referrerToken, dto.CreditReferralRequest{ReferredID: referredID.String()})
		assert.Equal(t, http.StatusConflict, w.Code)
		body := decode[dto.ErrorResponse](t, w)
		assert.Equal(t, errs.CodeDuplicateReferral, body.Code)
		assert.False(t, body.Retryable)
	})

	t.Run("self referral is rejected", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/v1/referrals", referrerToken, dto.CreditReferralRequest{ReferredID: referrer.AccountID})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, errs.CodeSelfReferral, decode[dto.ErrorResponse](t, w).Code)
	})

	t.Run("malformed referred id", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/v1/referrals", referrerToken, map[string]string{"referredId": "nope"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errs.CodeInvalidRequest, decode[dto.ErrorResponse](t, w).Code)
	})
}

func TestCreditReferral_RequiresSignupAttribution(t *testing.T) {
	api := newTestAPI(t)

	claimantToken, _ := api.openAccount(t, uuid.New(), "")
	strangerToken, stranger := api.openAccount(t, uuid.New(), "")

	t.Run("claim against a signup without a code is rejected", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/v1/referrals", claimantToken, dto.CreditReferralRequest{ReferredID: stranger.AccountID})

		assert.Equal(t, http.StatusForbidden, w.Code)
		body := decode[dto.ErrorResponse](t, w)
		assert.Equal(t, errs.CodeReferralNotAttributed, body.Code)
		assert.False(t, body.Retryable)

		w = api.do(t, http.MethodGet, "/v1/me/summary", claimantToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		summary := decode[dto.SummaryResponse](t, w)
		assert.Equal(t, int64(1000), summary.Balance)
		assert.Equal(t, int64(0), summary.ReferralCount)
	})

	t.Run("claim against someone else's referral is rejected", func(t *testing.T) {
		_, referred := api.openAccount(t, uuid.New(), stranger.ReferralCode)
		require.Nil(t, referred.ReferralError)

		w := api.do(t, http.MethodPost, "/v1/referrals", claimantToken, dto.CreditReferralRequest{ReferredID: referred.AccountID})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, errs.CodeReferralNotAttributed, decode[dto.ErrorResponse](t, w).Code)

		w = api.do(t, http.MethodGet, "/v1/me/summary", strangerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(2000), decode[dto.SummaryResponse](t, w).Balance)
	})

	t.Run("claimant has no referral edges", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/v1/me/referrals", claimantToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[dto.ReferralListResponse](t, w).Referrals)
	})
}

func TestSignup_UnknownReferralCode(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/v1/accounts", api.token(t, uuid.New()), dto.OpenAccountRequest{ReferralCode: "NOPE1234"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errs.CodeReferralCodeNotFound, decode[dto.ErrorResponse](t, w).Code)
}

func TestSignup_Twice(t *testing.T) {
	api := newTestAPI(t)
	id := uuid.New()
	token, _ := api.openAccount(t, id, "")

	w := api.do(t, http.MethodPost, "/v1/accounts", token, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, errs.CodeDuplicateAccount, decode[dto.ErrorResponse](t, w).Code)
}

func TestPayoutFlow(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.openAccount(t, uuid.New(), "")

	w := api.do(t, http.MethodPost, "/v1/me/payouts", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, errs.CodeNoPayoutEmail, decode[dto.ErrorResponse](t, w).Code)

	w = api.do(t, http.MethodPut, "/v1/me/payout-destination", token, dto.PayoutDestinationRequest{Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errs.CodeInvalidEmail, decode[dto.ErrorResponse](t, w).Code)

	w = api.do(t, http.MethodPut, "/v1/me/payout-destination", token, dto.PayoutDestinationRequest{Email: "payee@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "payee@example.com", decode[dto.PayoutDestinationResponse](t, w).PayoutEmail)

	w = api.do(t, http.MethodPost, "/v1/me/payouts", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payout := decode[dto.PayoutResponse](t, w)
	assert.Equal(t, int64(1000), payout.Amount)
	assert.Equal(t, "pending", payout.Status)
	assert.Equal(t, "payee@example.com", payout.DestinationEmail)

	w = api.do(t, http.MethodGet, "/v1/me/summary", token, nil)
	assert.Equal(t, int64(0), decode[dto.SummaryResponse](t, w).Balance)

	w = api.do(t, http.MethodPost, "/v1/me/payouts", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, errs.CodeBelowMinimum, decode[dto.ErrorResponse](t, w).Code)

	w = api.do(t, http.MethodGet, "/v1/me/payouts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.PayoutListResponse](t, w).Payouts, 1)
}

func TestTransientFailureIsRetryable(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.openAccount(t, uuid.New(), "")
	w := api.do(t, http.MethodPut, "/v1/me/payout-destination", token, dto.PayoutDestinationRequest{Email: "payee@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	api.store.InjectFault(inmemory.FaultAccountUpdate, errs.ErrTransientIO)
	w = api.do(t, http.MethodPost, "/v1/me/payouts", token, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, errs.CodeTransientIO, body.Code)
	assert.True(t, body.Retryable)

	// nothing was moved, so the retry succeeds
	w = api.do(t, http.MethodPost, "/v1/me/payouts", token, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSummary_UnknownAccount(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/v1/me/summary", api.token(t, uuid.New()), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errs.CodeAccountNotFound, decode[dto.ErrorResponse](t, w).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = api.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_request_duration_seconds`)
}
