package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/middleware"
)

// Handlers groups the HTTP handlers exposed by the API
type Handlers struct {
	Account *handler.AccountHandler
	Ledger  *handler.LedgerHandler
	Health  *handler.HealthHandler
	// Metrics serves the Prometheus exposition; nil disables the route
	Metrics     http.Handler
	MetricsPath string
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, verifier *middleware.TokenVerifier, logger coreport.Logger) {
	router.GET("/health", h.Health.Health)
	if h.Metrics != nil {
		router.GET(h.MetricsPath, gin.WrapH(h.Metrics))
	}

	v1 := router.Group("/v1")
	v1.Use(middleware.Auth(verifier, logger))
	{
		// POST /v1/accounts
		v1.POST("/accounts", h.Account.OpenAccount)

		// POST /v1/referrals
		v1.POST("/referrals", h.Ledger.CreditReferral)

		me := v1.Group("/me")
		me.GET("/summary", h.Ledger.GetSummary)
		me.PUT("/payout-destination", h.Ledger.SetPayoutDestination)
		me.POST("/payouts", h.Ledger.RequestPayout)
		me.GET("/payouts", h.Ledger.ListPayouts)
		me.GET("/referrals", h.Ledger.ListReferrals)
	}
}

// SetupMiddlewares configures global middlewares for the API.
// observer may be nil when metrics are disabled.
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, allowedOrigins []string, observer middleware.HTTPObserver) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(allowedOrigins))
	if observer != nil {
		router.Use(middleware.Metrics(observer))
	}
}
