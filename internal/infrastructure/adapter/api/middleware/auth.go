package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/dto"
)

const accountIDKey = "account_id"

// TokenVerifier validates HS256 bearer tokens whose subject is the account ID
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
	issuer string
}

// NewTokenVerifier creates a verifier; an empty issuer accepts any issuer
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &TokenVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
		issuer: issuer,
	}
}

// Verify parses the token and returns the account ID in its subject
func (v *TokenVerifier) Verify(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", errs.ErrUnauthorized, err)
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil || accountID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not an account ID", errs.ErrUnauthorized)
	}
	return accountID, nil
}

// Sign issues a token for accountID valid for ttl
func (v *TokenVerifier) Sign(accountID uuid.UUID, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Auth middleware requires a valid bearer token and stores the account ID in the context
func Auth(verifier *TokenVerifier, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		accountID, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("Rejected bearer token", map[string]any{
				"error": err.Error(),
				"path":  c.Request.URL.Path,
			})
			abortUnauthorized(c, "Invalid bearer token")
			return
		}

		c.Set(accountIDKey, accountID)
		c.Next()
	}
}

// AccountID returns the authenticated account ID. When absent it writes a 401 and returns false.
func AccountID(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(accountIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	abortUnauthorized(c, "Missing account identity")
	return uuid.Nil, false
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Code:    errs.CodeUnauthorized,
		Message: message,
	})
}
