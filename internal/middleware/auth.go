package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/domain"
	jwtsvc "taskmanager/internal/pkg/jwt"
	"taskmanager/internal/pkg/response"
)

// Context keys set by the authenticator for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxJTI    = "jti"
	CtxClaims = "token_claims"
)

// TokenVerifier verifies a bearer token's signature and expiry.
type TokenVerifier interface {
	ValidateToken(tokenStr string) (*jwtsvc.Claims, error)
}

// RevocationChecker consults the revocation ledger, including the owner's
// all-device cutoff.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string, userID int64, issuedAt time.Time) (bool, error)
}

// RequireAuth gates a route group on a valid, unrevoked access token and
// injects the caller's identity into the request context.
func RequireAuth(verifier TokenVerifier, ledger RevocationChecker) gin.HandlerFunc {
	return requireToken(verifier, ledger, domain.TokenTypeAccess)
}

// RequireRefresh is the same gate for refresh-only endpoints.
func RequireRefresh(verifier TokenVerifier, ledger RevocationChecker) gin.HandlerFunc {
	return requireToken(verifier, ledger, domain.TokenTypeRefresh)
}

func requireToken(verifier TokenVerifier, ledger RevocationChecker, wantType domain.TokenType) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, response.KindUnauthorized, "Authorization required")
			return
		}

		claims, err := verifier.ValidateToken(tokenStr)
		if err != nil {
			if errors.Is(err, jwtsvc.ErrTokenExpired) {
				response.AbortError(c, http.StatusUnauthorized, response.KindUnauthorized, "Token has expired")
				return
			}
			response.AbortError(c, http.StatusUnauthorized, response.KindUnauthorized, "Invalid token")
			return
		}

		if claims.TokenType != wantType {
			response.AbortError(c, http.StatusUnauthorized, response.KindUnauthorized, "Invalid token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, response.KindUnauthorized, "Invalid token")
			return
		}

		var issuedAt time.Time
		if claims.IssuedAt != nil {
			issuedAt = claims.IssuedAt.Time
		}
		revoked, err := ledger.IsTokenRevoked(c.Request.Context(), claims.ID, userID, issuedAt)
		if err != nil {
			response.AbortError(c, http.StatusInternalServerError, response.KindServer, "Failed to verify token")
			return
		}
		if revoked {
			response.AbortError(c, http.StatusUnauthorized, response.KindUnauthorized, "Token has been revoked")
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxJTI, claims.ID)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

// CurrentUserID returns the identity the authenticator placed in context.
func CurrentUserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserID)
}

// CurrentClaims returns the verified token claims, or nil outside an
// authenticated route.
func CurrentClaims(c *gin.Context) *jwtsvc.Claims {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwtsvc.Claims)
	return claims
}
