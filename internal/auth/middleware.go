package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/monitoring"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

type contextKey string

const claimsKey contextKey = "user_claims"

// Guard authenticates every portal request and asserts the doctor role.
// It replaces the per-page session check a portal like this otherwise
// repeats on every handler.
type Guard struct {
	validator *TokenValidator
	metrics   *monitoring.MetricsCollector
	logger    *logger.Logger
}

// NewGuard creates a new doctor-role guard
func NewGuard(validator *TokenValidator, metrics *monitoring.MetricsCollector, log *logger.Logger) *Guard {
	return &Guard{
		validator: validator,
		metrics:   metrics,
		logger:    log,
	}
}

// Middleware validates the bearer token and requires role=doctor
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractBearerToken(r)
		if tokenString == "" {
			g.metrics.RecordAuthAttempt("missing_token")
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := g.validator.ValidateToken(tokenString)
		if err != nil {
			g.metrics.RecordAuthAttempt("invalid_token")
			g.logger.Warnf("Token validation failed: %v", err)
			writeAuthError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		if claims.Role != types.RoleDoctor {
			g.metrics.RecordAuthAttempt("wrong_role")
			g.logger.Security("non_doctor_access_attempt", claims.UserID, map[string]interface{}{
				"role": string(claims.Role),
				"path": r.URL.Path,
			})
			writeAuthError(w, http.StatusForbidden, "doctor role required")
			return
		}

		g.metrics.RecordAuthAttempt("success")
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the authenticated claims, or nil
func ClaimsFromContext(ctx context.Context) *types.UserClaims {
	claims, _ := ctx.Value(claimsKey).(*types.UserClaims)
	return claims
}

// DoctorIDFromContext returns the acting doctor's id. Empty only when the
// guard did not run, which handlers treat as unauthenticated.
func DoctorIDFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// ContextWithClaims injects claims directly. Used by tests.
func ContextWithClaims(ctx context.Context, claims *types.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// extractBearerToken pulls the token from the Authorization header
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

// writeAuthError writes an authentication error response
func writeAuthError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  message,
		"status": statusCode,
	})
}
