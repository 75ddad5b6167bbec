package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireRole middleware ensures the caller has one of the specified roles
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				logger.Warn("Caller not found in context")
				RespondWithError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if caller.Role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				logger.Warn("User role not authorized",
					zap.String("role", caller.Role),
					zap.Strings("allowed_roles", allowedRoles),
				)
				RespondWithError(w, http.StatusForbidden, "User role "+caller.Role+" is not authorized to access this route")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
