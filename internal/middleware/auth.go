package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"medfinder/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const CallerKey contextKey = "caller"

// Claims is the identity asserted by a bearer token
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies bearer tokens and places the caller in the request context
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			caller, err := parseBearer(authHeader, jwtSecret)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, err.Error())
				return
			}

			logger.Debug("User authenticated",
				zap.String("user_id", caller.ID.String()),
				zap.String("role", caller.Role),
			)

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// OptionalAuthMiddleware attaches the caller when a valid bearer token is sent.
// Requests without one, or with a bad one, continue anonymously.
func OptionalAuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			caller, err := parseBearer(authHeader, jwtSecret)
			if err != nil {
				logger.Debug("Ignoring unusable token on public route", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// parseBearer verifies an Authorization header value. The error text is the
// message returned to the client.
func parseBearer(authHeader, jwtSecret string) (domain.Caller, error) {
	if jwtSecret == "" {
		return domain.Caller{}, errors.New("invalid token")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return domain.Caller{}, errors.New("invalid authorization header format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Caller{}, errors.New("token expired")
		}
		return domain.Caller{}, errors.New("invalid token")
	}
	if !token.Valid {
		return domain.Caller{}, errors.New("invalid token")
	}

	userID, err := domain.ParseID(claims.UserID)
	if err != nil || claims.Role == "" {
		return domain.Caller{}, errors.New("invalid token claims")
	}

	return domain.Caller{ID: userID, Role: claims.Role}, nil
}

// WithCaller returns a copy of ctx carrying caller. The caller is also noted
// on the request log entry when LoggingMiddleware runs further out.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	if entry, ok := ctx.Value(requestEntryKey).(*requestEntry); ok {
		entry.callerID = caller.ID.String()
	}
	return context.WithValue(ctx, CallerKey, caller)
}

// CallerFromContext extracts the authenticated caller from ctx
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(CallerKey).(domain.Caller)
	return caller, ok
}
