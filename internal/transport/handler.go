package transport

import (
	"net/http"

	"medfinder/internal/domain"
	"medfinder/internal/middleware"

	"go.uber.org/zap"
)

// requireCaller returns the authenticated caller or answers 401
func requireCaller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "Not authorized, no token")
		return domain.Caller{}, false
	}
	return caller, true
}

func respondError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	logger.Debug("Request rejected",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	middleware.RespondWithAppError(w, logger, err)
}

func passThrough(next http.Handler) http.Handler {
	return next
}
