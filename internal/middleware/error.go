package middleware

import (
	"errors"
	"net/http"

	"medfinder/internal/domain"

	"go.uber.org/zap"
)

// StatusFor maps an application error to its HTTP status and user facing message
func StatusFor(err error) (int, string) {
	var (
		validationErr *domain.ValidationError
		duplicateErr  *domain.DuplicateKeyError
		castErr       *domain.CastError
		badRequestErr *domain.BadRequestError
		authErr       *domain.AuthorizationError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.As(err, &duplicateErr):
		return http.StatusBadRequest, duplicateErr.Error()
	case errors.As(err, &castErr):
		return http.StatusNotFound, "Resource not found"
	case errors.As(err, &badRequestErr):
		return http.StatusBadRequest, badRequestErr.Message
	case errors.As(err, &authErr):
		return http.StatusForbidden, authErr.Message
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Not authorized"
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, notFoundErr.Message
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// RespondWithAppError translates err into a failed envelope
func RespondWithAppError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, message := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	}
	RespondWithError(w, status, message)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "Server Error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
