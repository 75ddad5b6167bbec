package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"medfinder/internal/domain"
)

// ErrInvalidBody is returned for request bodies that are not a JSON object
var ErrInvalidBody = domain.NewBadRequestError("Invalid request body")

// DecodeJSON decodes the request body into v
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrInvalidBody
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return domain.NewValidationError(typeErr.Field + " has an invalid type")
		}
		return ErrInvalidBody
	}
	return nil
}
