package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ParseID normalizes a raw identifier. Malformed values yield a *CastError.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, &CastError{Value: raw, Err: err}
	}
	return id, nil
}
