// Package validation checks request input before it reaches the services.
package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

// ValidateOwnerID checks that an owner ID is present and is a UUID.
func ValidateOwnerID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: owner ID is required", apperrors.ErrInvalidOwnerID)
	}
	if err := ValidateUUID(id); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidOwnerID, err)
	}
	return nil
}
