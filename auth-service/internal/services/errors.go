package services

import (
	"fmt"
	"strings"

	"complaint-portal/auth-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}

func userNotFound() error {
	return fmt.Errorf("%w: user not found", models.ErrNotFound)
}

func parseUserID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, userNotFound()
	}
	return oid, nil
}

func profileKey(id primitive.ObjectID) string {
	return fmt.Sprintf("user_profile:%s", id.Hex())
}

// parseCategoryIDs converts handled category ids, naming every malformed one.
func parseCategoryIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	var invalid []string
	for _, raw := range ids {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		out = append(out, oid)
	}
	if len(invalid) > 0 {
		return nil, validationError("invalid category IDs: %s", strings.Join(invalid, ", "))
	}
	return out, nil
}
