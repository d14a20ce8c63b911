package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a response code and message derived from a raw error
type ErrorInfo struct {
	Code    string
	Message string
}

// IsDuplicateKey reports whether err is a unique-constraint violation from
// PostgreSQL or SQLite, translated or not.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint")
}

// ParseError turns an infrastructure error into a safe code and message.
// Internal details never reach the message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Unexpected server error"}
	}

	if de, ok := AsDomain(err); ok {
		return ErrorInfo{Code: de.Code, Message: de.Message}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(err.Error())
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceNotFound, Message: "Referenced data was not found"}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "idx_categories_owner_name") || strings.Contains(lower, "categories.name"):
		return ErrorInfo{Code: CategoryNameExists, Message: "A category with this name already exists"}
	case strings.Contains(lower, "username"):
		return ErrorInfo{Code: ProfileUsernameExists, Message: "This username is already taken"}
	default:
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This item already exists"}
	}
}

func notFoundMessage(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "category"):
		return "Category not found"
	case strings.Contains(lower, "gear"):
		return "Equipment not found"
	case strings.Contains(lower, "trip"):
		return "Trip not found"
	case strings.Contains(lower, "profile"):
		return "Profile not found"
	default:
		return "The requested item was not found"
	}
}

func defaultMessage(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "create"):
		return "Failed to create the item. Please try again later"
	case strings.Contains(lower, "update"), strings.Contains(lower, "rename"):
		return "Failed to update the item. Please try again later"
	case strings.Contains(lower, "delete"):
		return "Failed to delete the item. Please try again later"
	default:
		return "Unexpected server error. Please try again later"
	}
}
