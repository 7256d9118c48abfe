package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// formatValidationError converts validator errors into customer-facing
// "invalid request: …" messages. Field names are the json names, courtesy
// of the shared validator's tag-name function.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be blank"
			case "max":
				return "invalid request: " + field + " exceeds maximum length of " + fe.Param()
			case "email":
				return "invalid request: " + field + " must be a valid email address"
			case "url":
				return "invalid request: " + field + " must be a valid URL"
			case "oneof":
				return "invalid request: " + field + " must be one of " + fe.Param()
			case "gte":
				return "invalid request: " + field + " must be at least " + fe.Param()
			case "lte":
				return "invalid request: " + field + " must be at most " + fe.Param()
			case "couponcode":
				return "invalid request: " + field + " contains invalid characters"
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}
