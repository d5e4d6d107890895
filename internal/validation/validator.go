// package validation provides helper functions for request data validation.
// It uses the go-playground/validator library and includes custom rules for
// identifier and match-source fields.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expertlink/matching-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func init() {
	// custom_id restricts identifier fields (expert_id, request_id,
	// match_id) to alphanumerics, hyphens and underscores.
	err := validate.RegisterValidation("custom_id", func(fl validator.FieldLevel) bool {
		if fl.Field().String() == "" {
			// empty values are the 'required' tag's problem
			return true
		}

		return idPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register custom validation: %v", err))
	}

	// match_source accepts the three known pairing sources.
	err = validate.RegisterValidation("match_source", func(fl validator.FieldLevel) bool {
		switch domain.MatchSource(fl.Field().String()) {
		case domain.SourceAIMatched, domain.SourcePlatformRecommended, domain.SourceBuyerSpecified:
			return true
		case "":
			return true
		}

		return false
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register custom validation: %v", err))
	}
}

// ValidationError is a custom error type that holds a slice of validation
// error messages.
type ValidationError struct {
	Errors []string
}

// Error returns a single string concatenating all validation error messages.
func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// ValidateStruct performs validation on a given struct based on its
// validation tags. If validation fails, it returns a *ValidationError
// with user-friendly messages.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors []string

		for _, err := range err.(validator.ValidationErrors) {
			var message string

			switch err.Tag() {
			case "custom_id":
				message = fmt.Sprintf(
					"field '%s' must contain only letters, numbers, hyphens, and underscores",
					err.Field(),
				)
			case "match_source":
				message = fmt.Sprintf(
					"field '%s' must be one of AI_MATCHED, PLATFORM_RECOMMENDED, BUYER_SPECIFIED",
					err.Field(),
				)
			default:
				message = fmt.Sprintf(
					"field '%s' failed on the '%s' tag",
					err.Field(),
					err.Tag(),
				)
			}
			validationErrors = append(validationErrors, message)
		}

		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
