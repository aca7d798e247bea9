package middleware

import (
	"study-buddy/internal/domain"
	"study-buddy/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedBodyKey is the fiber.Ctx locals key holding a parsed, validated body.
const ValidatedBodyKey = "validated_body"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

func (vm *ValidationMiddleware) ValidateCreateTopic() fiber.Handler {
	return bindBody(vm.validator.ValidateCreateTopicRequest)
}

func (vm *ValidationMiddleware) ValidateRenameTopic() fiber.Handler {
	return bindBody(vm.validator.ValidateRenameTopicRequest)
}

func (vm *ValidationMiddleware) ValidateRemoveTopic() fiber.Handler {
	return bindBody(vm.validator.ValidateRemoveTopicRequest)
}

func (vm *ValidationMiddleware) ValidateProgress() fiber.Handler {
	return bindBody(vm.validator.ValidateProgressRequest)
}

func (vm *ValidationMiddleware) ValidateUpdateSettings() fiber.Handler {
	return bindBody(vm.validator.ValidateUpdateSettingsRequest)
}

func (vm *ValidationMiddleware) ValidateUpdateQuiz() fiber.Handler {
	return bindBody(vm.validator.ValidateUpdateQuizRequest)
}

// bindBody parses the JSON body into a new T, validates it and stores it in
// the context for the handler. An empty body parses as the zero value so
// missing fields are reported by name.
func bindBody[T any](validate func(*T) domain.ValidationErrors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(req); err != nil {
				return domain.NewError(domain.CodeValidation, "Request body must be valid JSON", err)
			}
		}

		if errors := validate(req); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedBodyKey, req)
		return c.Next()
	}
}

// ValidatedBody returns the body stored by one of the Validate* middlewares.
func ValidatedBody[T any](c *fiber.Ctx) (*T, error) {
	req, ok := c.Locals(ValidatedBodyKey).(*T)
	if !ok {
		return nil, domain.NewInternalError("request body was not validated", nil)
	}
	return req, nil
}
