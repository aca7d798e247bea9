package validation

import (
	"encoding/json"
	"strings"

	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
)

// Validator checks request bodies before they reach the services
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCreateTopicRequest validates the create topic request
func (v *Validator) ValidateCreateTopicRequest(req *dto.CreateTopicRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if isBlank(req.Topic) {
		errors = append(errors, domain.NewMissingFieldError("topic"))
	}
	return errors
}

// ValidateRenameTopicRequest validates the rename topic request
func (v *Validator) ValidateRenameTopicRequest(req *dto.RenameTopicRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if isBlank(req.OldTopic) {
		errors = append(errors, domain.NewMissingFieldError("old_topic"))
	}
	if isBlank(req.NewTopic) {
		errors = append(errors, domain.NewMissingFieldError("new_topic"))
	}
	return errors
}

// ValidateRemoveTopicRequest validates the remove topic request
func (v *Validator) ValidateRemoveTopicRequest(req *dto.RemoveTopicRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if isBlank(req.Topic) {
		errors = append(errors, domain.NewMissingFieldError("topic"))
	}
	return errors
}

// ValidateProgressRequest validates the progress request. per_topic may be
// absent or null, otherwise it must be an object.
func (v *Validator) ValidateProgressRequest(req *dto.ProgressRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.Score == nil {
		errors = append(errors, domain.NewMissingFieldError("score"))
	} else if *req.Score < 0 {
		errors = append(errors, domain.NewValidationError("score must not be negative").WithContext("field", "score"))
	}

	if req.Total == nil {
		errors = append(errors, domain.NewMissingFieldError("total"))
	} else if *req.Total < 0 {
		errors = append(errors, domain.NewValidationError("total must not be negative").WithContext("field", "total"))
	}

	if !isObjectOrNull(req.PerTopic) {
		errors = append(errors, domain.NewValidationError("per_topic must be a JSON object").WithContext("field", "per_topic"))
	}

	return errors
}

// ValidateUpdateSettingsRequest validates the settings update request
func (v *Validator) ValidateUpdateSettingsRequest(req *dto.UpdateSettingsRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if isBlank(req.Theme) {
		errors = append(errors, domain.NewMissingFieldError("theme"))
	} else if _, ok := domain.ParseTheme(req.Theme); !ok {
		errors = append(errors, domain.NewValidationError("Invalid theme").WithContext("field", "theme"))
	}
	return errors
}

// ValidateUpdateQuizRequest validates the quiz edit request. The topic must
// be a string or null when present.
func (v *Validator) ValidateUpdateQuizRequest(req *dto.UpdateQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(req.Topic) > 0 && !isJSONNull(req.Topic) {
		var topic string
		if err := json.Unmarshal(req.Topic, &topic); err != nil {
			errors = append(errors, domain.NewValidationError("topic must be a string or null").WithContext("field", "topic"))
		}
	}
	if len(req.QuizData) > 0 && (isJSONNull(req.QuizData) || !isObjectOrNull(req.QuizData)) {
		errors = append(errors, domain.NewValidationError("quiz_data must be a JSON object").WithContext("field", "quiz_data"))
	}
	if len(req.Topic) == 0 && len(req.QuizData) == 0 {
		errors = append(errors, domain.NewValidationError("topic or quiz_data is required"))
	}

	return errors
}

// Helper functions for validation

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isJSONNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// isObjectOrNull reports whether raw is absent, null, or a JSON object
func isObjectOrNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return true
	}
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	return json.Valid([]byte(trimmed))
}
