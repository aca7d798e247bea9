package service

import (
	"fmt"

	"study-buddy/internal/domain"
)

// LenientValidator accepts any payload whose meta is an object and whose
// questions is an array. Items and every other field pass through unchecked.
type LenientValidator struct{}

func (LenientValidator) Validate(p domain.Payload) error {
	return p.Validate()
}

// StrictValidator additionally checks every question against its
// type-specific schema.
type StrictValidator struct{}

func (StrictValidator) Validate(p domain.Payload) error {
	if err := p.Validate(); err != nil {
		return err
	}
	questions, err := p.DecodeQuestions()
	if err != nil {
		return err
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// NewPayloadValidator returns the validator selected by llm.strict_validation.
func NewPayloadValidator(strict bool) domain.PayloadValidator {
	if strict {
		return StrictValidator{}
	}
	return LenientValidator{}
}
