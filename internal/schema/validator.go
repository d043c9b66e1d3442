// Package schema validates payloads before they leave the process.
package schema

import (
	"errors"
	"fmt"

	"ai-transcript-simulator/internal/models"
)

var (
	ErrEmptyPayload      = errors.New("payload has no populated field")
	ErrMultipleFields    = errors.New("payload has more than one populated field")
	ErrMissingQuestionID = errors.New("answer payload has no question id")
	ErrEmptyReplay       = errors.New("transcriptions payload has no entries")
)

// Validator checks payloads against the one-field-per-payload contract.
type Validator struct{}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate enforces the one-field-per-payload contract.
func (v *Validator) Validate(p models.Payload) error {
	switch n := p.Fields(); {
	case n == 0:
		return ErrEmptyPayload
	case n > 1:
		return fmt.Errorf("%w: %d fields", ErrMultipleFields, n)
	}

	if p.AnswerQuestion != nil && p.AnswerQuestion.ID == "" {
		return ErrMissingQuestionID
	}
	// An empty slice would marshal to {} and reach the client as nothing.
	if p.Transcriptions != nil && len(p.Transcriptions) == 0 {
		return ErrEmptyReplay
	}
	return nil
}
