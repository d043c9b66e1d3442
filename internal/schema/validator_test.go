package schema

import (
	"errors"
	"testing"

	"ai-transcript-simulator/internal/models"
)

func TestValidator_Validate(t *testing.T) {
	twoFields := models.NewSummary("x")
	twoFields.FinalTranscription = &models.Transcription{Text: "y"}

	withSession := models.NewSessionID(1)
	withSession.Summary = twoFields.Summary

	tests := []struct {
		name    string
		payload models.Payload
		wantErr error
	}{
		{"summary", models.NewSummary("• hello"), nil},
		{"answer", models.NewAnswer("q1", "text"), nil},
		{"partial", models.NewPartial("a", "ts"), nil},
		{"final", models.NewFinal("a b", "ts", 1), nil},
		{"empty", models.Payload{}, ErrEmptyPayload},
		{"two fields", twoFields, ErrMultipleFields},
		{"answer without id", models.NewAnswer("", "text"), ErrMissingQuestionID},
		{"transcriptions", models.NewTranscriptions([]models.Transcription{{Text: "a"}}), nil},
		{"session id", models.NewSessionID(1), nil},
		{"empty transcriptions", models.NewTranscriptions([]models.Transcription{}), ErrEmptyReplay},
		{"session id with summary", withSession, ErrMultipleFields},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.payload)
			if tt.wantErr == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
