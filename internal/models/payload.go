// Package models defines the payloads delivered to UI code.
package models

import "strings"

// Kind identifies which field of a Payload is populated.
type Kind int

const (
	KindNone Kind = iota
	KindSummary
	KindAnswer
	KindPartial
	KindFinal
	KindTranscriptions
	KindSessionID
)

// String returns the event type name used in logs, metrics and headers.
func (k Kind) String() string {
	switch k {
	case KindSummary:
		return "summary"
	case KindAnswer:
		return "answer"
	case KindPartial:
		return "partial"
	case KindFinal:
		return "final"
	case KindTranscriptions:
		return "transcriptions"
	case KindSessionID:
		return "session_id"
	default:
		return "none"
	}
}

// Answer is the simulated answer to a question raised in the UI.
type Answer struct {
	ID     string `json:"id"`
	Answer string `json:"answer"`
}

// Transcription is a partial or final transcript fragment.
type Transcription struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	ElapsedMs int64  `json:"elapsedMs,omitempty"`
}

// Payload is the event record handed to UI code.
// Exactly one field is populated per emitted payload. Transcriptions and
// SessionID are only sent to a websocket client as it connects.
type Payload struct {
	Summary              *string         `json:"Summary,omitempty"`
	AnswerQuestion       *Answer         `json:"AnswerQuestion,omitempty"`
	PartialTranscription *Transcription  `json:"PartialTranscription,omitempty"`
	FinalTranscription   *Transcription  `json:"FinalTranscription,omitempty"`
	Transcriptions       []Transcription `json:"Transcriptions,omitempty"`
	SessionID            *int64          `json:"SessionId,omitempty"`
}

// NewSummary builds a summary payload.
func NewSummary(text string) Payload {
	return Payload{Summary: &text}
}

// NewAnswer builds an answer payload for the given question.
func NewAnswer(questionID, text string) Payload {
	return Payload{AnswerQuestion: &Answer{ID: questionID, Answer: text}}
}

// NewPartial builds a partial transcription payload.
func NewPartial(text, timestamp string) Payload {
	return Payload{PartialTranscription: &Transcription{Text: text, Timestamp: timestamp}}
}

// NewFinal builds a final transcription payload.
func NewFinal(text, timestamp string, elapsedMs int64) Payload {
	return Payload{FinalTranscription: &Transcription{Text: text, Timestamp: timestamp, ElapsedMs: elapsedMs}}
}

// NewTranscriptions builds a replay of finals accumulated so far.
func NewTranscriptions(finals []Transcription) Payload {
	return Payload{Transcriptions: finals}
}

// NewSessionID builds the payload announcing a websocket session's id.
func NewSessionID(id int64) Payload {
	return Payload{SessionID: &id}
}

// Fields returns the number of populated fields.
func (p Payload) Fields() int {
	n := 0
	if p.Summary != nil {
		n++
	}
	if p.AnswerQuestion != nil {
		n++
	}
	if p.PartialTranscription != nil {
		n++
	}
	if p.FinalTranscription != nil {
		n++
	}
	if p.Transcriptions != nil {
		n++
	}
	if p.SessionID != nil {
		n++
	}
	return n
}

// Kind reports the populated field. Payloads with more than one field
// report the first in declaration order.
func (p Payload) Kind() Kind {
	switch {
	case p.Summary != nil:
		return KindSummary
	case p.AnswerQuestion != nil:
		return KindAnswer
	case p.PartialTranscription != nil:
		return KindPartial
	case p.FinalTranscription != nil:
		return KindFinal
	case p.Transcriptions != nil:
		return KindTranscriptions
	case p.SessionID != nil:
		return KindSessionID
	default:
		return KindNone
	}
}

// Text returns the human-readable body of the payload, whatever its kind.
func (p Payload) Text() string {
	switch p.Kind() {
	case KindSummary:
		return *p.Summary
	case KindAnswer:
		return p.AnswerQuestion.Answer
	case KindPartial:
		return p.PartialTranscription.Text
	case KindFinal:
		return p.FinalTranscription.Text
	case KindTranscriptions:
		texts := make([]string, len(p.Transcriptions))
		for i, t := range p.Transcriptions {
			texts[i] = t.Text
		}
		return strings.Join(texts, "\n")
	default:
		return ""
	}
}
