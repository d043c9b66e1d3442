package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CommandKind identifies a request sent by UI code over the websocket.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandGetSummary
	CommandAskQuestion
	CommandSendTranscription
)

// String returns the wire name of the command.
func (k CommandKind) String() string {
	switch k {
	case CommandGetSummary:
		return "GetSummary"
	case CommandAskQuestion:
		return "AskQuestion"
	case CommandSendTranscription:
		return "SendTranscriptionViaEmail"
	default:
		return "None"
	}
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrEmptyCommand   = errors.New("action has no command")
)

// Action is an inbound websocket frame: {"command": ...}.
type Action struct {
	Command Command `json:"command"`
}

// Command is a decoded UI request. A bare string names a command without
// arguments ("GetSummary"); an object keyed by the command name carries them
// ({"AskQuestion": {"id": "...", "question": "..."}}).
type Command struct {
	Kind CommandKind

	// AskQuestion
	ID       string
	Question string

	// SendTranscriptionViaEmail
	Email     string
	WithAudio bool
}

type askQuestionArgs struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

type sendTranscriptionArgs struct {
	Email     *string `json:"email"`
	WithAudio bool    `json:"with_audio"`
}

// UnmarshalJSON decodes both the bare-string and the keyed-object forms.
func (c *Command) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name != CommandGetSummary.String() {
			return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
		}
		*c = Command{Kind: CommandGetSummary}
		return nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(data, &keyed); err != nil {
		return fmt.Errorf("decode command: %w", err)
	}
	if len(keyed) != 1 {
		return fmt.Errorf("%w: expected one key, got %d", ErrUnknownCommand, len(keyed))
	}

	for name, raw := range keyed {
		switch name {
		case CommandGetSummary.String():
			*c = Command{Kind: CommandGetSummary}
		case CommandAskQuestion.String():
			var args askQuestionArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return fmt.Errorf("decode %s: %w", name, err)
			}
			*c = Command{Kind: CommandAskQuestion, ID: args.ID, Question: args.Question}
		case CommandSendTranscription.String():
			var args sendTranscriptionArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return fmt.Errorf("decode %s: %w", name, err)
			}
			*c = Command{Kind: CommandSendTranscription, WithAudio: args.WithAudio}
			if args.Email != nil {
				c.Email = *args.Email
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
		}
	}
	return nil
}

// ParseAction decodes one inbound websocket frame.
func ParseAction(data []byte) (Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return Action{}, err
	}
	if a.Command.Kind == CommandNone {
		return Action{}, ErrEmptyCommand
	}
	return a, nil
}
