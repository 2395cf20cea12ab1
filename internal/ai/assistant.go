package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	// ReplyTypeJSON tags a structured weekly plan reply.
	ReplyTypeJSON = "json"

	// DefaultContext is sent when no resume text is available.
	DefaultContext = "No resume uploaded yet."
	// DefaultRole is sent when no target role is available.
	DefaultRole = "General"
)

// ErrUnexpectedReply is returned when a reply matches neither the plain nor the structured shape.
var ErrUnexpectedReply = errors.New("unexpected reply shape")

// Request is the payload sent to a reasoning service for one user message.
type Request struct {
	Message string `json:"message"`
	Context string `json:"context"`
	Role    string `json:"role"`
}

// WeekPlan is a single entry of a structured learning roadmap.
type WeekPlan struct {
	Week    string `json:"week" mapstructure:"week" jsonschema:"description=Period label such as Week 1"`
	Topic   string `json:"topic" mapstructure:"topic" jsonschema:"description=Short topic for the period"`
	Details string `json:"details" mapstructure:"details" jsonschema:"description=One sentence describing what to study"`
}

// Reply is a decoded answer of a reasoning service.
// Structured replies carry Plan, plain replies carry Text.
type Reply struct {
	Text       string
	Plan       []WeekPlan
	Structured bool
}

// Assistant answers user messages in the context of a resume and a target role.
type Assistant interface {
	Ask(ctx context.Context, req Request) (*Reply, error)
}

// NewRequest fills the request placeholders for missing resume text or role.
func NewRequest(message, resumeText, role string) Request {
	if strings.TrimSpace(resumeText) == "" {
		resumeText = DefaultContext
	}
	if strings.TrimSpace(role) == "" {
		role = DefaultRole
	}

	return Request{
		Message: message,
		Context: resumeText,
		Role:    role,
	}
}

// ParseReply decodes a raw JSON reply body.
func ParseReply(data []byte) (*Reply, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(extractJSON(string(data))), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedReply, err)
	}

	return DecodeReply(raw)
}

// DecodeReply converts a generic JSON object into a Reply.
// An object tagged with type "json" must carry a data list. Without a type, or with
// an empty or null one, a reply field is expected. Any other type is rejected.
func DecodeReply(raw map[string]any) (*Reply, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty object", ErrUnexpectedReply)
	}

	switch kind := raw["type"]; kind {
	case nil, "":
		// Untagged, models often emit the empty type next to a plain reply.
	case ReplyTypeJSON:
		if _, ok := raw["data"].([]any); !ok {
			return nil, fmt.Errorf("%w: data is not a list", ErrUnexpectedReply)
		}

		var envelope struct {
			Data []WeekPlan `mapstructure:"data"`
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &envelope,
		})
		if err != nil {
			return nil, err
		}

		if err := decoder.Decode(raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedReply, err)
		}

		return &Reply{Plan: envelope.Data, Structured: true}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %v", ErrUnexpectedReply, kind)
	}

	value, ok := raw["reply"]
	if !ok {
		return nil, fmt.Errorf("%w: neither reply nor type present", ErrUnexpectedReply)
	}

	switch text := value.(type) {
	case string:
		return &Reply{Text: text}, nil
	case nil:
		return &Reply{}, nil
	default:
		return nil, fmt.Errorf("%w: reply is %T", ErrUnexpectedReply, value)
	}
}

// extractJSON strips markdown code fences that models like to wrap JSON into.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
