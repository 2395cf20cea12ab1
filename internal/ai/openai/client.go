package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/spigell/skillbridge/internal/ai"
	"github.com/spigell/skillbridge/internal/logger"
	"github.com/spigell/skillbridge/internal/utils"
)

const (
	defaultModel        = "gpt-4o-mini"
	defaultMaxLogLength = 200
	schemaName          = "coach_reply"
)

type completer interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Assistant answers coaching questions with an OpenAI compatible chat completions API.
type Assistant struct {
	completions completer
	model       string
	logger      *zap.Logger
	maxLogLen   int
}

// New creates an Assistant. An empty baseURL targets the official API.
func New(apiKey, baseURL, model string, log *zap.Logger) (*Assistant, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	client := openai.NewClient(opts...)

	return &Assistant{
		completions: client.Chat.Completions,
		model:       model,
		logger:      logger.WithCommonFields(log, "openai", model),
		maxLogLen:   defaultMaxLogLength,
	}, nil
}

// Ask sends the user message and asks for a reply matching the envelope schema.
func (a *Assistant) Ask(ctx context.Context, req ai.Request) (*ai.Reply, error) {
	if a == nil || a.completions == nil {
		return nil, errors.New("openai assistant is not initialized")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errors.New("message must not be empty")
	}

	a.logger.Debug("openai completion request",
		zap.String("message_preview", utils.TruncateForLog(message, a.maxLogLen)),
	)

	completion, err := a.completions.New(ctx, newParams(a.model, ai.Instructions(req), message))
	if err != nil {
		return nil, fmt.Errorf("create completion: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return nil, errors.New("openai api returned no choices")
	}

	raw := strings.TrimSpace(completion.Choices[0].Message.Content)
	if raw == "" {
		return nil, errors.New("openai api returned empty response")
	}

	a.logger.Debug("openai completion response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	return ai.ParseReply([]byte(raw))
}

func (a *Assistant) Model() string {
	if a == nil {
		return ""
	}
	return a.model
}

func newParams(model, instructions, message string) openai.ChatCompletionNewParams {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        openai.F(schemaName),
		Description: openai.F("Plain coaching reply or a structured weekly learning plan"),
		Schema:      openai.F[interface{}](ai.EnvelopeSchema()),
		Strict:      openai.Bool(false),
	}

	return openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(message),
		}),
		Model: openai.F(model),
		ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONSchemaParam{
				Type:       openai.F(openai.ResponseFormatJSONSchemaTypeJSONSchema),
				JSONSchema: openai.F(schemaParam),
			},
		),
	}
}
