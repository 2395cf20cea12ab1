package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/skillbridge/internal/ai"
	"github.com/spigell/skillbridge/internal/logger"
	"github.com/spigell/skillbridge/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel        = "gemini-2.5-flash"
	defaultMaxLogLength = 200
	jsonMIMEType        = "application/json"
)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (g genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := g.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Assistant answers coaching questions with the Gemini API.
type Assistant struct {
	chats     chatCreator
	model     string
	logger    *zap.Logger
	maxLogLen int
}

// New creates an Assistant configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string, log *zap.Logger) (*Assistant, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Assistant{
		chats:     genaiChats{chats: client.Chats},
		model:     model,
		logger:    logger.WithCommonFields(log, "gemini", model),
		maxLogLen: defaultMaxLogLength,
	}, nil
}

// Ask sends the user message with the resume context as system instruction.
func (a *Assistant) Ask(ctx context.Context, req ai.Request) (*ai.Reply, error) {
	if a == nil || a.chats == nil {
		return nil, errors.New("gemini assistant is not initialized")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errors.New("message must not be empty")
	}

	instructions := ai.Instructions(req)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: instructions}},
		},
		ResponseMIMEType:   jsonMIMEType,
		ResponseJsonSchema: ai.EnvelopeSchema(),
	}

	a.logger.Debug("gemini chat request",
		zap.Int("instructions_length", utf8.RuneCountInString(instructions)),
		zap.String("message_preview", utils.TruncateForLog(message, a.maxLogLen)),
	)

	chat, err := a.chats.Create(ctx, a.model, config, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	raw, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini chat response",
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

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned no response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}
