package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillbridge/internal/ai"
	"github.com/spigell/skillbridge/internal/ai/gemini"
	"github.com/spigell/skillbridge/internal/ai/openai"
	"github.com/spigell/skillbridge/internal/ai/remote"
	"github.com/spigell/skillbridge/internal/secrets"
	"github.com/spigell/skillbridge/internal/utils"
)

const (
	providerRemote = "remote"
	providerGemini = "gemini"
	providerOpenAI = "openai"
)

func newAssistant(ctx context.Context, cfg *AssistantConfig, logger *zap.Logger) (ai.Assistant, error) {
	if cfg == nil {
		cfg = &AssistantConfig{}
	}

	switch cfg.Provider {
	case "", providerRemote:
		remoteCfg := cfg.Remote
		if remoteCfg == nil {
			remoteCfg = &RemoteConfig{}
		}

		client := remote.New(logger, remoteCfg.APIURL, remoteCfg.Timeout)
		client.UserAgent = utils.FirstNonEmpty(remoteCfg.UserAgent, client.UserAgent)

		logger.Debug("using remote assistant", zap.String("api_url", client.APIURL))
		return client, nil

	case providerGemini:
		geminiCfg := cfg.Gemini
		if geminiCfg == nil {
			geminiCfg = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(geminiCfg.keySource())
		if err != nil {
			return nil, err
		}

		assistant, err := gemini.New(ctx, apiKey, geminiCfg.Model, logger)
		if err != nil {
			return nil, err
		}

		logger.Debug("using gemini assistant", zap.String("model", assistant.Model()))
		return assistant, nil

	case providerOpenAI:
		openaiCfg := cfg.OpenAI
		if openaiCfg == nil {
			openaiCfg = &OpenAIConfig{}
		}

		apiKey, err := secrets.Load(openaiCfg.keySource())
		if err != nil {
			return nil, err
		}

		assistant, err := openai.New(apiKey, openaiCfg.BaseURL, openaiCfg.Model, logger)
		if err != nil {
			return nil, err
		}

		logger.Debug("using openai assistant", zap.String("model", assistant.Model()))
		return assistant, nil

	default:
		return nil, fmt.Errorf("unsupported assistant provider: %s", cfg.Provider)
	}
}

func (c *GeminiConfig) keySource() secrets.Source {
	return secrets.Source{
		Name:  "gemini api key",
		Value: c.APIKey,
		File:  c.APIKeyFile,
		Hint:  "set assistant.gemini.api-key-file or GEMINI_API_KEY",
	}
}

func (c *OpenAIConfig) keySource() secrets.Source {
	return secrets.Source{
		Name:  "openai api key",
		Value: c.APIKey,
		File:  c.APIKeyFile,
		Hint:  "set assistant.openai.api-key-file or OPENAI_API_KEY",
	}
}

// readResume returns the resume text. An empty path means no resume was given.
func readResume(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading resume file %q: %w", path, err)
	}

	return strings.TrimSpace(string(data)), nil
}
