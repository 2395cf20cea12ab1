package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skillbridge/internal/coach"
)

const (
	app = "skillbridge"
)

type Config struct {
	Resume    string           `mapstructure:"resume"`
	Role      string           `mapstructure:"role"`
	Assistant *AssistantConfig `mapstructure:"assistant"`
	Timings   coach.Config     `mapstructure:"timings"`
	Render    *RenderConfig    `mapstructure:"render"`
}

type AssistantConfig struct {
	Provider string        `mapstructure:"provider"`
	Remote   *RemoteConfig `mapstructure:"remote"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	OpenAI   *OpenAIConfig `mapstructure:"openai"`
}

type RemoteConfig struct {
	APIURL    string        `mapstructure:"api-url"`
	UserAgent string        `mapstructure:"user-agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseURL    string `mapstructure:"base-url"`
	Model      string `mapstructure:"model"`
}

type RenderConfig struct {
	Width int `mapstructure:"width"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillbridge is a terminal career coach that talks about your resume and the role you are aiming for",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"assistant.provider":            "SKILLBRIDGE_PROVIDER",
		"assistant.remote.api-url":      "SKILLBRIDGE_API_URL",
		"assistant.gemini.api-key":      "GEMINI_API_KEY",
		"assistant.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"assistant.openai.api-key":      "OPENAI_API_KEY",
		"assistant.openai.api-key-file": "OPENAI_API_KEY_FILE",
		"assistant.openai.base-url":     "OPENAI_BASE_URL",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillbridge.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("assistant.provider", providerRemote)
	viper.SetDefault("timings.roadmap-delay", coach.DefaultRoadmapDelay)
	viper.SetDefault("timings.follow-up-delay", coach.DefaultFollowUpDelay)
	viper.SetDefault("timings.farewell-delay", coach.DefaultFarewellDelay)
	viper.SetDefault("timings.close-delay", coach.DefaultCloseDelay)
	viper.SetDefault("timings.request-timeout", coach.DefaultRequestTimeout)
	viper.SetDefault("render.width", 80)
}

func initConfig() {
	// Config needed only for chat command. Version works without it.
	if chatCmd.CalledAs() == "" {
		return
	}

	// A missing .env is fine, the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// The config file is optional unless given explicitly.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	// We can't proceed if the config file parsed with error.
	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Assistant == nil {
		config.Assistant = &AssistantConfig{}
	}
	if config.Render == nil {
		config.Render = &RenderConfig{}
	}

	config.Assistant.Provider = strings.ToLower(strings.TrimSpace(config.Assistant.Provider))

	return config, nil
}
