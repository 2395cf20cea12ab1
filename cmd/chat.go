package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillbridge/internal/coach"
	"github.com/spigell/skillbridge/internal/logger"
	"github.com/spigell/skillbridge/internal/render"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a coaching session for your resume and target role",
	Run: func(_ *cobra.Command, _ []string) {
		chat()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("resume", "r", "", "plain text file with your resume")
	chatCmd.Flags().String("role", "", "the role you are aiming for, e.g. \"Backend Engineer\"")

	viper.BindPFlag("resume", chatCmd.Flags().Lookup("resume"))
	viper.BindPFlag("role", chatCmd.Flags().Lookup("role"))
}

// chat is the main command for the cli.
func chat() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the skillbridge", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config.Timings, "", "  ")
	logger.Debug(fmt.Sprintf("starting with timings: \n %s", pretty))

	resumeText, err := readResume(config.Resume)
	if err != nil {
		logger.Fatal("reading a resume", zap.Error(err))
	}
	if resumeText == "" {
		logger.Warn("no resume given, the coach will answer without it",
			zap.String("hint", "pass a plain text resume with --resume"),
		)
	}

	assistant, err := newAssistant(ctx, config.Assistant, logger)
	if err != nil {
		logger.Fatal("creating an assistant", zap.Error(err), zap.String("provider", config.Assistant.Provider))
	}

	sc := coach.SessionContext{ResumeText: resumeText, TargetRole: config.Role}

	session, err := coach.NewSession(assistant, sc,
		coach.WithConfig(config.Timings),
		coach.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("creating a session", zap.Error(err))
	}

	t := newTerminal(session, sc, render.New(config.Render.Width), os.Stdout)
	if err := t.run(ctx); err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	logger.Debug("session finished", zap.String("session_id", session.ID()))
}
