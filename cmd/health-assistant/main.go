package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/iamvkosarev/health-assistant-bot/config"
	"github.com/iamvkosarev/health-assistant-bot/internal/app"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   "health-assistant",
		Short: "Healthcare assistant chat with local and AI answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx, cfg)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to a yaml config file")

	transcriptsCmd := &cobra.Command{
		Use:   "transcripts [session-id]",
		Short: "List archived sessions or print one transcript from redis",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			var sessionID string
			if len(args) == 1 {
				sessionID = args[0]
			}
			return app.PrintTranscripts(cmd.Context(), cfg, sessionID, cmd.OutOrStdout())
		},
	}
	rootCmd.AddCommand(transcriptsCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("health-assistant failed")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Log)
	return cfg, nil
}

func setupLogging(cfg config.Log) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
