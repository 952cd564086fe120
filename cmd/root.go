package cmd

import (
	"context"
	"os"

	"github.com/killallgit/jamboard-api/pkg/config"
	"github.com/killallgit/jamboard-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCmd()

// loadConfig reads settings.yaml, env vars and defaults. Commands call it
// lazily so version and help never touch the config.
var loadConfig = func() (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, err
	}
	return config.GetConfig()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds a fresh command tree (exported for testing)
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jamboard",
		Short: "JamBoard audio clip board",
		Long: `JamBoard - a shared board for short audio ideas

Record clips from the microphone, tag and categorize them, leave
comments and let a generative model suggest tags and a description.

Features:
  • Microphone recording with a live spectrum meter
  • Search and category tabs over the shared board
  • Comments and profile-synced authorship
  • Automatic clip analysis
  • HTTP API for browser clients`,
		SilenceUsage: true,
	}

	// Add persistent flags for logging configuration
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")

	cmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newVersionCmd(),
		newSignUpCmd(),
		newLogInCmd(),
		newLogOutCmd(),
		newWhoAmICmd(),
		newClipsCmd(),
		newRecordCmd(),
	)
	return cmd
}

// setup loads the config and builds the logger. Log flags given on the
// command line win over the config file.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	level := cfg.Logging.Level
	if f := cmd.Flags().Lookup("log-level"); f != nil && (f.Changed || level == "") {
		level = f.Value.String()
	}
	jsonLogs := cfg.Logging.JSON
	if f := cmd.Flags().Lookup("json-logs"); f != nil && f.Changed {
		jsonLogs, _ = cmd.Flags().GetBool("json-logs")
	}

	log := logger.New(level, jsonLogs)
	logger.SetGlobal(log)
	return cfg, log, nil
}

// withApp runs fn against an opened application and closes it afterwards
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close application")
		}
	}()

	return fn(ctx, a)
}
