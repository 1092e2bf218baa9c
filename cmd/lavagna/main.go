package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lavagna-ai/lavagna/cmd/lavagna/cmds"
)

var rootCmd = &cobra.Command{
	Use:   "lavagna",
	Short: "lavagna is a prompting reference and chat tool for Italian civil lawyers",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// reinitialize the logger because we can now parse --log-level
		// from the command line flag
		initLogger()
	},
}

func initLogger() {
	logLevel := viper.GetString("log-level")

	// default is json
	var logWriter io.Writer = os.Stderr
	if viper.GetString("log-format") == "text" {
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	log.Logger = log.Output(logWriter)

	switch logLevel {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}
}

func initConfig(rootCmd *cobra.Command) error {
	// a local .env wins over the inherited environment
	_ = godotenv.Load()

	viper.SetEnvPrefix("lavagna")

	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.lavagna")
	xdgConfigPath, err := os.UserConfigDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(xdgConfigPath, "lavagna"))
	}

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file not found; ignore error
	} else if err != nil {
		return err
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return err
	}

	initLogger()

	log.Debug().
		Str("config", viper.ConfigFileUsed()).
		Msg("Loaded configuration")

	return nil
}

func main() {
	_ = rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (json, text)")

	rootCmd.PersistentFlags().String("state-dir", "", "State directory (default ~/.lavagna)")
	rootCmd.PersistentFlags().Bool("sqlite", false, "Persist state in SQLite instead of flat files")
	rootCmd.PersistentFlags().String("openrouter-api-key", "", "OpenRouter API key")
	rootCmd.PersistentFlags().String("model", "anthropic/claude-3.5-sonnet", "Default completion model")

	err := initConfig(rootCmd)
	if err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		cmds.NewChatCommand(),
		cmds.NewConversationsCommand(),
		cmds.NewTechniquesCommand(),
		cmds.NewGlossaryCommand(),
		cmds.NewPracticesCommand(),
		cmds.NewGenerateCommand(),
		cmds.NewCreditsCommand(),
		cmds.NewModelsCommand(),
	)
}
