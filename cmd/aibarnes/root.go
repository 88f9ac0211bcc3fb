package main

import (
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/integrail/aibarnes/internal/build"
	"github.com/integrail/aibarnes/pkg/config"
	"github.com/integrail/aibarnes/pkg/llm"
	"github.com/integrail/aibarnes/pkg/relay"
)

const envPrefix = "AIBARNES"

type app struct {
	v       *viper.Viper
	log     *slog.Logger
	factory relay.ClientFactory
}

func newRootCmd(a *app) *cobra.Command {
	a.v = viper.New()

	rootCmd := &cobra.Command{
		Use:           "aibarnes",
		Version:       build.Version,
		Short:         "aibarnes relays prompts to Claude and saves the answers",
		Long:          "Store a Claude API key once, then send prompts and get every answer saved to a timestamped file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.initLogger(cmd)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config-dir", "", "directory holding config.json (default is $HOME/.aibarnes)")
	flags.BoolP("debug", "d", false, "enable debug logging")
	flags.StringP("provider", "P", llm.DefaultProvider, "text-generation provider (anthropic, openai, ollama)")
	flags.StringP("model", "m", "", "model to use (default: "+llm.DefaultModel+" for anthropic)")
	flags.Int("max-tokens", llm.DefaultMaxTokens, "maximum length of the generated answer in tokens")
	flags.String("base-url", "", "override the provider API base URL")
	flags.StringP("out-dir", "o", ".", "directory to write answer files to")
	flags.DurationP("timeout", "t", llm.DefaultTimeout, "timeout of a single request to the provider")

	_ = a.v.BindPFlags(flags)
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	rootCmd.AddCommand(newInfoCmd(), newBotCmd(a))
	return rootCmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the aibarnes cli",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("Scaffold for aibarnes cli: use 'aibarnes bot --help' to get started.")
		},
	}
}

func (a *app) initLogger(cmd *cobra.Command) {
	level := slog.LevelInfo
	if a.v.GetBool("debug") {
		level = slog.LevelDebug
	}
	a.log = slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func (a *app) store() (*config.Store, error) {
	cfg, err := config.DefaultConfig()
	if dir := a.v.GetString("config-dir"); dir != "" {
		cfg, err = config.Config{Dir: dir, EnvVar: config.DefaultEnvVar}, nil
	}
	if err != nil {
		return nil, err
	}
	return config.NewStore(cfg), nil
}

func (a *app) settings() llm.Settings {
	return llm.Settings{
		Provider:  a.v.GetString("provider"),
		Model:     a.v.GetString("model"),
		BaseURL:   a.v.GetString("base-url"),
		MaxTokens: a.v.GetInt("max-tokens"),
		Timeout:   a.v.GetDuration("timeout"),
	}
}
