package main

import (
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/integrail/aibarnes/pkg/chat"
	"github.com/integrail/aibarnes/pkg/config"
	"github.com/integrail/aibarnes/pkg/relay"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#33CC66"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3333"))
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF88"))
)

type stderrReporter struct {
	cmd *cobra.Command
}

func (r stderrReporter) Report(msg string) {
	fmt.Fprintln(r.cmd.ErrOrStderr(), msg)
}

func newBotCmd(a *app) *cobra.Command {
	botCmd := &cobra.Command{
		Use:   "bot",
		Short: "Configure the Claude API key and relay prompts",
	}
	botCmd.AddCommand(
		newStatusCmd(a),
		newConfigureCmd(a),
		newFetchCmd(a),
		newChatCmd(a),
	)
	return botCmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current configuration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			secret, ok, err := store.Secret()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, failStyle.Render("❌ No Claude API key configured"))
				fmt.Fprintln(out, hintStyle.Render("💡 "+relay.ConfigureHint))
				return nil
			}
			fmt.Fprintln(out, okStyle.Render("✅ Claude API key configured: "+config.Mask(secret)))
			fmt.Fprintf(out, "📁 Config file: %s\n", store.Path())
			return nil
		},
	}
}

func newConfigureCmd(a *app) *cobra.Command {
	var apiKey string
	cmd := &cobra.Command{
		Use:     "configure",
		Short:   "Configure Claude API key for aibarnes bot",
		Example: "  aibarnes bot configure --api-key sk-ant-xxxx-xxxx-xxxx-xxxx",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			store, err := a.store()
			if err == nil {
				err = store.Save(apiKey)
			}
			if err != nil {
				a.log.Debug("configure failed", "err", err)
				fmt.Fprintln(out, failStyle.Render(fmt.Sprintf("❌ Error configuring API key: %v", err)))
				return nil
			}
			fmt.Fprintln(out, okStyle.Render("✅ Claude API key configured successfully!"))
			fmt.Fprintf(out, "Configuration saved to: %s\n", store.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Your Claude API key from Anthropic")
	_ = cmd.MarkFlagRequired("api-key")
	return cmd
}

func newFetchCmd(a *app) *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch AI response for a given prompt",
		Example: `  aibarnes bot fetch --prompt "create a bash script that checks system stats and return results via json"
  aibarnes bot fetch --prompt "what day of the week was halloween in 1932"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			r, err := a.newRelay(a.log, relay.WithReporter(stderrReporter{cmd: cmd}))
			if errors.Is(err, relay.ErrNotConfigured) {
				a.printNotConfigured(cmd, err)
				return nil
			}
			if err != nil {
				return err
			}

			res, err := r.Relay(cmd.Context(), prompt)
			var serviceErr *relay.ServiceError
			if errors.As(err, &serviceErr) {
				fmt.Fprintf(out, "Issues running query: %v\n", serviceErr.Err)
				fmt.Fprintln(out, res.JSON())
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, res.JSON())
			return nil
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "enter the prompt you want ai to handle")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session, every answer is saved to its own file",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newChatRelay()
			if errors.Is(err, relay.ErrNotConfigured) {
				a.printNotConfigured(cmd, err)
				return nil
			}
			if err != nil {
				return err
			}
			settings := a.settings().WithDefaults()
			session := chat.NewSession(cmd.Context(), r, settings.Provider, settings.Model)
			if _, err := tea.NewProgram(session).Run(); err != nil {
				return errors.Wrapf(err, "failed to run chat session")
			}
			return nil
		},
	}
}

func (a *app) newRelay(log *slog.Logger, opts ...relay.Option) (*relay.Relay, error) {
	store, err := a.store()
	if err != nil {
		return nil, err
	}
	factory := a.factory
	if factory == nil {
		factory = relay.DefaultFactory(log)
	}
	opts = append([]relay.Option{
		relay.WithSettings(a.settings()),
		relay.WithOutputDir(a.v.GetString("out-dir")),
	}, opts...)
	return relay.New(log, store, factory, opts...)
}

// newChatRelay keeps logs and reports off stderr, which belongs to the terminal UI
// while a session runs. Failures are shown inside the session instead.
func (a *app) newChatRelay() (*relay.Relay, error) {
	return a.newRelay(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (a *app) printNotConfigured(cmd *cobra.Command, err error) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, failStyle.Render("❌ "+err.Error()))
	fmt.Fprintln(out, hintStyle.Render("💡 "+relay.ConfigureHint))
}
