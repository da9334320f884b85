package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/logger"
	"github.com/rileyhilliard/wpx/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile   string
	noColor   bool
	debugFlag bool
	strict    bool
	wpBinary  string
)

// rootCmd is the base command when wpx is called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "wpx",
	Short: "Sync, ship and pull WordPress sites across WP-CLI aliases",
	Long: `wpx reads the aliases in wp-cli.yml and runs rsync, scp, ssh and
WP-CLI against every target an alias resolves to.

Every command is printed before it runs. Use --preview to see the commands
without running anything.

Examples:
  wpx sync wp-content/uploads to @prod
  wpx ship plugin widgets @staging
  wpx db pull @prod
  wpx targets @all`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			ui.DisableColors()
		}
		if debugFlag {
			if err := os.Setenv(logger.DebugEnv, "1"); err != nil {
				return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't enable debug output", "")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: nearest wp-cli.yml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "print debug logging (same as WPX_DEBUG=1)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "treat unknown aliases, empty groups and cycles as errors")
	rootCmd.PersistentFlags().StringVar(&wpBinary, "wp", "", "WP-CLI executable (default: wpx.wp from config, or wp)")
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Execute runs the root command and exits with the status carried by the
// returned error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}

	if isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); name != "" && strings.Contains(err.Error(), "unknown command") {
			fmt.Fprintf(os.Stderr, "%s '%s' isn't a wpx command\n", ui.SymbolFail, name)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		fmt.Fprintln(os.Stderr, "\nRun 'wpx --help' to see the available commands.")
		os.Exit(2)
	}

	fmt.Fprint(os.Stderr, err.Error())
	if !strings.HasSuffix(err.Error(), "\n") {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(errors.ExitCode(err))
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown command") || strings.Contains(msg, "unknown flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "wpx"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
