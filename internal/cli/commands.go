package cli

import (
	"os"
	"strings"

	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/rileyhilliard/wpx/internal/util"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	syncFlags    syncOptions
	shipFlags    shipOptions
	pullFlags    pullOptions
	migrateFlags migrateOptions
	targetsFlags targetsOptions
	aliasFlags   aliasOptions
)

const syncUsage = "Usage: wpx sync <source> <to|from> <target> [<target_path>] [-- <rsync flags>]"

// syncCmd copies files between the local install and targets with rsync
var syncCmd = &cobra.Command{
	Use:   "sync <source> <to|from> <target> [<target_path>] [-- <rsync flags>...]",
	Short: "Sync files to or from targets with rsync",
	Long: `Copy files between the local WordPress install and one or more targets.

The source is a local path or glob for "to", or a path relative to the
remote install for "from". Quote globs so your shell doesn't expand them.
The remote path defaults to the same path relative to the install root as
the current directory locally. "from" needs a single target.

Anything after -- is passed to rsync.

--preview prints the commands without running them. Targets without a
configured path are still asked for their install path, since the commands
depend on it.

Examples:
  wpx sync wp-content/uploads to @prod
  wpx sync 'wp-content/uploads/2024/*' to @all --existing
  wpx sync wp-content/uploads from @prod --dry-run
  wpx sync dist/ to deploy@example.com /srv/www/app -- --delete`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		positional, rsyncFlags := splitAtDash(cmd, args)
		if len(positional) < 3 || len(positional) > 4 {
			return errors.Usage("sync takes a source, a direction and a target", syncUsage)
		}
		a, err := loadApp()
		if err != nil {
			return err
		}
		return syncCommand(cmd.Context(), a, positional, rsyncFlags, syncFlags)
	},
}

// shipCmd groups the package deploy commands
var shipCmd = &cobra.Command{
	Use:   "ship",
	Short: "Package and deploy themes and plugins to targets",
	Long: `Build, zip and install a theme or plugin on every target.

Build commands and package-ignore patterns come from the ship sections of
wp-cli.yml: "ship <type> <name>" wins over "ship <type>", which wins over
"ship".

Examples:
  wpx ship theme
  wpx ship theme acme @staging
  wpx ship plugin widgets --to @prod --preview`,
}

var shipThemeCmd = &cobra.Command{
	Use:   "theme [<theme>] [<to>]",
	Short: "Package and deploy a theme (default: the active theme)",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return shipThemeCommand(cmd.Context(), a, args, shipFlags)
	},
}

var shipPluginCmd = &cobra.Command{
	Use:   "plugin <plugin> [<to>]",
	Short: "Package and deploy a plugin",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return shipPluginCommand(cmd.Context(), a, args, shipFlags)
	},
}

// dbCmd groups the database commands
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Pull and migrate databases",
}

var dbPullCmd = &cobra.Command{
	Use:   "pull <target>",
	Short: "Replace the local database with a target's",
	Long: `Export the target's database, download it, import it locally and
rewrite the imported URLs for the local host.

Examples:
  wpx db pull @prod
  wpx db pull deploy@example.com/srv/www --no-migrate
  wpx db pull @prod --preview`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return pullCommand(cmd.Context(), a, args[0], pullFlags)
	},
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate [<new_host>]",
	Short: "Rewrite the local database's URLs for a new host",
	Long: `Search and replace the home URL's host in the local database.

The new host defaults to the install directory name plus .local.

Examples:
  wpx db migrate
  wpx db migrate example.test`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return migrateCommand(cmd.Context(), a, args, migrateFlags)
	},
}

// targetsCmd shows what a name resolves to
var targetsCmd = &cobra.Command{
	Use:   "targets [<name>]",
	Short: "Show the targets an alias or endpoint resolves to",
	Long: `Resolve an alias, group or endpoint string and list the targets in
the order commands would run against them.

Examples:
  wpx targets
  wpx targets @live --ssh-config
  wpx targets @prod --abspath`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "@all"
		if len(args) == 1 {
			name = args[0]
		}
		a, err := loadApp()
		if err != nil {
			return err
		}
		return targetsCommand(cmd.Context(), a, name, targetsFlags)
	},
}

// aliasCmd manages aliases in wp-cli.yml
var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "List, add and remove aliases in wp-cli.yml",
}

var aliasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List defined aliases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return aliasListCommand(a)
	},
}

var aliasAddCmd = &cobra.Command{
	Use:   "add <@name> [<ssh>]",
	Short: "Add or replace an alias",
	Long: `Add an alias to the project wp-cli.yml, replacing any alias of the
same name. Pass --group to define a group of other aliases.

Examples:
  wpx alias add @prod deploy@example.com:2222/srv/www
  wpx alias add @staging --host staging.example.com --user deploy --path /srv/www
  wpx alias add @live --group @prod,@staging`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return aliasAddCommand(a, args, aliasFlags)
	},
}

var aliasRemoveCmd = &cobra.Command{
	Use:   "remove <@name>",
	Short: "Remove an alias",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return aliasRemoveCommand(a, args[0])
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for wpx.

Examples:
  # Bash
  wpx completion bash > /etc/bash_completion.d/wpx

  # Zsh
  wpx completion zsh > "${fpath[1]}/_wpx"

  # Fish
  wpx completion fish > ~/.config/fish/completions/wpx.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.Usage("Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// sync command flags
	syncCmd.Flags().BoolVar(&syncFlags.Existing, "existing", false, "only sync files that already exist on the receiving side")
	syncCmd.Flags().BoolVar(&syncFlags.Preview, "preview", false, "print the rsync commands without running them (unknown install paths are still looked up)")
	syncCmd.Flags().BoolVar(&syncFlags.DryRun, "dry-run", false, "run rsync with --dry-run")
	syncCmd.Flags().BoolVar(&syncFlags.DryRun, "test", false, "alias for --dry-run")
	syncCmd.Flags().BoolVarP(&syncFlags.Yes, "yes", "y", false, "answer yes to the confirmation")

	// ship command flags, shared by theme and plugin
	shipCmd.PersistentFlags().StringVar(&shipFlags.To, "to", "", "alias or user@host to ship to (default: wpx.ship_to)")
	shipCmd.PersistentFlags().BoolVar(&shipFlags.Preview, "preview", false, "print the commands without running them (the package path is still looked up)")
	shipCmd.PersistentFlags().BoolVarP(&shipFlags.Yes, "yes", "y", false, "answer yes to the confirmation")

	// db command flags
	dbPullCmd.Flags().BoolVar(&pullFlags.Preview, "preview", false, "print the commands without running them")
	dbPullCmd.Flags().BoolVar(&pullFlags.NoMigrate, "no-migrate", false, "skip rewriting URLs after the import")
	dbPullCmd.Flags().BoolVarP(&pullFlags.Yes, "yes", "y", false, "answer yes to the confirmation")
	dbMigrateCmd.Flags().BoolVar(&migrateFlags.Preview, "preview", false, "print the commands without running them (the home URL is still read)")

	// targets command flags
	targetsCmd.Flags().BoolVar(&targetsFlags.SSHConfig, "ssh-config", false, "show matching ~/.ssh/config settings")
	targetsCmd.Flags().BoolVar(&targetsFlags.AbsPath, "abspath", false, "ask each target for its install path")

	// alias add flags
	aliasAddCmd.Flags().StringVar(&aliasFlags.Host, "host", "", "host name")
	aliasAddCmd.Flags().StringVar(&aliasFlags.User, "user", "", "SSH user")
	aliasAddCmd.Flags().IntVar(&aliasFlags.Port, "port", 0, "SSH port")
	aliasAddCmd.Flags().StringVar(&aliasFlags.Path, "path", "", "remote install path")
	aliasAddCmd.Flags().StringVar(&aliasFlags.Key, "key", "", "SSH identity file")
	aliasAddCmd.Flags().StringSliceVar(&aliasFlags.Group, "group", nil, "define a group of these aliases (comma-separated)")

	shipCmd.AddCommand(shipThemeCmd, shipPluginCmd)
	dbCmd.AddCommand(dbPullCmd, dbMigrateCmd)
	aliasCmd.AddCommand(aliasListCmd, aliasAddCmd, aliasRemoveCmd)

	// Register all commands
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(shipCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(aliasCmd)
	rootCmd.AddCommand(completionCmd)
}

// splitAtDash separates positional arguments from the ones after --.
func splitAtDash(cmd *cobra.Command, args []string) (positional, rest []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}

func trimOutput(s string) string {
	return strings.TrimSpace(s)
}

func joinNames(names []string) string {
	return util.JoinNames(names)
}
