// Package cli implements the wpx command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to a command function that receives an app: the loaded
// config, the alias resolver and the runners for local processes and
// WP-CLI. Tests build the app from fakes and call the command functions
// directly.
//
// # Command Structure
//
//	wpx sync <source> <to|from> <target> [<target_path>]  - rsync files
//	wpx ship theme [<theme>] [<to>]                       - deploy a theme
//	wpx ship plugin <plugin> [<to>]                       - deploy a plugin
//	wpx db pull <target>                                  - replace the local database
//	wpx db migrate [<new_host>]                           - rewrite local URLs
//	wpx targets [<name>]                                  - show resolution
//	wpx alias [list|add|remove]                           - edit wp-cli.yml aliases
//
// # Flag Handling
//
// Global flags (--config, --no-color, --debug, --strict, --wp) are defined
// on the root command. Commands that change files ask for confirmation
// unless --yes, --preview or a dry run is given; without a terminal to ask
// on they fail instead of guessing.
//
// # Exit Status
//
// Execute exits with the status carried by the returned error: the first
// failing step's status for multi-target runs, 1 for other errors and 2
// for unknown commands.
package cli
