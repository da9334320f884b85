// Command wpx syncs files, ships themes and plugins, and pulls databases
// across the targets named by WP-CLI aliases in wp-cli.yml.
//
// Release builds stamp the version with:
//
//	go build -ldflags "-X main.version=$(git describe --tags) -X main.commit=$(git rev-parse --short HEAD) -X main.date=$(date -u +%Y-%m-%d)" ./cmd/wpx
package main

import (
	"github.com/rileyhilliard/wpx/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	cli.Execute()
}
