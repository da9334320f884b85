package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde expands a leading ~ in a local path, such as an identity file
// or the path: key of wp-cli.yml. ~user is left alone. Remote paths never
// come through here; their ~ belongs to the remote shell.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
