package config

import (
	"os"
	"path/filepath"
	"strings"
)

// WPLoadFile marks the root of a WordPress install.
const WPLoadFile = "wp-load.php"

// LocalRoot returns the local install root (ABSPATH) with symlinks
// resolved. The configured path wins; otherwise the nearest directory at or
// above workDir that holds wp-load.php is used.
func LocalRoot(cfg *Config, workDir string) (string, bool) {
	if cfg != nil && cfg.Path != "" {
		return realpath(cfg.Path), true
	}

	dir := workDir
	for dir != "" {
		if _, err := os.Stat(filepath.Join(dir, WPLoadFile)); err == nil {
			return realpath(dir), true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// RelativeToRoot returns workDir relative to root without leading or
// trailing slashes. It is empty when workDir is the root or lies outside it.
func RelativeToRoot(root, workDir string) string {
	if root == "" || workDir == "" {
		return ""
	}
	rel, err := filepath.Rel(realpath(root), realpath(workDir))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return ""
	}
	return strings.Trim(filepath.ToSlash(rel), "/")
}

func realpath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}
