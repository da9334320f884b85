// Package sshconfig reads ~/.ssh/config so wpx can show what ssh will
// actually connect to for a target. It never changes composed commands:
// ssh, scp and rsync read the same file themselves.
package sshconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// Entry is the effective ssh configuration for one host.
type Entry struct {
	Host         string // The name that was looked up
	HostName     string // HostName, if the config maps the name elsewhere
	User         string
	Port         string
	IdentityFile string

	// Found is true when any setting came from the config file.
	Found bool

	// MatchLine is the line of the first Match block, which hides every
	// entry after it. Zero when there is none.
	MatchLine int
}

// Description returns a short summary such as
// "10.0.0.5, user: deploy, port: 2222".
func (e Entry) Description() string {
	parts := []string{}

	if e.HostName != "" && e.HostName != e.Host {
		parts = append(parts, e.HostName)
	}
	if e.User != "" {
		parts = append(parts, "user: "+e.User)
	}
	if e.Port != "" && e.Port != "22" {
		parts = append(parts, "port: "+e.Port)
	}
	if e.IdentityFile != "" {
		parts = append(parts, "key: "+e.IdentityFile)
	}

	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// DefaultPath returns ~/.ssh/config.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".ssh", "config")
}

// Lookup returns the effective settings for host from ~/.ssh/config.
// A missing or unreadable config yields an empty entry.
func Lookup(host string) Entry {
	e, _ := LookupFile(DefaultPath(), host)
	return e
}

// LookupFile returns the effective settings for host from the given file.
// A missing file is not an error.
func LookupFile(configPath, host string) (Entry, error) {
	entry := Entry{Host: host}

	content, matchLine, err := preprocess(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return entry, nil
		}
		return entry, err
	}
	entry.MatchLine = matchLine

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return entry, err
	}

	if v, _ := cfg.Get(host, "HostName"); v != "" {
		entry.HostName = v
		entry.Found = true
	}
	if v, _ := cfg.Get(host, "User"); v != "" {
		entry.User = v
		entry.Found = true
	}
	if v, _ := cfg.Get(host, "Port"); v != "" {
		entry.Port = v
		entry.Found = true
	}
	if v, _ := cfg.Get(host, "IdentityFile"); v != "" {
		entry.IdentityFile = expandPath(v)
		entry.Found = true
	}

	return entry, nil
}

// preprocess returns the config up to the first Match directive, which
// ssh_config can't decode, and the line it was found on.
func preprocess(configPath string) ([]byte, int, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, 0, err
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "match ") {
			return []byte(strings.Join(lines[:i], "\n")), i + 1, nil
		}
	}
	return content, 0, nil
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
