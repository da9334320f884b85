package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/wpx/internal/alias"
	"github.com/rileyhilliard/wpx/internal/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// ProjectFileName is WP-CLI's project config file.
	ProjectFileName = "wp-cli.yml"
	// LocalFileName is WP-CLI's uncommitted per-checkout override.
	LocalFileName = "wp-cli.local.yml"
	// GlobalConfigDir is the directory for global config, under $HOME.
	GlobalConfigDir = ".wp-cli"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yml"
	// GlobalConfigEnv overrides the global config location, as in WP-CLI.
	GlobalConfigEnv = "WP_CLI_CONFIG_PATH"
)

// keyDelimiter keeps "ship plugin my.plugin" a single key.
const keyDelimiter = "::"

// Paths are the config files that apply to the current directory.
type Paths struct {
	Global  string
	Project string
	Local   string
}

// List returns the paths that are set, lowest precedence first.
func (p Paths) List() []string {
	var out []string
	for _, path := range []string{p.Global, p.Project, p.Local} {
		if path != "" {
			out = append(out, path)
		}
	}
	return out
}

// Dir returns the directory relative paths in project config resolve against.
func (p Paths) Dir() string {
	switch {
	case p.Project != "":
		return filepath.Dir(p.Project)
	case p.Local != "":
		return filepath.Dir(p.Local)
	default:
		cwd, _ := os.Getwd()
		return cwd
	}
}

// Find locates config files using the search order:
// 1. Explicit path (from --config flag), plus wp-cli.local.yml beside it
// 2. wp-cli.yml / wp-cli.local.yml in the current or a parent directory
//    (stops at the filesystem root or home)
// 3. $WP_CLI_CONFIG_PATH or ~/.wp-cli/config.yml (global defaults)
func Find(explicit string) (Paths, error) {
	var paths Paths
	paths.Global = findGlobal()

	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return paths, errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return paths, errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		paths.Project = explicit
		paths.Local = existing(filepath.Join(filepath.Dir(explicit), LocalFileName))
		return paths, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return paths, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		project := existing(filepath.Join(dir, ProjectFileName))
		local := existing(filepath.Join(dir, LocalFileName))
		if project != "" || local != "" {
			paths.Project = project
			paths.Local = local
			return paths, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && dir == home) {
			break
		}
		dir = parent
	}

	return paths, nil
}

func findGlobal() string {
	if env := os.Getenv(GlobalConfigEnv); env != "" {
		return existing(env)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return existing(filepath.Join(home, GlobalConfigDir, GlobalConfigFile))
}

func existing(path string) string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// Load merges the config files in paths, later files overriding earlier ones.
func Load(paths Paths) (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigType("yaml")
	setDefaults(v)

	for i, path := range paths.List() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file "+path,
				"Check the file exists and is readable")
		}

		// Alias names are written unquoted in WP-CLI configs.
		data = alias.QuoteBareAliases(data)
		if i == 0 {
			err = v.ReadConfig(bytes.NewReader(data))
		} else {
			err = v.MergeConfig(bytes.NewReader(data))
		}
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to parse config file "+path,
				"Check the YAML syntax")
		}
	}

	return parseConfig(v, paths)
}

// LoadOrDefault finds and loads config, returning defaults when no file applies.
func LoadOrDefault(explicit string) (*Config, error) {
	paths, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if len(paths.List()) == 0 {
		return DefaultConfig(), nil
	}
	return Load(paths)
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("wpx"+keyDelimiter+"ship_to", def.Defaults.ShipTo)
	v.SetDefault("wpx"+keyDelimiter+"wp", def.Defaults.WP)
	v.SetDefault("wpx"+keyDelimiter+"strict", false)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, paths Paths) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Files = paths

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+strings.Join(paths.List(), ", "))
	}

	ship, err := parseShipSections(v.AllSettings())
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid ship settings",
			"Each ship section takes build: and package-ignore:, as a string or a list.")
	}
	cfg.Ship = ship

	if cfg.Path != "" {
		cfg.Path = ExpandTilde(cfg.Path)
		if !filepath.IsAbs(cfg.Path) {
			cfg.Path = filepath.Join(paths.Dir(), cfg.Path)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseShipSections(settings map[string]interface{}) (map[string]ShipConfig, error) {
	out := make(map[string]ShipConfig)
	for key, raw := range settings {
		section := SectionKey(key)
		if section != "ship" && !strings.HasPrefix(section, "ship ") {
			continue
		}

		values, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%q must be a map", key)
		}

		build, err := stringList(values["build"])
		if err != nil {
			return nil, fmt.Errorf("%s build: %w", section, err)
		}
		ignore, err := stringList(values["package-ignore"])
		if err != nil {
			return nil, fmt.Errorf("%s package-ignore: %w", section, err)
		}

		out[section] = ShipConfig{Build: build, PackageIgnore: ignore}
	}
	return out, nil
}

// SectionKey normalizes a section name the way lookups expect it:
// lower case, single spaces.
func SectionKey(key string) string {
	return strings.Join(strings.Fields(strings.ToLower(key)), " ")
}

// stringList accepts a single string or a list of strings.
func stringList(v interface{}) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{val}, nil
	default:
		return cast.ToStringSliceE(val)
	}
}

// Aliases loads the aliases defined across the config files.
func (c *Config) Aliases() (*alias.MapStore, error) {
	return alias.LoadFiles(c.Files.List()...)
}
