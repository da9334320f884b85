package config

// ShipTypes are the package kinds that can be shipped.
var ShipTypes = []string{"theme", "plugin"}

// DefaultPackageIgnore are excluded from every shipped package.
var DefaultPackageIgnore = []string{"node_modules/*", ".git/*", "*/.DS_Store"}

// Config holds the wpx-relevant parts of wp-cli.yml.
type Config struct {
	// Files are the config files that were merged, lowest precedence first.
	Files Paths `yaml:"-" mapstructure:"-"`

	// Path is the local WordPress install path (WP-CLI's `path:`),
	// relative to the project config file.
	Path string `yaml:"path" mapstructure:"path"`

	// Ship holds build and packaging settings keyed by section name:
	// "ship", "ship <type>" or "ship <type> <name>".
	Ship map[string]ShipConfig `yaml:"-" mapstructure:"-"`

	// Defaults are wpx's own settings under the `wpx:` key.
	Defaults Defaults `yaml:"wpx" mapstructure:"wpx"`
}

// ShipConfig controls how a theme or plugin package is built.
type ShipConfig struct {
	// Build commands run in the package directory before zipping.
	Build []string `yaml:"build" mapstructure:"build"`

	// PackageIgnore patterns, relative to the package directory, are left
	// out of the zip.
	PackageIgnore []string `yaml:"package-ignore" mapstructure:"package-ignore"`
}

// Defaults are wpx settings that do not belong to WP-CLI.
type Defaults struct {
	// Strict makes alias mistakes (unknown names, cycles, empty groups) errors.
	Strict bool `yaml:"strict" mapstructure:"strict"`

	// ShipTo is the target ship uses when none is given.
	ShipTo string `yaml:"ship_to" mapstructure:"ship_to"`

	// WP is the WP-CLI executable.
	WP string `yaml:"wp" mapstructure:"wp"`
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Ship: make(map[string]ShipConfig),
		Defaults: Defaults{
			ShipTo: "@all",
			WP:     "wp",
		},
	}
}

// ShipFor returns the ship settings for a package, most specific section
// first: "ship <type> <name>", then "ship <type>", then "ship". Sections are
// not merged.
func (c *Config) ShipFor(kind, name string) ShipConfig {
	for _, key := range []string{"ship " + kind + " " + name, "ship " + kind, "ship"} {
		if sc, ok := c.Ship[SectionKey(key)]; ok {
			return sc
		}
	}
	return ShipConfig{}
}

// Ignore returns the package-ignore patterns with the defaults prepended.
func (s ShipConfig) Ignore() []string {
	out := append([]string(nil), DefaultPackageIgnore...)
	return append(out, s.PackageIgnore...)
}
