package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/wpx/internal/errors"
)

// Validate checks the loaded config for mistakes that would only surface
// halfway through a ship or sync.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Defaults.ShipTo) == "" {
		return errors.New(errors.ErrConfig,
			"wpx.ship_to can't be empty",
			"Set it to an alias such as @all, or remove it to use the default.")
	}

	for section, sc := range cfg.Ship {
		if err := validateShipSection(section, sc); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
				"Ship sections are named 'ship', 'ship <theme|plugin>' or 'ship <theme|plugin> <name>'.")
		}
	}

	return nil
}

func validateShipSection(section string, sc ShipConfig) error {
	parts := strings.Fields(section)
	if len(parts) > 3 {
		return fmt.Errorf("section %q has too many words", section)
	}
	if len(parts) >= 2 && !isShipType(parts[1]) {
		return fmt.Errorf("section %q: unknown package type %q", section, parts[1])
	}
	for i, cmd := range sc.Build {
		if strings.TrimSpace(cmd) == "" {
			return fmt.Errorf("section %q: build step %d is empty", section, i+1)
		}
	}
	return nil
}

func isShipType(kind string) bool {
	for _, t := range ShipTypes {
		if t == kind {
			return true
		}
	}
	return false
}
