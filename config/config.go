package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Load sets defaults and reads skyhook.yaml from configDir. A missing
// file is fine, the defaults carry a playable session; a malformed one
// is an error.
func Load(configDir string) error {
	viper.SetDefault("log.level", "info")

	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)
	viper.SetDefault("window.title", "skyhook")

	viper.SetDefault("sim.seed", 0)
	viper.SetDefault("sim.titans", 3)
	viper.SetDefault("sim.gravity", -28.0)

	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.path", "skyhook_telemetry.db")
	viper.SetDefault("telemetry.sample_every", 6)
	viper.SetDefault("telemetry.label", "")

	viper.SetDefault("prefabs.watch", true)

	viper.SetDefault("debug.overlay", true)

	viper.SetConfigName("skyhook")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read skyhook.yaml: %w", err)
	}

	return nil
}
