package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/viper"

	"github.com/milk9111/skyhook/config"
	"github.com/milk9111/skyhook/logging"
)

func main() {
	headless := flag.Bool("headless", false, "run the sim without a window")
	frames := flag.Int("frames", 3600, "frames to simulate in headless mode")
	seed := flag.Int64("seed", 0, "city seed override (0 uses the config)")
	titans := flag.Int("titans", -1, "titan count override (-1 uses the config)")
	label := flag.String("label", "", "telemetry session label")
	configDir := flag.String("config", ".", "directory holding skyhook.yaml")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		logging.Logger.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(viper.GetString("log.level"), os.Stderr)

	if *seed != 0 {
		viper.Set("sim.seed", *seed)
	}
	if *titans >= 0 {
		viper.Set("sim.titans", *titans)
	}
	if *label != "" {
		viper.Set("telemetry.label", *label)
	}

	game, err := NewGame(*headless)
	if err != nil {
		logging.Logger.Fatal().Err(err).Msg("build game")
	}

	if *headless {
		game.RunHeadless(*frames)
		if err := game.Close(); err != nil {
			logging.Logger.Error().Err(err).Msg("shutdown")
		}
		return
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(viper.GetInt("window.width"), viper.GetInt("window.height"))
	ebiten.SetWindowTitle(viper.GetString("window.title"))

	// Capture the pointer so cursor deltas drive the orbit camera.
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		logging.Logger.Error().Err(err).Msg("shutdown")
	}
	if runErr != nil {
		logging.Logger.Fatal().Err(runErr).Msg("run game")
	}
}
