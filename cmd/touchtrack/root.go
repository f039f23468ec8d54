package touchtrack

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"touchtrack/layout"
	"touchtrack/tracker"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "touchtrack",
	Short: "Decode multi-touch traces into on-screen keyboard actions",
	Long: `Touchtrack interprets raw multi-touch samples against an on-screen
keyboard layout, turning them into key presses, text commits, repeats,
long presses and sliding gestures while filtering touch panel noise.
It can replay recorded traces or decode live from a serial bridge.`,
	PersistentPreRun: bindFlags,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var (
	layoutFile         string
	slidingEnabled     bool
	repeatDelayMs      int
	longPressMs        int
	longPressShiftMs   int
	noiseWindowMs      int
	noiseDistance      int
	hysteresisDistance int
	localeCount        int
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.touchtrack.toml)")

	rootCmd.PersistentFlags().StringVar(&layoutFile, "layout", "layout.json",
		"Path to the keyboard layout JSON file")

	rootCmd.PersistentFlags().BoolVar(&slidingEnabled, "sliding", false,
		"Allow sliding key input across keys")

	rootCmd.PersistentFlags().IntVar(&repeatDelayMs, "repeat-delay", 400,
		"Delay before key repeat starts, in milliseconds")

	rootCmd.PersistentFlags().IntVar(&longPressMs, "long-press", 400,
		"Long press timeout, in milliseconds")

	rootCmd.PersistentFlags().IntVar(&longPressShiftMs, "long-press-shift", 1200,
		"Shift key long press timeout, in milliseconds")

	rootCmd.PersistentFlags().IntVar(&noiseWindowMs, "noise-window", 40,
		"Touch noise time window, in milliseconds")

	rootCmd.PersistentFlags().IntVar(&noiseDistance, "noise-distance", 16,
		"Touch noise distance threshold, in pixels")

	rootCmd.PersistentFlags().IntVar(&hysteresisDistance, "hysteresis", 8,
		"Key hysteresis distance, in pixels")

	rootCmd.PersistentFlags().IntVar(&localeCount, "locales", 1,
		"Number of enabled input locales (spacebar language switch needs more than one)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".touchtrack" (without
		// extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName(".touchtrack")
	}

	viper.SetEnvPrefix("touchtrack")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			slog.Error("could not read config file", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// bindFlags sets PFlag variables from config values when set. Priority is
// still given to explicitly provided CLI flags.
func bindFlags(cmd *cobra.Command, _ []string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Viper compares case-insensitively, so only the hyphens need to go
		// for camelCased config keys to match.
		configName := strings.ReplaceAll(f.Name, "-", "")

		if !f.Changed && viper.IsSet(configName) {
			val := viper.Get(configName)

			err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
			if err != nil {
				slog.Error("could not bind flag to config value", "flag", f.Name, "error", err)
				panic(err)
			}
		}
	})
}

func trackerConfig() tracker.Config {
	return tracker.Config{
		SlidingKeyInputEnabled:   slidingEnabled,
		KeyRepeatStartDelay:      time.Duration(repeatDelayMs) * time.Millisecond,
		LongPressKeyTimeout:      time.Duration(longPressMs) * time.Millisecond,
		LongPressShiftKeyTimeout: time.Duration(longPressShiftMs) * time.Millisecond,
		TouchNoiseWindow:         time.Duration(noiseWindowMs) * time.Millisecond,
		TouchNoiseDistance:       noiseDistance,
	}
}

func loadDetector() (*layout.Detector, *layout.ModeState, error) {
	kb, err := layout.LoadFile(layoutFile)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load layout: %w", err)
	}

	modes := &layout.ModeState{
		LanguageSwitch: kb.SupportsLanguageSwitchGesture(),
		LocaleCount:    localeCount,
	}

	return layout.NewDetector(kb, hysteresisDistance), modes, nil
}
