package touchtrack

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"touchtrack/db"
	"touchtrack/feed"
	"touchtrack/logging"
)

// trackCmd represents the track command.
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Decode touch samples live from a serial bridge",
	Long: `Connect to a serial device streaming touch panel trace lines and
decode them continuously, storing committed actions into a sqlite file.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		detector, modes, err := loadDetector()
		if err != nil {
			return err
		}

		reader, closer, err := feed.OpenPort(devicePath)
		if err != nil {
			// Try suggesting devices
			names, errInner := feed.GetAvailableDevices()
			if errInner != nil {
				return fmt.Errorf("could not open device: %w; could not suggest devices: %w", err, errInner)
			}

			if len(names) > 0 {
				return fmt.Errorf("error opening device: %w. Maybe try instead: %+v", err, names)
			}

			return fmt.Errorf("error opening device: %w. It does not seem like any touch bridge is connected", err)
		}
		defer closer()

		storage, err := db.ConnectDB(storagePath)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
		}
		defer storage.Close()

		loop, err := feed.NewLoop(detector, modes,
			&db.Recorder{Storage: storage, Verbose: verbose}, nil, trackerConfig())
		if err != nil {
			return err
		}

		slog.Info("tracking", "device", devicePath, "out", storagePath)

		if err := loop.Run(logging.ComponentCtx("track"), feed.ReadLines(reader)); err != nil {
			return fmt.Errorf("dispatch loop failed: %w", err)
		}

		return nil
	},
}

var devicePath string

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().StringVarP(
		&devicePath,
		"device",
		"d",
		"/dev/ttyACM0",
		"Serial device streaming touch trace lines")

	trackCmd.Flags().StringVarP(
		&storagePath,
		"out",
		"o",
		"./actions.sqlite",
		"Output path for decoded actions")

	trackCmd.Flags().BoolVarP(&verbose,
		"verbose",
		"v",
		false,
		"If provided, every committed action will be logged")
}
