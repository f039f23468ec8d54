package touchtrack

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"touchtrack/db"
	"touchtrack/feed"
	"touchtrack/logging"
)

// replayCmd represents the replay command.
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Decode a recorded touch trace into key actions",
	Long: `Read a touch trace file, run every sample through the pointer
tracker against the configured layout, and store the decoded key and text
commits into a sqlite file.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		detector, modes, err := loadDetector()
		if err != nil {
			return err
		}

		storage, err := db.ConnectDB(storagePath)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
		}
		defer storage.Close()

		file, err := os.Open(traceFile)
		if err != nil {
			return fmt.Errorf("could not open trace file: %w", err)
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil {
			return fmt.Errorf("could not stat trace file: %w", err)
		}

		loop, err := feed.NewLoop(detector, modes,
			&db.Recorder{Storage: storage, Verbose: verbose}, nil, trackerConfig())
		if err != nil {
			return err
		}

		bar := progressbar.DefaultBytes(info.Size(), "Replaying trace...")
		lines := make(chan string)

		go func() {
			defer close(lines)

			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				line := scanner.Text()
				_ = bar.Add(len(line) + 1)
				lines <- line
			}
		}()

		if err := loop.Run(logging.ComponentCtx("replay"), lines); err != nil {
			return fmt.Errorf("replay loop failed: %w", err)
		}

		slog.Info("replay finished", "trace", traceFile, "out", storagePath)

		return nil
	},
}

var (
	traceFile   string
	storagePath string
	verbose     bool
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(
		&traceFile,
		"trace",
		"f",
		"touch.trace",
		"Path to the recorded touch trace")

	replayCmd.Flags().StringVarP(
		&storagePath,
		"out",
		"o",
		"./actions.sqlite",
		"Output path for decoded actions")

	replayCmd.Flags().BoolVarP(&verbose,
		"verbose",
		"v",
		false,
		"If provided, every committed action will be logged")
}
