package touchtrack

import (
	"fmt"

	"github.com/spf13/cobra"

	"touchtrack/feed"
)

// devicesCmd represents the devices command.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List serial devices that look like a touch bridge",
	RunE: func(_ *cobra.Command, _ []string) error {
		names, err := feed.GetAvailableDevices()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No serial devices found")

			return nil
		}

		for _, n := range names {
			fmt.Printf("Port: %v\n", n)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
