package touchtrack

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"touchtrack/db"
	"touchtrack/model"
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show decoded action statistics",
	Long:  `Print per-code commit counts collected by the replay and track commands.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		storage, err := db.ConnectDB(storagePath)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
		}
		defer storage.Close()

		counts, err := storage.GatherCounts()
		if err != nil {
			return err
		}

		if len(counts) == 0 {
			fmt.Println("No actions recorded yet")

			return nil
		}

		fmt.Printf("%-8s %-12s %s\n", "KIND", "WHAT", "COUNT")

		for _, c := range counts {
			fmt.Printf("%-8s %-12s %d\n", c.Kind, describeAction(c), c.Count)
		}

		return nil
	},
}

func describeAction(c model.ActionCount) string {
	switch c.Kind {
	case model.ActionText:
		return strconv.Quote(c.Text)
	case model.ActionCancel:
		return "-"
	default:
		return describeCode(c.Code)
	}
}

func describeCode(code int) string {
	switch code {
	case model.CodeShift:
		return "shift"
	case model.CodeSwitchAlphaSymbol:
		return "sym"
	case model.CodeDelete:
		return "delete"
	case model.CodeEnter:
		return "enter"
	case model.CodeSpace:
		return "space"
	case model.CodeNextLanguage:
		return "lang-next"
	case model.CodePrevLanguage:
		return "lang-prev"
	}

	if code > 32 {
		return strconv.QuoteRune(rune(code))
	}

	return strconv.Itoa(code)
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(
		&storagePath,
		"storage",
		"s",
		"./actions.sqlite",
		"Path to the decoded actions database")
}
