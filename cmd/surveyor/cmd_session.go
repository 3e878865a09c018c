package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetConfirmed bool

var setupCmd = &cobra.Command{
	Use:   "setup [area]",
	Short: "Configure the survey area",
	Long: `Configures the main survey area. Without an argument the default area from
the configuration is used.

$ surveyor setup "Shaheenabad Main Bazar Gujranwala"
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		area := strings.Join(args, " ")
		if err := registry.Session.Setup(cmd.Context(), area); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Survey area set to %s\n", registry.Session.AreaLabel())
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current survey session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		snap := registry.Session.Snapshot()

		fmt.Fprintf(out, "Station:    %s\n", registry.Station.GetStationID())
		fmt.Fprintf(out, "Area:       %s\n", snap.AreaLabel)
		fmt.Fprintf(out, "Configured: %t\n", snap.Configured)
		fmt.Fprintf(out, "Hydrants:   %d\n", len(snap.Records))
		if last, ok := registry.Session.LastRecord(); ok {
			fmt.Fprintf(out, "Last:       %s (%s) at %s\n",
				last.ProposedLocation, last.PlusCode, last.CreatedAt().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard every captured hydrant and the configured area",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		if !resetConfirmed {
			fmt.Fprintf(out, "This deletes %d hydrant(s) and cannot be undone. Type yes to continue: ", registry.Session.Count())
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
				fmt.Fprintln(out, "Reset aborted")
				return nil
			}
		}

		if err := registry.Session.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(out, "Survey session reset")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "skip the confirmation prompt")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
}
