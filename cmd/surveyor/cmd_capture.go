package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/benmeehan/hydrant-survey/internal/services"
	"github.com/benmeehan/hydrant-survey/internal/session"
	"github.com/spf13/cobra"
)

var (
	captureLabel string
	captureLat   float64
	captureLng   float64
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record a proposed hydrant at the current position",
	Long: `Takes a preliminary fix, asks for the proposed location label (unless
--label is given), takes a fresh fix and records the hydrant. The dispatch
message is sent on the configured channel.

--lat and --lng replace the configured location provider with a fixed position.

$ surveyor capture --label "Near Main Gate"
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		capture := registry.Capture

		fix, err := capture.Begin(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Position: %.6f, %.6f (accuracy %.1f)\n", fix.Latitude, fix.Longitude, fix.Accuracy)

		label := captureLabel
		if strings.TrimSpace(label) == "" {
			fmt.Fprint(out, "Proposed location: ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			label = strings.TrimSpace(line)
		}
		if strings.TrimSpace(label) == "" {
			capture.Cancel()
			return errors.New("capture cancelled: proposed location is required")
		}

		record, err := capture.Commit(ctx, label)
		switch {
		case err == nil:
		case errors.Is(err, session.ErrPersistence), errors.Is(err, services.ErrDispatch):
			fmt.Fprintf(out, "Hydrant %s recorded with warnings\n", record.PlusCode)
			return err
		default:
			return err
		}

		fmt.Fprintf(out, "Hydrant recorded: %s\n", record.PlusCode)
		return nil
	},
}

func init() {
	captureCmd.Flags().StringVar(&captureLabel, "label", "", "proposed hydrant location")
	captureCmd.Flags().Float64Var(&captureLat, "lat", 0, "fixed latitude, bypassing the location provider")
	captureCmd.Flags().Float64Var(&captureLng, "lng", 0, "fixed longitude, bypassing the location provider")

	rootCmd.AddCommand(captureCmd)
}
