package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/psantana5/lapse/internal/report"
	"github.com/psantana5/lapse/pkg/durfmt"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the duration units lapse scales to",
	Long:  `Units prints the ordered unit table used to scale durations, from the largest (day) down to nanoseconds.`,
	RunE:  runUnits,
}

func init() {
	rootCmd.AddCommand(unitsCmd)
}

func runUnits(cmd *cobra.Command, args []string) error {
	units := durfmt.Units()

	if IsJSONOutput() {
		return report.WriteJSON(os.Stdout, units)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Unit", "Nanoseconds")
	for _, u := range units {
		table.Append(u.Name, fmt.Sprintf("%.0f", u.Nanos))
	}
	table.Render()
	return nil
}
