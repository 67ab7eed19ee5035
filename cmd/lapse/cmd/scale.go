package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/psantana5/lapse/internal/report"
	"github.com/psantana5/lapse/pkg/durfmt"
)

var scaleCmd = &cobra.Command{
	Use:   "scale <nanos>...",
	Short: "Scale nanosecond values to readable units",
	Long: `Scale converts each nanosecond value to the largest unit whose span
it reaches, trimming trailing zeros. Values parse as floats, so
scientific notation works.

Example:
  lapse scale 1500
  lapse scale 2.5e9 86400000000000 --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScale,
}

type scaledValue struct {
	Nanos  float64 `json:"nanos"`
	Unit   string  `json:"unit,omitempty"`
	Scaled string  `json:"scaled,omitempty"`
	Error  string  `json:"error,omitempty"`
}

func init() {
	rootCmd.AddCommand(scaleCmd)
}

func runScale(cmd *cobra.Command, args []string) error {
	rows := make([]scaledValue, 0, len(args))
	for _, arg := range args {
		nanos, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", arg, err)
		}

		row := scaledValue{Nanos: nanos}
		if unit, err := durfmt.UnitFor(nanos); err != nil {
			row.Error = err.Error()
		} else {
			row.Unit = unit.Name
			row.Scaled = durfmt.Scale(nanos)
		}
		rows = append(rows, row)
	}

	if IsJSONOutput() {
		return report.WriteJSON(os.Stdout, rows)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Nanos", "Unit", "Scaled")
	for _, row := range rows {
		if row.Error != "" {
			table.Append(fmt.Sprintf("%g", row.Nanos), "-", row.Error)
			continue
		}
		table.Append(fmt.Sprintf("%g", row.Nanos), row.Unit, row.Scaled)
	}
	table.Render()
	return nil
}
