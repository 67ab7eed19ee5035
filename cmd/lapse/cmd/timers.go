package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/lapse/internal/report"
	"github.com/psantana5/lapse/pkg/client"
)

var (
	serverURL   string
	serverToken string

	timerStart bool
	timerSeed  int64
)

// timersCmd represents the timers command
var timersCmd = &cobra.Command{
	Use:   "timers",
	Short: "Manage timers on a running daemon",
	Long:  `Commands for creating, inspecting, and driving named timers on a lapse daemon started with "lapse serve".`,
}

var timersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all timers",
	RunE:  runTimersList,
}

var timersGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show one timer",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimersGet,
}

var timersCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a timer",
	Long: `Create a timer on the daemon. Without a name the daemon assigns a
generated one; --start creates it already running and --seed-ns preloads
elapsed time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTimersCreate,
}

var timersStartCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start or resume a timer",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimersStart,
}

var timersStopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop a timer, banking its elapsed time",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimersStop,
}

var timersResetCmd = &cobra.Command{
	Use:   "reset <name>",
	Short: "Stop a timer and clear its elapsed time",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimersReset,
}

var timersRemoveCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a timer",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimersRemove,
}

var timersPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the daemon is reachable",
	RunE:  runTimersPing,
}

func init() {
	rootCmd.AddCommand(timersCmd)
	timersCmd.AddCommand(timersListCmd)
	timersCmd.AddCommand(timersGetCmd)
	timersCmd.AddCommand(timersCreateCmd)
	timersCmd.AddCommand(timersStartCmd)
	timersCmd.AddCommand(timersStopCmd)
	timersCmd.AddCommand(timersResetCmd)
	timersCmd.AddCommand(timersRemoveCmd)
	timersCmd.AddCommand(timersPingCmd)

	timersCmd.PersistentFlags().StringVar(&serverURL, "server", "", "daemon URL (default from config or http://localhost:8090)")
	timersCmd.PersistentFlags().StringVar(&serverToken, "token", "", "bearer token for an authenticated daemon")

	timersCreateCmd.Flags().BoolVar(&timerStart, "start", false, "create the timer already running")
	timersCreateCmd.Flags().Int64Var(&timerSeed, "seed-ns", 0, "preload elapsed nanoseconds")
}

// newDaemonClient builds a client from flags, falling back to config
// and environment
func newDaemonClient() *client.Client {
	url := serverURL
	if url == "" {
		url = viper.GetString("server")
	}
	if url == "" {
		url = "http://localhost:8090"
	}

	token := serverToken
	if token == "" {
		token = viper.GetString("token")
	}
	return client.NewClient(url, token)
}

func runTimersList(cmd *cobra.Command, args []string) error {
	timers, err := newDaemonClient().List()
	if err != nil {
		return err
	}
	return renderTimerList(timers)
}

func runTimersGet(cmd *cobra.Command, args []string) error {
	timer, err := newDaemonClient().Get(args[0])
	if err != nil {
		return err
	}
	return renderTimer(timer)
}

func runTimersCreate(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	timer, err := newDaemonClient().Create(name, timerStart, timerSeed)
	if err != nil {
		return err
	}
	return renderTimer(timer)
}

func runTimersStart(cmd *cobra.Command, args []string) error {
	timer, err := newDaemonClient().Start(args[0])
	if err != nil {
		return err
	}
	return renderTimer(timer)
}

func runTimersStop(cmd *cobra.Command, args []string) error {
	timer, err := newDaemonClient().Stop(args[0])
	if err != nil {
		return err
	}
	return renderTimer(timer)
}

func runTimersReset(cmd *cobra.Command, args []string) error {
	timer, err := newDaemonClient().Reset(args[0])
	if err != nil {
		return err
	}
	return renderTimer(timer)
}

func runTimersRemove(cmd *cobra.Command, args []string) error {
	if err := newDaemonClient().Remove(args[0]); err != nil {
		return err
	}
	fmt.Printf("Timer %s removed\n", args[0])
	return nil
}

func runTimersPing(cmd *cobra.Command, args []string) error {
	if err := newDaemonClient().Health(); err != nil {
		return err
	}
	fmt.Println("Daemon is healthy")
	return nil
}

func renderTimer(timer *client.Timer) error {
	if IsJSONOutput() {
		return report.WriteJSON(os.Stdout, timer)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")
	table.Append("Name", timer.Name)
	table.Append("Running", fmt.Sprintf("%t", timer.Running))
	table.Append("Elapsed", timer.ElapsedHuman)
	table.Append("Elapsed (ns)", fmt.Sprintf("%d", timer.ElapsedNanos))
	table.Render()
	return nil
}

func renderTimerList(timers []client.Timer) error {
	if IsJSONOutput() {
		return report.WriteJSON(os.Stdout, timers)
	}

	if len(timers) == 0 {
		fmt.Println("No timers")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Running", "Elapsed")
	for _, timer := range timers {
		table.Append(timer.Name, fmt.Sprintf("%t", timer.Running), timer.ElapsedHuman)
	}
	table.Render()
	return nil
}
