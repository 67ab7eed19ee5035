package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/lapse/pkg/logging"
)

var (
	cfgFile      string
	logLevel     string
	logJSON      bool
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lapse",
	Short: "Stopwatch-style timing for commands and services",
	Long: `lapse measures wall-clock time the way a stopwatch does: timers start,
stop, and resume, accumulating elapsed time across intervals and scaling
it to a readable unit.

It times one-off commands, benchmarks them over repeated iterations, and
can run as a small REST daemon managing named timers.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lapse/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default info)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON lines")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		// Search config in home directory with name ".lapse/config" (without extension)
		configDir := filepath.Join(home, ".lapse")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LAPSE")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if logLevel == "" && viper.GetString("log_level") != "" {
			logLevel = viper.GetString("log_level")
		}
		if !logJSON && viper.GetBool("log_json") {
			logJSON = true
		}
	}

	// Set default if still empty
	if logLevel == "" {
		logLevel = "info"
	}
}

// newLogger builds a logger from the resolved global flags
func newLogger() *logging.Logger {
	return logging.NewLogger(logging.ParseLevel(logLevel), logJSON)
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}
