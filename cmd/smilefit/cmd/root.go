package cmd

import (
	"fmt"
	"os"

	"github.com/banachtech/smile/config"
	"github.com/banachtech/smile/logger"
	"github.com/spf13/cobra"
)

var (
	envFile string
	verbose bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "smilefit",
	Short: "SABR smile calibration from the command line",
	Long: `smilefit calibrates SABR smiles from CSV quotes and evaluates
Hagan volatilities with their sensitivities.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(envFile); err != nil {
			return err
		}
		logCfg := cfg.Log
		logCfg.Format = "text"
		if verbose {
			logCfg.Level = "debug"
		}
		return logger.Init(logCfg)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "env file with database and engine settings")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}
