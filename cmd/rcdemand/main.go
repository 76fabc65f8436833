package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "rcdemand",
		Short:        "Hourly heating and cooling demand of buildings on a 5R1C thermal network",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file (.yaml/.yml/.json)")

	rootCmd.AddCommand(simulateCmd(&configPath))
	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(validateCmd(&configPath))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func simulateCmd(configPath *string) *cobra.Command {
	var csvDir, report string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate every building of the scenario and export the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(*configPath)
			if err != nil {
				return err
			}
			if csvDir != "" {
				env.cfg.Output.CSVDir = csvDir
			}
			if report != "" {
				env.cfg.Output.ReportFile = report
			}
			return runSimulate(cmd.Context(), env)
		},
	}

	cmd.Flags().StringVar(&csvDir, "csv-dir", "", "write one hourly CSV per building into this directory")
	cmd.Flags().StringVar(&report, "report", "", "write the YAML summary report to this file")
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Simulate the scenario and serve the results over HTTP, Modbus and MQTT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(*configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), env)
		},
	}
}

func validateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration, buildings and weather without simulating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(*configPath)
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), env)
		},
	}
}
