// Package cli wires the fogsched binary's cobra command tree: a root
// command plus serve/schedule/experiment subcommands, each binding its
// flags through internal/config (SPEC_FULL §6.1).
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fog-compute/internal/config"
	"fog-compute/internal/experiment"
	"fog-compute/internal/httpapi"
	"fog-compute/internal/logging"
	"fog-compute/internal/scheduler"
)

// Execute builds and runs the root command against os.Args.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "fogsched",
		Short: "Fog-computing task scheduler (PSO/ACO hybrid metaheuristic)",
	}
	config.Bind(root.PersistentFlags())
	root.AddCommand(newServeCommand(), newScheduleCommand(), newExperimentCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP scheduling facade",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger := logging.New(os.Stderr, cfg.LogLevel)
			solverOpts := scheduler.SolverOptions{Parallel: cfg.Parallel, Workers: cfg.Workers}
			srv := httpapi.New(":"+cfg.Port, logger, solverOpts)
			return srv.Run(context.Background())
		},
	}
}

func newScheduleCommand() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run a single scheduling call against a JSON request read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			var req scheduler.Request
			if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
				return fmt.Errorf("decode request: %w", err)
			}
			if mode != "" {
				req.Mode = scheduler.Mode(mode)
			}
			if req.Seed == nil && cfg.UseDefaultSeed {
				seed := uint32(cfg.DefaultSeed)
				req.Seed = &seed
			}
			logger := logging.New(os.Stderr, cfg.LogLevel)
			solverOpts := scheduler.SolverOptions{Parallel: cfg.Parallel, Workers: cfg.Workers}
			result, err := scheduler.Handle(context.Background(), req, logger, solverOpts)
			if err != nil {
				return err
			}
			return json.NewEncoder(os.Stdout).Encode(result)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "override the request's mode field")
	return cmd
}

func newExperimentCommand() *cobra.Command {
	var tag string
	var iterations int
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Run the experiment harness and print its validation record",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger := logging.New(os.Stderr, cfg.LogLevel)
			var seedPtr *uint32
			if cfg.UseDefaultSeed {
				seed := uint32(cfg.DefaultSeed)
				seedPtr = &seed
			}
			result := experiment.Run(experiment.Config{
				Tag:     experiment.Tag(tag),
				Seed:    seedPtr,
				Repeats: iterations,
			}, logger)
			return json.NewEncoder(os.Stdout).Encode(result)
		},
	}
	cmd.Flags().StringVar(&tag, "tag", string(experiment.TagAll), "experiment tag to run")
	cmd.Flags().IntVar(&iterations, "iterations", 1, "repeats averaged per sample point")
	return cmd
}
