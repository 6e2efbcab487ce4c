// Command npfeasibility reads a jobs CSV file (and an optional
// constraints CSV file), runs the full feasibility analysis pipeline,
// and prints the resulting verdict.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/knokko/np-feasibility/parser"
	"github.com/knokko/np-feasibility/pipeline"
)

var (
	jobsFile        string
	constraintsFile string
	numCores        uint32
	verbose         bool
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "npfeasibility",
		Short: "Non-preemptive feasibility test for real-time job sets",
		Long: "npfeasibility decides whether a set of non-preemptive real-time jobs\n" +
			"is certainly infeasible to schedule on a fixed number of identical\n" +
			"cores, given release times, deadlines, and precedence constraints.",
		RunE: run,
	}

	cmd.Flags().StringVarP(&jobsFile, "jobs-file", "j", "", "CSV file containing the jobs (required)")
	cmd.Flags().StringVarP(&constraintsFile, "constraints-file", "p", "", "CSV file containing the precedence constraints")
	cmd.Flags().Uint32VarP(&numCores, "num-cores", "n", 0, "number of identical cores available (required)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	cmd.MarkFlagRequired("jobs-file")
	cmd.MarkFlagRequired("num-cores")

	return cmd
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func run(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if numCores < 1 {
		return fmt.Errorf("--num-cores must be a positive integer, got %d", numCores)
	}

	logger.Debug().Str("jobsFile", jobsFile).Str("constraintsFile", constraintsFile).
		Uint32("numCores", numCores).Msg("parsing problem")

	p, err := parser.ParseProblem(jobsFile, constraintsFile, numCores)
	if err != nil {
		logger.Error().Err(err).Msg("failed to parse problem")
		return err
	}

	if err := p.Validate(); err != nil {
		logger.Error().Err(err).Msg("problem failed validation")
		return err
	}

	logger.Debug().Int("jobs", len(p.Jobs)).Int("constraints", len(p.Constraints)).
		Msg("running feasibility analysis")

	verdict := pipeline.Run(p)
	fmt.Println(verdict.String())

	return nil
}

func main() {
	cmd := newRootCommand()
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
