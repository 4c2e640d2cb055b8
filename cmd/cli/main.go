package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gradelens/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	passMark           float64
	jsonOut            bool
	raw                bool
	treatMissingAsZero bool
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &globalOptions{}
	env := &cliEnv{cfg: cfg, opts: opts}

	rootCmd := &cobra.Command{
		Use:           "gradelens",
		Short:         "GradeLens CLI for school results analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.Float64Var(&opts.passMark, "pass-mark", cfg.Analysis.PassMark, "Pass mark percentage (0-100)")
	flags.BoolVar(&opts.jsonOut, "json", false, "Print results as JSON")
	flags.BoolVar(&opts.raw, "raw", false, "Skip the cleaning pass before analysis")
	flags.BoolVar(&opts.treatMissingAsZero, "treat-missing-as-zero", cfg.Analysis.TreatMissingAsZero, "Count missing scores as 0 when cleaning")

	rootCmd.AddCommand(
		newAnalyzeCmd(env),
		newRiskCmd(env),
		newGapsCmd(env),
		newInsightsCmd(env),
		newTermsCmd(env),
		newStudentCmd(env),
		newCleanCmd(env),
		newExportCmd(env),
		newReportCmd(env),
		newDemoCmd(env),
	)
	return rootCmd
}
