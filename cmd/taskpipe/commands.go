package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	pipelinePath string
	storeKind    string
	startDate    string
	endDate      string
	maxRetries   int
	onlyTargets  bool
	verbose      bool

	rootCmd = &cobra.Command{
		Use:   "taskpipe",
		Short: "DAG pipeline runner for the job reporting tables",
		Long: `taskpipe ingests Trello job cards, Float labour hours and the
financial sheet exports, and runs them through the reporting pipeline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	runAllCmd = &cobra.Command{
		Use:   "run-all",
		Short: "Run the whole pipeline",
		RunE:  runAll,
	}

	runCmd = &cobra.Command{
		Use:   "run [target...]",
		Short: "Run the named tasks and their dependencies",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTargets,
	}

	extractCmd = &cobra.Command{
		Use:       "extract <source>",
		Short:     "Run one extract task (trello, float or sheets)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"trello", "float", "sheets"},
		RunE:      runExtract,
	}

	transformCmd = &cobra.Command{
		Use:       "transform <step>",
		Short:     "Run one transform step and its dependencies (clean, match or report)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"clean", "match", "report"},
		RunE:      runTransform,
	}

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate the pipeline graph without running it",
		RunE:  runValidate,
	}

	dagInfoCmd = &cobra.Command{
		Use:   "dag-info",
		Short: "Print the pipeline graph in graphviz DOT form",
		RunE:  runDagInfo,
	}

	statusCmd = &cobra.Command{
		Use:   "status <run-id>",
		Short: "Show the recorded trace of a past run",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatus,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "taskpipe.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&pipelinePath, "pipeline", "p", "", "pipeline definition file (default: built-in reporting pipeline)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "run-record store: mem, sqlite or postgres (default: from config)")
	rootCmd.PersistentFlags().StringVar(&startDate, "start", firstOfMonth(), "labour hours start date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&endDate, "end", today(), "labour hours end date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().IntVar(&maxRetries, "max-retries", -1, "override the per-task retry budget")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd.Flags().BoolVar(&onlyTargets, "only", false, "run exactly the named tasks, skipping any with unsatisfied dependencies")

	rootCmd.AddCommand(runAllCmd, runCmd, extractCmd, transformCmd, validateCmd, dagInfoCmd, statusCmd)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
