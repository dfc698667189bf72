package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	listenAddr  string
	storeKind   string
	badgerPath  string
	pgHost      string
	pgPort      int
	pgUser      string
	pgPassword  string
	pgDatabase  string
	pgSSLMode   string
	inputJSON   string
	triggeredBy string

	rootCmd = &cobra.Command{
		Use:   "dagflow",
		Short: "DAG workflow engine",
		Long: `dagflow stores workflow definitions, validates and plans their DAGs
and executes them wave by wave on a shared worker pool.`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the workflow engine over HTTP",
		Run:   runServe,
	}

	validateCmd = &cobra.Command{
		Use:   "validate [workflow.yaml]",
		Short: "Validate a workflow definition file",
		Args:  cobra.ExactArgs(1),
		Run:   runValidate,
	}

	planCmd = &cobra.Command{
		Use:   "plan [workflow.yaml]",
		Short: "Print the wave by wave execution plan of a definition file",
		Args:  cobra.ExactArgs(1),
		Run:   runPlan,
	}

	runCmd = &cobra.Command{
		Use:   "run [workflow.yaml]",
		Short: "Execute a definition file once and print the execution",
		Args:  cobra.ExactArgs(1),
		Run:   runRun,
	}

	renderCmd = &cobra.Command{
		Use:   "render [workflow.yaml]",
		Short: "Print the Graphviz DOT of a definition file",
		Args:  cobra.ExactArgs(1),
		Run:   runRender,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&storeKind, "store", "mem", "store backend: mem, badger or postgres")
	serveCmd.Flags().StringVar(&badgerPath, "badger-path", "dagflow.db", "data directory for the badger store")
	serveCmd.Flags().StringVar(&pgHost, "pg-host", "localhost", "PostgreSQL host")
	serveCmd.Flags().IntVar(&pgPort, "pg-port", 5432, "PostgreSQL port")
	serveCmd.Flags().StringVar(&pgUser, "pg-user", "postgres", "PostgreSQL user")
	serveCmd.Flags().StringVar(&pgPassword, "pg-password", "", "PostgreSQL password")
	serveCmd.Flags().StringVar(&pgDatabase, "pg-database", "dagflow", "PostgreSQL database")
	serveCmd.Flags().StringVar(&pgSSLMode, "pg-sslmode", "disable", "PostgreSQL sslmode")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(renderCmd)

	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&inputJSON, "input", "{}", "workflow input as JSON")
	runCmd.Flags().StringVar(&triggeredBy, "triggered-by", "cli", "trigger source recorded on the execution")
}
