package postgres_test

import (
	"context"
	"fmt"
	"log"

	"github.com/warriorguo/dagflow/runtime"
	"github.com/warriorguo/dagflow/store/postgres"
	"github.com/warriorguo/dagflow/types"
)

// Example_basicUsage demonstrates basic usage of PostgreSQL store
func Example_basicUsage() {
	// Create PostgreSQL store configuration
	config := postgres.DefaultConfig()
	config.Host = "localhost"
	config.Port = 5432
	config.User = "postgres"
	config.Password = "postgres"
	config.Database = "dagflow"

	// Create the store
	store, err := postgres.NewPostgresStore(config)
	if err != nil {
		log.Fatal(err)
	}
	// Note: In production, the store should live for the lifetime of the application

	// Create workflow engine with PostgreSQL store
	engine := runtime.NewEngine(store, types.NewOptions())

	// Register node handlers
	err = engine.RegisterHandler("transform", func(ctx types.Context, node *types.NodeContext) (types.Data, error) {
		fmt.Println("Transforming input")
		out := node.Input.Clone()
		out.Set("status", "transformed")
		return out, nil
	})
	if err != nil {
		log.Fatal(err)
	}

	// Define a simple workflow
	workflow := types.NewWorkflow("simple-workflow", "Simple Workflow")
	workflow.AddNode(&types.Node{ID: "start", Type: "webhook", Category: "trigger"})
	workflow.AddNode(&types.Node{ID: "process", Type: "transform"})
	workflow.AddNode(&types.Node{ID: "finish", Type: "notify"})
	workflow.AddEdge(&types.Edge{SourceNodeID: "start", TargetNodeID: "process"})
	workflow.AddEdge(&types.Edge{SourceNodeID: "process", TargetNodeID: "finish"})

	if err := engine.SaveWorkflow(context.Background(), workflow); err != nil {
		log.Fatal(err)
	}

	// Run the workflow
	params := types.Data{}
	params.Set("input", "test data")

	execution, err := engine.ExecuteWorkflow(context.Background(), "simple-workflow", params, "manual")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Execution %s finished with status %s\n", execution.ID, execution.Status)
}

// Example_withDSN demonstrates usage with DSN string
func Example_withDSN() {
	// Parse DSN string
	dsn := "host=localhost port=5432 user=postgres password=postgres dbname=dagflow sslmode=disable"
	config, err := postgres.ParseDSN(dsn)
	if err != nil {
		log.Fatal(err)
	}

	// Create store with parsed config
	store, err := postgres.NewPostgresStore(config)
	if err != nil {
		log.Fatal(err)
	}

	// Use store with workflow engine
	engine := runtime.NewEngine(store, types.NewOptions())

	fmt.Printf("Engine created with PostgreSQL store\n")

	// List all stored workflows
	ids, _ := engine.ListWorkflowIDs(context.Background())
	fmt.Printf("Stored workflows: %v\n", ids)
}

// Example_executionHistory demonstrates reading back persisted executions
func Example_executionHistory() {
	config := postgres.DefaultConfig()
	store, err := postgres.NewPostgresStore(config)
	if err != nil {
		log.Fatal(err)
	}

	engine := runtime.NewEngine(store, types.NewOptions())

	workflow := types.NewWorkflow("audit-workflow", "Audit Workflow")
	workflow.AddNode(&types.Node{ID: "ingest", Type: "webhook", Category: "trigger"})
	workflow.AddNode(&types.Node{ID: "archive", Type: "archive"})
	workflow.AddEdge(&types.Edge{SourceNodeID: "ingest", TargetNodeID: "archive"})

	ctx := context.Background()
	if err := engine.SaveWorkflow(ctx, workflow); err != nil {
		log.Fatal(err)
	}

	execution, err := engine.ExecuteWorkflow(ctx, "audit-workflow", types.Data{}, "scheduler")
	if err != nil {
		log.Fatal(err)
	}

	// Executions survive restarts: reload the record and its node runs
	// from PostgreSQL by id.
	reloaded, err := engine.GetExecution(ctx, execution.ID)
	if err != nil {
		log.Fatal(err)
	}

	records, err := engine.GetNodeRecords(ctx, execution.ID)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Execution %s: %s, %d node runs\n", reloaded.ID, reloaded.Status, len(records))
}
