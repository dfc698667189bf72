package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/warriorguo/dagflow"
	"github.com/warriorguo/dagflow/types"
	"github.com/warriorguo/dagflow/utils"
)

func loadWorkflowFile(path string) *types.Workflow {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	workflow, err := types.ParseWorkflowYAML(b)
	if err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}
	return workflow
}

// scratchEngine backs the one shot commands with a throwaway store.
func scratchEngine(workflow *types.Workflow) types.Engine {
	engine, err := dagflow.NewEngine(types.EnableMemStore())
	if err != nil {
		log.Fatalf("start engine: %v", err)
	}
	if err := engine.SaveWorkflow(context.Background(), workflow); err != nil {
		log.Fatalf("save workflow: %v", err)
	}
	return engine
}

func printJSON(v any) {
	b, err := utils.SerializeIndent(v)
	if err != nil {
		log.Fatalf("serialize: %v", err)
	}
	fmt.Println(string(b))
}

func runValidate(cmd *cobra.Command, args []string) {
	workflow := loadWorkflowFile(args[0])
	engine := scratchEngine(workflow)
	defer engine.Close(context.Background())

	result, err := engine.ValidateWorkflow(context.Background(), workflow.ID)
	if err != nil {
		log.Fatalf("validate: %v", err)
	}
	printJSON(result)
	if !result.Valid {
		os.Exit(1)
	}
}

func runPlan(cmd *cobra.Command, args []string) {
	workflow := loadWorkflowFile(args[0])
	engine := scratchEngine(workflow)
	defer engine.Close(context.Background())

	plan, err := engine.PlanWorkflow(context.Background(), workflow.ID)
	if err != nil {
		log.Fatalf("plan: %v", err)
	}
	printJSON(plan)
}

func runRun(cmd *cobra.Command, args []string) {
	input := types.Data{}
	if err := utils.Unserialize([]byte(inputJSON), &input); err != nil {
		log.Fatalf("parse --input: %v", err)
	}

	workflow := loadWorkflowFile(args[0])
	engine := scratchEngine(workflow)
	defer engine.Close(context.Background())

	execution, err := engine.ExecuteWorkflow(context.Background(), workflow.ID, input, triggeredBy)
	if err != nil {
		log.Fatalf("execute: %v", err)
	}
	printJSON(execution)

	if execution.PartialFailure {
		log.Warnf("execution %s completed with node failures", execution.ID)
		os.Exit(1)
	}
}

func runRender(cmd *cobra.Command, args []string) {
	workflow := loadWorkflowFile(args[0])
	engine := scratchEngine(workflow)
	defer engine.Close(context.Background())

	dot, err := engine.RenderWorkflow(context.Background(), workflow.ID)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	fmt.Println(dot)
}
