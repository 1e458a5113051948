package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quarrydata/taskpipe"
	"github.com/quarrydata/taskpipe/config"
	"github.com/quarrydata/taskpipe/engine"
	"github.com/quarrydata/taskpipe/pipeline"
	"github.com/quarrydata/taskpipe/types"
)

func firstOfMonth() string {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func loadConfig() (*config.Config, error) {
	if !fileExists(configPath) {
		log.Debugf("no config at %s, using defaults", configPath)
		return config.New(), nil
	}
	cfg, err := config.Load(configPath)
	return cfg, errors.Trace(err)
}

func buildGraph(cfg *config.Config) (*engine.Graph, error) {
	if pipelinePath == "" {
		return pipeline.Default(cfg, startDate, endDate)
	}

	spec, err := pipeline.Load(pipelinePath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	reg, err := pipeline.DefaultRegistry(cfg, startDate, endDate)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return spec.Build(reg)
}

func newExecutor(cfg *config.Config, graph *engine.Graph) (*engine.Executor, string, error) {
	storeOpts := taskpipe.StoreOptions{}
	kind := storeKind
	if kind == "" {
		kind = cfg.Run.Store
	}
	switch kind {
	case "sqlite":
		storeOpts.SQLitePath = cfg.Run.SQLitePath
	case "postgres":
		storeOpts.PostgresDSN = cfg.Run.PostgresDSN
	case "", "mem":
	default:
		return nil, "", errors.BadRequestf("unknown store kind: %s", kind)
	}

	s, err := taskpipe.OpenStore(storeOpts)
	if err != nil {
		return nil, "", errors.Trace(err)
	}

	runID := uuid.NewString()
	observer := types.CombineObservers(
		engine.NewLogObserver(log.StandardLogger()),
		engine.NewRunRecorder(s, runID),
	)

	opts := []types.RunOption{
		types.WithRunID(runID),
		types.WithConfig(cfg.Data()),
		types.WithObserver(observer),
	}
	if maxRetries >= 0 {
		opts = append(opts, types.WithMaxRetries(maxRetries))
	}
	return taskpipe.NewExecutor(graph, opts...), runID, nil
}

func executeTargets(targets []string, only bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Trace(err)
	}
	graph, err := buildGraph(cfg)
	if err != nil {
		return errors.Trace(err)
	}
	executor, runID, err := newExecutor(cfg, graph)
	if err != nil {
		return errors.Trace(err)
	}

	log.Infof("run %s starting", runID)
	ctx := context.Background()
	if only {
		_, err = executor.ExecuteOnly(ctx, targets...)
	} else {
		_, err = executor.Execute(ctx, targets...)
	}
	return errors.Trace(err)
}

func runAll(cmd *cobra.Command, args []string) error {
	return executeTargets(nil, false)
}

func runTargets(cmd *cobra.Command, args []string) error {
	return executeTargets(args, onlyTargets)
}

var extractTaskNames = map[string]string{
	"trello": "extract_trello",
	"float":  "extract_float",
	"sheets": "extract_sheets",
}

var transformTaskNames = map[string]string{
	"clean":  "transform_clean",
	"match":  "transform_match",
	"report": "report",
}

func runExtract(cmd *cobra.Command, args []string) error {
	task, exists := extractTaskNames[args[0]]
	if !exists {
		return errors.NotFoundf("extract source: %s", args[0])
	}
	return executeTargets([]string{task}, false)
}

func runTransform(cmd *cobra.Command, args []string) error {
	task, exists := transformTaskNames[args[0]]
	if !exists {
		return errors.NotFoundf("transform step: %s", args[0])
	}
	return executeTargets([]string{task}, false)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Trace(err)
	}
	graph, err := buildGraph(cfg)
	if err != nil {
		return errors.Trace(err)
	}
	if err := graph.Validate(); err != nil {
		return errors.Trace(err)
	}
	order, err := graph.TopologicalOrder()
	if err != nil {
		return errors.Trace(err)
	}
	fmt.Printf("pipeline ok: %d tasks\n", graph.Len())
	for i, name := range order {
		fmt.Printf("%3d. %s\n", i+1, name)
	}
	return nil
}
