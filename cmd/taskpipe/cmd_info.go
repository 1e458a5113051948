package main

import (
	"context"
	"fmt"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/quarrydata/taskpipe"
	"github.com/quarrydata/taskpipe/engine"
	"github.com/quarrydata/taskpipe/utils"
)

func runDagInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Trace(err)
	}
	graph, err := buildGraph(cfg)
	if err != nil {
		return errors.Trace(err)
	}
	fmt.Print(engine.RenderDOT(graph))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	runID := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return errors.Trace(err)
	}

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
	default:
		return errors.BadRequestf("status needs a durable store; set --store sqlite or postgres")
	}

	s, err := taskpipe.OpenStore(storeOpts)
	if err != nil {
		return errors.Trace(err)
	}

	ctx := context.Background()
	summary, err := engine.LoadSummary(ctx, s, runID)
	if err != nil {
		return errors.Trace(err)
	}
	records, err := engine.LoadRun(ctx, s, runID)
	if err != nil {
		return errors.Trace(err)
	}

	b, err := utils.SerializeIndent(summary)
	if err != nil {
		return errors.Trace(err)
	}
	fmt.Printf("%s\n", b)

	for _, task := range utils.SortedKeys(records) {
		b, err := utils.SerializeIndent(records[task])
		if err != nil {
			return errors.Trace(err)
		}
		fmt.Printf("%s\n", b)
	}
	return nil
}
