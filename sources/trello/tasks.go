package trello

import (
	"context"

	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/engine"
	"github.com/quarrydata/taskpipe/types"
)

// ExtractTask wires the client into the graph as the extract_trello node,
// publishing extract_trello.jobs and extract_trello.lists.
func ExtractTask(client *Client, boards []string) engine.TaskSpec {
	return engine.TaskSpec{
		Name:        "extract_trello",
		Description: "fetch job cards from Trello boards",
		Outputs:     []string{"jobs", "lists"},
		Handler: func(ctx context.Context, args types.Data) (types.Data, error) {
			byBoard, err := client.BoardCards(ctx, boards)
			if err != nil {
				return nil, errors.Trace(err)
			}

			allLists := make([]List, 0)
			allJobs := make([]JobCard, 0)
			for _, boardID := range boards {
				lists, err := client.Lists(ctx, boardID)
				if err != nil {
					return nil, errors.Trace(err)
				}
				allLists = append(allLists, lists...)
				allJobs = append(allJobs, ParseJobCards(byBoard[boardID], lists)...)
			}

			return types.Data{"jobs": allJobs, "lists": allLists}, nil
		},
	}
}
