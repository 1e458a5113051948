package float

import (
	"context"

	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/engine"
	"github.com/quarrydata/taskpipe/types"
)

// ExtractTask wires the client into the graph as the extract_float node,
// publishing extract_float.entries and extract_float.people.
func ExtractTask(client *Client, start, end string) engine.TaskSpec {
	return engine.TaskSpec{
		Name:        "extract_float",
		Description: "fetch logged labour hours from Float",
		Outputs:     []string{"entries", "people"},
		Handler: func(ctx context.Context, args types.Data) (types.Data, error) {
			people, err := client.People(ctx)
			if err != nil {
				return nil, errors.Trace(err)
			}
			entries, err := client.LoggedTime(ctx, start, end)
			if err != nil {
				return nil, errors.Trace(err)
			}
			return types.Data{"entries": entries, "people": people}, nil
		},
	}
}
