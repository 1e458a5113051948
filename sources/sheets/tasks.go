package sheets

import (
	"context"
	"path/filepath"

	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/engine"
	"github.com/quarrydata/taskpipe/types"
)

// ExtractTask wires the sheet parser into the graph as the extract_sheets
// node, publishing extract_sheets.quotes from quotes.csv in the export dir.
func ExtractTask(exportDir string) engine.TaskSpec {
	return engine.TaskSpec{
		Name:        "extract_sheets",
		Description: "parse quoted amounts from the financial sheet export",
		Outputs:     []string{"quotes"},
		Handler: func(ctx context.Context, args types.Data) (types.Data, error) {
			quotes, err := LoadQuotes(filepath.Join(exportDir, "quotes.csv"))
			if err != nil {
				return nil, errors.Trace(err)
			}
			return types.Data{"quotes": quotes}, nil
		},
	}
}
