package pipeline

import (
	"os"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/quarrydata/taskpipe/engine"
)

// TaskDef is one task entry of a pipeline definition file.
type TaskDef struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	/**
	 * Handler names a registered callable; defaults to the task name.
	 */
	Handler    string            `yaml:"handler"`
	Inputs     map[string]string `yaml:"inputs"`
	Outputs    []string          `yaml:"outputs"`
	MaxRetries int               `yaml:"max_retries"`
}

// Spec is a declarative pipeline definition.
type Spec struct {
	Name  string    `yaml:"name"`
	Tasks []TaskDef `yaml:"tasks"`
}

// Load reads a pipeline definition from yaml.
func Load(path string) (*Spec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to read pipeline %s", path)
	}
	return Parse(b)
}

func Parse(b []byte) (*Spec, error) {
	spec := &Spec{}
	if err := yaml.Unmarshal(b, spec); err != nil {
		return nil, errors.Annotatef(err, "failed to parse pipeline definition")
	}
	if len(spec.Tasks) == 0 {
		return nil, errors.BadRequestf("pipeline %s declares no tasks", spec.Name)
	}
	return spec, nil
}

// Build resolves every task's handler against the registry and assembles the
// graph. The graph is validated before it is returned, so wiring mistakes in
// the definition file surface at load time rather than mid-run.
func (s *Spec) Build(reg *Registry) (*engine.Graph, error) {
	graph := engine.NewGraph()
	for _, def := range s.Tasks {
		handlerName := def.Handler
		if handlerName == "" {
			handlerName = def.Name
		}
		handler, exists := reg.Handler(handlerName)
		if !exists {
			return nil, errors.NotFoundf("handler %s for task %s", handlerName, def.Name)
		}

		_, err := graph.Add(engine.TaskSpec{
			Name:        def.Name,
			Description: def.Description,
			Handler:     handler,
			Inputs:      def.Inputs,
			Outputs:     def.Outputs,
			MaxRetries:  def.MaxRetries,
		})
		if err != nil {
			return nil, errors.Trace(err)
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return graph, nil
}
