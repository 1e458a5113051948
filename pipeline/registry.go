package pipeline

import (
	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/engine"
	"github.com/quarrydata/taskpipe/types"
)

// Registry resolves handler names from pipeline definition files to the
// registered Go callables.
type Registry struct {
	handlers map[string]types.Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]types.Handler)}
}

func (r *Registry) Register(name string, handler types.Handler) error {
	if handler == nil {
		return errors.BadRequestf("handler %s is nil", name)
	}
	if _, exists := r.handlers[name]; exists {
		return errors.AlreadyExistsf("handler: %s", name)
	}
	r.handlers[name] = handler
	return nil
}

// RegisterSpec registers a prebuilt task spec's handler under its task name.
func (r *Registry) RegisterSpec(spec engine.TaskSpec) error {
	return errors.Trace(r.Register(spec.Name, spec.Handler))
}

func (r *Registry) Handler(name string) (types.Handler, bool) {
	h, exists := r.handlers[name]
	return h, exists
}
