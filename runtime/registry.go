package runtime

import (
	"sync"

	"github.com/juju/errors"
	"github.com/warriorguo/dagflow/types"
)

/**
 * notImplementedHandler stands in for every node type nobody
 * registered. It reports a successful placeholder output instead of
 * failing, so a workflow with unknown node types still runs through.
 */
func notImplementedHandler(ctx types.Context, node *types.NodeContext) (types.Data, error) {
	output := types.Data{}
	output.Set("status", "not_implemented")
	output.Set("node_type", node.NodeType)
	return output, nil
}

func newHandlerRegistry() *handlerRegistry {
	return &handlerRegistry{handlers: make(map[string]types.NodeHandler)}
}

type handlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]types.NodeHandler
}

func (r *handlerRegistry) register(nodeType string, handler types.NodeHandler) error {
	if nodeType == "" {
		return errors.BadRequestf("node type is empty")
	}
	if handler == nil {
		return errors.BadRequestf("handler is nil for node type: %s", nodeType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[nodeType]; exists {
		return errors.AlreadyExistsf("handler for node type: %s", nodeType)
	}
	r.handlers[nodeType] = handler
	return nil
}

func (r *handlerRegistry) resolve(nodeType string) types.NodeHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if handler, exists := r.handlers[nodeType]; exists {
		return handler
	}
	return notImplementedHandler
}
