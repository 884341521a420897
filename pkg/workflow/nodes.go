package workflow

import (
	"sync"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/registry"
)

// NodeCache memoizes workflow node descriptions. Handler registration is
// frozen before dispatch starts, so a computed node never goes stale.
type NodeCache struct {
	registry *registry.HandlerRegistry

	mu    sync.RWMutex
	nodes map[models.NodeKey]*models.WorkflowNode
}

func NewNodeCache(reg *registry.HandlerRegistry) *NodeCache {
	return &NodeCache{
		registry: reg,
		nodes:    make(map[models.NodeKey]*models.WorkflowNode),
	}
}

// Describe returns the node for a (workflow, status) pair, computing it on
// first use.
func (c *NodeCache) Describe(workflowName string, status models.StatusCode) *models.WorkflowNode {
	key := models.NodeKey{WorkflowName: workflowName, StatusCode: status}

	c.mu.RLock()
	node, ok := c.nodes[key]
	c.mu.RUnlock()

	if ok {
		return node
	}

	node = &models.WorkflowNode{
		WorkflowName: workflowName,
		StatusCode:   status,
		HasOverride:  c.registry.HasOverride(workflowName, status),
	}

	c.mu.Lock()
	c.nodes[key] = node
	c.mu.Unlock()

	return node
}
