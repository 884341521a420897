// Package registry holds the static handler catalog and the named action
// catalog. Both are built once at startup by explicit registration and are
// read-only during dispatch.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/protocol"
)

type variantStatusKey struct {
	variant models.WorkflowVariant
	status  models.StatusCode
}

// HandlerRegistry maps handler scopes to handler instances. Resolution walks
// the slots from most to least specific so variant-specific logic always runs
// before generic catch-all logic.
type HandlerRegistry struct {
	logger *slog.Logger

	variantStatus map[variantStatusKey]protocol.Handler
	statusBefore  map[models.StatusCode]protocol.Handler
	nodeOverride  map[models.NodeKey]protocol.Handler
	plainStatus   map[models.StatusCode]protocol.Handler
	workflows     map[string]protocol.Handler
	productLines  map[models.ProductLineCode]protocol.Handler
	global        protocol.Handler
}

func NewHandlerRegistry(logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{
		logger:        logger,
		variantStatus: make(map[variantStatusKey]protocol.Handler),
		statusBefore:  make(map[models.StatusCode]protocol.Handler),
		nodeOverride:  make(map[models.NodeKey]protocol.Handler),
		plainStatus:   make(map[models.StatusCode]protocol.Handler),
		workflows:     make(map[string]protocol.Handler),
		productLines:  make(map[models.ProductLineCode]protocol.Handler),
	}
}

// RegisterVariantStatus binds a handler to a (variant, destination status)
// pair. These are the per-variant status handlers the original platform named
// <Variant><StatusCode>Handler.
func (r *HandlerRegistry) RegisterVariantStatus(variant models.WorkflowVariant, status models.StatusCode, h protocol.Handler) {
	r.variantStatus[variantStatusKey{variant: variant, status: status}] = h
}

// RegisterStatusBefore binds a handler to an old status: it runs in the after
// phase of any transition leaving that status.
func (r *HandlerRegistry) RegisterStatusBefore(status models.StatusCode, h protocol.Handler) {
	r.statusBefore[status] = h
}

// RegisterNodeOverride binds a handler to one (workflow, status) node.
func (r *HandlerRegistry) RegisterNodeOverride(workflowName string, status models.StatusCode, h protocol.Handler) {
	r.nodeOverride[models.NodeKey{WorkflowName: workflowName, StatusCode: status}] = h
}

// RegisterStatus binds a workflow-agnostic handler to a destination status.
// It only runs when no variant-specific handler matched.
func (r *HandlerRegistry) RegisterStatus(status models.StatusCode, h protocol.Handler) {
	r.plainStatus[status] = h
}

// RegisterWorkflow binds the one handler a workflow type declares.
func (r *HandlerRegistry) RegisterWorkflow(workflowName string, h protocol.Handler) {
	r.workflows[workflowName] = h
}

// RegisterProductLine binds the handler a product line declares.
func (r *HandlerRegistry) RegisterProductLine(line models.ProductLineCode, h protocol.Handler) {
	r.productLines[line] = h
}

// RegisterGlobal binds the catch-all handler that closes every resolution.
func (r *HandlerRegistry) RegisterGlobal(h protocol.Handler) {
	r.global = h
}

// Validate confirms the registry is complete enough to dispatch against.
func (r *HandlerRegistry) Validate() error {
	if r.global == nil {
		return fmt.Errorf("handler registry has no global handler")
	}

	return nil
}

// HasOverride reports whether a node-level handler exists for the node.
func (r *HandlerRegistry) HasOverride(workflowName string, status models.StatusCode) bool {
	_, ok := r.nodeOverride[models.NodeKey{WorkflowName: workflowName, StatusCode: status}]

	return ok
}

// Resolve produces the ordered handler list for one dispatch phase. An
// unregistered slot is skipped, never an error; the global handler is always
// present and always last.
//
// The after phase anchors on the status being left, every other phase on the
// destination status.
func (r *HandlerRegistry) Resolve(t *models.StatusTransition, workflowName string, phase protocol.Phase) []protocol.Handler {
	anchor := t.NewStatusCode
	if phase == protocol.PhaseAfter {
		anchor = t.OldStatusCode
	}

	handlers := make([]protocol.Handler, 0, 6)
	specificMatched := false

	if phase == protocol.PhaseAfter {
		if h, ok := r.statusBefore[anchor]; ok {
			handlers = append(handlers, h)
			specificMatched = true
		}
	} else if h, ok := r.variantStatus[variantStatusKey{variant: t.Application.Variant, status: anchor}]; ok {
		handlers = append(handlers, h)
		specificMatched = true
	}

	if h, ok := r.nodeOverride[models.NodeKey{WorkflowName: workflowName, StatusCode: anchor}]; ok {
		handlers = append(handlers, h)
	}

	if !specificMatched {
		if h, ok := r.plainStatus[anchor]; ok {
			handlers = append(handlers, h)
		}
	}

	if h, ok := r.workflows[workflowName]; ok {
		handlers = append(handlers, h)
	}

	if h, ok := r.productLines[t.Application.ProductLineCode]; ok {
		handlers = append(handlers, h)
	}

	return append(handlers, r.global)
}
