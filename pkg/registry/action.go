package registry

import (
	"context"
	"fmt"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/protocol"
)

// DeprecatedActionError marks actions retired from the library. A deprecated
// name stays registered so an accidental invocation fails loudly instead of
// silently doing nothing.
type DeprecatedActionError struct {
	Name string
}

func (e *DeprecatedActionError) Error() string {
	return fmt.Sprintf("action '%s' is deprecated and must not be invoked", e.Name)
}

// ActionRegistry maps action names to their implementations. The background
// worker and the failure replay job both use it to re-invoke a single action
// by its persisted name.
type ActionRegistry struct {
	actions map[string]protocol.ActionFunc
}

func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{actions: make(map[string]protocol.ActionFunc)}
}

// Register binds a name to an action.
func (r *ActionRegistry) Register(name string, fn protocol.ActionFunc) {
	r.actions[name] = fn
}

// RegisterDeprecated binds a retired name to a hard failure.
func (r *ActionRegistry) RegisterDeprecated(name string) {
	r.actions[name] = func(context.Context, *models.StatusTransition) error {
		return &DeprecatedActionError{Name: name}
	}
}

// Lookup returns the action registered under name.
func (r *ActionRegistry) Lookup(name string) (protocol.ActionFunc, error) {
	fn, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("action '%s' not registered", name)
	}

	return fn, nil
}

// Names lists every registered action name.
func (r *ActionRegistry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}

	return names
}
