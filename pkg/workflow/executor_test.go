package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/arthadana/alur/pkg/log"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/protocol"
	"github.com/arthadana/alur/pkg/registry"
)

type scriptedHandler struct {
	protocol.BaseHandler
	name  string
	err   error
	calls *[]string
}

func (h *scriptedHandler) Name() string { return h.name }

func (h *scriptedHandler) Post(context.Context, *models.StatusTransition) error {
	*h.calls = append(*h.calls, h.name)

	return h.err
}

func newScriptedExecutor(t *testing.T, failSecond error) (*Executor, *[]string) {
	t.Helper()

	calls := &[]string{}

	reg := registry.NewHandlerRegistry(log.Discard())
	reg.RegisterStatus(models.StatusDocumentsVerified, &scriptedHandler{name: "first", calls: calls})
	reg.RegisterWorkflow("CashLoanWorkflow", &scriptedHandler{name: "second", err: failSecond, calls: calls})
	reg.RegisterGlobal(&scriptedHandler{name: "third", calls: calls})
	require.NoError(t, reg.Validate())

	tracer := noop.NewTracerProvider().Tracer("test")

	return NewExecutor(reg, tracer, log.Discard()), calls
}

func TestRunPhaseInvokesChainInOrder(t *testing.T) {
	exec, calls := newScriptedExecutor(t, nil)

	app := &models.Application{ID: 1, CustomerID: 1, Variant: models.VariantLegacy}
	tr := models.NewStatusTransition(app, models.StatusScrapedDataVerified, models.StatusDocumentsVerified, "r", "")

	require.NoError(t, exec.RunPhase(context.Background(), tr, "CashLoanWorkflow", protocol.PhasePost))
	assert.Equal(t, []string{"first", "second", "third"}, *calls)
}

func TestRunPhaseStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	exec, calls := newScriptedExecutor(t, boom)

	app := &models.Application{ID: 1, CustomerID: 1, Variant: models.VariantLegacy}
	tr := models.NewStatusTransition(app, models.StatusScrapedDataVerified, models.StatusDocumentsVerified, "r", "")

	err := exec.RunPhase(context.Background(), tr, "CashLoanWorkflow", protocol.PhasePost)
	require.Error(t, err)

	var phaseErr *PhaseError
	require.True(t, errors.As(err, &phaseErr))
	assert.Equal(t, protocol.PhasePost, phaseErr.Phase)
	assert.Equal(t, "second", phaseErr.Handler)
	assert.True(t, errors.Is(err, boom))

	assert.Equal(t, []string{"first", "second"}, *calls, "the handler after the failure must not run")
}
