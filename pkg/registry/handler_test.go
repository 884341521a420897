package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthadana/alur/pkg/log"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/protocol"
)

type namedHandler struct {
	protocol.BaseHandler
	name string
}

func (h *namedHandler) Name() string { return h.name }

func named(name string) protocol.Handler { return &namedHandler{name: name} }

func names(handlers []protocol.Handler) []string {
	out := make([]string, 0, len(handlers))
	for _, h := range handlers {
		out = append(out, h.Name())
	}

	return out
}

func transition(variant models.WorkflowVariant, line models.ProductLineCode, oldStatus, newStatus models.StatusCode) *models.StatusTransition {
	app := &models.Application{ID: 1, CustomerID: 1, Variant: variant, ProductLineCode: line}

	return models.NewStatusTransition(app, oldStatus, newStatus, "test", "")
}

func fullRegistry(t *testing.T) *HandlerRegistry {
	t.Helper()

	reg := NewHandlerRegistry(log.Discard())
	reg.RegisterVariantStatus(models.VariantJuloOne, models.StatusDocumentsVerified, named("variant_122"))
	reg.RegisterStatusBefore(models.StatusDocumentsVerified, named("before_122"))
	reg.RegisterNodeOverride("JuloOneWorkflow", models.StatusDocumentsVerified, named("node_j1_122"))
	reg.RegisterStatus(models.StatusDocumentsVerified, named("plain_122"))
	reg.RegisterWorkflow("JuloOneWorkflow", named("workflow_j1"))
	reg.RegisterWorkflow("CashLoanWorkflow", named("workflow_cash"))
	reg.RegisterProductLine(models.ProductLineMTL, named("line_mtl"))
	reg.RegisterGlobal(named("global"))

	require.NoError(t, reg.Validate())

	return reg
}

func TestResolveVariantSuppressesPlainStatus(t *testing.T) {
	reg := fullRegistry(t)
	tr := transition(models.VariantJuloOne, 0, models.StatusScrapedDataVerified, models.StatusDocumentsVerified)

	got := reg.Resolve(tr, "JuloOneWorkflow", protocol.PhasePost)

	assert.Equal(t, []string{"variant_122", "node_j1_122", "workflow_j1", "global"}, names(got))
}

func TestResolvePlainStatusWhenNoVariantMatch(t *testing.T) {
	reg := fullRegistry(t)
	tr := transition(models.VariantLegacy, 0, models.StatusScrapedDataVerified, models.StatusDocumentsVerified)

	got := reg.Resolve(tr, "CashLoanWorkflow", protocol.PhasePre)

	assert.Equal(t, []string{"plain_122", "workflow_cash", "global"}, names(got))
}

func TestResolveProductLineSlot(t *testing.T) {
	reg := fullRegistry(t)
	tr := transition(models.VariantLegacy, models.ProductLineMTL, models.StatusScrapedDataVerified, models.StatusDocumentsVerified)

	got := reg.Resolve(tr, "CashLoanWorkflow", protocol.PhasePost)

	assert.Equal(t, []string{"plain_122", "workflow_cash", "line_mtl", "global"}, names(got))
}

func TestResolveAfterAnchorsOnOldStatus(t *testing.T) {
	reg := fullRegistry(t)

	// Leaving 122: the before-handler matches on the old status even though
	// the destination has no handlers at all.
	tr := transition(models.VariantLegacy, 0, models.StatusDocumentsVerified, models.StatusVerificationCallsSuccessful)

	got := reg.Resolve(tr, "CashLoanWorkflow", protocol.PhaseAfter)

	assert.Equal(t, []string{"before_122", "workflow_cash", "global"}, names(got))
}

func TestResolveAfterIgnoresVariantStatusSlot(t *testing.T) {
	reg := fullRegistry(t)
	tr := transition(models.VariantJuloOne, 0, models.StatusDocumentsVerified, models.StatusVerificationCallsSuccessful)

	got := reg.Resolve(tr, "JuloOneWorkflow", protocol.PhaseAfter)

	assert.Equal(t, []string{"before_122", "workflow_j1", "global"}, names(got))
}

func TestResolveSkipsUnregisteredSlots(t *testing.T) {
	reg := NewHandlerRegistry(log.Discard())
	reg.RegisterGlobal(named("global"))

	tr := transition(models.VariantGrab, models.ProductLineGrab, models.StatusFormCreated, models.StatusFormPartial)

	got := reg.Resolve(tr, "GrabWorkflow", protocol.PhasePost)

	assert.Equal(t, []string{"global"}, names(got))
}

func TestResolveGlobalAlwaysLast(t *testing.T) {
	reg := fullRegistry(t)

	for _, phase := range []protocol.Phase{protocol.PhasePre, protocol.PhaseAsyncTask, protocol.PhasePost, protocol.PhaseAfter} {
		tr := transition(models.VariantJuloOne, models.ProductLineMTL, models.StatusDocumentsVerified, models.StatusVerificationCallsSuccessful)
		got := reg.Resolve(tr, "JuloOneWorkflow", phase)

		require.NotEmpty(t, got)
		assert.Equal(t, "global", got[len(got)-1].Name(), "phase %s", phase)
	}
}

func TestValidateRequiresGlobal(t *testing.T) {
	reg := NewHandlerRegistry(log.Discard())

	assert.Error(t, reg.Validate())
}

func TestHasOverride(t *testing.T) {
	reg := fullRegistry(t)

	assert.True(t, reg.HasOverride("JuloOneWorkflow", models.StatusDocumentsVerified))
	assert.False(t, reg.HasOverride("GrabWorkflow", models.StatusDocumentsVerified))
}
