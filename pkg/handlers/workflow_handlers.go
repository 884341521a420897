package handlers

import (
	"context"

	"github.com/arthadana/alur/pkg/actions"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/protocol"
)

// CashLoanWorkflowHandler texts the customer on every legacy-flow transition.
type CashLoanWorkflowHandler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *CashLoanWorkflowHandler) Name() string { return "cash_loan_workflow" }

func (h *CashLoanWorkflowHandler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionSendSMSStatusChange)
}

// JuloOneWorkflowHandler pushes every mobile-flow transition to the app.
type JuloOneWorkflowHandler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *JuloOneWorkflowHandler) Name() string { return "julo_one_workflow" }

func (h *JuloOneWorkflowHandler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionSendPushNotification)
}

// GrabWorkflowHandler pushes transitions to the partner super-app.
type GrabWorkflowHandler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *GrabWorkflowHandler) Name() string { return "grab_workflow" }

func (h *GrabWorkflowHandler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionSendPushNotification)
}

// DanaWorkflowHandler contributes nothing: the partner is notified through
// their own webhook channel, outside this engine.
type DanaWorkflowHandler struct {
	protocol.BaseHandler
}

func (h *DanaWorkflowHandler) Name() string { return "dana_workflow" }

// JuloStarterWorkflowHandler pushes transitions for the lightweight product.
type JuloStarterWorkflowHandler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *JuloStarterWorkflowHandler) Name() string { return "julo_starter_workflow" }

func (h *JuloStarterWorkflowHandler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionSendPushNotification)
}

// MerchantFinancingWorkflowHandler emails the merchant on every transition.
type MerchantFinancingWorkflowHandler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *MerchantFinancingWorkflowHandler) Name() string { return "merchant_financing_workflow" }

func (h *MerchantFinancingWorkflowHandler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionSendEmailStatusChange)
}

// MTLProductLineHandler emails customers on the installment product.
type MTLProductLineHandler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *MTLProductLineHandler) Name() string { return "product_line_mtl" }

func (h *MTLProductLineHandler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionSendEmailStatusChange)
}

// STLProductLineHandler texts customers on the short-term product.
type STLProductLineHandler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *STLProductLineHandler) Name() string { return "product_line_stl" }

func (h *STLProductLineHandler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionSendSMSStatusChange)
}

// GlobalHandler closes every resolution. Its post phase writes the audit row,
// so every committed transition leaves a history record no matter which
// scoped handlers matched.
type GlobalHandler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *GlobalHandler) Name() string { return "global" }

func (h *GlobalHandler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionRecordStatusHistory)
}
