// Package handlers is the static handler catalog: one type per status,
// variant, workflow or product-line scope, each bundling the phase methods
// that scope contributes to a dispatch. All handlers delegate the actual work
// to the action library.
package handlers

import (
	"context"

	"github.com/arthadana/alur/pkg/actions"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/protocol"
)

// Status120Handler acknowledges document submission.
type Status120Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Status120Handler) Name() string { return "status_120" }

func (h *Status120Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t,
		actions.ActionSendEmailStatusChange,
		actions.ActionSendSMSStatusChange,
	)
}

// Status122Handler runs the documents-verified leg: it gates entry on a ready
// credit score, queues the verification-call follow-up in the background, and
// hands the application to the outbound dialer.
type Status122Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Status122Handler) Name() string { return "status_122" }

func (h *Status122Handler) Pre(ctx context.Context, t *models.StatusTransition) error {
	fn, err := h.lib.Lookup(actions.ActionCheckCreditScoreReady)
	if err != nil {
		return err
	}

	return fn(ctx, t)
}

func (h *Status122Handler) AsyncTask(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.Enqueue(ctx, t, actions.ActionProcessDocumentsVerified)
}

func (h *Status122Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	names := []string{actions.ActionSendLeadDataToPrimo}

	// The verification experiments only apply on the straight 121 -> 122 leg,
	// and false-reject experiment members are excluded to keep that
	// experiment's groups clean.
	if t.OldStatusCode == models.StatusScrapedDataVerified {
		matches, err := h.lib.MatchesFalseRejectExperiment(ctx, t.Application.ID)
		if err != nil {
			return err
		}

		if !matches {
			names = append(names,
				actions.ActionProcessExperimentBypass,
				actions.ActionProcessExperimentITI,
			)
		}
	}

	return h.lib.RunPost(ctx, t, names...)
}

// Status135Handler notifies the customer of a denial.
type Status135Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Status135Handler) Name() string { return "status_135" }

func (h *Status135Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t,
		actions.ActionSendEmailStatusChange,
		actions.ActionSendPushNotification,
	)
}

// Status141Handler materializes the loan when the customer accepts an offer.
type Status141Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Status141Handler) Name() string { return "status_141" }

func (h *Status141Handler) Pre(ctx context.Context, t *models.StatusTransition) error {
	fn, err := h.lib.Lookup(actions.ActionCheckHasApprovedOffer)
	if err != nil {
		return err
	}

	return fn(ctx, t)
}

func (h *Status141Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t,
		actions.ActionCreateLoan,
		actions.ActionGeneratePaymentSchedule,
	)
}

// Status160Handler prepares the loan for lender approval.
type Status160Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Status160Handler) Name() string { return "status_160" }

func (h *Status160Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t,
		actions.ActionAssignLender,
		actions.ActionCreateLenderSignature,
	)
}

// Status170Handler opens the disbursal leg: the bank account must validate
// before any money moves.
type Status170Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Status170Handler) Name() string { return "status_170" }

func (h *Status170Handler) Pre(ctx context.Context, t *models.StatusTransition) error {
	fn, err := h.lib.Lookup(actions.ActionValidateBankName)
	if err != nil {
		return err
	}

	return fn(ctx, t)
}

func (h *Status170Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionTriggerDisbursement)
}

// Status172Handler re-triggers disbursement after a manual bank fix. The
// trigger is idempotent, so a disbursement that already completed is skipped.
type Status172Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Status172Handler) Name() string { return "status_172" }

func (h *Status172Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionTriggerDisbursement)
}

// Status180Handler confirms successful disbursal to the customer.
type Status180Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Status180Handler) Name() string { return "status_180" }

func (h *Status180Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t,
		actions.ActionSendSMSStatusChange,
		actions.ActionSendPushNotification,
	)
}

// Status190Handler activates the loan.
type Status190Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Status190Handler) Name() string { return "status_190" }

func (h *Status190Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t,
		actions.ActionUpdateLoanStatusActive,
		actions.ActionSendEmailStatusChange,
		actions.ActionSendPushNotification,
	)
}

// Before122Handler cleans up the documents-verified status on the way out:
// the dialer lead is withdrawn and the queue entry marked worked, whatever
// status the application moves to.
type Before122Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Before122Handler) Name() string { return "before_122" }

func (h *Before122Handler) After(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.Run(ctx, t,
		actions.ActionDeleteLeadDataFromPrimo,
		actions.ActionApp122QueueSetCalled,
	)
}
