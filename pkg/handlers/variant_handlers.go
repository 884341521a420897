package handlers

import (
	"context"

	"github.com/arthadana/alur/pkg/actions"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/protocol"
)

// JuloOne122Handler replaces the generic documents-verified leg for the
// mobile product: same credit-score gate and background follow-up, but no
// dialer lead, since the product verifies in-app.
type JuloOne122Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *JuloOne122Handler) Name() string { return "julo_one_122" }

func (h *JuloOne122Handler) Pre(ctx context.Context, t *models.StatusTransition) error {
	fn, err := h.lib.Lookup(actions.ActionCheckCreditScoreReady)
	if err != nil {
		return err
	}

	return fn(ctx, t)
}

func (h *JuloOne122Handler) AsyncTask(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.Enqueue(ctx, t, actions.ActionProcessDocumentsVerified)
}

func (h *JuloOne122Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	if t.OldStatusCode != models.StatusScrapedDataVerified {
		return nil
	}

	matches, err := h.lib.MatchesFalseRejectExperiment(ctx, t.Application.ID)
	if err != nil || matches {
		return err
	}

	return h.lib.RunPost(ctx, t, actions.ActionProcessExperimentBypass)
}

// JuloOne190Handler activates the mobile product with an in-app push instead
// of the generic email.
type JuloOne190Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *JuloOne190Handler) Name() string { return "julo_one_190" }

func (h *JuloOne190Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t,
		actions.ActionUpdateLoanStatusActive,
		actions.ActionSendPushNotification,
	)
}

// Grab180Handler activates the partner loan at disbursal, since the Grab flow
// has no separate activation status.
type Grab180Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Grab180Handler) Name() string { return "grab_180" }

func (h *Grab180Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t,
		actions.ActionUpdateLoanStatusActive,
		actions.ActionSendSMSStatusChange,
	)
}

// Dana122Handler suppresses the generic documents-verified leg: the partner
// verifies documents on their side, so there is no credit-score gate, no
// dialer lead and no verification call.
type Dana122Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Dana122Handler) Name() string { return "dana_122" }

// JuloStarter122Handler runs the lightweight onboarding product's
// documents-verified leg: credit-score gated, bypass experiment always
// considered, never a dialer lead.
type JuloStarter122Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *JuloStarter122Handler) Name() string { return "julo_starter_122" }

func (h *JuloStarter122Handler) Pre(ctx context.Context, t *models.StatusTransition) error {
	fn, err := h.lib.Lookup(actions.ActionCheckCreditScoreReady)
	if err != nil {
		return err
	}

	return fn(ctx, t)
}

func (h *JuloStarter122Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionProcessExperimentBypass)
}

// Julover120Handler welcomes employee-program applicants by email on
// document submission.
type Julover120Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Julover120Handler) Name() string { return "julover_120" }

func (h *Julover120Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionSendEmailStatusChange)
}

// Merchant160Handler skips the signature record: merchant financing loans are
// signed under the partner master agreement.
type Merchant160Handler struct {
	protocol.BaseHandler
	lib *actions.Library
}

func (h *Merchant160Handler) Name() string { return "merchant_160" }

func (h *Merchant160Handler) Post(ctx context.Context, t *models.StatusTransition) error {
	return h.lib.RunPost(ctx, t, actions.ActionAssignLender)
}
