// Package actions is the engine's action library: the catalog of named
// business operations handlers invoke from their phase methods. Every
// operation takes only the ambient transition context and re-derives the
// state it needs, so a replayed invocation behaves like the original one.
package actions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arthadana/alur/pkg/clients"
	"github.com/arthadana/alur/pkg/persistence"
	"github.com/arthadana/alur/pkg/protocol"
	"github.com/arthadana/alur/pkg/registry"

	"github.com/arthadana/alur/pkg/models"
)

// Action names. These are persisted in failure records and background jobs,
// so renaming one breaks replay of records written before the rename.
const (
	ActionCheckCreditScoreReady       = "check_is_credit_score_ready"
	ActionCheckHasApprovedOffer       = "check_has_approved_offer"
	ActionCreateLoan                  = "create_loan"
	ActionGeneratePaymentSchedule     = "generate_payment_schedule"
	ActionAssignLender                = "assign_lender"
	ActionUpdateLoanStatusActive      = "update_loan_status_active"
	ActionCreateLenderSignature       = "create_lender_signature"
	ActionValidateBankName            = "validate_bank_name"
	ActionTriggerDisbursement         = "trigger_disbursement"
	ActionSendSMSStatusChange         = "send_sms_status_change"
	ActionSendEmailStatusChange       = "send_email_status_change"
	ActionSendPushNotification        = "send_push_notification"
	ActionSendLeadDataToPrimo         = "send_lead_data_to_primo"
	ActionDeleteLeadDataFromPrimo     = "delete_lead_data_from_primo"
	ActionApp122QueueSetCalled        = "app122queue_set_called"
	ActionProcessDocumentsVerified    = "process_documents_verified_action"
	ActionProcessExperimentBypass     = "process_experiment_bypass"
	ActionProcessExperimentITI        = "process_experiment_iti_low_threshold"
	ActionBypassVerificationCalls     = "bypass_verification_calls"
	ActionRecordStatusHistory         = "record_status_history"
)

// deprecatedActions are retired code paths kept registered so an accidental
// invocation fails loudly.
var deprecatedActions = []string{
	"run_credit_limit_generation_v1",
	"send_registration_reminder_legacy",
}

// Collaborators bundles the external services actions call into.
type Collaborators struct {
	SMS       clients.SMSClient
	Email     clients.EmailClient
	Push      clients.PushClient
	Bank      clients.BankValidator
	Disburser clients.DisbursementGateway
	Dialer    clients.DialerClient
}

// Library is the action catalog bound to its storage, queue and
// collaborators.
type Library struct {
	store    persistence.Persistence
	queue    protocol.TaskQueue
	collab   Collaborators
	recorder *FailureRecorder
	logger   *slog.Logger

	byName map[string]protocol.ActionFunc
}

func NewLibrary(store persistence.Persistence, queue protocol.TaskQueue, collab Collaborators, logger *slog.Logger) *Library {
	l := &Library{
		store:    store,
		queue:    queue,
		collab:   collab,
		recorder: NewFailureRecorder(store, logger),
		logger:   logger,
	}

	l.byName = map[string]protocol.ActionFunc{
		ActionCheckCreditScoreReady:    l.CheckCreditScoreReady,
		ActionCheckHasApprovedOffer:    l.CheckHasApprovedOffer,
		ActionCreateLoan:               l.CreateLoan,
		ActionGeneratePaymentSchedule:  l.GeneratePaymentSchedule,
		ActionAssignLender:             l.AssignLender,
		ActionUpdateLoanStatusActive:   l.UpdateLoanStatusActive,
		ActionCreateLenderSignature:    l.CreateLenderSignature,
		ActionValidateBankName:         l.ValidateBankName,
		ActionTriggerDisbursement:      l.TriggerDisbursement,
		ActionSendSMSStatusChange:      l.SendSMSStatusChange,
		ActionSendEmailStatusChange:    l.SendEmailStatusChange,
		ActionSendPushNotification:     l.SendPushNotification,
		ActionSendLeadDataToPrimo:      l.SendLeadDataToPrimo,
		ActionDeleteLeadDataFromPrimo:  l.DeleteLeadDataFromPrimo,
		ActionApp122QueueSetCalled:     l.App122QueueSetCalled,
		ActionProcessDocumentsVerified: l.ProcessDocumentsVerified,
		ActionProcessExperimentBypass:  l.ProcessExperimentBypass,
		ActionProcessExperimentITI:     l.ProcessExperimentITILowThreshold,
		ActionBypassVerificationCalls:  l.BypassVerificationCalls,
		ActionRecordStatusHistory:      l.RecordStatusHistory,
	}

	return l
}

// RegisterAll publishes every action, plus the deprecated sentinels, into the
// named action registry used by the background worker and the replay job.
func (l *Library) RegisterAll(ar *registry.ActionRegistry) {
	for name, fn := range l.byName {
		ar.Register(name, fn)
	}

	for _, name := range deprecatedActions {
		ar.RegisterDeprecated(name)
	}
}

// Lookup returns the named action.
func (l *Library) Lookup(name string) (protocol.ActionFunc, error) {
	fn, ok := l.byName[name]
	if !ok {
		return nil, fmt.Errorf("action '%s' not in library", name)
	}

	return fn, nil
}

// RunPost invokes the named post actions in order, each wrapped by the
// failure recorder. The first failing action stops the rest: a post phase is
// a sequential script, not a set of independent steps.
func (l *Library) RunPost(ctx context.Context, t *models.StatusTransition, names ...string) error {
	for _, name := range names {
		fn, err := l.Lookup(name)
		if err != nil {
			return err
		}

		if err := fn(ctx, t); err != nil {
			l.recorder.Record(ctx, name, t, err)

			return err
		}
	}

	return nil
}

// Run invokes the named actions in order with the same first-error-halts
// discipline as RunPost, but without the failure recorder. Cleanup phases use
// it so a failed cleanup never masquerades as a replayable post record.
func (l *Library) Run(ctx context.Context, t *models.StatusTransition, names ...string) error {
	for _, name := range names {
		fn, err := l.Lookup(name)
		if err != nil {
			return err
		}

		if err := fn(ctx, t); err != nil {
			return err
		}
	}

	return nil
}

// Enqueue hands a named action off to the background queue, fire-and-forget.
func (l *Library) Enqueue(ctx context.Context, t *models.StatusTransition, name string, opts ...protocol.EnqueueOption) error {
	handle, err := l.queue.Enqueue(ctx, name, t.Arguments(), opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s for application %d: %w", name, t.Application.ID, err)
	}

	l.logger.DebugContext(ctx, "Enqueued background action",
		"action", name, "job_id", handle.ID, "queue", handle.Queue,
		"application_id", t.Application.ID)

	return nil
}
