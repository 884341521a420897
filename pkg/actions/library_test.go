package actions

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthadana/alur/pkg/clients"
	"github.com/arthadana/alur/pkg/log"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence/memory"
	"github.com/arthadana/alur/pkg/protocol"
)

type fakeSMS struct {
	sent []string
	err  error
}

func (f *fakeSMS) Send(_ context.Context, phoneNumber, _ string) (*clients.Response, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.sent = append(f.sent, phoneNumber)

	return &clients.Response{StatusCode: http.StatusOK}, nil
}

type fakeEmail struct {
	sent []string
	err  error
}

func (f *fakeEmail) Send(_ context.Context, email, _, _ string) (*clients.Response, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.sent = append(f.sent, email)

	return &clients.Response{StatusCode: http.StatusOK}, nil
}

type fakePush struct {
	sent int
	err  error
}

func (f *fakePush) Send(context.Context, int64, string, string) (*clients.Response, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.sent++

	return &clients.Response{StatusCode: http.StatusOK}, nil
}

type fakeBank struct {
	result *clients.NameValidationResult
	err    error
}

func (f *fakeBank) ValidateName(context.Context, string, string, string) (*clients.NameValidationResult, error) {
	return f.result, f.err
}

type fakeGateway struct {
	calls  int
	result *clients.DisburseResult
	err    error
}

func (f *fakeGateway) Disburse(context.Context, clients.DisburseRequest) (*clients.DisburseResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	return f.result, nil
}

type fakeDialer struct {
	leads        []clients.Lead
	deleted      []int64
	sendErr      error
	deleteStatus int
}

func (f *fakeDialer) SendLead(_ context.Context, lead clients.Lead) (*clients.Response, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}

	f.leads = append(f.leads, lead)

	return &clients.Response{StatusCode: http.StatusCreated}, nil
}

func (f *fakeDialer) DeleteLead(_ context.Context, applicationID int64) (*clients.Response, error) {
	f.deleted = append(f.deleted, applicationID)

	status := f.deleteStatus
	if status == 0 {
		status = http.StatusNoContent
	}

	return &clients.Response{StatusCode: status}, nil
}

type fakeQueue struct {
	enqueued []string
}

func (f *fakeQueue) Enqueue(_ context.Context, actionName string, _ models.ActionArguments, _ ...protocol.EnqueueOption) (protocol.JobHandle, error) {
	f.enqueued = append(f.enqueued, actionName)

	return protocol.JobHandle{ID: "job-1", Queue: "default"}, nil
}

func (f *fakeQueue) Close() error { return nil }

type testEnv struct {
	lib     *Library
	store   *memory.Store
	sms     *fakeSMS
	email   *fakeEmail
	push    *fakePush
	bank    *fakeBank
	gateway *fakeGateway
	dialer  *fakeDialer
	queue   *fakeQueue
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:   memory.NewStore(),
		sms:     &fakeSMS{},
		email:   &fakeEmail{},
		push:    &fakePush{},
		bank:    &fakeBank{result: &clients.NameValidationResult{Valid: true}},
		gateway: &fakeGateway{result: &clients.DisburseResult{ExternalID: "ext-1", Status: "COMPLETED"}},
		dialer:  &fakeDialer{},
		queue:   &fakeQueue{},
	}

	env.lib = NewLibrary(env.store, env.queue, Collaborators{
		SMS:       env.sms,
		Email:     env.email,
		Push:      env.push,
		Bank:      env.bank,
		Disburser: env.gateway,
		Dialer:    env.dialer,
	}, log.Discard())

	return env
}

func (e *testEnv) seedApplication(t *testing.T, app *models.Application) *models.Application {
	t.Helper()
	require.NoError(t, e.store.Applications().Save(context.Background(), app))

	return app
}

func newTransition(app *models.Application, oldStatus, newStatus models.StatusCode) *models.StatusTransition {
	return models.NewStatusTransition(app, oldStatus, newStatus, "r", "n")
}

func TestRunPostRecordsFailureWithExactTuple(t *testing.T) {
	env := newTestEnv(t)
	env.dialer.sendErr = errors.New("boom")

	app := env.seedApplication(t, &models.Application{
		ID: 42, CustomerID: 7, Variant: models.VariantLegacy,
		StatusCode: models.StatusLenderApproval,
	})

	tr := newTransition(app, models.StatusLenderApproval, models.StatusBankNameValidated)

	err := env.lib.RunPost(context.Background(), tr, ActionSendLeadDataToPrimo)
	require.Error(t, err)

	records, listErr := env.store.FailureActions().All(context.Background())
	require.NoError(t, listErr)
	require.Len(t, records, 1)

	record := records[0]
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, int64(42), record.ApplicationID)
	assert.Equal(t, ActionSendLeadDataToPrimo, record.ActionName)
	assert.Equal(t, models.FailureActionTypePost, record.ActionType)
	assert.Contains(t, record.ErrorMessage, "boom")

	assert.Equal(t, models.ActionArguments{
		ApplicationID: 42,
		NewStatusCode: models.StatusBankNameValidated,
		ChangeReason:  "r",
		Note:          "n",
		OldStatusCode: models.StatusLenderApproval,
	}, record.Arguments)
}

func TestRunPostStopsAtFirstFailure(t *testing.T) {
	env := newTestEnv(t)
	env.dialer.sendErr = errors.New("dialer down")

	app := env.seedApplication(t, &models.Application{
		ID: 1, CustomerID: 1, Variant: models.VariantLegacy,
		Email: "a@b.co", StatusCode: models.StatusScrapedDataVerified,
	})

	tr := newTransition(app, models.StatusScrapedDataVerified, models.StatusDocumentsVerified)

	err := env.lib.RunPost(context.Background(), tr,
		ActionSendEmailStatusChange,
		ActionSendLeadDataToPrimo,
		ActionRecordStatusHistory,
	)
	require.Error(t, err)

	// The email before the failure went out; the history after it never ran.
	assert.Len(t, env.email.sent, 1)

	history, histErr := env.store.StatusHistory().ByApplicationID(context.Background(), 1)
	require.NoError(t, histErr)
	assert.Empty(t, history)
}

func TestRunPostSkipsRecordForUnresolvableApplication(t *testing.T) {
	env := newTestEnv(t)
	env.dialer.sendErr = errors.New("boom")

	// Not seeded: the application does not resolve from storage.
	app := &models.Application{
		ID: 999, CustomerID: 7, Variant: models.VariantLegacy,
		StatusCode: models.StatusLenderApproval,
	}

	tr := newTransition(app, models.StatusLenderApproval, models.StatusBankNameValidated)

	err := env.lib.RunPost(context.Background(), tr, ActionSendLeadDataToPrimo)
	require.Error(t, err)

	records, listErr := env.store.FailureActions().All(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, records, "unresolvable application must not leave a failure record")
}

func TestRunStopsAtFirstFailureWithoutRecording(t *testing.T) {
	env := newTestEnv(t)
	env.dialer.sendErr = errors.New("dialer down")

	app := env.seedApplication(t, &models.Application{
		ID: 2, CustomerID: 2, Variant: models.VariantLegacy,
		StatusCode: models.StatusDocumentsVerified,
	})

	tr := newTransition(app, models.StatusDocumentsVerified, models.StatusVerificationCallsSuccessful)

	err := env.lib.Run(context.Background(), tr,
		ActionSendLeadDataToPrimo,
		ActionRecordStatusHistory,
	)
	require.Error(t, err)

	// Unlike RunPost, a cleanup failure leaves no replay record, and the
	// actions after the failure never ran.
	records, listErr := env.store.FailureActions().All(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, records)

	history, histErr := env.store.StatusHistory().ByApplicationID(context.Background(), 2)
	require.NoError(t, histErr)
	assert.Empty(t, history)
}

func TestTriggerDisbursementSkipsCompleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	app := env.seedApplication(t, &models.Application{
		ID: 5, CustomerID: 5, Variant: models.VariantLegacy,
	})

	loan, created, err := env.store.Loans().GetOrCreate(ctx, &models.Loan{
		ApplicationID: 5, CustomerID: 5, Amount: 1000, Status: models.LoanStatusInactive,
	})
	require.NoError(t, err)
	require.True(t, created)

	_, _, err = env.store.Disbursements().GetOrCreate(ctx, &models.Disbursement{
		LoanID: loan.ID, Amount: 1000, DisburseStatus: models.DisburseStatusCompleted,
	})
	require.NoError(t, err)

	tr := newTransition(app, models.StatusFundDisbursalOngoing, models.StatusBankNameValidated)

	require.NoError(t, env.lib.TriggerDisbursement(ctx, tr))
	assert.Zero(t, env.gateway.calls, "completed disbursement must not hit the gateway again")
}

func TestTriggerDisbursementCompletesAndPersists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	app := env.seedApplication(t, &models.Application{
		ID: 6, CustomerID: 6, Variant: models.VariantLegacy,
		BankName: "bca", BankAccountNumber: "123", FullName: "Siti",
	})

	loan, _, err := env.store.Loans().GetOrCreate(ctx, &models.Loan{
		ApplicationID: 6, CustomerID: 6, Amount: 2500, Status: models.LoanStatusInactive,
	})
	require.NoError(t, err)

	tr := newTransition(app, models.StatusLegalAgreementSigned, models.StatusFundDisbursalOngoing)

	require.NoError(t, env.lib.TriggerDisbursement(ctx, tr))
	assert.Equal(t, 1, env.gateway.calls)

	d, err := env.store.Disbursements().ByLoanID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DisburseStatusCompleted, d.DisburseStatus)
	assert.Equal(t, "ext-1", d.ExternalID)
}

func TestValidateBankNameRedirects(t *testing.T) {
	env := newTestEnv(t)
	env.bank.result = &clients.NameValidationResult{Valid: false, Reason: "account closed"}

	app := env.seedApplication(t, &models.Application{
		ID: 7, CustomerID: 7, Variant: models.VariantLegacy,
		BankName: "bca", BankAccountNumber: "999", FullName: "Budi",
	})

	tr := newTransition(app, models.StatusLegalAgreementSigned, models.StatusFundDisbursalOngoing)

	err := env.lib.ValidateBankName(context.Background(), tr)
	require.Error(t, err)

	bankErr, ok := AsInvalidBankAccount(err)
	require.True(t, ok)
	assert.Equal(t, models.StatusNameValidateFailed, bankErr.RedirectStatus())
}

func TestValidateBankNameNameMismatch(t *testing.T) {
	env := newTestEnv(t)
	env.bank.result = &clients.NameValidationResult{Valid: true, ValidatedName: "Someone Else"}

	app := env.seedApplication(t, &models.Application{
		ID: 8, CustomerID: 8, Variant: models.VariantLegacy,
		BankName: "bca", BankAccountNumber: "555", FullName: "Budi",
	})

	tr := newTransition(app, models.StatusLegalAgreementSigned, models.StatusFundDisbursalOngoing)

	err := env.lib.ValidateBankName(context.Background(), tr)

	_, ok := AsInvalidBankAccount(err)
	assert.True(t, ok)
}

func TestCreateLoanLinksApplicationOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	app := env.seedApplication(t, &models.Application{
		ID: 9, CustomerID: 9, Variant: models.VariantLegacy,
	})

	require.NoError(t, env.store.Offers().Save(ctx, &models.Offer{
		ApplicationID: 9, Amount: 3000, Duration: 6, IsAccepted: true, IsApproved: true,
	}))

	tr := newTransition(app, models.StatusOfferMadeToCustomer, models.StatusOfferAcceptedByCustomer)

	require.NoError(t, env.lib.CreateLoan(ctx, tr))
	require.NotNil(t, app.LoanID)

	firstLoanID := *app.LoanID

	// Running it again observes the existing loan instead of creating another.
	require.NoError(t, env.lib.CreateLoan(ctx, tr))
	assert.Equal(t, firstLoanID, *app.LoanID)

	loan, err := env.store.Loans().ByApplicationID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), loan.Amount)
}

func TestGeneratePaymentScheduleSplitsAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	app := env.seedApplication(t, &models.Application{
		ID: 10, CustomerID: 10, Variant: models.VariantLegacy,
	})

	loan, _, err := env.store.Loans().GetOrCreate(ctx, &models.Loan{
		ApplicationID: 10, CustomerID: 10, Amount: 1000, Duration: 3,
		Status: models.LoanStatusInactive,
	})
	require.NoError(t, err)

	tr := newTransition(app, models.StatusOfferMadeToCustomer, models.StatusOfferAcceptedByCustomer)

	require.NoError(t, env.lib.GeneratePaymentSchedule(ctx, tr))

	schedule, err := env.store.PaymentSchedules().ByLoanID(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, schedule, 3)

	// 1000 over 3: the remainder lands on the last installment.
	assert.Equal(t, int64(333), schedule[0].Amount)
	assert.Equal(t, int64(333), schedule[1].Amount)
	assert.Equal(t, int64(334), schedule[2].Amount)
	assert.Equal(t, 1, schedule[0].Sequence)
	assert.True(t, schedule[1].DueDate.After(schedule[0].DueDate))

	// Running it again does not grow the schedule.
	require.NoError(t, env.lib.GeneratePaymentSchedule(ctx, tr))

	schedule, err = env.store.PaymentSchedules().ByLoanID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Len(t, schedule, 3)
}

func TestCreateLenderSignatureOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	app := env.seedApplication(t, &models.Application{
		ID: 11, CustomerID: 11, Variant: models.VariantLegacy,
	})

	loan, _, err := env.store.Loans().GetOrCreate(ctx, &models.Loan{
		ApplicationID: 11, CustomerID: 11, Status: models.LoanStatusInactive,
	})
	require.NoError(t, err)

	tr := newTransition(app, models.StatusActivationCallSuccessful, models.StatusLenderApproval)

	require.NoError(t, env.lib.CreateLenderSignature(ctx, tr))
	require.NoError(t, env.lib.CreateLenderSignature(ctx, tr))

	sig, err := env.store.LenderSignatures().ByLoanID(ctx, loan.ID)
	require.NoError(t, err)
	assert.NotZero(t, sig.ID)
}

func TestAssignLenderKeepsExistingAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	app := env.seedApplication(t, &models.Application{
		ID: 12, CustomerID: 12, Variant: models.VariantLegacy,
	})

	existing := int64(77)
	_, _, err := env.store.Loans().GetOrCreate(ctx, &models.Loan{
		ApplicationID: 12, CustomerID: 12, LenderID: &existing, Status: models.LoanStatusInactive,
	})
	require.NoError(t, err)

	tr := newTransition(app, models.StatusActivationCallSuccessful, models.StatusLenderApproval)

	require.NoError(t, env.lib.AssignLender(ctx, tr))

	loan, err := env.store.Loans().ByApplicationID(ctx, 12)
	require.NoError(t, err)
	require.NotNil(t, loan.LenderID)
	assert.Equal(t, existing, *loan.LenderID)
}

func TestSendPushSwallowsAuthFailure(t *testing.T) {
	env := newTestEnv(t)
	env.push.err = clients.ErrAuthFailed

	app := &models.Application{ID: 13, CustomerID: 13, Variant: models.VariantJuloOne}
	tr := newTransition(app, models.StatusFundDisbursalSuccessful, models.StatusActive)

	assert.NoError(t, env.lib.SendPushNotification(context.Background(), tr))
}

func TestCheckCreditScoreReady(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	app := env.seedApplication(t, &models.Application{
		ID: 14, CustomerID: 14, Variant: models.VariantLegacy,
	})
	tr := newTransition(app, models.StatusScrapedDataVerified, models.StatusDocumentsVerified)

	err := env.lib.CheckCreditScoreReady(ctx, tr)
	assert.True(t, IsBusinessRuleError(err), "missing score must violate the rule")

	require.NoError(t, env.store.CreditScores().Save(ctx, &models.CreditScore{
		ApplicationID: 14, Score: "B+",
	}))

	assert.NoError(t, env.lib.CheckCreditScoreReady(ctx, tr))
}

func TestApp122QueueSetCalled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	app := env.seedApplication(t, &models.Application{
		ID: 15, CustomerID: 15, Variant: models.VariantLegacy,
	})
	tr := newTransition(app, models.StatusDocumentsVerified, models.StatusVerificationCallsSuccessful)

	// No queue entry: nothing to mark, not an error.
	require.NoError(t, env.lib.App122QueueSetCalled(ctx, tr))

	require.NoError(t, env.store.AutodialerQueues().Save(ctx, &models.AutodialerQueue{
		ApplicationID: 15, StatusCode: models.StatusDocumentsVerified,
	}))

	require.NoError(t, env.lib.App122QueueSetCalled(ctx, tr))

	entry, err := env.store.AutodialerQueues().ByApplicationAndStatus(ctx, 15, models.StatusDocumentsVerified)
	require.NoError(t, err)
	assert.True(t, entry.IsAgentCalled)
}

func TestEnqueueDelegatesToQueue(t *testing.T) {
	env := newTestEnv(t)

	app := &models.Application{ID: 16, CustomerID: 16, Variant: models.VariantLegacy}
	tr := newTransition(app, models.StatusScrapedDataVerified, models.StatusDocumentsVerified)

	require.NoError(t, env.lib.Enqueue(context.Background(), tr, ActionProcessDocumentsVerified))
	assert.Equal(t, []string{ActionProcessDocumentsVerified}, env.queue.enqueued)
}
