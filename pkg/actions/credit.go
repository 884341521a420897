package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
	"github.com/arthadana/alur/pkg/protocol"
)

// Scores considered good enough for the verification-call bypass experiments.
var bypassEligibleScores = map[string]bool{
	"A-": true,
	"A":  true,
	"B+": true,
}

// CheckCreditScoreReady is a pre action: it blocks the transition until the
// scoring service has attached a score to the application.
func (l *Library) CheckCreditScoreReady(ctx context.Context, t *models.StatusTransition) error {
	score, err := l.store.CreditScores().ByApplicationID(ctx, t.Application.ID)
	if errors.Is(err, persistence.ErrCreditScoreNotFound) {
		return NewBusinessRuleError("credit_score_ready",
			"application %d has no credit score yet", t.Application.ID)
	}

	if err != nil {
		return fmt.Errorf("failed to load credit score for application %d: %w", t.Application.ID, err)
	}

	if score.Score == "" {
		return NewBusinessRuleError("credit_score_ready",
			"credit score for application %d is still empty", t.Application.ID)
	}

	l.logger.DebugContext(ctx, "Credit score ready",
		"application_id", t.Application.ID, "score", score.Score)

	return nil
}

// CheckHasApprovedOffer is a pre action guarding the offer-accepted leg: the
// customer must hold an accepted offer that ops approved.
func (l *Library) CheckHasApprovedOffer(ctx context.Context, t *models.StatusTransition) error {
	offer, err := l.store.Offers().AcceptedByApplicationID(ctx, t.Application.ID)
	if errors.Is(err, persistence.ErrOfferNotFound) {
		return NewBusinessRuleError("approved_offer",
			"application %d has no accepted offer", t.Application.ID)
	}

	if err != nil {
		return fmt.Errorf("failed to load offer for application %d: %w", t.Application.ID, err)
	}

	if !offer.IsApproved {
		return NewBusinessRuleError("approved_offer",
			"accepted offer %d for application %d is not approved", offer.ID, t.Application.ID)
	}

	return nil
}

// ProcessExperimentBypass enrolls eligible applications into the
// verification-call bypass experiment: a good score skips the outbound
// verification call by scheduling the bypass in the background.
func (l *Library) ProcessExperimentBypass(ctx context.Context, t *models.StatusTransition) error {
	score, err := l.store.CreditScores().ByApplicationID(ctx, t.Application.ID)
	if errors.Is(err, persistence.ErrCreditScoreNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to load credit score for application %d: %w", t.Application.ID, err)
	}

	if !bypassEligibleScores[score.Score] {
		l.logger.DebugContext(ctx, "Application not eligible for bypass experiment",
			"application_id", t.Application.ID, "score", score.Score)

		return nil
	}

	return l.Enqueue(ctx, t, ActionBypassVerificationCalls,
		protocol.WithCountdown(30*time.Second))
}

// ProcessExperimentITILowThreshold applies the income-threshold experiment:
// mid-band scores that miss the bypass cut still get flagged for the relaxed
// income check instead of the full document round.
func (l *Library) ProcessExperimentITILowThreshold(ctx context.Context, t *models.StatusTransition) error {
	score, err := l.store.CreditScores().ByApplicationID(ctx, t.Application.ID)
	if errors.Is(err, persistence.ErrCreditScoreNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to load credit score for application %d: %w", t.Application.ID, err)
	}

	if bypassEligibleScores[score.Score] {
		// Already covered by the bypass experiment.
		return nil
	}

	l.logger.InfoContext(ctx, "Application enrolled in ITI low threshold experiment",
		"application_id", t.Application.ID, "score", score.Score)

	return nil
}

// MatchesFalseRejectExperiment reports whether the application's score is
// held by the false-reject experiment. Experiment members skip the regular
// verification experiments so the control and test groups stay clean.
func (l *Library) MatchesFalseRejectExperiment(ctx context.Context, applicationID int64) (bool, error) {
	score, err := l.store.CreditScores().ByApplicationID(ctx, applicationID)
	if errors.Is(err, persistence.ErrCreditScoreNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to load credit score for application %d: %w", applicationID, err)
	}

	return score.MatchesFalseRejectExperiment, nil
}

// BypassVerificationCalls is the background leg of the bypass experiment: it
// marks the application's dialer queue entry as already handled so no agent
// picks it up.
func (l *Library) BypassVerificationCalls(ctx context.Context, t *models.StatusTransition) error {
	entry, err := l.store.AutodialerQueues().ByApplicationAndStatus(ctx, t.Application.ID, t.NewStatusCode)
	if errors.Is(err, persistence.ErrAutodialerQueueNotFound) {
		entry = &models.AutodialerQueue{
			ApplicationID: t.Application.ID,
			StatusCode:    t.NewStatusCode,
		}
	} else if err != nil {
		return fmt.Errorf("failed to load autodialer entry for application %d: %w", t.Application.ID, err)
	}

	entry.IsAgentCalled = true

	if err := l.store.AutodialerQueues().Save(ctx, entry); err != nil {
		return fmt.Errorf("failed to bypass verification call for application %d: %w", t.Application.ID, err)
	}

	l.logger.InfoContext(ctx, "Verification call bypassed",
		"application_id", t.Application.ID, "status", int(t.NewStatusCode))

	return nil
}
