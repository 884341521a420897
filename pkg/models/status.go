package models

import "fmt"

// StatusCode identifies where an application sits in its lifecycle.
type StatusCode int

const (
	StatusFormCreated                 StatusCode = 100
	StatusFormPartial                 StatusCode = 105
	StatusFormPartialExpired          StatusCode = 106
	StatusFormSubmitted               StatusCode = 110
	StatusDocumentsSubmitted          StatusCode = 120
	StatusScrapedDataVerified         StatusCode = 121
	StatusDocumentsVerified           StatusCode = 122
	StatusPreCreditScoreDenied        StatusCode = 123
	StatusVerificationCallsSuccessful StatusCode = 124
	StatusApplicantCallsSuccessful    StatusCode = 130
	StatusApplicationDenied           StatusCode = 135
	StatusApplicationCanceled         StatusCode = 137
	StatusOfferMadeToCustomer         StatusCode = 140
	StatusOfferAcceptedByCustomer     StatusCode = 141
	StatusActivationCallSuccessful    StatusCode = 150
	StatusLenderApproval              StatusCode = 160
	StatusLegalAgreementSigned        StatusCode = 162
	StatusFundDisbursalOngoing        StatusCode = 170
	StatusBankNameValidated           StatusCode = 172
	StatusNameValidateFailed          StatusCode = 175
	StatusFundDisbursalFailed         StatusCode = 177
	StatusFundDisbursalSuccessful     StatusCode = 180
	StatusActive                      StatusCode = 190
)

var statusNames = map[StatusCode]string{
	StatusFormCreated:                 "form_created",
	StatusFormPartial:                 "form_partial",
	StatusFormPartialExpired:          "form_partial_expired",
	StatusFormSubmitted:               "form_submitted",
	StatusDocumentsSubmitted:          "documents_submitted",
	StatusScrapedDataVerified:         "scraped_data_verified",
	StatusDocumentsVerified:           "documents_verified",
	StatusPreCreditScoreDenied:        "pre_credit_score_denied",
	StatusVerificationCallsSuccessful: "verification_calls_successful",
	StatusApplicantCallsSuccessful:    "applicant_calls_successful",
	StatusApplicationDenied:           "application_denied",
	StatusApplicationCanceled:         "application_canceled",
	StatusOfferMadeToCustomer:         "offer_made_to_customer",
	StatusOfferAcceptedByCustomer:     "offer_accepted_by_customer",
	StatusActivationCallSuccessful:    "activation_call_successful",
	StatusLenderApproval:              "lender_approval",
	StatusLegalAgreementSigned:        "legal_agreement_signed",
	StatusFundDisbursalOngoing:        "fund_disbursal_ongoing",
	StatusBankNameValidated:           "bank_name_validated",
	StatusNameValidateFailed:          "name_validate_failed",
	StatusFundDisbursalFailed:         "fund_disbursal_failed",
	StatusFundDisbursalSuccessful:     "fund_disbursal_successful",
	StatusActive:                      "active",
}

// Name returns the snake_case label for a status code, or "unknown" when the
// code is not part of the catalog.
func (s StatusCode) Name() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return "unknown"
}

func (s StatusCode) String() string {
	return fmt.Sprintf("%d (%s)", int(s), s.Name())
}

// IsKnown reports whether the code belongs to the status catalog.
func (s StatusCode) IsKnown() bool {
	_, ok := statusNames[s]

	return ok
}
