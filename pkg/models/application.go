// Package models defines the domain entities the workflow engine acts on.
package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// WorkflowVariant is the product/channel specific flavor of the status
// machine. It is assigned once, when the application is created, and is the
// lookup key for variant-specific handlers.
type WorkflowVariant string

const (
	VariantLegacy           WorkflowVariant = "legacy"
	VariantJuloOne          WorkflowVariant = "julo_one"
	VariantJuloOneIOS       WorkflowVariant = "julo_one_ios"
	VariantGrab             WorkflowVariant = "grab"
	VariantMerchantFinance  WorkflowVariant = "merchant_financing"
	VariantJulover          WorkflowVariant = "julover"
	VariantDana             WorkflowVariant = "dana"
	VariantJuloStarter      WorkflowVariant = "julo_starter"
	VariantMFWebApp         WorkflowVariant = "mf_web_app"
)

// WorkflowName returns the name of the status machine a variant runs under.
func (v WorkflowVariant) WorkflowName() string {
	switch v {
	case VariantGrab:
		return "GrabWorkflow"
	case VariantMerchantFinance, VariantMFWebApp:
		return "MerchantFinancingWorkflow"
	case VariantDana:
		return "DanaWorkflow"
	case VariantJuloStarter:
		return "JuloStarterWorkflow"
	case VariantJuloOne, VariantJuloOneIOS, VariantJulover:
		return "JuloOneWorkflow"
	default:
		return "CashLoanWorkflow"
	}
}

// ProductLineCode identifies the credit product an application applies for.
type ProductLineCode int

const (
	ProductLineJ1          ProductLineCode = 1
	ProductLineJ1IOS       ProductLineCode = 2
	ProductLineMTL         ProductLineCode = 10
	ProductLineSTL         ProductLineCode = 20
	ProductLineGrab        ProductLineCode = 30
	ProductLineDana        ProductLineCode = 40
	ProductLineJuloStarter ProductLineCode = 50
	ProductLineMerchant    ProductLineCode = 60
)

// Application is one loan application, the central entity the engine acts on.
// Applications are never deleted; they are archived via status.
type Application struct {
	ID                int64           `json:"id" validate:"required,gt=0"`
	CustomerID        int64           `json:"customer_id" validate:"required,gt=0"`
	StatusCode        StatusCode      `json:"status_code"`
	Variant           WorkflowVariant `json:"workflow_variant" validate:"required"`
	ProductLineCode   ProductLineCode `json:"product_line_code"`
	PartnerName       string          `json:"partner_name,omitempty"`
	LoanID            *int64          `json:"loan_id,omitempty"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber       string          `json:"phone_number,omitempty"`
	BankName          string          `json:"bank_name,omitempty"`
	BankAccountNumber string          `json:"bank_account_number,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// partnerBoundVariants maps variants that only exist for a specific partner
// channel. An application carrying a partner that disagrees with its variant
// is an invalid fixture and must be rejected up front, before a dispatch can
// resolve handlers against inconsistent state.
var partnerBoundVariants = map[WorkflowVariant]string{
	VariantGrab: "grab",
	VariantDana: "dana",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks structural integrity plus variant/partner exclusivity.
func (a *Application) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("invalid application %d: %w", a.ID, err)
	}

	if partner, bound := partnerBoundVariants[a.Variant]; bound && a.PartnerName != partner {
		return fmt.Errorf("invalid application %d: variant %q requires partner %q, got %q",
			a.ID, a.Variant, partner, a.PartnerName)
	}

	if a.PartnerName != "" {
		for variant, partner := range partnerBoundVariants {
			if a.PartnerName == partner && a.Variant != variant {
				return fmt.Errorf("invalid application %d: partner %q conflicts with variant %q",
					a.ID, a.PartnerName, a.Variant)
			}
		}
	}

	return nil
}
