package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApplication() *Application {
	return &Application{
		ID:         1,
		CustomerID: 10,
		StatusCode: StatusFormCreated,
		Variant:    VariantJuloOne,
	}
}

func TestApplicationValidate(t *testing.T) {
	require.NoError(t, validApplication().Validate())
}

func TestApplicationValidateRejectsPartnerVariantConflicts(t *testing.T) {
	tests := []struct {
		name    string
		variant WorkflowVariant
		partner string
	}{
		{name: "grab variant without partner", variant: VariantGrab, partner: ""},
		{name: "grab variant with wrong partner", variant: VariantGrab, partner: "dana"},
		{name: "dana partner on plain variant", variant: VariantJuloOne, partner: "dana"},
		{name: "grab partner on legacy variant", variant: VariantLegacy, partner: "grab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := validApplication()
			app.Variant = tt.variant
			app.PartnerName = tt.partner

			assert.Error(t, app.Validate())
		})
	}
}

func TestApplicationValidateAcceptsBoundPartner(t *testing.T) {
	app := validApplication()
	app.Variant = VariantGrab
	app.PartnerName = "grab"

	assert.NoError(t, app.Validate())
}

func TestWorkflowNameMapping(t *testing.T) {
	tests := []struct {
		variant  WorkflowVariant
		workflow string
	}{
		{VariantLegacy, "CashLoanWorkflow"},
		{VariantJuloOne, "JuloOneWorkflow"},
		{VariantJuloOneIOS, "JuloOneWorkflow"},
		{VariantJulover, "JuloOneWorkflow"},
		{VariantGrab, "GrabWorkflow"},
		{VariantDana, "DanaWorkflow"},
		{VariantJuloStarter, "JuloStarterWorkflow"},
		{VariantMerchantFinance, "MerchantFinancingWorkflow"},
		{VariantMFWebApp, "MerchantFinancingWorkflow"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.workflow, tt.variant.WorkflowName(), "variant %s", tt.variant)
	}
}

func TestStatusCodeName(t *testing.T) {
	assert.Equal(t, "documents_verified", StatusDocumentsVerified.Name())
	assert.Equal(t, "unknown", StatusCode(999).Name())
	assert.True(t, StatusActive.IsKnown())
	assert.False(t, StatusCode(999).IsKnown())
}
