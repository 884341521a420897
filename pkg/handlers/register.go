package handlers

import (
	"github.com/arthadana/alur/pkg/actions"
	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/registry"
)

// RegisterAll wires the full handler catalog into the registry. Called once
// at startup, before the first dispatch.
func RegisterAll(reg *registry.HandlerRegistry, lib *actions.Library) {
	// Plain status handlers: the generic flow, suppressed wherever a
	// variant-specific handler exists for the same status.
	reg.RegisterStatus(models.StatusDocumentsSubmitted, &Status120Handler{lib: lib})
	reg.RegisterStatus(models.StatusDocumentsVerified, &Status122Handler{lib: lib})
	reg.RegisterStatus(models.StatusApplicationDenied, &Status135Handler{lib: lib})
	reg.RegisterStatus(models.StatusOfferAcceptedByCustomer, &Status141Handler{lib: lib})
	reg.RegisterStatus(models.StatusLenderApproval, &Status160Handler{lib: lib})
	reg.RegisterStatus(models.StatusFundDisbursalOngoing, &Status170Handler{lib: lib})
	reg.RegisterStatus(models.StatusBankNameValidated, &Status172Handler{lib: lib})
	reg.RegisterStatus(models.StatusFundDisbursalSuccessful, &Status180Handler{lib: lib})
	reg.RegisterStatus(models.StatusActive, &Status190Handler{lib: lib})

	// Old-status handlers, run in the after phase of transitions leaving the
	// status.
	reg.RegisterStatusBefore(models.StatusDocumentsVerified, &Before122Handler{lib: lib})

	// Variant-specific status handlers.
	juloOne190 := &JuloOne190Handler{lib: lib}
	reg.RegisterVariantStatus(models.VariantJuloOne, models.StatusDocumentsVerified, &JuloOne122Handler{lib: lib})
	reg.RegisterVariantStatus(models.VariantJuloOne, models.StatusActive, juloOne190)
	reg.RegisterVariantStatus(models.VariantJuloOneIOS, models.StatusActive, juloOne190)
	reg.RegisterVariantStatus(models.VariantGrab, models.StatusFundDisbursalSuccessful, &Grab180Handler{lib: lib})
	reg.RegisterVariantStatus(models.VariantDana, models.StatusDocumentsVerified, &Dana122Handler{lib: lib})
	reg.RegisterVariantStatus(models.VariantJuloStarter, models.StatusDocumentsVerified, &JuloStarter122Handler{lib: lib})
	reg.RegisterVariantStatus(models.VariantJulover, models.StatusDocumentsSubmitted, &Julover120Handler{lib: lib})

	merchant160 := &Merchant160Handler{lib: lib}
	reg.RegisterVariantStatus(models.VariantMerchantFinance, models.StatusLenderApproval, merchant160)
	reg.RegisterVariantStatus(models.VariantMFWebApp, models.StatusLenderApproval, merchant160)

	// One handler per workflow type.
	reg.RegisterWorkflow("CashLoanWorkflow", &CashLoanWorkflowHandler{lib: lib})
	reg.RegisterWorkflow("JuloOneWorkflow", &JuloOneWorkflowHandler{lib: lib})
	reg.RegisterWorkflow("GrabWorkflow", &GrabWorkflowHandler{lib: lib})
	reg.RegisterWorkflow("DanaWorkflow", &DanaWorkflowHandler{})
	reg.RegisterWorkflow("JuloStarterWorkflow", &JuloStarterWorkflowHandler{lib: lib})
	reg.RegisterWorkflow("MerchantFinancingWorkflow", &MerchantFinancingWorkflowHandler{lib: lib})

	// Product-line handlers for the legacy cash loan products.
	reg.RegisterProductLine(models.ProductLineMTL, &MTLProductLineHandler{lib: lib})
	reg.RegisterProductLine(models.ProductLineSTL, &STLProductLineHandler{lib: lib})

	reg.RegisterGlobal(&GlobalHandler{lib: lib})
}
