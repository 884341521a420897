package web

import (
	"time"

	"github.com/arthadana/alur/pkg/models"
)

// TransitionRequest asks the engine to move an application to a new status.
type TransitionRequest struct {
	StatusCode   int    `json:"status_code"   validate:"required,gt=0"`
	ChangeReason string `json:"change_reason" validate:"required"`
	Note         string `json:"note"`
}

// TransitionResponse confirms the committed transition.
type TransitionResponse struct {
	ApplicationID int64  `json:"application_id"`
	StatusCode    int    `json:"status_code"`
	StatusName    string `json:"status_name"`
}

// FailureActionResponse is the admin view of one failure record.
type FailureActionResponse struct {
	ID            string `json:"id"`
	ApplicationID int64  `json:"application_id"`
	ActionName    string `json:"action_name"`
	ActionType    string `json:"action_type"`
	ErrorMessage  string `json:"error_message"`
	CreatedAt     string `json:"created_at"`
}

func newFailureActionResponse(fa *models.FailureAction) FailureActionResponse {
	return FailureActionResponse{
		ID:            fa.ID,
		ApplicationID: fa.ApplicationID,
		ActionName:    fa.ActionName,
		ActionType:    fa.ActionType,
		ErrorMessage:  fa.ErrorMessage,
		CreatedAt:     fa.CreatedAt.UTC().Format(time.RFC3339),
	}
}
