package models

import (
	"encoding/json"
	"fmt"
)

// StatusTransition is the argument bundle for one engine invocation:
// constructed once per transition attempt and passed, unchanged, to every
// handler and action that runs for it.
type StatusTransition struct {
	Application   *Application
	OldStatusCode StatusCode
	NewStatusCode StatusCode
	ChangeReason  string
	Note          string
}

// NewStatusTransition builds the transition value object for one dispatch.
func NewStatusTransition(app *Application, oldStatus, newStatus StatusCode, reason, note string) *StatusTransition {
	return &StatusTransition{
		Application:   app,
		OldStatusCode: oldStatus,
		NewStatusCode: newStatus,
		ChangeReason:  reason,
		Note:          note,
	}
}

// Arguments returns the fixed 5-tuple persisted with failure records and
// background jobs.
func (t *StatusTransition) Arguments() ActionArguments {
	return ActionArguments{
		ApplicationID: t.Application.ID,
		NewStatusCode: t.NewStatusCode,
		ChangeReason:  t.ChangeReason,
		Note:          t.Note,
		OldStatusCode: t.OldStatusCode,
	}
}

// ActionArguments is the serialized argument tuple of a recorded action. On
// the wire it is a JSON array in the fixed order
// [application_id, new_status_code, change_reason, note, old_status_code];
// the replay job depends on that order, so it must not change.
type ActionArguments struct {
	ApplicationID int64
	NewStatusCode StatusCode
	ChangeReason  string
	Note          string
	OldStatusCode StatusCode
}

func (a ActionArguments) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		a.ApplicationID,
		int(a.NewStatusCode),
		a.ChangeReason,
		a.Note,
		int(a.OldStatusCode),
	})
}

func (a *ActionArguments) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("action arguments are not an array: %w", err)
	}

	if len(raw) != 5 {
		return fmt.Errorf("action arguments need 5 elements, got %d", len(raw))
	}

	var newStatus, oldStatus int

	fields := []any{&a.ApplicationID, &newStatus, &a.ChangeReason, &a.Note, &oldStatus}
	for i, field := range fields {
		if err := json.Unmarshal(raw[i], field); err != nil {
			return fmt.Errorf("action argument %d: %w", i, err)
		}
	}

	a.NewStatusCode = StatusCode(newStatus)
	a.OldStatusCode = StatusCode(oldStatus)

	return nil
}
