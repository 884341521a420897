package models

import "time"

// FailureActionType classifies which phase the recorded action ran in. Only
// post-phase actions are recorded today.
const FailureActionTypePost = "post"

// FailureAction is the durable record of a post-phase action that raised.
// It carries enough to re-invoke the action by name later: the replay job
// reconstructs the transition from Arguments and calls the named action
// without re-running handler resolution.
//
// Replayed records are not marked resolved; cleanup is manual. That mirrors
// the behavior of the recall job this engine was built against and is a known
// gap, not an invitation to dedupe here.
type FailureAction struct {
	ID            string          `json:"id"`
	ApplicationID int64           `json:"application_id"`
	ActionName    string          `json:"action_name"`
	ActionType    string          `json:"action_type"`
	Arguments     ActionArguments `json:"arguments"`
	ErrorMessage  string          `json:"error_message"`
	CreatedAt     time.Time       `json:"created_at"`
}
