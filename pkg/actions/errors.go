package actions

import (
	"errors"
	"fmt"

	"github.com/arthadana/alur/pkg/models"
)

// BusinessRuleError is raised when a domain rule blocks the transition, e.g.
// a credit score that is not ready yet. Raised from a pre action it aborts
// the whole transition.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s: %s", e.Rule, e.Message)
}

// NewBusinessRuleError builds a BusinessRuleError for one violated rule.
func NewBusinessRuleError(rule, format string, args ...any) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// IsBusinessRuleError reports whether err is a business rule violation.
func IsBusinessRuleError(err error) bool {
	var target *BusinessRuleError

	return errors.As(err, &target)
}

// InvalidBankAccountError is raised when bank name validation fails. GoTo175
// tells the catch block higher up to redirect the application to the
// name-validate-failed status instead of leaving it stuck.
type InvalidBankAccountError struct {
	Reason  string
	GoTo175 bool
}

func (e *InvalidBankAccountError) Error() string {
	return fmt.Sprintf("invalid bank account: %s", e.Reason)
}

// RedirectStatus returns the status the application should be moved to, or 0
// when no redirect applies.
func (e *InvalidBankAccountError) RedirectStatus() models.StatusCode {
	if e.GoTo175 {
		return models.StatusNameValidateFailed
	}

	return 0
}

// AsInvalidBankAccount unwraps err into an InvalidBankAccountError, if any.
func AsInvalidBankAccount(err error) (*InvalidBankAccountError, bool) {
	var target *InvalidBankAccountError
	ok := errors.As(err, &target)

	return target, ok
}
