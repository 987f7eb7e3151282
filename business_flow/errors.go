// Package businessflow contains the core business logic and use cases for the link engine
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Link resolution errors. Unknown and inactive codes surface the
	// same way; nothing must let callers tell them apart.
	ErrLinkNotFound      = errors.New("link not found")
	ErrInvalidTargetURL  = errors.New("target URL cannot be normalized")
	ErrTargetURLRequired = errors.New("target URL is required")

	// Creation errors
	ErrCodeAlreadyInUse   = errors.New("code already in use")
	ErrCodeSpaceExhausted = errors.New("no free code found within retry budget")
	ErrQuotaExceeded      = errors.New("workspace link quota exceeded")
	ErrWorkspaceNotFound  = errors.New("workspace not found")

	// Analytics errors
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsLinkNotFound(err error) bool {
	return errors.Is(err, ErrLinkNotFound)
}

func IsInvalidTargetURL(err error) bool {
	return errors.Is(err, ErrInvalidTargetURL)
}

func IsTargetURLRequired(err error) bool {
	return errors.Is(err, ErrTargetURLRequired)
}

func IsCodeAlreadyInUse(err error) bool {
	return errors.Is(err, ErrCodeAlreadyInUse)
}

func IsCodeSpaceExhausted(err error) bool {
	return errors.Is(err, ErrCodeSpaceExhausted)
}

func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

func IsWorkspaceNotFound(err error) bool {
	return errors.Is(err, ErrWorkspaceNotFound)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}
