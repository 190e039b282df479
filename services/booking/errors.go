package booking

import "errors"

// ValidationError blocks a step transition. Message is meant for the guest.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	ErrSubmissionInProgress = errors.New("booking: payment request already in progress")
	ErrAlreadySubmitted     = errors.New("booking: booking already submitted")
	ErrNotOnPaymentStep     = errors.New("booking: payment can only be started from the final step")
	ErrNoInitiator          = errors.New("booking: no checkout initiator configured")
	ErrMissingRedirect      = errors.New("booking: payment provider did not return a checkout URL")
)
