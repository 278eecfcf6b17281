package entity

import "errors"

// Domain errors
var (
	// Wizard session errors
	ErrSessionNotFound      = errors.New("wizard session not found")
	ErrStepInvalid          = errors.New("current step has invalid fields")
	ErrNoNextStep           = errors.New("no step after the current one")
	ErrNoPrevStep           = errors.New("no step before the current one")
	ErrUnknownStep          = errors.New("unknown wizard step")
	ErrNotAtCompleteStep    = errors.New("submission is only allowed from the complete step")
	ErrSnapshotInvalid      = errors.New("form snapshot is not submittable")
	ErrSubmissionInProgress = errors.New("submission already in progress")

	// Result errors
	ErrNoResult          = errors.New("simulation result not available")
	ErrPageOutOfRange    = errors.New("result page out of range")
	ErrUnsupportedFormat = errors.New("unsupported result format")

	// Preference errors
	ErrInvalidClientID     = errors.New("invalid client id")
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ValidationError carries the field errors that blocked an operation.
// Err is the sentinel it matches with errors.Is.
type ValidationError struct {
	Err         error
	Step        WizardStep
	FieldErrors []FieldError
}

func (e *ValidationError) Error() string {
	if e.Step != "" {
		return e.Err.Error() + ": " + string(e.Step)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
