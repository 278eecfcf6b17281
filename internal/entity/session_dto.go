package entity

import "time"

type StartSessionRequest struct {
	ClientID string `json:"client_id"`
}

type ErrorResponse struct {
	Error       string       `json:"error"`
	Message     string       `json:"message,omitempty"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
}

// SubmissionDTO exposes the loading flag and the outcome of the last submission.
type SubmissionDTO struct {
	Loading     bool       `json:"loading"`
	HasResult   bool       `json:"has_result"`
	LastError   *string    `json:"last_error,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type SessionDTO struct {
	ID             string          `json:"session_id"`
	ClientID       string          `json:"client_id"`
	Step           WizardStep      `json:"step"`
	CompletedSteps []WizardStep    `json:"completed_steps"`
	Progress       []ProgressStep  `json:"progress,omitempty"`
	Form           FormSnapshot    `json:"form"`
	StepValid      map[string]bool `json:"step_valid"`
	FieldErrors    []FieldError    `json:"field_errors,omitempty"`
	Submission     SubmissionDTO   `json:"submission"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type PreferencesDTO struct {
	ClientID     string   `json:"client_id"`
	SkipGreeting bool     `json:"skip_greeting"`
	Language     Language `json:"language"`
	HasSavedData bool     `json:"has_saved_data"`
}

type UpdatePreferencesRequest struct {
	SkipGreeting *bool   `json:"skip_greeting,omitempty"`
	Language     *string `json:"language,omitempty"`
}
