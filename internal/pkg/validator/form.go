// Package validator holds the field rules of the wizard form.
// Validation is pure: it never touches storage or the network and can be
// re-run on every field change.
package validator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/go-playground/validator/v10"
)

const (
	MinYear            = 1900
	MinNarrativeLength = 10
)

// fieldRules maps every answer to its validator tags. Tags are evaluated in
// order and the first failing one is reported.
var fieldRules = map[entity.Field]string{
	entity.FieldBirthDate:       "required,dateonly,notfuture",
	entity.FieldGender:          "required,oneof=male female",
	entity.FieldCurrentLocation: "required,nonempty",
	entity.FieldCurrentJob:      "required,nonempty",
	entity.FieldCurrentSelf:     "required,mintrimmed=10",
	entity.FieldYear:            "required,minyear=1900,maxyear",
	entity.FieldPastChoice:      "required,mintrimmed=10",
	entity.FieldDesiredChange:   "required,mintrimmed=10",
}

// FormValidator evaluates field and step validity of a FormSnapshot.
type FormValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*FormValidator)

// WithClock overrides the clock used for "today" and "current year".
func WithClock(now func() time.Time) Option {
	return func(v *FormValidator) {
		v.now = now
	}
}

// NewFormValidator panics if a custom rule cannot be registered; that is a
// programming error in the rule table, like a bad regexp.MustCompile.
func NewFormValidator(opts ...Option) *FormValidator {
	v := &FormValidator{
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	if err := registerRules(v.validate, v.customRules()); err != nil {
		panic(fmt.Sprintf("validator: %v", err))
	}

	return v
}

func (v *FormValidator) customRules() map[string]validator.Func {
	return map[string]validator.Func{
		"nonempty": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"mintrimmed": func(fl validator.FieldLevel) bool {
			minLen, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= minLen
		},
		"dateonly": func(fl validator.FieldLevel) bool {
			_, err := time.Parse(time.DateOnly, fl.Field().String())
			return err == nil
		},
		"notfuture": func(fl validator.FieldLevel) bool {
			date, err := time.Parse(time.DateOnly, fl.Field().String())
			if err != nil {
				return false
			}
			return !date.After(v.today())
		},
		"minyear": func(fl validator.FieldLevel) bool {
			minYear, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return fl.Field().Int() >= int64(minYear)
		},
		"maxyear": func(fl validator.FieldLevel) bool {
			return fl.Field().Int() <= int64(v.now().Year())
		},
	}
}

func registerRules(validate *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register rule %q: %w", tag, err)
		}
	}
	return nil
}

// today is midnight UTC of the clock's calendar date, comparable with
// dates parsed by time.Parse(time.DateOnly, ...).
func (v *FormValidator) today() time.Time {
	y, m, d := v.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateField returns the first violated rule of field, or nil when it is valid.
func (v *FormValidator) ValidateField(s *entity.FormSnapshot, field entity.Field) *entity.FieldError {
	rules, ok := fieldRules[field]
	if !ok {
		return &entity.FieldError{
			Field:   field,
			Rule:    "unknown",
			Message: fmt.Sprintf("%s is not a known field", field),
		}
	}

	err := v.validate.Var(fieldValue(s, field), rules)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return &entity.FieldError{Field: field, Rule: "invalid", Message: err.Error()}
	}

	return &entity.FieldError{
		Field:   field,
		Rule:    fieldErrs[0].Tag(),
		Message: v.formatMessage(field, fieldErrs[0]),
	}
}

func (v *FormValidator) IsFieldValid(s *entity.FormSnapshot, field entity.Field) bool {
	return v.ValidateField(s, field) == nil
}

// ValidateStep checks every field collected by step.
func (v *FormValidator) ValidateStep(s *entity.FormSnapshot, step entity.WizardStep) []entity.FieldError {
	return v.validateFields(s, step.Fields())
}

// IsStepValid is true iff every field of step passes its rules.
// Steps without fields are always valid.
func (v *FormValidator) IsStepValid(s *entity.FormSnapshot, step entity.WizardStep) bool {
	return len(v.ValidateStep(s, step)) == 0
}

// ValidateSnapshot checks every answer; an empty result means the snapshot is submittable.
func (v *FormValidator) ValidateSnapshot(s *entity.FormSnapshot) []entity.FieldError {
	return v.validateFields(s, entity.AllFields())
}

func (v *FormValidator) validateFields(s *entity.FormSnapshot, fields []entity.Field) []entity.FieldError {
	var errs []entity.FieldError
	for _, field := range fields {
		if fe := v.ValidateField(s, field); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

func fieldValue(s *entity.FormSnapshot, field entity.Field) any {
	switch field {
	case entity.FieldBirthDate:
		return s.BirthDate
	case entity.FieldGender:
		return string(s.Gender)
	case entity.FieldCurrentLocation:
		return s.CurrentLocation
	case entity.FieldCurrentJob:
		return s.CurrentJob
	case entity.FieldCurrentSelf:
		return s.CurrentSelf
	case entity.FieldYear:
		return s.Year
	case entity.FieldPastChoice:
		return s.PastChoice
	case entity.FieldDesiredChange:
		return s.DesiredChange
	default:
		return nil
	}
}

func (v *FormValidator) formatMessage(field entity.Field, err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "nonempty":
		return fmt.Sprintf("%s cannot be empty or whitespace", field)
	case "mintrimmed":
		return fmt.Sprintf("%s must be at least %s characters", field, err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, err.Param())
	case "dateonly":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "notfuture":
		return fmt.Sprintf("%s cannot be later than today", field)
	case "minyear":
		return fmt.Sprintf("%s must be %s or later", field, err.Param())
	case "maxyear":
		return fmt.Sprintf("%s must be %d or earlier", field, v.now().Year())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, err.Tag())
	}
}
