package entity

import "fmt"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Validate() error {
	switch g {
	case GenderMale, GenderFemale:
		return nil
	default:
		return fmt.Errorf("unknown gender: %s", g)
	}
}

// Field identifies a single wizard answer. Values match the JSON names of FormSnapshot.
type Field string

const (
	FieldBirthDate       Field = "birthDate"
	FieldGender          Field = "gender"
	FieldCurrentLocation Field = "currentLocation"
	FieldCurrentJob      Field = "currentJob"
	FieldCurrentSelf     Field = "currentSelf"
	FieldYear            Field = "year"
	FieldPastChoice      Field = "pastChoice"
	FieldDesiredChange   Field = "desiredChange"
)

// PersonalInfoFields are the answers collected on the personal step.
// They are also the subset kept by the preference store.
var PersonalInfoFields = []Field{
	FieldBirthDate,
	FieldGender,
	FieldCurrentLocation,
	FieldCurrentJob,
	FieldCurrentSelf,
}

// PastSituationFields are the answers collected on the past step.
var PastSituationFields = []Field{
	FieldYear,
	FieldPastChoice,
	FieldDesiredChange,
}

// AllFields lists every answer in wizard order.
func AllFields() []Field {
	fields := make([]Field, 0, len(PersonalInfoFields)+len(PastSituationFields))
	fields = append(fields, PersonalInfoFields...)
	return append(fields, PastSituationFields...)
}

// PersonalInfo is also the exact shape of the persisted "universeFormData" blob.
type PersonalInfo struct {
	BirthDate       string `json:"birthDate"` // YYYY-MM-DD
	Gender          Gender `json:"gender"`
	CurrentLocation string `json:"currentLocation"`
	CurrentJob      string `json:"currentJob"`
	CurrentSelf     string `json:"currentSelf"`
}

type PastSituation struct {
	Year          int    `json:"year"` // 0 when not answered yet
	PastChoice    string `json:"pastChoice"`
	DesiredChange string `json:"desiredChange"`
}

// FormSnapshot holds every wizard answer. It is sent as-is to the simulator.
type FormSnapshot struct {
	PersonalInfo
	PastSituation
	SaveData *bool  `json:"saveData,omitempty"`
	Lang     string `json:"lang,omitempty"`
}

// SaveDataEnabled reports whether the user opted in to keep personal info.
func (s *FormSnapshot) SaveDataEnabled() bool {
	return s.SaveData != nil && *s.SaveData
}

// FormPatch is a partial update of a FormSnapshot. Nil fields are left untouched.
type FormPatch struct {
	BirthDate       *string `json:"birthDate,omitempty"`
	Gender          *Gender `json:"gender,omitempty"`
	CurrentLocation *string `json:"currentLocation,omitempty"`
	CurrentJob      *string `json:"currentJob,omitempty"`
	CurrentSelf     *string `json:"currentSelf,omitempty"`
	Year            *int    `json:"year,omitempty"`
	PastChoice      *string `json:"pastChoice,omitempty"`
	DesiredChange   *string `json:"desiredChange,omitempty"`
	SaveData        *bool   `json:"saveData,omitempty"`
	Lang            *string `json:"lang,omitempty"`
}

// Apply writes the non-nil patch fields into the snapshot.
// It reports whether any personal info field or the saveData flag changed,
// which is what the preference store watches.
func (p *FormPatch) Apply(s *FormSnapshot) (watchedChanged bool) {
	setString := func(dst *string, src *string) bool {
		if src == nil || *dst == *src {
			return false
		}
		*dst = *src
		return true
	}

	if setString(&s.BirthDate, p.BirthDate) {
		watchedChanged = true
	}
	if p.Gender != nil && s.Gender != *p.Gender {
		s.Gender = *p.Gender
		watchedChanged = true
	}
	if setString(&s.CurrentLocation, p.CurrentLocation) {
		watchedChanged = true
	}
	if setString(&s.CurrentJob, p.CurrentJob) {
		watchedChanged = true
	}
	if setString(&s.CurrentSelf, p.CurrentSelf) {
		watchedChanged = true
	}

	if p.Year != nil {
		s.Year = *p.Year
	}
	setString(&s.PastChoice, p.PastChoice)
	setString(&s.DesiredChange, p.DesiredChange)
	setString(&s.Lang, p.Lang)

	if p.SaveData != nil && s.SaveDataEnabled() != *p.SaveData {
		saveData := *p.SaveData
		s.SaveData = &saveData
		watchedChanged = true
	}

	return watchedChanged
}

// FieldError is an inline validation message for one field.
type FieldError struct {
	Field   Field  `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}
