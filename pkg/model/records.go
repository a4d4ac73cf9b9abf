package model

import (
	"errors"
	"fmt"
	"strings"
)

// Field names used by the default three-step form.
const (
	FieldFirstName          = "firstName"
	FieldLastName           = "lastName"
	FieldEmail              = "email"
	FieldPhoneNumber        = "phoneNumber"
	FieldCompany            = "company"
	FieldPosition           = "position"
	FieldExperience         = "experience"
	FieldIndustry           = "industry"
	FieldCardNumber         = "cardNumber"
	FieldCardHolderName     = "cardHolderName"
	FieldCardExpirationDate = "cardExpirationDate"
	FieldCardCVV            = "cardCvv"
)

// Step ordinals for the default form.
const (
	StepPersonal = iota
	StepProfessional
	StepBilling
)

// Experience is the closed set of experience levels.
type Experience string

const (
	Experience0To2   Experience = "0-2 years"
	Experience2To5   Experience = "2-5 years"
	Experience5To10  Experience = "5-10 years"
	Experience10Plus Experience = "10+ years"
)

// ExperienceLevels returns the experience options in display order.
func ExperienceLevels() []Experience {
	return []Experience{Experience0To2, Experience2To5, Experience5To10, Experience10Plus}
}

// Valid reports whether e is one of the known levels.
func (e Experience) Valid() bool {
	for _, level := range ExperienceLevels() {
		if e == level {
			return true
		}
	}
	return false
}

// ErrUnknownStep is returned when decoding values for an ordinal the default
// form does not define.
var ErrUnknownStep = errors.New("model: unknown step")

// StepData is implemented by the per-step record variants. The set is closed:
// only types in this package satisfy it.
type StepData interface {
	Ordinal() int
	Values() map[string]string
	stepData()
}

// PersonalInfo holds the fields collected by the first step.
type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// ProfessionalInfo holds the fields collected by the second step.
type ProfessionalInfo struct {
	Company    string     `json:"company"`
	Position   string     `json:"position"`
	Experience Experience `json:"experience"`
	Industry   string     `json:"industry"`
}

// BillingInfo holds the fields collected by the last step.
type BillingInfo struct {
	CardNumber         string `json:"cardNumber"`
	CardHolderName     string `json:"cardHolderName"`
	CardExpirationDate string `json:"cardExpirationDate"`
	CardCVV            string `json:"cardCvv"`
}

func (PersonalInfo) Ordinal() int     { return StepPersonal }
func (ProfessionalInfo) Ordinal() int { return StepProfessional }
func (BillingInfo) Ordinal() int      { return StepBilling }

func (PersonalInfo) stepData()     {}
func (ProfessionalInfo) stepData() {}
func (BillingInfo) stepData()      {}

// Values flattens the record into field-name keyed strings.
func (p PersonalInfo) Values() map[string]string {
	return map[string]string{
		FieldFirstName:   p.FirstName,
		FieldLastName:    p.LastName,
		FieldEmail:       p.Email,
		FieldPhoneNumber: p.PhoneNumber,
	}
}

// Values flattens the record into field-name keyed strings.
func (p ProfessionalInfo) Values() map[string]string {
	return map[string]string{
		FieldCompany:    p.Company,
		FieldPosition:   p.Position,
		FieldExperience: string(p.Experience),
		FieldIndustry:   p.Industry,
	}
}

// Values flattens the record into field-name keyed strings.
func (b BillingInfo) Values() map[string]string {
	return map[string]string{
		FieldCardNumber:         b.CardNumber,
		FieldCardHolderName:     b.CardHolderName,
		FieldCardExpirationDate: b.CardExpirationDate,
		FieldCardCVV:            b.CardCVV,
	}
}

// DecodeStep builds the typed variant for ordinal from validated values.
// Missing keys decode as empty strings; callers are expected to pass values
// that already passed the step's schema.
func DecodeStep(ordinal int, values map[string]string) (StepData, error) {
	switch ordinal {
	case StepPersonal:
		return PersonalInfo{
			FirstName:   values[FieldFirstName],
			LastName:    values[FieldLastName],
			Email:       values[FieldEmail],
			PhoneNumber: values[FieldPhoneNumber],
		}, nil
	case StepProfessional:
		return ProfessionalInfo{
			Company:    values[FieldCompany],
			Position:   values[FieldPosition],
			Experience: Experience(values[FieldExperience]),
			Industry:   values[FieldIndustry],
		}, nil
	case StepBilling:
		return BillingInfo{
			CardNumber:         values[FieldCardNumber],
			CardHolderName:     values[FieldCardHolderName],
			CardExpirationDate: values[FieldCardExpirationDate],
			CardCVV:            values[FieldCardCVV],
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStep, ordinal)
	}
}

// Application is the full record produced once every step has validated.
type Application struct {
	PersonalInfo
	ProfessionalInfo
	BillingInfo
}

// MissingFieldsError lists the fields absent from a record that was expected
// to be complete.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "model: record is missing fields: " + strings.Join(e.Fields, ", ")
}

// ApplicationFromValues builds the full record. It fails with
// *MissingFieldsError when any of the twelve fields is absent.
func ApplicationFromValues(values map[string]string) (Application, error) {
	var missing []string
	for _, name := range AllFieldNames() {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Application{}, &MissingFieldsError{Fields: missing}
	}

	personal, _ := DecodeStep(StepPersonal, values)
	professional, _ := DecodeStep(StepProfessional, values)
	billing, _ := DecodeStep(StepBilling, values)
	return Application{
		PersonalInfo:     personal.(PersonalInfo),
		ProfessionalInfo: professional.(ProfessionalInfo),
		BillingInfo:      billing.(BillingInfo),
	}, nil
}

// AllFieldNames lists the default form's fields in step order.
func AllFieldNames() []string {
	return []string{
		FieldFirstName, FieldLastName, FieldEmail, FieldPhoneNumber,
		FieldCompany, FieldPosition, FieldExperience, FieldIndustry,
		FieldCardNumber, FieldCardHolderName, FieldCardExpirationDate, FieldCardCVV,
	}
}
