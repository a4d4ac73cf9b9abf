package schema

import (
	"strconv"

	"github.com/goliatone/go-stepform/pkg/model"
)

func minLen(n int, msg string) model.ValidationRule {
	return model.ValidationRule{
		Kind:    model.ValidationRuleMinLength,
		Params:  map[string]string{"value": strconv.Itoa(n)},
		Message: msg,
	}
}

func maxLen(n int, msg string) model.ValidationRule {
	return model.ValidationRule{
		Kind:    model.ValidationRuleMaxLength,
		Params:  map[string]string{"value": strconv.Itoa(n)},
		Message: msg,
	}
}

func experienceOptions() []string {
	levels := model.ExperienceLevels()
	out := make([]string, len(levels))
	for i, level := range levels {
		out[i] = string(level)
	}
	return out
}

// DefaultSteps returns the built-in step catalog. Each call returns fresh
// values so callers may adapt them before building a registry.
func DefaultSteps() []model.Step {
	return []model.Step{
		{
			ID:    "personal",
			Name:  "Personal Info",
			Title: "Personal Information",
			Fields: []model.Field{
				{
					Name:        model.FieldFirstName,
					Type:        model.FieldTypeString,
					Label:       "First Name",
					Validations: []model.ValidationRule{minLen(2, "First name must be at least 2 characters long")},
				},
				{
					Name:        model.FieldLastName,
					Type:        model.FieldTypeString,
					Label:       "Last Name",
					Validations: []model.ValidationRule{minLen(2, "Last name must be at least 2 characters long")},
				},
				{
					Name:        model.FieldEmail,
					Type:        model.FieldTypeString,
					Label:       "Email",
					Format:      "email",
					Validations: []model.ValidationRule{{Kind: model.ValidationRuleEmail, Message: "Invalid email"}},
				},
				{
					Name:        model.FieldPhoneNumber,
					Type:        model.FieldTypeString,
					Label:       "Phone Number",
					Format:      "tel",
					Validations: []model.ValidationRule{minLen(10, "Phone number must be at least 10 characters long")},
				},
			},
		},
		{
			ID:    "professional",
			Name:  "Professional Info",
			Title: "Professional Information",
			Fields: []model.Field{
				{
					Name:        model.FieldCompany,
					Type:        model.FieldTypeString,
					Label:       "Company",
					Validations: []model.ValidationRule{minLen(2, "Company name must be at least 2 characters long")},
				},
				{
					Name:        model.FieldPosition,
					Type:        model.FieldTypeString,
					Label:       "Position",
					Validations: []model.ValidationRule{minLen(2, "Position must be at least 2 characters long")},
				},
				{
					Name:        model.FieldExperience,
					Type:        model.FieldTypeEnum,
					Label:       "Years of Experience",
					Placeholder: "Select experience",
					Enum:        experienceOptions(),
					Validations: []model.ValidationRule{{Kind: model.ValidationRuleEnum}},
				},
				{
					Name:        model.FieldIndustry,
					Type:        model.FieldTypeString,
					Label:       "Industry",
					Validations: []model.ValidationRule{minLen(2, "Industry must be at least 2 characters long")},
				},
			},
		},
		{
			ID:    "billing",
			Name:  "Billing Info",
			Title: "Billing Information",
			Fields: []model.Field{
				{
					Name:      model.FieldCardNumber,
					Type:      model.FieldTypeString,
					Label:     "Card Number",
					MaxLength: 16,
					Mask:      model.MaskLast4,
					Validations: []model.ValidationRule{
						minLen(16, "Card number must be at least 16 characters long"),
						maxLen(16, "Card number must be at most 16 characters long"),
					},
				},
				{
					Name:        model.FieldCardHolderName,
					Type:        model.FieldTypeString,
					Label:       "Card Holder Name",
					Validations: []model.ValidationRule{minLen(2, "Card holder name must be at least 2 characters long")},
				},
				{
					Name:        model.FieldCardExpirationDate,
					Type:        model.FieldTypeString,
					Label:       "Card Expiration Date",
					MaxLength:   5,
					Validations: []model.ValidationRule{minLen(5, "Card expiration date must be at least 5 characters long")},
				},
				{
					Name:      model.FieldCardCVV,
					Type:      model.FieldTypeString,
					Label:     "Card CVV",
					MaxLength: 4,
					Mask:      model.MaskFull,
					Validations: []model.ValidationRule{
						minLen(3, "Card CVV must be at least 3 characters long"),
						maxLen(4, "Card CVV must be at most 4 characters long"),
					},
				},
			},
		},
	}
}
