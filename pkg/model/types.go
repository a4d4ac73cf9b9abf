package model

import internalmodel "github.com/goliatone/go-stepform/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString = internalmodel.FieldTypeString
	FieldTypeEnum   = internalmodel.FieldTypeEnum
)

const (
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
	ValidationRuleEmail     = internalmodel.ValidationRuleEmail
	ValidationRuleEnum      = internalmodel.ValidationRuleEnum
	ValidationRuleExpr      = internalmodel.ValidationRuleExpr
)

// MaskKind re-exports the internal display mask enumeration.
type MaskKind = internalmodel.MaskKind

const (
	MaskNone  = internalmodel.MaskNone
	MaskLast4 = internalmodel.MaskLast4
	MaskFull  = internalmodel.MaskFull
)

type ValidationRule = internalmodel.ValidationRule
type Field = internalmodel.Field
type Step = internalmodel.Step

// DefaultLabeler converts camelCase field names into display labels.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
