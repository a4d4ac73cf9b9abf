// Package model defines the step and field descriptions consumed by the
// schema registry and presentation adapters, plus the typed records the form
// collects. Field and ValidationRule live in internal/model and are re-exported
// here. Validation rules use canonical identifiers (minLength, maxLength,
// pattern, email, enum, expr) with string parameters so catalogs stay
// declarative and serialise deterministically to YAML or JSON.
//
// The collected data is modelled as a closed set of per-step variants
// (PersonalInfo, ProfessionalInfo, BillingInfo) that all satisfy StepData.
// Mid-flow the accumulator holds plain field values; Application is the typed
// union decoded once the last step validates.
package model
