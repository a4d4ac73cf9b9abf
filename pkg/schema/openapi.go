package schema

import (
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-stepform/pkg/model"
)

// OpenAPI describes every step as an object schema under
// components.schemas, keyed by step id, plus a "submission" schema that is
// the allOf of all steps. Rules with no JSON Schema equivalent (expr) are
// left out; the registry stays authoritative.
func (r *Registry) OpenAPI(title, version string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	submission := openapi3.NewObjectSchema()
	for _, step := range r.Steps() {
		stepSchema := StepOpenAPISchema(step)
		doc.Components.Schemas[step.ID] = openapi3.NewSchemaRef("", stepSchema)
		submission.AllOf = append(submission.AllOf, openapi3.NewSchemaRef("#/components/schemas/"+step.ID, stepSchema))
	}
	doc.Components.Schemas["submission"] = openapi3.NewSchemaRef("", submission)
	return doc
}

// StepOpenAPISchema converts one step into an object schema with every field
// required.
func StepOpenAPISchema(step model.Step) *openapi3.Schema {
	obj := openapi3.NewObjectSchema()
	obj.Title = step.Name
	for _, field := range step.Fields {
		obj.WithProperty(field.Name, fieldOpenAPISchema(field))
		obj.Required = append(obj.Required, field.Name)
	}
	return obj
}

func fieldOpenAPISchema(field model.Field) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	s.Title = field.Label
	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMinLength:
			if n, err := strconv.ParseUint(rule.Params["value"], 10, 64); err == nil {
				s.MinLength = n
			}
		case model.ValidationRuleMaxLength:
			if n, err := strconv.ParseUint(rule.Params["value"], 10, 64); err == nil {
				s.MaxLength = &n
			}
		case model.ValidationRulePattern:
			s.Pattern = rule.Params["pattern"]
		case model.ValidationRuleEmail:
			s.Format = "email"
		case model.ValidationRuleEnum:
			values := rule.Values
			if len(values) == 0 {
				values = field.Enum
			}
			for _, v := range values {
				s.Enum = append(s.Enum, v)
			}
		}
	}
	return s
}
