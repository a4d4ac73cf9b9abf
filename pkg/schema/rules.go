package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-stepform/pkg/model"
)

// Rule is a single predicate with the message reported when it fails. A
// field validator runs its rules in order and stops at the first failure.
type Rule interface {
	Check(value string) bool
	Message(value string) string
}

// RuleFunc adapts a predicate and a fixed message to Rule.
type RuleFunc struct {
	Fn  func(string) bool
	Msg string
}

func (r RuleFunc) Check(value string) bool { return r.Fn != nil && r.Fn(value) }
func (r RuleFunc) Message(string) string   { return r.Msg }

// MinLength fails when value has fewer than n characters.
func MinLength(n int, msg string) Rule {
	return RuleFunc{Fn: func(v string) bool { return utf8.RuneCountInString(v) >= n }, Msg: msg}
}

// MaxLength fails when value has more than n characters.
func MaxLength(n int, msg string) Rule {
	return RuleFunc{Fn: func(v string) bool { return utf8.RuneCountInString(v) <= n }, Msg: msg}
}

// Pattern fails when value does not match re.
func Pattern(re *regexp.Regexp, msg string) Rule {
	return RuleFunc{Fn: re.MatchString, Msg: msg}
}

// emailPattern follows the common client-side email check. RE2 has no
// look-ahead, so the leading-dot and double-dot exclusions live in isEmail.
var emailPattern = regexp.MustCompile(`(?i)^([A-Z0-9_'+\-.]*)[A-Z0-9_+-]@([A-Z0-9][A-Z0-9\-]*\.)+[A-Z]{2,}$`)

func isEmail(v string) bool {
	if strings.HasPrefix(v, ".") || strings.Contains(v, "..") {
		return false
	}
	return emailPattern.MatchString(v)
}

// Email fails when value is not a plausible email address.
func Email(msg string) Rule {
	return RuleFunc{Fn: isEmail, Msg: msg}
}

// enumRule checks membership. Its default message echoes the received value.
type enumRule struct {
	allowed []string
	msg     string
}

// OneOf fails when value is not one of allowed. An empty msg produces the
// "Invalid enum value" message listing the options and the received value.
func OneOf(allowed []string, msg string) Rule {
	return enumRule{allowed: append([]string(nil), allowed...), msg: msg}
}

func (r enumRule) Check(value string) bool {
	for _, candidate := range r.allowed {
		if candidate == value {
			return true
		}
	}
	return false
}

func (r enumRule) Message(value string) string {
	if r.msg != "" {
		return r.msg
	}
	quoted := make([]string, len(r.allowed))
	for i, v := range r.allowed {
		quoted[i] = "'" + v + "'"
	}
	return fmt.Sprintf("Invalid enum value. Expected %s, received '%s'", strings.Join(quoted, " | "), value)
}

// exprRule evaluates a boolean expr-lang program with the field value bound
// to `value`. Runtime errors count as failures.
type exprRule struct {
	program *exprvm.Program
	msg     string
}

// Expr compiles source into a rule. The program must evaluate to a bool.
func Expr(source, msg string) (Rule, error) {
	program, err := exprlang.Compile(source, exprlang.Env(map[string]any{"value": ""}), exprlang.AsBool())
	if err != nil {
		return nil, fmt.Errorf("schema: compile expr %q: %w", source, err)
	}
	return exprRule{program: program, msg: msg}, nil
}

func (r exprRule) Check(value string) bool {
	out, err := exprlang.Run(r.program, map[string]any{"value": value})
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func (r exprRule) Message(string) string { return r.msg }

var errRuleParam = errors.New("schema: invalid rule parameter")

// CompileRule turns a declarative rule into a Rule. Missing messages are
// generated from the field label.
func CompileRule(field model.Field, rule model.ValidationRule) (Rule, error) {
	label := fieldLabel(field)
	switch rule.Kind {
	case model.ValidationRuleMinLength:
		n, err := intParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return MinLength(n, messageOr(rule, fmt.Sprintf("%s must be at least %d characters long", label, n))), nil
	case model.ValidationRuleMaxLength:
		n, err := intParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return MaxLength(n, messageOr(rule, fmt.Sprintf("%s must be at most %d characters long", label, n))), nil
	case model.ValidationRulePattern:
		raw := rule.Params["pattern"]
		if raw == "" {
			return nil, fmt.Errorf("%w: %s pattern is empty", errRuleParam, field.Name)
		}
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s pattern: %v", errRuleParam, field.Name, err)
		}
		return Pattern(re, messageOr(rule, fmt.Sprintf("%s has an invalid format", label))), nil
	case model.ValidationRuleEmail:
		return Email(messageOr(rule, "Invalid email")), nil
	case model.ValidationRuleEnum:
		allowed := rule.Values
		if len(allowed) == 0 {
			allowed = field.Enum
		}
		if len(allowed) == 0 {
			return nil, fmt.Errorf("%w: %s enum has no values", errRuleParam, field.Name)
		}
		return OneOf(allowed, rule.Message), nil
	case model.ValidationRuleExpr:
		source := strings.TrimSpace(rule.Params["expr"])
		if source == "" {
			return nil, fmt.Errorf("%w: %s expr is empty", errRuleParam, field.Name)
		}
		return Expr(source, messageOr(rule, fmt.Sprintf("%s is invalid", label)))
	default:
		return nil, fmt.Errorf("%w: %s has unknown rule kind %q", errRuleParam, field.Name, rule.Kind)
	}
}

func intParam(rule model.ValidationRule, key string) (int, error) {
	raw := strings.TrimSpace(rule.Params[key])
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s %s=%q", errRuleParam, rule.Kind, key, raw)
	}
	return n, nil
}

func messageOr(rule model.ValidationRule, fallback string) string {
	if msg := strings.TrimSpace(rule.Message); msg != "" {
		return msg
	}
	return fallback
}

func fieldLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}
