// Package validation checks untyped form payloads against declarative schemas.
//
// Validate is a pure function of (schema, payload): it never consults the
// corpus or any other mutable state, so callers are free to run it on every
// keystroke, on blur, or only on submit.
package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Status of a Result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// FormErrorKey holds errors that belong to the submission as a whole rather
// than to one field.
const FormErrorKey = ""

// Result is the outcome of validating one payload against one schema.
//
// InitialValue always echoes what the user sent, including keys the schema
// does not declare, so a failed round trip can redisplay the form verbatim.
// Value is only set on success and only holds declared fields.
type Result struct {
	Status       Status              `json:"status"`
	Schema       string              `json:"schema"`
	Value        map[string]any      `json:"value,omitempty"`
	Errors       map[string][]string `json:"error,omitempty"`
	InitialValue map[string]string   `json:"initialValue"`
	SubmissionID string              `json:"submissionId,omitempty"`
	Generation   uint64              `json:"generation"`
}

// OK reports whether the payload passed every declared field.
func (r Result) OK() bool { return r.Status == StatusSuccess }

// Key identifies a field within one submission. It changes whenever the
// generation changes, which lets a form reset its inputs on a fresh submission.
func (r Result) Key(field string) string {
	return fmt.Sprintf("%s#%d", field, r.Generation)
}

// FieldErrors returns the messages recorded for field, in rule order.
func (r Result) FieldErrors(field string) []string {
	return r.Errors[field]
}

// WithFieldError returns a failed copy of r carrying msg on field. Value is dropped.
func (r Result) WithFieldError(field, msg string) Result {
	out := r
	out.Status = StatusError
	out.Value = nil
	out.Errors = make(map[string][]string, len(r.Errors)+1)
	for k, v := range r.Errors {
		out.Errors[k] = append([]string(nil), v...)
	}
	out.Errors[field] = append(out.Errors[field], msg)
	return out
}

// WithFormError is WithFieldError for the whole submission.
func (r Result) WithFormError(msg string) Result {
	return r.WithFieldError(FormErrorKey, msg)
}

// Engine runs schema rules. It is safe for concurrent use.
type Engine struct {
	v *validator.Validate
}

// NewEngine returns an Engine backed by go-playground/validator. On top of
// the baked-in tags it understands "notblank", which rejects strings that
// are empty once surrounding whitespace is trimmed.
func NewEngine() *Engine {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Errorf("register notblank: %w", err))
	}
	return &Engine{v: v}
}

var defaultEngine = NewEngine()

// Validate checks payload against schema with the default engine.
func Validate(schema *Schema, payload map[string]string) Result {
	return defaultEngine.Validate(schema, payload)
}

// Validate coerces and checks every declared field in declaration order.
// Missing required values and failed coercions record one message and skip
// the field's rules; otherwise every failing rule is recorded.
func (e *Engine) Validate(schema *Schema, payload map[string]string) Result {
	res := Result{
		Schema:       schema.Ref(),
		InitialValue: make(map[string]string, len(payload)),
	}
	for k, v := range payload {
		res.InitialValue[k] = v
	}

	value := make(map[string]any, len(schema.Fields))
	errs := make(map[string][]string)
	for _, f := range schema.Fields {
		raw, present := payload[f.Name]
		if !present || raw == "" {
			if f.Required {
				errs[f.Name] = []string{requiredMessage(f)}
			}
			continue
		}
		coerced, ok := coerce(f.Type, raw)
		if !ok {
			errs[f.Name] = []string{coercionMessage(f.Type, raw)}
			continue
		}
		var msgs []string
		for _, r := range f.Rules {
			if err := e.v.Var(coerced, r.Tag); err != nil {
				msgs = append(msgs, ruleMessage(f.Type, r))
			}
		}
		if len(msgs) > 0 {
			errs[f.Name] = msgs
			continue
		}
		value[f.Name] = coerced
	}

	if len(errs) > 0 {
		res.Status = StatusError
		res.Errors = errs
		return res
	}
	res.Status = StatusSuccess
	res.Value = value
	return res
}

func coerce(kind Kind, raw string) (any, bool) {
	switch kind {
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		return n, err == nil
	case KindFloat:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		return n, err == nil
	default:
		return raw, true
	}
}

// checkTag rejects tags the validator does not know; Var panics on those.
func (e *Engine) checkTag(kind Kind, tag string) (err error) {
	if strings.TrimSpace(tag) == "" {
		return errors.New("empty rule tag")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid rule tag %q: %v", tag, r)
		}
	}()
	var zero any
	switch kind {
	case KindInt:
		zero = 0
	case KindFloat:
		zero = 0.0
	default:
		zero = ""
	}
	_ = e.v.Var(zero, tag)
	return nil
}
