package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
)

var validate = newValidator()

// newValidator reports fields by their JSON argument names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError is returned from a tool handler when the arguments do not
// match the tool schema. No remote call has been made when it occurs.
type ValidationError struct {
	Tool   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
}

// bindArguments decodes the call arguments into out and validates them
func bindArguments(req mcp.CallToolRequest, out interface{}) error {
	tool := req.Params.Name

	data, err := json.Marshal(req.GetArguments())
	if err != nil {
		return &ValidationError{Tool: tool, Reason: err.Error()}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ValidationError{Tool: tool, Reason: err.Error()}
	}

	if err := Validate(out); err != nil {
		return &ValidationError{Tool: tool, Reason: err.Error()}
	}
	return nil
}

// Validate checks v against its validate tags and describes every failing
// field by its argument name.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return errors.New(describe(fieldErrs))
	}
	return err
}

func describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		name := fe.Field()
		switch fe.Tag() {
		case "required":
			parts = append(parts, name+" is required")
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", name, fe.Param()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", name, fe.Param()))
		case "gt":
			parts = append(parts, name+" must be a positive integer")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", name, fe.Param()))
		case "datetime":
			parts = append(parts, name+" must be an ISO-8601 date-time")
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", name, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
