package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	msgRequired        = "Required"
	msgExpectedNumber  = "Expected number, received string"
	msgExpectedInteger = "Expected integer, received float"
)

func requiredMessage(f Field) string {
	if f.RequiredMessage != "" {
		return f.RequiredMessage
	}
	return msgRequired
}

// coercionMessage explains why raw could not become a kind value. A decimal
// sent to an integer field is a number, just not a whole one.
func coercionMessage(kind Kind, raw string) string {
	if kind == KindInt {
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return msgExpectedInteger
		}
	}
	return msgExpectedNumber
}

func ruleMessage(kind Kind, r Rule) string {
	if r.Message != "" {
		return r.Message
	}
	name, param, _ := strings.Cut(r.Tag, "=")
	numeric := kind == KindInt || kind == KindFloat
	switch name {
	case "uuid", "uuid4", "uuid7":
		return "Invalid uuid"
	case "url", "http_url":
		return "Invalid url"
	case "notblank":
		return "String must not be blank"
	case "email":
		return "Invalid email"
	case "latitude":
		return "Invalid latitude"
	case "longitude":
		return "Invalid longitude"
	case "min":
		if numeric {
			return fmt.Sprintf("Number must be greater than or equal to %s", param)
		}
		return fmt.Sprintf("String must contain at least %s character(s)", param)
	case "max":
		if numeric {
			return fmt.Sprintf("Number must be less than or equal to %s", param)
		}
		return fmt.Sprintf("String must contain at most %s character(s)", param)
	case "gte":
		return fmt.Sprintf("Number must be greater than or equal to %s", param)
	case "gt":
		return fmt.Sprintf("Number must be greater than %s", param)
	case "lte":
		return fmt.Sprintf("Number must be less than or equal to %s", param)
	case "lt":
		return fmt.Sprintf("Number must be less than %s", param)
	case "oneof":
		return fmt.Sprintf("Expected one of: %s", strings.ReplaceAll(param, " ", ", "))
	}
	return fmt.Sprintf("Invalid value (%s)", r.Tag)
}
