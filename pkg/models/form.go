package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// Submission represents the data structure coming from the signup form
type Submission struct {
	Email    string `json:"email" validate:"required"`
	LastName string `json:"lastName" validate:"required"`
	Slot     string `json:"slot" validate:"required"`
}

// Payload is a decoded request body. Fields is the JSON object, empty for
// any other input. Received is the decoded value as sent, echoed back when
// validation fails.
type Payload struct {
	Fields   map[string]interface{}
	Received interface{}
}

// NewPayload wraps an already decoded object.
func NewPayload(fields map[string]interface{}) Payload {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return Payload{Fields: fields, Received: fields}
}

// ParseBody decodes a raw request body. An empty or unparsable body yields
// an empty object instead of an error.
func ParseBody(raw []byte) Payload {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return NewPayload(nil)
	}
	if !utf8.Valid(raw) {
		raw = bytes.ToValidUTF8(raw, []byte("\uFFFD"))
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return NewPayload(nil)
	}
	if fields, ok := decoded.(map[string]interface{}); ok {
		return NewPayload(fields)
	}
	return Payload{Fields: map[string]interface{}{}, Received: decoded}
}

// SubmissionFromBody extracts the form fields. slotField names the JSON
// key carrying the slot.
func SubmissionFromBody(body map[string]interface{}, slotField string) Submission {
	return Submission{
		Email:    fieldString(body["email"]),
		LastName: fieldString(body["lastName"]),
		Slot:     fieldString(body[slotField]),
	}
}

// Validate returns the JSON names of required fields that are missing.
func (s Submission) Validate() []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing
}

// fieldString mirrors a loose truthiness check: strings pass through,
// numbers and true are stringified, anything else counts as absent.
func fieldString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
	case json.Number:
		return t.String()
	case nil:
	default:
		return fmt.Sprint(t)
	}
	return ""
}
