package cdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce   sync.Once
	schemaValidate *validator.Validate
)

func schemaValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		schemaValidate = v
	})
	return schemaValidate
}

// Parse validates raw JSON against the closed CDL schema and returns the
// typed document. Any unknown key, wrong type, or violated structural rule
// yields a *SchemaError listing every failing path; nothing is repaired.
// An empty object is a valid document.
func Parse(raw []byte) (*Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &SchemaError{Violations: []Violation{{Path: "/", Message: "document must be a JSON object"}}}
	}

	doc := &Document{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return nil, &SchemaError{Violations: []Violation{decodeViolation(err)}}
	}
	if dec.More() {
		return nil, &SchemaError{Violations: []Violation{{Path: "/", Message: "unexpected trailing content after document"}}}
	}

	var violations []Violation
	if err := schemaValidator().Struct(doc); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				violations = append(violations, Violation{Path: jsonPath(fe.Namespace()), Message: ruleMessage(fe)})
			}
		} else {
			return nil, &SchemaError{Violations: []Violation{{Path: "/", Message: err.Error()}}}
		}
	}
	violations = append(violations, doc.semanticViolations()...)

	if len(violations) > 0 {
		return nil, &SchemaError{Violations: violations}
	}
	return doc, nil
}

// IsValid is the non-throwing variant of Parse.
func IsValid(raw []byte) bool {
	_, err := Parse(raw)
	return err == nil
}

// semanticViolations covers the cross-field rules the tag-based validator
// cannot express: preference target requirements and the ordering union.
func (d *Document) semanticViolations() []Violation {
	var out []Violation

	for i, pref := range d.Preferences {
		if len(pref.SeatIDs) == 0 && len(pref.DeskIDs) == 0 {
			out = append(out, Violation{
				Path:    fmt.Sprintf("/preferences/%d", i),
				Message: "must specify seatIds and/or deskIds",
			})
		}
	}

	if d.Ordering == nil {
		return out
	}
	for _, problem := range d.Ordering.problems {
		out = append(out, Violation{Path: "/ordering", Message: problem})
	}
	switch d.Ordering.Type {
	case OrderingAlphabetic:
		if a := d.Ordering.Alphabetic; a != nil {
			if a.By != "first" && a.By != "last" {
				out = append(out, Violation{Path: "/ordering/by", Message: `must be "first" or "last"`})
			}
			if a.Direction != "" && a.Direction != "asc" && a.Direction != "desc" {
				out = append(out, Violation{Path: "/ordering/direction", Message: `must be "asc" or "desc"`})
			}
		}
	case OrderingCustom:
		if c := d.Ordering.Custom; c != nil && len(c.Order) == 0 {
			out = append(out, Violation{Path: "/ordering/order", Message: "must contain at least 1 item"})
		}
	}
	return out
}

// jsonPath converts a validator namespace ("Document.balanceRules[0].tags")
// into a slash path ("/balanceRules/0/tags").
func jsonPath(namespace string) string {
	i := strings.Index(namespace, ".")
	if i < 0 {
		return "/"
	}
	path := namespace[i+1:]
	path = strings.ReplaceAll(path, "[", "/")
	path = strings.ReplaceAll(path, "]", "")
	path = strings.ReplaceAll(path, ".", "/")
	return "/" + path
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed rule %q", fe.Tag())
	}
}

func decodeViolation(err error) Violation {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := "/"
		if typeErr.Field != "" {
			path = "/" + strings.ReplaceAll(typeErr.Field, ".", "/")
		}
		return Violation{Path: path, Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value)}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return Violation{Path: "/", Message: fmt.Sprintf("malformed JSON at offset %d: %v", syntaxErr.Offset, syntaxErr)}
	}
	return Violation{Path: "/", Message: err.Error()}
}
