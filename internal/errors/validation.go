package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldTree is a nested tree of validation messages. Errors holds messages
// that apply to the node itself; Properties holds child fields by JSON name.
type FieldTree struct {
	Errors     []string              `json:"errors"`
	Properties map[string]*FieldTree `json:"properties,omitempty"`
}

// ValidationError carries the field tree built from a failed struct validation.
type ValidationError struct {
	Fields *FieldTree
}

func (e *ValidationError) Error() string {
	var parts []string
	e.Fields.walk("", func(path, msg string) {
		parts = append(parts, path+": "+msg)
	})
	if len(parts) == 0 {
		return "invalid input"
	}
	return strings.Join(parts, "; ")
}

// NewValidationError converts validator errors into a ValidationError.
// Any other error is returned unchanged.
func NewValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	root := &FieldTree{Errors: []string{}}
	for _, fe := range verrs {
		// Namespace is "Struct.field.sub"; the struct name is dropped.
		path := strings.Split(fe.Namespace(), ".")
		if len(path) > 1 {
			path = path[1:]
		}
		node := root
		for _, p := range path {
			if node.Properties == nil {
				node.Properties = map[string]*FieldTree{}
			}
			child, ok := node.Properties[p]
			if !ok {
				child = &FieldTree{Errors: []string{}}
				node.Properties[p] = child
			}
			node = child
		}
		node.Errors = append(node.Errors, messageFor(fe))
	}
	return &ValidationError{Fields: root}
}

// NewDecodeError explains why raw could not be decoded into dst, a pointer to
// a struct. Each top-level member of raw is decoded on its own into the matching
// field and failures are reported under the member's JSON name. It returns nil
// when raw is not a JSON object or no single field is to blame.
func NewDecodeError(raw []byte, dst interface{}) *ValidationError {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil
	}
	t := reflect.TypeOf(dst)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		return nil
	}
	t = t.Elem()

	root := &FieldTree{Errors: []string{}}
	for i := 0; i < t.NumField(); i++ {
		fld := t.Field(i)
		name := JSONTagName(fld)
		value, ok := members[name]
		if !fld.IsExported() || name == "" || !ok {
			continue
		}
		if err := json.Unmarshal(value, reflect.New(fld.Type).Interface()); err != nil {
			if root.Properties == nil {
				root.Properties = map[string]*FieldTree{}
			}
			root.Properties[name] = &FieldTree{Errors: []string{expected(fld.Type)}}
		}
	}
	if len(root.Properties) == 0 {
		return nil
	}
	return &ValidationError{Fields: root}
}

var uuidType = reflect.TypeOf(uuid.UUID{})

func expected(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == uuidType {
		return "must be a valid UUID"
	}
	switch t.Kind() {
	case reflect.String:
		return "must be a string"
	case reflect.Bool:
		return "must be a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.Slice, reflect.Array:
		return "must be a list"
	case reflect.Map, reflect.Struct:
		return "must be an object"
	default:
		return "is invalid"
	}
}

// JSONTagName reports a struct field by its JSON name. It is registered on the
// validator so that field paths in the tree match request payload keys.
func JSONTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

func (t *FieldTree) walk(prefix string, fn func(path, msg string)) {
	if t == nil {
		return
	}
	for _, msg := range t.Errors {
		fn(prefix, msg)
	}
	for name, child := range t.Properties {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		child.walk(path, fn)
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString(fe) {
			return fmt.Sprintf("must contain at least %s characters", fe.Param())
		}
		if isList(fe) {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString(fe) {
			return fmt.Sprintf("must contain at most %s characters", fe.Param())
		}
		if isList(fe) {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "http_url":
		return "must be a valid http(s) URL"
	case "password":
		return "must be at least 8 characters and contain an uppercase letter, a lowercase letter and a digit"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

func isString(fe validator.FieldError) bool {
	return fe.Kind().String() == "string"
}

func isList(fe validator.FieldError) bool {
	k := fe.Kind().String()
	return k == "slice" || k == "array" || k == "map"
}
