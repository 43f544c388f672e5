// Package validate checks request payloads against the JSON schemas embedded
// under schemas/ before anything touches the database.
package validate

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema ids, as declared by the $id of each embedded schema.
const (
	Product  = "https://champomix.dev/schemas/product.json"
	User     = "https://champomix.dev/schemas/user.json"
	Order    = "https://champomix.dev/schemas/order.json"
	CartItem = "https://champomix.dev/schemas/cart_item.json"
)

// Error is a ValidationFailure. Fields maps each offending field to a reason;
// it is empty when the document as a whole is unusable.
type Error struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// FieldError reports a single invalid field.
func FieldError(field, reason string) *Error {
	return &Error{Message: "invalid payload", Fields: map[string]string{field: reason}}
}

// Validator holds the compiled schemas keyed by $id.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("cannot read schemas: %w", err)
	}
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(entries))}
	for _, e := range entries {
		raw, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("cannot read schema %s: %w", e.Name(), err)
		}
		var head struct {
			ID string `json:"$id"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, fmt.Errorf("parse error in schema %s: %w", e.Name(), err)
		}
		if head.ID == "" {
			return nil, fmt.Errorf("schema %s does not contain $id", e.Name())
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("cannot compile schema %s: %w", head.ID, err)
		}
		v.schemas[head.ID] = s
	}
	return v, nil
}

// Validate checks doc against schemaID. Any document problem is returned as
// *Error; other errors mean the validator itself is misused.
func (v *Validator) Validate(schemaID string, doc []byte) error {
	s, ok := v.schemas[schemaID]
	if !ok {
		return fmt.Errorf("there is no schema %s", schemaID)
	}
	if !json.Valid(doc) {
		return &Error{Message: "invalid json"}
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &Error{Message: "invalid json"}
	}
	if res.Valid() {
		return nil
	}

	out := &Error{Message: "invalid payload", Fields: map[string]string{}}
	for _, re := range res.Errors() {
		field := re.Field()
		if re.Type() == "required" {
			if p, ok := re.Details()["property"].(string); ok {
				field = p
			}
		}
		// the first reason per field is the most specific one
		if _, seen := out.Fields[field]; !seen {
			out.Fields[field] = re.Description()
		}
	}
	return out
}
