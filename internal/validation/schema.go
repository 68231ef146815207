package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the type a raw form value is coerced into before rules run.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
)

// Rule is a single check expressed as a go-playground/validator tag
// (uuid, url, min=1, gte=0, latitude...). Message overrides the default text.
type Rule struct {
	Tag     string `yaml:"tag" json:"tag"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Field declares how one payload key is coerced and checked.
type Field struct {
	Name            string `yaml:"name" json:"name"`
	Type            Kind   `yaml:"type" json:"type"`
	Required        bool   `yaml:"required" json:"required"`
	RequiredMessage string `yaml:"required_message,omitempty" json:"required_message,omitempty"`
	Rules           []Rule `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// Schema is a named, versioned set of field rules. Schemas handed out by a
// Registry are shared and must not be modified.
//
// ValidateOn and RevalidateOn describe when a form should call the engine
// (first pass / after the first error). The engine itself ignores them.
type Schema struct {
	Name         string  `yaml:"name" json:"name"`
	Version      int     `yaml:"version" json:"version"`
	ValidateOn   string  `yaml:"validate_on" json:"validate_on"`
	RevalidateOn string  `yaml:"revalidate_on" json:"revalidate_on"`
	Fields       []Field `yaml:"fields" json:"fields"`
}

// Ref returns the registry address of the schema, e.g. "room@2".
func (s *Schema) Ref() string {
	return FormatRef(s.Name, s.Version)
}

// Field returns the declaration for name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FormatRef joins a schema name and version.
func FormatRef(name string, version int) string {
	return fmt.Sprintf("%s@%d", name, version)
}

// ParseRef splits "name@version". A bare name has version 0, meaning latest.
func ParseRef(ref string) (string, int, error) {
	ref = strings.TrimSpace(ref)
	name, ver, found := strings.Cut(ref, "@")
	if name == "" {
		return "", 0, fmt.Errorf("invalid schema reference %q", ref)
	}
	if !found {
		return name, 0, nil
	}
	v, err := strconv.Atoi(ver)
	if err != nil || v <= 0 {
		return "", 0, fmt.Errorf("invalid schema version in %q", ref)
	}
	return name, v, nil
}

func (s *Schema) check(e *Engine) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("schema name required")
	}
	if s.Version <= 0 {
		return fmt.Errorf("schema %s: version must be > 0", s.Name)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %s: no fields declared", s.Ref())
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("schema %s: field %d has no name", s.Ref(), i)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("schema %s: duplicate field %s", s.Ref(), f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Type == "" {
			f.Type = KindString
		}
		switch f.Type {
		case KindString, KindInt, KindFloat:
		default:
			return fmt.Errorf("schema %s: field %s has unknown type %q", s.Ref(), f.Name, f.Type)
		}
		for _, r := range f.Rules {
			if err := e.checkTag(f.Type, r.Tag); err != nil {
				return fmt.Errorf("schema %s: field %s: %w", s.Ref(), f.Name, err)
			}
		}
	}
	return nil
}
