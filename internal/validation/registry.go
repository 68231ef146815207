package validation

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrSchemaNotFound is returned by Lookup for unknown references.
var ErrSchemaNotFound = errors.New("schema not found")

//go:embed schemas/*.yaml
var builtinSchemas embed.FS

// Registry holds immutable schemas keyed by "name@version".
type Registry struct {
	schemas map[string]*Schema
	latest  map[string]int
}

var (
	builtinOnce sync.Once
	builtinReg  *Registry
	builtinErr  error
)

// Builtin returns the registry of schemas shipped with the binary.
func Builtin() (*Registry, error) {
	builtinOnce.Do(func() {
		builtinReg, builtinErr = LoadRegistry(builtinSchemas, "schemas")
	})
	return builtinReg, builtinErr
}

// LoadRegistry parses every *.yaml file under dir in fsys.
func LoadRegistry(fsys fs.FS, dir string) (*Registry, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	reg := &Registry{schemas: make(map[string]*Schema), latest: make(map[string]int)}
	e := NewEngine()
	for _, file := range files {
		b, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", file, err)
		}
		var s Schema
		if err := yaml.Unmarshal(b, &s); err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", file, err)
		}
		if err := reg.add(e, &s); err != nil {
			return nil, fmt.Errorf("schema %s: %w", file, err)
		}
	}
	return reg, nil
}

// NewRegistry builds a registry from schemas defined in code.
func NewRegistry(schemas ...Schema) (*Registry, error) {
	reg := &Registry{schemas: make(map[string]*Schema), latest: make(map[string]int)}
	e := NewEngine()
	for i := range schemas {
		s := schemas[i]
		s.Fields = append([]Field(nil), s.Fields...)
		if err := reg.add(e, &s); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (r *Registry) add(e *Engine, s *Schema) error {
	if err := s.check(e); err != nil {
		return err
	}
	ref := s.Ref()
	if _, ok := r.schemas[ref]; ok {
		return fmt.Errorf("duplicate schema %s", ref)
	}
	r.schemas[ref] = s
	if s.Version > r.latest[s.Name] {
		r.latest[s.Name] = s.Version
	}
	return nil
}

// Lookup resolves "name@version"; a bare name resolves to its latest version.
func (r *Registry) Lookup(ref string) (*Schema, error) {
	name, version, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		version = r.latest[name]
	}
	s, ok := r.schemas[FormatRef(name, version)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, ref)
	}
	return s, nil
}

// Refs lists every registered reference in sorted order.
func (r *Registry) Refs() []string {
	out := make([]string, 0, len(r.schemas))
	for ref := range r.schemas {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}
