package schema

import (
	_ "embed"
	"fmt"
	"sync"

	wcetErrors "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/errors"
	"gopkg.in/yaml.v3"
)

type ColumnType string

const (
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
	TypeString ColumnType = "string"
)

type Role string

const (
	RoleMetric     Role = "metric"
	RoleDerived    Role = "derived"
	RoleIdentifier Role = "identifier"
	RoleTarget     Role = "target"
)

// Column describes one declared column.
type Column struct {
	Name     string     `yaml:"name" json:"name"`
	Type     ColumnType `yaml:"type" json:"type"`
	Role     Role       `yaml:"role" json:"role"`
	Optional bool       `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Schema is a named, versioned, ordered list of columns.
type Schema struct {
	Name        string   `yaml:"name" json:"name"`
	Version     int      `yaml:"version" json:"version"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Columns     []Column `yaml:"columns" json:"columns"`
}

//go:embed definitions/wcet_features_v1.yaml
var wcetFeaturesV1 []byte

var (
	wcetFeatures     *Schema
	wcetFeaturesOnce sync.Once
)

// WCETFeatures returns the ordered input schema of the WCET model.
func WCETFeatures() *Schema {
	wcetFeaturesOnce.Do(func() {
		s, err := Parse(wcetFeaturesV1)
		if err != nil {
			panic(fmt.Sprintf("embedded wcet feature schema is invalid: %v", err))
		}
		wcetFeatures = s
	})
	return wcetFeatures
}

// Parse decodes and checks a YAML schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Schema) validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema name is empty")
	}
	if s.Version <= 0 {
		return fmt.Errorf("schema %s: version must be positive", s.Name)
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("schema %s: no columns", s.Name)
	}
	seen := make(map[string]bool, len(s.Columns))
	for i, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("schema %s: column %d has no name", s.Name, i)
		}
		if seen[c.Name] {
			return fmt.Errorf("schema %s: duplicate column %q", s.Name, c.Name)
		}
		seen[c.Name] = true
		switch c.Type {
		case TypeInt, TypeFloat, TypeString:
		default:
			return fmt.Errorf("schema %s: column %q has unknown type %q", s.Name, c.Name, c.Type)
		}
	}
	return nil
}

// ID returns name@version.
func (s *Schema) ID() string {
	return fmt.Sprintf("%s@v%d", s.Name, s.Version)
}

// Names returns the column names in declared order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

func (s *Schema) Has(name string) bool {
	for _, c := range s.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Without returns a copy of the schema minus the named columns.
func (s *Schema) Without(names ...string) *Schema {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := &Schema{Name: s.Name, Version: s.Version, Description: s.Description}
	for _, c := range s.Columns {
		if !skip[c.Name] {
			out.Columns = append(out.Columns, c)
		}
	}
	return out
}

// WithOptional returns a copy in which the named columns may be absent.
func (s *Schema) WithOptional(names ...string) *Schema {
	opt := make(map[string]bool, len(names))
	for _, n := range names {
		opt[n] = true
	}
	out := &Schema{Name: s.Name, Version: s.Version, Description: s.Description}
	for _, c := range s.Columns {
		if opt[c.Name] {
			c.Optional = true
		}
		out.Columns = append(out.Columns, c)
	}
	return out
}

// Extend returns a copy with extra columns placed before the declared ones.
func (s *Schema) Extend(name string, leading ...Column) *Schema {
	out := &Schema{Name: name, Version: s.Version, Description: s.Description}
	out.Columns = append(out.Columns, leading...)
	out.Columns = append(out.Columns, s.Columns...)
	return out
}

// Diff compares actual column names against the schema. Missing lists
// required schema columns that are absent, in schema order. Extra lists
// actual columns the schema does not declare, in actual order. Reordered
// lists present schema columns whose relative position differs from the
// declared order.
func (s *Schema) Diff(actual []string) wcetErrors.SchemaDiff {
	var diff wcetErrors.SchemaDiff
	present := make(map[string]bool, len(actual))
	for _, a := range actual {
		present[a] = true
	}
	declared := make(map[string]bool, len(s.Columns))
	var expectedOrder []string
	for _, c := range s.Columns {
		declared[c.Name] = true
		if present[c.Name] {
			expectedOrder = append(expectedOrder, c.Name)
		} else if !c.Optional {
			diff.Missing = append(diff.Missing, c.Name)
		}
	}
	var actualOrder []string
	for _, a := range actual {
		if declared[a] {
			actualOrder = append(actualOrder, a)
		} else {
			diff.Extra = append(diff.Extra, a)
		}
	}
	for i := range expectedOrder {
		if i >= len(actualOrder) {
			break
		}
		if expectedOrder[i] != actualOrder[i] {
			diff.Reordered = append(diff.Reordered, actualOrder[i])
		}
	}
	return diff
}

// Require returns a SchemaMismatchError when required columns are missing.
// Extra and reordered columns are tolerated.
func (s *Schema) Require(actual []string) (wcetErrors.SchemaDiff, error) {
	diff := s.Diff(actual)
	if len(diff.Missing) > 0 {
		return diff, &wcetErrors.SchemaMismatchError{Schema: s.ID(), Diff: diff}
	}
	return diff, nil
}

// Upload returns the schema an uploaded metrics file is checked against: the
// WCET features, with loopQty optional, preceded by the optional identifier
// and ground-truth columns.
func Upload() *Schema {
	return WCETFeatures().WithOptional("loopQty").Extend("wcet-upload",
		Column{Name: "file", Type: TypeString, Role: RoleIdentifier, Optional: true},
		Column{Name: "class", Type: TypeString, Role: RoleIdentifier, Optional: true},
		Column{Name: "type", Type: TypeString, Role: RoleIdentifier, Optional: true},
		Column{Name: "WCET", Type: TypeFloat, Role: RoleTarget, Optional: true},
	)
}
