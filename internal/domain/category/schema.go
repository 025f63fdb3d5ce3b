package category

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	Passing       = "passing"
	Rushing       = "rushing"
	Receiving     = "receiving"
	Fumbles       = "fumbles"
	Defensive     = "defensive"
	Interceptions = "interceptions"
	KickReturns   = "kickReturns"
	PuntReturns   = "puntReturns"
	Kicking       = "kicking"
	Punting       = "punting"
	Scoring       = "scoring"
)

//go:embed schema.yaml
var schemaYAML []byte

// Fields maps a canonical field name to an int64, float64 or string value.
type Fields map[string]any

// Stats maps a canonical category name to its fields.
type Stats map[string]Fields

// Schema is the set of categories and per-field defaults every player and
// team must carry.
type Schema struct {
	Version    int
	categories map[string]Fields
}

type schemaFile struct {
	Version     int                       `yaml:"schema_version"`
	Categories  map[string]map[string]any `yaml:"categories"`
	Synthesized map[string]map[string]any `yaml:"synthesized"`
}

var (
	loadOnce    sync.Once
	defaultSch  Schema
	scoringSch  Schema
	errLoadOnce error
)

func load() {
	defaultSch, scoringSch, errLoadOnce = ParseSchema(schemaYAML)
}

// ParseSchema decodes a schema document into the static and synthesized parts.
func ParseSchema(raw []byte) (Schema, Schema, error) {
	var doc schemaFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Schema{}, Schema{}, fmt.Errorf("decode category schema: %w", err)
	}
	if doc.Version <= 0 {
		return Schema{}, Schema{}, fmt.Errorf("category schema_version must be > 0")
	}
	if len(doc.Categories) == 0 {
		return Schema{}, Schema{}, fmt.Errorf("category schema has no categories")
	}

	static, err := schemaFrom(doc.Version, doc.Categories)
	if err != nil {
		return Schema{}, Schema{}, err
	}
	synth, err := schemaFrom(doc.Version, doc.Synthesized)
	if err != nil {
		return Schema{}, Schema{}, err
	}
	return static, synth, nil
}

func schemaFrom(version int, raw map[string]map[string]any) (Schema, error) {
	out := Schema{Version: version, categories: make(map[string]Fields, len(raw))}
	for name, fields := range raw {
		defaults := make(Fields, len(fields))
		for field, value := range fields {
			switch v := value.(type) {
			case string:
				defaults[field] = v
			case int:
				defaults[field] = int64(v)
			default:
				return Schema{}, fmt.Errorf("category %s field %s: unsupported default %T", name, field, value)
			}
		}
		out.categories[name] = defaults
	}
	return out, nil
}

func mustLoad() {
	loadOnce.Do(load)
	if errLoadOnce != nil {
		panic(errLoadOnce)
	}
}

// Default returns the embedded static schema (the ten boxscore categories).
func Default() Schema {
	mustLoad()
	return defaultSch.Clone()
}

// ScoringSchema returns the schema of the synthesized categories.
func ScoringSchema() Schema {
	mustLoad()
	return scoringSch.Clone()
}

// Clone returns a deep copy safe to extend.
func (s Schema) Clone() Schema {
	out := Schema{Version: s.Version, categories: make(map[string]Fields, len(s.categories))}
	for name, fields := range s.categories {
		out.categories[name] = fields.Clone()
	}
	return out
}

// Categories lists category names in sorted order.
func (s Schema) Categories() []string {
	names := make([]string, 0, len(s.categories))
	for name := range s.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns a fresh copy of the category's default fields.
func (s Schema) Defaults(name string) Fields {
	return s.categories[name].Clone()
}

func (s Schema) Has(name string) bool {
	_, ok := s.categories[name]
	return ok
}

// Union merges other into s. Existing defaults win.
func (s Schema) Union(other Schema) Schema {
	out := s.Clone()
	for name, fields := range other.categories {
		for field, value := range fields {
			out.observe(name, field, value)
		}
	}
	return out
}

// Observe registers a field seen in a document. Unknown fields default to 0.
func (s Schema) Observe(name, field string) {
	s.observe(name, field, int64(0))
}

func (s Schema) observe(name, field string, value any) {
	fields, ok := s.categories[name]
	if !ok {
		fields = make(Fields)
		s.categories[name] = fields
	}
	if _, ok := fields[field]; !ok {
		fields[field] = value
	}
}

// Blank returns every category of the schema at its defaults.
func (s Schema) Blank() Stats {
	out := make(Stats, len(s.categories))
	for name := range s.categories {
		out[name] = s.Defaults(name)
	}
	return out
}

// Fill sets every missing category and field of stats to its default. Present
// values are never touched. It reports whether anything was added.
func (s Schema) Fill(stats Stats) bool {
	changed := false
	for name, defaults := range s.categories {
		fields, ok := stats[name]
		if !ok || fields == nil {
			fields = make(Fields, len(defaults))
			stats[name] = fields
			changed = true
		}
		for field, value := range defaults {
			if _, ok := fields[field]; !ok {
				fields[field] = value
				changed = true
			}
		}
	}
	return changed
}

func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func (s Stats) Clone() Stats {
	if s == nil {
		return nil
	}
	out := make(Stats, len(s))
	for k, v := range s {
		out[k] = v.Clone()
	}
	return out
}

// Apply writes every field of writes into s, creating categories as needed.
func (s Stats) Apply(writes Stats) {
	for name, fields := range writes {
		target, ok := s[name]
		if !ok || target == nil {
			target = make(Fields, len(fields))
			s[name] = target
		}
		for field, value := range fields {
			target[field] = value
		}
	}
}
