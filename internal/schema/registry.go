// internal/schema/registry.go
package schema

import (
	"fmt"

	"housing-intake/internal/models"
)

// FieldSpec describes one expected structured field for a category.
type FieldSpec struct {
	Type        string `json:"type"` // string | number | boolean | date
	Description string `json:"description,omitempty"`
}

// SchemaVersion is one versioned field schema for a document category.
type SchemaVersion struct {
	Version  string               `json:"version"`
	Fields   map[string]FieldSpec `json:"fields"`
	Required []string             `json:"required"`
}

// Registry holds the closed, hand-maintained schema history per category.
// It is read-only at runtime; the version slices are ordered oldest first.
type Registry struct {
	schemas map[models.Category][]SchemaVersion
}

// CategoryRegistry is the full version history for one category.
type CategoryRegistry struct {
	CurrentVersion string          `json:"currentVersion"`
	Versions       []SchemaVersion `json:"versions"`
}

// ValidationResult reports required-field presence for a data map.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// New returns the registry seeded with the built-in schemas. It panics if the
// built-in table does not cover every category, so a missing enum member is a
// startup error rather than a runtime nil.
func New() *Registry {
	r := &Registry{schemas: builtinSchemas()}
	for _, c := range models.AllCategories {
		if _, ok := r.schemas[c]; !ok {
			panic(fmt.Sprintf("schema registry missing category %q", c))
		}
	}
	return r
}

// CurrentSchema returns the latest schema version for a category, or nil if
// the category has no published versions.
func (r *Registry) CurrentSchema(category models.Category) *SchemaVersion {
	versions := r.schemas[category]
	if len(versions) == 0 {
		return nil
	}
	v := versions[len(versions)-1]
	return &v
}

// SchemaVersion returns a specific schema version for a category, or nil.
func (r *Registry) SchemaVersion(category models.Category, version string) *SchemaVersion {
	for _, v := range r.schemas[category] {
		if v.Version == version {
			copied := v
			return &copied
		}
	}
	return nil
}

// Registry returns the full version history for a category.
func (r *Registry) Registry(category models.Category) CategoryRegistry {
	versions := r.schemas[category]
	current := ""
	if len(versions) > 0 {
		current = versions[len(versions)-1].Version
	}
	out := make([]SchemaVersion, len(versions))
	copy(out, versions)
	return CategoryRegistry{CurrentVersion: current, Versions: out}
}

// NeedsMigration reports whether data extracted under extractedVersion is
// older than the category's current schema.
func (r *Registry) NeedsMigration(category models.Category, extractedVersion string) bool {
	current := r.CurrentSchema(category)
	if current == nil {
		return false
	}
	return CompareVersions(extractedVersion, current.Version) < 0
}

// MigrationPath returns the ordered versions strictly after from, up to and
// including to. Empty if from is not older than to or either is unknown.
func (r *Registry) MigrationPath(category models.Category, from, to string) []SchemaVersion {
	if r.SchemaVersion(category, from) == nil || r.SchemaVersion(category, to) == nil {
		return nil
	}
	if CompareVersions(from, to) >= 0 {
		return nil
	}
	var path []SchemaVersion
	for _, v := range r.schemas[category] {
		if CompareVersions(v.Version, from) > 0 && CompareVersions(v.Version, to) <= 0 {
			path = append(path, v)
		}
	}
	return path
}

// ValidateAgainstSchema checks required-field presence (non-null values) of
// data against the named schema version.
func (r *Registry) ValidateAgainstSchema(category models.Category, version string, data map[string]interface{}) ValidationResult {
	sv := r.SchemaVersion(category, version)
	if sv == nil {
		return ValidationResult{Valid: false, Errors: []string{fmt.Sprintf("unknown schema version %q for category %q", version, category)}}
	}
	var errs []string
	for _, name := range sv.Required {
		v, ok := data[name]
		if !ok || v == nil {
			errs = append(errs, fmt.Sprintf("required field %q is missing", name))
		}
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
