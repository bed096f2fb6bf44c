// internal/schema/registry_test.go
package schema

import (
	"testing"

	"housing-intake/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{name: "numeric segment comparison", a: "1.2.0", b: "1.10.0", expected: -1},
		{name: "equal versions", a: "2.0.0", b: "2.0.0", expected: 0},
		{name: "missing segments are zero", a: "1.1", b: "1.1.0", expected: 0},
		{name: "major difference", a: "2.0.0", b: "1.9.9", expected: 1},
		{name: "minor difference", a: "1.0.1", b: "1.1", expected: -1},
		{name: "single segment", a: "2", b: "1.9", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompareVersions(tt.a, tt.b))
		})
	}
}

func TestRegistry_CoversEveryCategory(t *testing.T) {
	r := New()
	for _, c := range models.AllCategories {
		assert.NotNil(t, r.CurrentSchema(c), "category %s has no current schema", c)
	}
}

func TestRegistry_CurrentSchema(t *testing.T) {
	r := New()

	current := r.CurrentSchema(models.CategoryIdentity)
	require.NotNil(t, current)
	assert.Equal(t, "1.1.0", current.Version)
	assert.Contains(t, current.Fields, "nationality")

	reg := r.Registry(models.CategoryIdentity)
	assert.Equal(t, "1.1.0", reg.CurrentVersion)
	assert.Len(t, reg.Versions, 2)
}

func TestRegistry_NeedsMigration(t *testing.T) {
	r := New()

	assert.True(t, r.NeedsMigration(models.CategoryIdentity, "1.0.0"))
	assert.False(t, r.NeedsMigration(models.CategoryIdentity, "1.1.0"))
	// Equivalent spelling of the current version.
	assert.False(t, r.NeedsMigration(models.CategoryIdentity, "1.1"))
	// Never migrate down.
	assert.False(t, r.NeedsMigration(models.CategoryIdentity, "2.0.0"))
}

func TestRegistry_MigrationPath(t *testing.T) {
	r := New()

	path := r.MigrationPath(models.CategoryIdentity, "1.0.0", "1.1.0")
	require.Len(t, path, 1)
	assert.Equal(t, "1.1.0", path[0].Version)

	// from not older than to
	assert.Empty(t, r.MigrationPath(models.CategoryIdentity, "1.1.0", "1.0.0"))
	assert.Empty(t, r.MigrationPath(models.CategoryIdentity, "1.1.0", "1.1.0"))

	// unknown versions
	assert.Empty(t, r.MigrationPath(models.CategoryIdentity, "0.9.0", "1.1.0"))
	assert.Empty(t, r.MigrationPath(models.CategoryIdentity, "1.0.0", "9.9.9"))
}

func TestRegistry_ValidateAgainstSchema(t *testing.T) {
	r := New()

	tests := []struct {
		name      string
		data      map[string]interface{}
		valid     bool
		numErrors int
	}{
		{
			name: "all required present",
			data: map[string]interface{}{
				"fullName":       "Jordan Ellis",
				"dateOfBirth":    "1988-03-14",
				"documentNumber": "X1234567",
				"expiryDate":     "2030-01-01",
			},
			valid: true,
		},
		{
			name: "null counts as missing",
			data: map[string]interface{}{
				"fullName":       "Jordan Ellis",
				"dateOfBirth":    nil,
				"documentNumber": "X1234567",
				"expiryDate":     "2030-01-01",
			},
			valid:     false,
			numErrors: 1,
		},
		{
			name:      "empty data",
			data:      map[string]interface{}{},
			valid:     false,
			numErrors: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.ValidateAgainstSchema(models.CategoryIdentity, "1.0.0", tt.data)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Len(t, res.Errors, tt.numErrors)
		})
	}

	// Unknown version is invalid, not a panic.
	res := r.ValidateAgainstSchema(models.CategoryIdentity, "0.1.0", map[string]interface{}{})
	assert.False(t, res.Valid)
}
