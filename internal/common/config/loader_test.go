// internal/common/config/loader_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "housing-intake", cfg.App.Name)
	assert.Equal(t, 9090, cfg.App.MetricsPort)
	assert.Equal(t, "localhost", cfg.Database.Postgres.Host)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "localhost:6379", cfg.Database.Redis.Address)
	assert.Equal(t, 0.6, cfg.Processing.ClassificationThreshold)
	assert.Equal(t, 0.6, cfg.Processing.ExtractionThreshold)
	assert.Equal(t, int64(25<<20), cfg.Processing.MaxUploadBytes)
	assert.Equal(t, 300, cfg.Processing.LockTTLSeconds)
	assert.Equal(t, "intake:process", cfg.Processing.QueueName)
	assert.Equal(t, 3, cfg.Checklist.IncomeMonths)
	assert.Equal(t, 90, cfg.Checklist.ProofOfAddressMaxDays)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Processing.ClassificationThreshold = 0.8
	cfg.Checklist.IncomeMonths = 6
	applyDefaults(cfg)

	assert.Equal(t, 0.8, cfg.Processing.ClassificationThreshold)
	assert.Equal(t, 6, cfg.Checklist.IncomeMonths)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Storage.Bucket = "intake-docs"
		cfg.Model.BaseURL = "https://api.example.com/v1"
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config passes",
			mutate: func(*Config) {},
		},
		{
			name:    "missing bucket",
			mutate:  func(c *Config) { c.Storage.Bucket = "" },
			wantErr: "storage.bucket",
		},
		{
			name:    "missing model url",
			mutate:  func(c *Config) { c.Model.BaseURL = "" },
			wantErr: "model.base_url",
		},
		{
			name:    "classification threshold out of range",
			mutate:  func(c *Config) { c.Processing.ClassificationThreshold = 1.5 },
			wantErr: "classification_threshold",
		},
		{
			name:    "notify enabled without sender",
			mutate:  func(c *Config) { c.Notify.Enabled = true },
			wantErr: "notify.from_email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5432, User: "intake", Password: "secret",
		Database: "housing", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=intake password=secret dbname=housing sslmode=disable",
		p.GetDSN())
}
