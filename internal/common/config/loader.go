// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_POSTGRES_PASSWORD.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, e.g. config.production.yaml.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "housing-intake"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.App.MetricsPort == 0 {
		cfg.App.MetricsPort = 9090
	}
	if cfg.Database.Postgres.Host == "" {
		cfg.Database.Postgres.Host = "localhost"
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 20
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}
	if cfg.Model.Model == "" {
		cfg.Model.Model = "gpt-4o-mini"
	}
	if cfg.Model.TimeoutSeconds == 0 {
		cfg.Model.TimeoutSeconds = 60
	}
	if cfg.Processing.ClassificationThreshold == 0 {
		cfg.Processing.ClassificationThreshold = 0.6
	}
	if cfg.Processing.ExtractionThreshold == 0 {
		cfg.Processing.ExtractionThreshold = 0.6
	}
	if cfg.Processing.MaxUploadBytes == 0 {
		cfg.Processing.MaxUploadBytes = 25 << 20 // 25 MiB
	}
	if cfg.Processing.LockTTLSeconds == 0 {
		cfg.Processing.LockTTLSeconds = 300
	}
	if cfg.Processing.QueueName == "" {
		cfg.Processing.QueueName = "intake:process"
	}
	if cfg.Checklist.MinIdentityDocuments == 0 {
		cfg.Checklist.MinIdentityDocuments = 1
	}
	if cfg.Checklist.IdentityConfidence == 0 {
		cfg.Checklist.IdentityConfidence = 0.7
	}
	if cfg.Checklist.IncomeMonths == 0 {
		cfg.Checklist.IncomeMonths = 3
	}
	if cfg.Checklist.BankStatementMonths == 0 {
		cfg.Checklist.BankStatementMonths = 3
	}
	if cfg.Checklist.CompletenessThreshold == 0 {
		cfg.Checklist.CompletenessThreshold = 70
	}
	if cfg.Checklist.BankCompleteness == 0 {
		cfg.Checklist.BankCompleteness = 60
	}
	if cfg.Checklist.ProofOfAddressMaxDays == 0 {
		cfg.Checklist.ProofOfAddressMaxDays = 90
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if cfg.Model.BaseURL == "" {
		return fmt.Errorf("model.base_url is required")
	}
	if cfg.Processing.ClassificationThreshold < 0 || cfg.Processing.ClassificationThreshold > 1 {
		return fmt.Errorf("processing.classification_threshold must be in [0,1]")
	}
	if cfg.Processing.ExtractionThreshold < 0 || cfg.Processing.ExtractionThreshold > 1 {
		return fmt.Errorf("processing.extraction_threshold must be in [0,1]")
	}
	if cfg.Notify.Enabled && cfg.Notify.FromEmail == "" {
		return fmt.Errorf("notify.from_email is required when notifications are enabled")
	}
	return nil
}
