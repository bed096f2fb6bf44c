// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Model      ModelConfig      `mapstructure:"model"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Checklist  ChecklistConfig  `mapstructure:"checklist"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig configures the S3 blob store.
type StorageConfig struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"` // optional, for minio/localstack
}

// ModelConfig configures the external vision-language model.
type ModelConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// ProcessingConfig holds the pipeline thresholds and intake limits.
type ProcessingConfig struct {
	// ClassificationThreshold is the minimum classification confidence for
	// extraction to run; below it the document completes without extraction.
	ClassificationThreshold float64 `mapstructure:"classification_threshold"`
	// ExtractionThreshold is the per-field confidence floor for a required
	// field to earn full completeness credit.
	ExtractionThreshold float64 `mapstructure:"extraction_threshold"`
	// MaxUploadBytes caps document uploads.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
	// LockTTLSeconds bounds how long a per-document processing lock is held.
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds"`
	// QueueName is the redis list the processing consumer reads from.
	QueueName string `mapstructure:"queue_name"`
}

// ChecklistConfig mirrors checklist.Config for file/env configuration.
type ChecklistConfig struct {
	MinIdentityDocuments   int     `mapstructure:"min_identity_documents"`
	IdentityConfidence     float64 `mapstructure:"identity_confidence"`
	IncomeMonths           int     `mapstructure:"income_months"`
	BankStatementMonths    int     `mapstructure:"bank_statement_months"`
	CompletenessThreshold  int     `mapstructure:"completeness_threshold"`
	BankCompleteness       int     `mapstructure:"bank_completeness"`
	ProofOfAddressMaxDays  int     `mapstructure:"proof_of_address_max_days"`
	WelfareBenefitRequired bool    `mapstructure:"welfare_benefit_required"`
	TenancyRequired        bool    `mapstructure:"tenancy_required"`
}

// NotifyConfig configures status-change emails.
type NotifyConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	FromEmail string `mapstructure:"from_email"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
