package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Invoicing InvoicingConfig `yaml:"invoicing"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	InvoiceEventsTopic string   `yaml:"invoice_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type InvoicingConfig struct {
	RetryAttempts      int          `yaml:"retry_attempts"`
	TxTimeoutSeconds   int          `yaml:"tx_timeout_seconds"`
	MasterCacheSeconds int          `yaml:"master_cache_ttl_seconds"`
	Companies          []SeriesRule `yaml:"companies"`
}

// SeriesRule defines the numbering series for one billing entity. The first
// rule is the primary entity and the fallback when no Match applies; Match is
// compared as a case-insensitive substring of the company display name.
type SeriesRule struct {
	Match        string `yaml:"match"`
	GSTPrefix    string `yaml:"gst_prefix"`
	GSTStart     int    `yaml:"gst_start"`
	NonGSTPrefix string `yaml:"non_gst_prefix"`
	NonGSTStart  int    `yaml:"non_gst_start"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Invoicing.RetryAttempts <= 0 {
		cfg.Invoicing.RetryAttempts = 3
	}
	if cfg.Invoicing.TxTimeoutSeconds <= 0 {
		cfg.Invoicing.TxTimeoutSeconds = 30
	}

	return &cfg, nil
}
