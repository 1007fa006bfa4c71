package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// OdooConfig holds the connection and batching parameters for the Odoo
// backend. Every field is required; a missing or malformed value is fatal at
// startup, before any RPC call is attempted.
type OdooConfig struct {
	URL      string `validate:"required,url"`
	Database string `validate:"required"`
	Username string `validate:"required"`
	Password string `validate:"required"`

	// TimeoutSeconds bounds each RPC call at the transport layer.
	TimeoutSeconds int `validate:"required,gt=0"`

	// OrderBatchSize is the page size of the order id scan.
	OrderBatchSize int `validate:"required,gt=0"`

	// ReadBatchSize bounds bulk record reads. Independent of, and typically
	// larger than, OrderBatchSize.
	ReadBatchSize int `validate:"required,gt=0"`
}

// LoadOdooConfig reads configuration from the environment, loading a .env
// file first when one is present.
func LoadOdooConfig() (*OdooConfig, error) {
	_ = godotenv.Load()

	cfg := &OdooConfig{
		URL:      os.Getenv("ODOO_URL"),
		Database: os.Getenv("ODOO_DB"),
		Username: os.Getenv("ODOO_USERNAME"),
		Password: os.Getenv("ODOO_PASSWORD"),
	}

	var err error
	if cfg.TimeoutSeconds, err = intEnv("ODOO_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.OrderBatchSize, err = intEnv("ORDER_BATCH_SIZE"); err != nil {
		return nil, err
	}
	if cfg.ReadBatchSize, err = intEnv("READ_BATCH_SIZE"); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid odoo configuration: %w", err)
	}
	return cfg, nil
}

func intEnv(key string) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
