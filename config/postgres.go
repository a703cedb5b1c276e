package config

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// PostgresConfig defines the optional database sink for selected bars.
type PostgresConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Parameter Store names used for credentials when env is "prod".
const (
	ssmDBHost     = "GAPFADE_DB_HOST"
	ssmDBUser     = "GAPFADE_DB_USER"
	ssmDBPassword = "GAPFADE_DB_PASSWORD"
)

// DSN builds the connection string for dbName. In prod the host and
// credentials come from AWS SSM Parameter Store; a parameter that cannot be
// read falls back to the configured value.
func (cfg *PostgresConfig) DSN(env, dbName string) string {
	host, user, password := cfg.Host, cfg.User, cfg.Password

	if env == "prod" {
		host = getParameterStoreValue(ssmDBHost, true, host)
		user = getParameterStoreValue(ssmDBUser, true, user)
		password = getParameterStoreValue(ssmDBPassword, true, password)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, cfg.Port, user, password, dbName, cfg.SSLMode,
	)

	if cfg.TimeZone != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", cfg.TimeZone)
	}

	return dsn
}

func getParameterStoreValue(parameterName string, decrypt bool, fallback string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fallback
	}

	client := ssm.NewFromConfig(cfg)

	input := &ssm.GetParameterInput{
		Name:           &parameterName,
		WithDecryption: &decrypt,
	}

	result, err := client.GetParameter(ctx, input)
	if err != nil {
		return fallback
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return fallback
	}

	return *result.Parameter.Value
}
