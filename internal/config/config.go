package config

import (
	"os"
	"strconv"
)

type InsuranceServiceConfig struct {
	Port        string
	AdminID     string
	ChainCfg    ChainConfig
	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	RabbitMQCfg RabbitMQConfig
}

// ChainConfig maps wall-clock time onto the monotonic block index all
// policies, observations, and claims are ordered by.
type ChainConfig struct {
	EpochUnix       int64
	BlockPeriodSecs int64
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

func New() *InsuranceServiceConfig {
	return &InsuranceServiceConfig{
		Port:    getEnvOrDefault("PORT", "8086"),
		AdminID: getEnvOrDefault("ADMIN_ID", "admin"),
		ChainCfg: ChainConfig{
			EpochUnix:       getEnvInt64OrDefault("CHAIN_EPOCH_UNIX", 1704067200), // 2024-01-01T00:00:00Z
			BlockPeriodSecs: getEnvInt64OrDefault("BLOCK_PERIOD_SECS", 300),
		},
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "insurance_service"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
