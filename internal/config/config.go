package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Engine   EngineConfig
	Jobs     JobsConfig
	Quotes   QuotesConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// EngineConfig holds the default calculation policies. All of these can be
// overridden per request where the API allows it.
type EngineConfig struct {
	// DefaultMethod is the cost-basis accounting method used when a request
	// does not specify one: fifo, lifo, average, or specific.
	DefaultMethod string
	// OversellPolicy decides how sells exceeding available lots are handled:
	// truncate, warn, or error.
	OversellPolicy string
	// LongTermTaxRate and ShortTermTaxRate are the flat indicative rates
	// used for rebalancing tax estimates.
	LongTermTaxRate  float64
	ShortTermTaxRate float64
	// BrokerageRateBps, STTRate and GSTRate parameterize the
	// transaction-cost estimate.
	BrokerageRateBps float64
	STTRate          float64
	GSTRate          float64
	// DefaultThresholdPct is the drift threshold used by the scheduled
	// drift check.
	DefaultThresholdPct float64
}

// JobsConfig holds cron schedules for background jobs.
type JobsConfig struct {
	// QuoteRefreshSpec is the cron spec for the price refresh job; empty
	// disables the job.
	QuoteRefreshSpec string
	// DriftCheckSpec is the cron spec for the advisory drift check; empty
	// disables the job.
	DriftCheckSpec string
}

// QuotesConfig holds market-data provider configuration. The provider token
// is stored encrypted in the database; FernetKey decrypts it.
type QuotesConfig struct {
	BaseURL   string
	FernetKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/advisory.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(
				getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost"), ",",
			),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Engine: EngineConfig{
			DefaultMethod:       getEnv("COST_BASIS_METHOD", "fifo"),
			OversellPolicy:      getEnv("OVERSELL_POLICY", "truncate"),
			LongTermTaxRate:     getEnvFloat("LTCG_TAX_RATE", 0.10),
			ShortTermTaxRate:    getEnvFloat("STCG_TAX_RATE", 0.15),
			BrokerageRateBps:    getEnvFloat("BROKERAGE_RATE_BPS", 3),
			STTRate:             getEnvFloat("STT_RATE", 0.001),
			GSTRate:             getEnvFloat("GST_RATE", 0.18),
			DefaultThresholdPct: getEnvFloat("DRIFT_THRESHOLD_PCT", 5),
		},
		Jobs: JobsConfig{
			QuoteRefreshSpec: getEnv("QUOTE_REFRESH_CRON", "30 18 * * *"),
			DriftCheckSpec:   getEnv("DRIFT_CHECK_CRON", "0 * * * *"),
		},
		Quotes: QuotesConfig{
			BaseURL:   getEnv("QUOTES_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			FernetKey: getEnv("FERNET_KEY", ""),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvFloat gets a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
