package config

import (
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string // postgres or memory
	RunMigrations  bool
	MigrationsPath string
	DBMaxConns     int32

	JWTSecret string
	JWTIssuer string

	LogLevel slog.Level

	BusinessLocation   *time.Location
	InvoicePrefix      string
	SequenceMaxRepairs int

	RedisAddr      string // Empty disables the subject lock
	SubjectLockTTL time.Duration

	RateLimit          string // ulule format, e.g. 100-M
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "workshop-inventory")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BUSINESS_TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("INVOICE_PREFIX", "INV")
	viper.SetDefault("SEQUENCE_MAX_REPAIRS", 5)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("SUBJECT_LOCK_TTL", "10s")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")

	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageDriverMemory:
		log.Println("Warning: STORAGE_DRIVER=memory, data is lost on restart.")
	default:
		log.Printf("Warning: Unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StorageDriverPostgres)
		cfg.StorageDriver = StorageDriverPostgres
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	if err := cfg.LogLevel.UnmarshalText([]byte(viper.GetString("LOG_LEVEL"))); err != nil {
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", viper.GetString("LOG_LEVEL"))
		cfg.LogLevel = slog.LevelInfo
	}

	tz := viper.GetString("BUSINESS_TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: Invalid value for BUSINESS_TIMEZONE ('%s'). Falling back to UTC+7.\n", tz)
		loc = time.FixedZone("WIB", 7*60*60)
	}
	cfg.BusinessLocation = loc

	cfg.InvoicePrefix = strings.ToUpper(strings.TrimSpace(viper.GetString("INVOICE_PREFIX")))
	if cfg.InvoicePrefix == "" {
		cfg.InvoicePrefix = "INV"
	}

	cfg.SequenceMaxRepairs = viper.GetInt("SEQUENCE_MAX_REPAIRS")
	if cfg.SequenceMaxRepairs < 1 {
		log.Printf("Warning: SEQUENCE_MAX_REPAIRS must be positive. Defaulting to 5.\n")
		cfg.SequenceMaxRepairs = 5
	}

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	lockTTLStr := viper.GetString("SUBJECT_LOCK_TTL")
	cfg.SubjectLockTTL, err = time.ParseDuration(lockTTLStr)
	if err != nil || cfg.SubjectLockTTL <= 0 {
		cfg.SubjectLockTTL = 10 * time.Second
		log.Printf("Warning: Invalid value for SUBJECT_LOCK_TTL ('%s'). Defaulting to %s.\n", lockTTLStr, cfg.SubjectLockTTL)
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
