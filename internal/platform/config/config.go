package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Inactivity logout
	SessionIdleTimeout   time.Duration
	SessionWarningBefore time.Duration

	PasswordResetExpiry time.Duration

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// Avatar blob store
	StorageEndpoint  string
	StorageProjectID string
	AvatarBucket     string

	AuthRateLimit string
	APIRateLimit  string

	PosthogAPIKey   string
	PosthogEndpoint string

	GoalCacheSize int
	DueSoonDays   int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "finance-tracker")
	viper.SetDefault("SESSION_IDLE_TIMEOUT", "2m")
	viper.SetDefault("SESSION_WARNING_BEFORE", "1m")
	viper.SetDefault("PASSWORD_RESET_EXPIRY", "1h")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:5173")
	viper.SetDefault("STORAGE_ENDPOINT", "https://storage.googleapis.com")
	viper.SetDefault("STORAGE_PROJECT_ID", "")
	viper.SetDefault("AVATAR_BUCKET", "avatars")
	viper.SetDefault("AUTH_RATE_LIMIT", "5-M")
	viper.SetDefault("API_RATE_LIMIT", "100-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("GOAL_CACHE_SIZE", 1024)
	viper.SetDefault("DUE_SOON_DAYS", 7)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", 24*time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "finance-tracker"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.SessionIdleTimeout = durationOrDefault("SESSION_IDLE_TIMEOUT", 2*time.Minute)
	cfg.SessionWarningBefore = durationOrDefault("SESSION_WARNING_BEFORE", time.Minute)
	if cfg.SessionWarningBefore >= cfg.SessionIdleTimeout {
		log.Printf("Warning: SESSION_WARNING_BEFORE (%s) must be shorter than SESSION_IDLE_TIMEOUT (%s). Warning disabled.\n",
			cfg.SessionWarningBefore, cfg.SessionIdleTimeout)
		cfg.SessionWarningBefore = 0
	}
	cfg.PasswordResetExpiry = durationOrDefault("PASSWORD_RESET_EXPIRY", time.Hour)

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		log.Println("Warning: Google OAuth is not fully configured. Google sign-in will not function.")
	}

	cfg.StorageEndpoint = viper.GetString("STORAGE_ENDPOINT")
	cfg.StorageProjectID = viper.GetString("STORAGE_PROJECT_ID")
	cfg.AvatarBucket = viper.GetString("AVATAR_BUCKET")
	if cfg.StorageProjectID == "" {
		log.Println("Warning: STORAGE_PROJECT_ID not set. Avatar uploads will fail.")
	}

	cfg.AuthRateLimit = viper.GetString("AUTH_RATE_LIMIT")
	cfg.APIRateLimit = viper.GetString("API_RATE_LIMIT")

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	cfg.GoalCacheSize = viper.GetInt("GOAL_CACHE_SIZE")
	if cfg.GoalCacheSize <= 0 {
		cfg.GoalCacheSize = 1024
	}
	cfg.DueSoonDays = viper.GetInt("DUE_SOON_DAYS")
	if cfg.DueSoonDays < 0 {
		log.Printf("Warning: DUE_SOON_DAYS must not be negative. Defaulting to 7.\n")
		cfg.DueSoonDays = 7
	}

	return cfg, nil
}

// durationOrDefault parses key as a time.Duration (e.g., "60m", "1h"), falling back to def.
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}
