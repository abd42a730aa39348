package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// MatchingConfig holds the tunable knobs of candidate scoring and auto-match
// acceptance. The threshold and margin defaults are plausible starting points,
// not confirmed business tolerances, which is why they live in configuration.
type MatchingConfig struct {
	AmountEpsilon       decimal.Decimal // amounts within this band still count as a match
	DateWindowDays      int             // candidates searched within +/- this many days
	InexactPenalty      float64         // confidence deduction for an amount that is close but not exact
	AcceptThreshold     float64         // auto-accept floor for the top candidate
	AmbiguityMargin     float64         // runner-up within this margin leaves the line for manual review
	MaxAdjustmentAmount decimal.Decimal
}

// ReopenWindows holds the role-dependent maximum reopen durations.
type ReopenWindows struct {
	AccountantDays int
	ControllerDays int
	CFODays        int
}

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTIssuer         string
	JWTExpiryDuration time.Duration

	CORSAllowedOrigins []string
	RateLimit          string // ulule/limiter formatted, e.g. "100-M"
	PosthogAPIKey      string
	PosthogEndpoint    string

	AutoMatchQueueSize int

	Matching MatchingConfig
	Reopen   ReopenWindows
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "bank-reconciliation-app")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("AUTO_MATCH_QUEUE_SIZE", 64)

	viper.SetDefault("MATCH_AMOUNT_EPSILON", "0.01")
	viper.SetDefault("MATCH_DATE_WINDOW_DAYS", 5)
	viper.SetDefault("MATCH_INEXACT_AMOUNT_PENALTY", 0.1)
	viper.SetDefault("AUTO_ACCEPT_THRESHOLD", 0.9)
	viper.SetDefault("AUTO_MATCH_AMBIGUITY_MARGIN", 0.05)
	viper.SetDefault("MAX_ADJUSTMENT_AMOUNT", "999999999.99")

	viper.SetDefault("REOPEN_MAX_DAYS_ACCOUNTANT", 7)
	viper.SetDefault("REOPEN_MAX_DAYS_CONTROLLER", 30)
	viper.SetDefault("REOPEN_MAX_DAYS_CFO", 90)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")
	cfg.AutoMatchQueueSize = viper.GetInt("AUTO_MATCH_QUEUE_SIZE")

	cfg.Matching = MatchingConfig{
		AmountEpsilon:       mustDecimal("MATCH_AMOUNT_EPSILON", "0.01"),
		DateWindowDays:      viper.GetInt("MATCH_DATE_WINDOW_DAYS"),
		InexactPenalty:      viper.GetFloat64("MATCH_INEXACT_AMOUNT_PENALTY"),
		AcceptThreshold:     viper.GetFloat64("AUTO_ACCEPT_THRESHOLD"),
		AmbiguityMargin:     viper.GetFloat64("AUTO_MATCH_AMBIGUITY_MARGIN"),
		MaxAdjustmentAmount: mustDecimal("MAX_ADJUSTMENT_AMOUNT", "999999999.99"),
	}

	cfg.Reopen = ReopenWindows{
		AccountantDays: viper.GetInt("REOPEN_MAX_DAYS_ACCOUNTANT"),
		ControllerDays: viper.GetInt("REOPEN_MAX_DAYS_CONTROLLER"),
		CFODays:        viper.GetInt("REOPEN_MAX_DAYS_CFO"),
	}

	return cfg, nil
}

// mustDecimal parses a decimal config value, falling back on parse failure.
func mustDecimal(key, fallback string) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s (%q). Defaulting to %s.\n", key, raw, fallback)
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}

// DefaultMatchingConfig returns the matching knobs with their shipped defaults.
// Used by tests and as a fallback when no configuration is loaded.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		AmountEpsilon:       decimal.RequireFromString("0.01"),
		DateWindowDays:      5,
		InexactPenalty:      0.1,
		AcceptThreshold:     0.9,
		AmbiguityMargin:     0.05,
		MaxAdjustmentAmount: decimal.RequireFromString("999999999.99"),
	}
}

// DefaultReopenWindows returns the role-bounded reopen windows with their
// shipped defaults.
func DefaultReopenWindows() ReopenWindows {
	return ReopenWindows{AccountantDays: 7, ControllerDays: 30, CFODays: 90}
}
