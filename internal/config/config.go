package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	ServerAddress string
	Environment   string

	MongoURI      string
	MongoDatabase string
	DataDir       string

	JWTSecret     string
	JWTExpiration time.Duration
	AdminEmail    string
	AdminPassword string

	ClientOrigins []string

	UploadDir               string
	MaxUploadSizeMB         int64
	FirebaseBucket          string
	FirebaseCredentialsJSON string

	SendGridAPIKey  string
	NotifyFromEmail string
	NotifyToEmail   string
	RecaptchaSecret string

	RateLimitRequests        int
	RateLimitWindow          time.Duration
	MessageRateLimitRequests int
	MessageRateLimitWindow   time.Duration
	TrustProxy               bool

	StaticDir string
}

// Load reads the environment, after an optional .env file in the working
// directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddress: serverAddress(),
		Environment:   strings.ToLower(getEnv("APP_ENV", "development")),

		MongoURI:      getEnv("MONGODB_URI", ""),
		MongoDatabase: getEnv("MONGODB_DATABASE", "portfolio"),
		DataDir:       getEnv("DATA_DIR", "./data"),

		JWTSecret:     getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiration: parseDuration(getEnv("JWT_EXPIRATION", "7d"), 7*24*time.Hour),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		ClientOrigins: splitCSV(getEnv("CLIENT_URL", "http://localhost:5173")),

		UploadDir:               getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSizeMB:         int64(parsePositiveInt(getEnv("MAX_UPLOAD_SIZE_MB", ""), 5)),
		FirebaseBucket:          getEnv("FIREBASE_STORAGE_BUCKET", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),

		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		NotifyFromEmail: getEnv("NOTIFY_FROM_EMAIL", ""),
		NotifyToEmail:   getEnv("NOTIFY_TO_EMAIL", ""),
		RecaptchaSecret: getEnv("RECAPTCHA_SECRET", ""),

		RateLimitRequests:        parsePositiveInt(getEnv("RATE_LIMIT_REQUESTS", ""), 100),
		RateLimitWindow:          parseDuration(getEnv("RATE_LIMIT_WINDOW", ""), 15*time.Minute),
		MessageRateLimitRequests: parsePositiveInt(getEnv("MESSAGE_RATE_LIMIT_REQUESTS", ""), 5),
		MessageRateLimitWindow:   parseDuration(getEnv("MESSAGE_RATE_LIMIT_WINDOW", ""), time.Hour),
		TrustProxy:               parseBool(getEnv("TRUST_PROXY", ""), false),

		StaticDir: getEnv("STATIC_DIR", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) UseMongo() bool {
	return c.MongoURI != ""
}

func (c *Config) UseFirebaseStorage() bool {
	return c.FirebaseBucket != ""
}

// Validate rejects settings the server must not start with.
func (c *Config) Validate() error {
	var errs []error
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	if c.AdminPassword != "" && len(c.AdminPassword) < 6 {
		errs = append(errs, errors.New("ADMIN_PASSWORD must be at least 6 characters"))
	}
	if c.IsProduction() && !c.UseMongo() && c.DataDir == "" {
		errs = append(errs, errors.New("MONGODB_URI or DATA_DIR is required in production"))
	}
	return errors.Join(errs...)
}

func (c *Config) String() string {
	store := "file:" + c.DataDir
	if c.UseMongo() {
		store = "mongo:" + c.MongoDatabase
	}
	return fmt.Sprintf("env=%s addr=%s store=%s origins=%v", c.Environment, c.ServerAddress, store, c.ClientOrigins)
}

// serverAddress honours PORT the way hosting platforms set it.
func serverAddress() string {
	if addr := getEnv("SERVER_ADDRESS", ""); addr != "" {
		return addr
	}
	if port := getEnv("PORT", ""); port != "" {
		return ":" + port
	}
	return ":5000"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimRight(strings.TrimSpace(part), "/")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parsePositiveInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseBool(value string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return b
}

// parseDuration accepts Go durations plus a whole-day form such as "7d".
func parseDuration(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return fallback
		}
		return time.Duration(n) * 24 * time.Hour
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
