package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendRTDB      = "rtdb"

	StorageMemory   = "memory"
	StorageFirebase = "firebase"
	StorageS3       = "s3"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Firebase  FirebaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Images    ImageConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
	App       AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// DatabaseConfig points at the Postgres instance holding the report archive.
// An empty DSN disables the archive.
type DatabaseConfig struct {
	DSN string
}

type FirebaseConfig struct {
	Backend         string
	CredentialsPath string
	ProjectID       string
	PrivateKeyID    string
	PrivateKey      string
	ClientEmail     string
	ClientID        string
	DatabaseURL     string
	StorageBucket   string
}

// HasCredentials reports whether either a credentials file or an inline
// service account is configured.
func (f FirebaseConfig) HasCredentials() bool {
	if f.CredentialsPath != "" {
		return true
	}
	return f.ProjectID != "" && f.PrivateKey != "" && f.ClientEmail != ""
}

type RedisConfig struct {
	URL      string
	Addr     string
	Password string
	StatsTTL time.Duration
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Addr != ""
}

type StorageConfig struct {
	Backend       string
	S3Bucket      string
	S3Endpoint    string
	S3Region      string
	S3AccessKeyID string
	S3SecretKey   string
	PublicURL     string
}

type ImageConfig struct {
	MaxCount     int
	MaxBytes     int64
	AllowedTypes []string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type JobsConfig struct {
	StatisticsSpec string
}

type AppConfig struct {
	Environment       string
	LogLevel          string
	Version           string
	ExposeErrors      bool
	SpeciesCollection string
	UsersCollection   string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:4200"}),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Firebase: FirebaseConfig{
			Backend:         strings.ToLower(getEnv("DOCSTORE_BACKEND", BackendMemory)),
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			PrivateKeyID:    getEnv("FIREBASE_PRIVATE_KEY_ID", ""),
			PrivateKey:      getEnv("FIREBASE_PRIVATE_KEY", ""),
			ClientEmail:     getEnv("FIREBASE_CLIENT_EMAIL", ""),
			ClientID:        getEnv("FIREBASE_CLIENT_ID", ""),
			DatabaseURL:     getEnv("FIREBASE_DATABASE_URL", ""),
			StorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			StatsTTL: getEnvAsDuration("STATS_CACHE_TTL", 5*time.Minute),
		},
		Storage: StorageConfig{
			Backend:       strings.ToLower(getEnv("BLOBSTORE_BACKEND", StorageMemory)),
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3Endpoint:    getEnv("S3_ENDPOINT", ""),
			S3Region:      getEnv("S3_REGION", "us-east-1"),
			S3AccessKeyID: getEnv("S3_ACCESS_KEY_ID", ""),
			S3SecretKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),
			PublicURL:     getEnv("BLOBSTORE_PUBLIC_URL", ""),
		},
		Images: ImageConfig{
			MaxCount:     getEnvAsInt("IMAGES_MAX_COUNT", 5),
			MaxBytes:     int64(getEnvAsInt("IMAGES_MAX_BYTES", 5<<20)),
			AllowedTypes: getEnvAsList("IMAGES_ALLOWED_TYPES", []string{"image/jpeg", "image/png", "image/webp"}),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
			Burst: getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Jobs: JobsConfig{
			StatisticsSpec: getEnv("JOBS_STATISTICS_SPEC", "0 0 2 * * *"),
		},
		App: AppConfig{
			Environment:       env,
			LogLevel:          getEnv("LOG_LEVEL", "info"),
			Version:           getEnv("APP_VERSION", "1.0.0"),
			ExposeErrors:      getEnvAsBool("APP_DEBUG", env != "production"),
			SpeciesCollection: getEnv("SPECIES_COLLECTION", "species"),
			UsersCollection:   getEnv("USERS_COLLECTION", "users"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Firebase.Backend {
	case BackendMemory:
	case BackendFirestore, BackendRTDB:
		if !c.Firebase.HasCredentials() {
			return fmt.Errorf("DOCSTORE_BACKEND=%s requires FIREBASE_CREDENTIALS_PATH or FIREBASE_PROJECT_ID/FIREBASE_PRIVATE_KEY/FIREBASE_CLIENT_EMAIL", c.Firebase.Backend)
		}
		if c.Firebase.Backend == BackendRTDB && c.Firebase.DatabaseURL == "" {
			return fmt.Errorf("FIREBASE_DATABASE_URL is required for the rtdb backend")
		}
	default:
		return fmt.Errorf("unknown DOCSTORE_BACKEND %q", c.Firebase.Backend)
	}

	switch c.Storage.Backend {
	case StorageMemory:
	case StorageFirebase:
		if c.Firebase.StorageBucket == "" {
			return fmt.Errorf("FIREBASE_STORAGE_BUCKET is required for the firebase blob store")
		}
		if !c.Firebase.HasCredentials() {
			return fmt.Errorf("firebase blob store requires Firebase credentials")
		}
	case StorageS3:
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 blob store")
		}
	default:
		return fmt.Errorf("unknown BLOBSTORE_BACKEND %q", c.Storage.Backend)
	}

	if c.Images.MaxCount <= 0 || c.Images.MaxBytes <= 0 {
		return fmt.Errorf("image limits must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvAsList splits a comma separated value, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
