package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env        string
	APIPort    string
	AuthPort   string
	FilePort   string
	DBDriver   string
	MySQLDSN   string
	SQLitePath string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	CORSOrigin string
	ResetDB    bool

	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
	UploadMaxBytes  int64

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		APIPort:    getEnv("API_PORT", "3000"),
		AuthPort:   getEnv("AUTH_PORT", "3001"),
		FilePort:   getEnv("FILE_PORT", "3002"),
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/toiletadvisor?charset=utf8mb4&parseTime=True&loc=Local"),
		SQLitePath: getEnv("SQLITE_PATH", "data/toiletadvisor.db"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:80"),
		ResetDB:    getEnvBool("RESET_DB", false),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        getEnv("S3_REGION", "auto"),
		S3Bucket:        getEnv("S3_BUCKET", "toiletadvisor"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		UploadMaxBytes:  int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

// Production reports whether the process runs with APP_ENV=production.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
