// Package config loads process configuration from environment variables.
// Mains call godotenv.Load first so a local .env file can supply them.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	OCR    OCRConfig
	Server ServerConfig
}

// OCRConfig tunes segmentation, recognition, and batch processing.
type OCRConfig struct {
	DPI            int
	MinContourArea int
	TessdataDir    string
	WorkDir        string
	ReportsDir     string
	MaxWorkers     int
	RegionTimeout  time.Duration
}

// ServerConfig holds the upload server settings.
type ServerConfig struct {
	HTTPAddr       string
	UploadDir      string
	MaxUploadBytes int64
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		OCR: OCRConfig{
			DPI:            getEnvAsInt("OCR_DPI", 300),
			MinContourArea: getEnvAsInt("OCR_CONTOUR_AREA_THRESHOLD", 5000),
			TessdataDir:    getEnv("TESSDATA_PREFIX", ""),
			WorkDir:        getEnv("OCR_WORK_DIR", os.TempDir()),
			ReportsDir:     getEnv("REPORTS_DIR", "./reports"),
			MaxWorkers:     getEnvAsInt("OCR_MAX_WORKERS", 4),
			RegionTimeout:  getEnvAsDuration("OCR_REGION_TIMEOUT", 2*time.Minute),
		},
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 16<<20),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
