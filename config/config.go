package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config collects every environment-driven setting in one place.
type Config struct {
	Port string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	PayOSClientID  string
	PayOSAPIKey    string
	PayOSChecksum  string
	PayOSBaseURL   string
	PayOSReturnURL string
	PayOSCancelURL string
}

// Load reads configuration from the environment with development defaults.
// godotenv is expected to have populated the environment beforehand.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DBUser: getEnv("DB_USER", "root"),
		DBPass: getEnv("DB_PASS", ""),
		DBHost: getEnv("DB_HOST", "127.0.0.1"),
		DBPort: getEnv("DB_PORT", "3306"),
		DBName: getEnv("DB_NAME", "tableside"),

		PayOSClientID:  getEnv("PAYOS_CLIENT_ID", ""),
		PayOSAPIKey:    getEnv("PAYOS_API_KEY", ""),
		PayOSChecksum:  getEnv("PAYOS_CHECKSUM_KEY", ""),
		PayOSBaseURL:   getEnv("PAYOS_BASE_URL", "https://api-merchant.payos.vn"),
		PayOSReturnURL: getEnv("PAYOS_RETURN_URL", "http://localhost:3000/guest/orders"),
		PayOSCancelURL: getEnv("PAYOS_CANCEL_URL", "http://localhost:3000/guest/orders"),
	}
}

// InitDB opens the MySQL connection. TranslateError is on so unique
// violations surface as gorm.ErrDuplicatedKey regardless of driver.
func (cfg *Config) InitDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
