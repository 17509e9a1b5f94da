package config

import (
	"fmt"
	"strconv"
)

// ValidateConfig checks that required settings are present and well-formed.
func ValidateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBHost == "" || cfg.DBName == "" || cfg.DBUser == "" {
		return fmt.Errorf("database host, name and user are required")
	}
	if _, err := strconv.Atoi(cfg.DBPort); err != nil {
		return fmt.Errorf("invalid DB_PORT %q", cfg.DBPort)
	}
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q", cfg.ServerPort)
	}
	return nil
}
