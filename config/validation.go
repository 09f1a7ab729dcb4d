package config

import "fmt"

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks that required configuration is present. Error messages
// name the missing variable but never echo secret values.
func Validate(cfg *Config) error {
	if cfg.ServerPort == "" {
		return ValidationError{Field: "PORT", Message: "server port is required"}
	}
	if cfg.JWTSecret == "" {
		return ValidationError{Field: "JWT_SECRET", Message: "JWT secret is required"}
	}
	if cfg.OMDbAPIKey == "" {
		return ValidationError{Field: "OMDB_API_KEY", Message: "OMDb API key is required"}
	}
	if cfg.GeminiAPIKey == "" {
		return ValidationError{Field: "GEMINI_API_KEY", Message: "Gemini API key is required"}
	}
	if IsProduction() && cfg.DatabaseURL == "" {
		return ValidationError{Field: "DATABASE_URL", Message: "a Postgres URL is required in production"}
	}
	return nil
}
