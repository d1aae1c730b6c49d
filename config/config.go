package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	// Try to load .env file if it exists (for local development)
	// On production, environment variables are set directly
	err := godotenv.Load()
	if err != nil {
		// .env file not found is not an error - it might be on production
		// Environment variables are already available in os.Getenv()
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	// Critical variables - application cannot function without these
	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if os.Getenv("WC_URL") == "" {
		missing = append(missing, "WC_URL")
	}
	if os.Getenv("WC_KEY") == "" {
		missing = append(missing, "WC_KEY")
	}
	if os.Getenv("WC_SECRET") == "" {
		missing = append(missing, "WC_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("GRAPHQL_URL") == "" {
		log.Println("WARNING: GRAPHQL_URL not set - falling back to WC_URL/graphql")
	}
	if os.Getenv("CART_SERVICE_URL") == "" {
		log.Println("WARNING: CART_SERVICE_URL not set - carts stay local, no cross-device sync")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
