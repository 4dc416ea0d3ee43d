package config

import (
	"errors"
	"fmt"
	"strings"
)

// minProductionSecretLength is the shortest jwt secret accepted in production.
const minProductionSecretLength = 32

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the given environment
func ValidateConfig(cfg *Config, env Environment) error {
	var errs []ValidationError

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{"DB_PATH", "is required for the sqlite driver"})
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, ValidationError{"DATABASE_URL", "is required for the postgres driver"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	switch cfg.ImageBackend {
	case ImageBackendLocal:
		if cfg.UploadDir == "" {
			errs = append(errs, ValidationError{"UPLOAD_DIR", "is required for the local image backend"})
		}
	case ImageBackendS3:
		if cfg.S3BucketName == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "is required for the s3 image backend"})
		}
	default:
		errs = append(errs, ValidationError{"IMAGE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.ImageBackend)})
	}

	if cfg.MaxUploadMB <= 0 {
		errs = append(errs, ValidationError{"MAX_UPLOAD_MB", "must be positive"})
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{"TOKEN_TTL", "must be positive"})
	}

	if cfg.JWTSecret == "" {
		if env == CI {
			errs = append(errs, ValidationError{"JWT_SECRET", "environment variable is required in CI environment"})
		} else {
			errs = append(errs, ValidationError{"jwt_secret", "secret is required"})
		}
	} else if env == Production && len(cfg.JWTSecret) < minProductionSecretLength {
		errs = append(errs, ValidationError{"jwt_secret", fmt.Sprintf("must be at least %d characters in production", minProductionSecretLength)})
	}

	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, len(errs))
	joined := make([]error, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
		joined[i] = e
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), errors.Join(joined...))
}
