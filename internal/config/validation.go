package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() (*CustomValidator, error) {
	v := validator.New()

	if err := v.RegisterValidation("environment", validateEnvironment); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return nil, err
	}

	return &CustomValidator{validator: v}, nil
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv, err := NewValidator()
	if err != nil {
		return fmt.Errorf("failed to build validator: %w", err)
	}
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	sc := cfg.Scoring

	if sc.HighConfidenceSpread != 0 && sc.MediumConfidenceSpread != 0 &&
		sc.HighConfidenceSpread >= sc.MediumConfidenceSpread {
		return fmt.Errorf("scoring high_confidence_spread must be below medium_confidence_spread")
	}
	if sc.GoodBetEV != 0 && sc.RiskyBetEV != 0 && sc.GoodBetEV <= sc.RiskyBetEV {
		return fmt.Errorf("scoring good_bet_ev must exceed risky_bet_ev")
	}
	if sc.PayoutMultiplier < 0 {
		return fmt.Errorf("scoring payout_multiplier must be positive")
	}

	if cfg.Server.HealthPort != 0 && cfg.Server.HealthPort == cfg.Server.Port {
		return fmt.Errorf("health_port must differ from the API server port")
	}

	if cfg.IsProduction() && cfg.ModelService.APIKey == "" {
		return fmt.Errorf("production environment requires a model service API key")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max", "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
