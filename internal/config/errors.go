package config

import (
	"errors"
)

// Sentinel kinds returned by Load and Validate.
var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps file, env and decode failures.
	ErrLoadConfig = errors.New("load config failed")
)
