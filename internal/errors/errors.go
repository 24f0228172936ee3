// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrMissingSetting    = errors.New("missing required setting")
	ErrInvalidSetting    = errors.New("invalid setting")
	ErrNoChannelsEnabled = errors.New("no notification channels enabled")
	ErrEmptyForecast     = errors.New("forecast contains no data points")
)

// ConfigError represents a missing or invalid configuration value.
// Fatal: the run must not be retried until configuration is fixed.
type ConfigError struct {
	Setting string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error [%s]: %s: %v", e.Setting, e.Message, e.Err)
	}
	return fmt.Sprintf("config error [%s]: %s", e.Setting, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(setting, message string, err error) *ConfigError {
	return &ConfigError{
		Setting: setting,
		Message: message,
		Err:     err,
	}
}

// FetchError represents a forecast fetch failure after retries are exhausted.
type FetchError struct {
	Endpoint string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error [%s]: %d attempts exhausted: %v", e.Endpoint, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(endpoint string, attempts int, err error) *FetchError {
	return &FetchError{
		Endpoint: endpoint,
		Attempts: attempts,
		Err:      err,
	}
}

// InsufficientDataError represents a forecast too short to cover the lookahead window.
type InsufficientDataError struct {
	Points  int
	Message string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient forecast data (%d points): %s", e.Points, e.Message)
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(points int, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Points:  points,
		Message: message,
	}
}

// DispatchError represents a notification delivery failure on one channel.
// Non-fatal: logged at the channel boundary, other channels still run.
type DispatchError struct {
	Channel string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch error [%s]: %v", e.Channel, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// NewDispatchError creates a new DispatchError.
func NewDispatchError(channel string, err error) *DispatchError {
	return &DispatchError{
		Channel: channel,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
