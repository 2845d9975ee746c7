package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents different types of errors that can occur during a run
type ErrorCategory string

const (
	// Fatal for the whole run
	ErrorCategoryInvalidInput  ErrorCategory = "INVALID_INPUT"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"

	// Scoped to a single window length or window
	ErrorCategoryInsufficientData ErrorCategory = "INSUFFICIENT_DATA"
	ErrorCategoryDegenerateWindow ErrorCategory = "DEGENERATE_WINDOW"

	// Collaborators
	ErrorCategoryDataSource ErrorCategory = "DATA_SOURCE"
	ErrorCategoryReport     ErrorCategory = "REPORT"
)

// Sentinels for errors.Is matching. Only the category is compared.
var (
	ErrInvalidInput     = &BacktestError{Category: ErrorCategoryInvalidInput}
	ErrConfiguration    = &BacktestError{Category: ErrorCategoryConfiguration}
	ErrInsufficientData = &BacktestError{Category: ErrorCategoryInsufficientData}
	ErrDegenerateWindow = &BacktestError{Category: ErrorCategoryDegenerateWindow}
	ErrDataSource       = &BacktestError{Category: ErrorCategoryDataSource}
	ErrReport           = &BacktestError{Category: ErrorCategoryReport}
)

// BacktestError represents a categorized error with context
type BacktestError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *BacktestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s:%s] %s", e.Category, e.Component, e.Operation)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if len(e.Context) > 0 {
		b.WriteString(" (")
		first := true
		for _, key := range sortedKeys(e.Context) {
			if !first {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", key, e.Context[key])
			first = false
		}
		b.WriteString(")")
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error for error unwrapping
func (e *BacktestError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is a BacktestError of the same category
func (e *BacktestError) Is(target error) bool {
	t, ok := target.(*BacktestError)
	if !ok {
		return false
	}
	return t.Category == e.Category
}

// IsFatal returns whether this error should stop the whole run
func (e *BacktestError) IsFatal() bool {
	return e.Category == ErrorCategoryInvalidInput ||
		e.Category == ErrorCategoryConfiguration
}

// IsScoped returns whether this error only affects one window length
func (e *BacktestError) IsScoped() bool {
	return e.Category == ErrorCategoryInsufficientData ||
		e.Category == ErrorCategoryDegenerateWindow
}

// NewBacktestError creates a new categorized error
func NewBacktestError(category ErrorCategory, component, operation, message string) *BacktestError {
	return &BacktestError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with backtest error context
func WrapError(err error, category ErrorCategory, component, operation string) *BacktestError {
	if err == nil {
		return nil
	}

	return &BacktestError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *BacktestError) WithContext(key string, value interface{}) *BacktestError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Common error constructors
func NewInvalidInputError(component, operation, message string) *BacktestError {
	return NewBacktestError(ErrorCategoryInvalidInput, component, operation, message)
}

func NewConfigurationError(component, operation, message string) *BacktestError {
	return NewBacktestError(ErrorCategoryConfiguration, component, operation, message)
}

func NewInsufficientDataError(component, operation, message string) *BacktestError {
	return NewBacktestError(ErrorCategoryInsufficientData, component, operation, message)
}

func NewDegenerateWindowError(component, operation, message string) *BacktestError {
	return NewBacktestError(ErrorCategoryDegenerateWindow, component, operation, message)
}

func NewDataSourceError(component, operation string, err error) *BacktestError {
	return WrapError(err, ErrorCategoryDataSource, component, operation)
}

func NewReportError(component, operation string, err error) *BacktestError {
	return WrapError(err, ErrorCategoryReport, component, operation)
}

// CategoryOf returns the category of the first BacktestError in err's chain,
// or an empty category when there is none.
func CategoryOf(err error) ErrorCategory {
	var btErr *BacktestError
	if stderrors.As(err, &btErr) {
		return btErr.Category
	}
	return ""
}

// RecoveryAction describes what the caller should do with an error
type RecoveryAction string

const (
	RecoveryActionRetry RecoveryAction = "RETRY"
	RecoveryActionSkip  RecoveryAction = "SKIP"
	RecoveryActionStop  RecoveryAction = "STOP"
)

// GetRecoveryAction suggests a recovery action based on error category
func (e *BacktestError) GetRecoveryAction() RecoveryAction {
	switch e.Category {
	case ErrorCategoryInvalidInput, ErrorCategoryConfiguration:
		return RecoveryActionStop
	case ErrorCategoryInsufficientData, ErrorCategoryDegenerateWindow:
		return RecoveryActionSkip
	case ErrorCategoryDataSource:
		return RecoveryActionRetry
	default:
		return RecoveryActionStop
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
