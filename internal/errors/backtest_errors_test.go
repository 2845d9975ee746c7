package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBacktestError_IsMatchesCategory(t *testing.T) {
	err := NewInsufficientDataError("backtest", "SimulateWindowLength", "no windows")
	wrapped := fmt.Errorf("years=30: %w", err)

	assert.True(t, stderrors.Is(wrapped, ErrInsufficientData))
	assert.False(t, stderrors.Is(wrapped, ErrDegenerateWindow))
	assert.False(t, stderrors.Is(wrapped, ErrInvalidInput))
}

func TestBacktestError_Unwrap(t *testing.T) {
	root := stderrors.New("connection refused")
	err := NewDataSourceError("bybit", "LoadMonthly", root)

	assert.True(t, stderrors.Is(err, root))
	assert.True(t, stderrors.Is(err, ErrDataSource))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapError_Nil(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrorCategoryReport, "csv", "WriteReport"))
}

func TestBacktestError_ErrorIncludesSortedContext(t *testing.T) {
	err := NewDegenerateWindowError("backtest", "EvaluateDCA", "non-positive price").
		WithContext("start", 12).
		WithContext("index", 3)

	assert.Equal(t,
		"[DEGENERATE_WINDOW:backtest] EvaluateDCA: non-positive price (index=3, start=12)",
		err.Error())
}

func TestBacktestError_FatalAndScoped(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		fatal    bool
		scoped   bool
		action   RecoveryAction
	}{
		{ErrorCategoryInvalidInput, true, false, RecoveryActionStop},
		{ErrorCategoryConfiguration, true, false, RecoveryActionStop},
		{ErrorCategoryInsufficientData, false, true, RecoveryActionSkip},
		{ErrorCategoryDegenerateWindow, false, true, RecoveryActionSkip},
		{ErrorCategoryDataSource, false, false, RecoveryActionRetry},
		{ErrorCategoryReport, false, false, RecoveryActionStop},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := NewBacktestError(tt.category, "c", "op", "msg")
			assert.Equal(t, tt.fatal, err.IsFatal())
			assert.Equal(t, tt.scoped, err.IsScoped())
			assert.Equal(t, tt.action, err.GetRecoveryAction())
		})
	}
}

func TestCategoryOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewInvalidInputError("backtest", "Run", "amount must be positive"))
	require.Error(t, err)

	assert.Equal(t, ErrorCategoryInvalidInput, CategoryOf(err))
	assert.Equal(t, ErrorCategory(""), CategoryOf(stderrors.New("plain")))
}
