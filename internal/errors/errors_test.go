package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *PipelineError
		expected string
	}{
		{
			name:     "stage and message",
			err:      New(KindNotFound, StageSelect, "date 03-23-2020 not found in dataset", nil),
			expected: "select: date 03-23-2020 not found in dataset",
		},
		{
			name:     "with cause",
			err:      New(KindParse, StageLoad, "cannot parse a.csv", fmt.Errorf("bare quote")),
			expected: "load: cannot parse a.csv: bare quote",
		},
		{
			name:     "no stage",
			err:      New(KindIO, "", "disk full", nil),
			expected: "disk full",
		},
		{
			name:     "nil receiver",
			err:      nil,
			expected: "unknown pipeline error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestPipelineError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewNotFound("03-23-2020"))

	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrOutOfRange))
	assert.True(t, stderrors.Is(err, &PipelineError{}))
}

func TestWrap(t *testing.T) {
	t.Run("keeps pipeline kind", func(t *testing.T) {
		orig := New(KindSchemaMismatch, "", "missing columns", nil)
		wrapped := Wrap(orig, StageFilter, "filtering")

		var pErr *PipelineError
		require.True(t, stderrors.As(wrapped, &pErr))
		assert.Equal(t, KindSchemaMismatch, pErr.Kind)
		assert.Equal(t, StageFilter, pErr.Stage)
	})

	t.Run("plain error becomes io_error", func(t *testing.T) {
		wrapped := Wrap(fmt.Errorf("permission denied"), StageRender, "save chart")

		assert.Equal(t, KindIO, KindOf(wrapped))
		assert.Contains(t, wrapped.Error(), "permission denied")
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, StageLoad, "noop"))
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{nil, ExitOK},
		{NewNotFound("01-01-2021"), ExitNotFound},
		{NewOutOfRange(StageSelect, "no baseline"), ExitOutOfRange},
		{NewParseError("x.csv", nil), ExitParse},
		{NewSchemaMismatch(StageFilter, "x.csv", []string{"Admin2"}), ExitSchemaMismatch},
		{NewEmptyFilter(), ExitEmptyFilter},
		{NewInvalidInput(StageConfig, "bad date"), ExitInvalidInput},
		{NewIOError(StageRender, "save", nil), ExitFailure},
		{fmt.Errorf("something else"), ExitFailure},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, ExitCode(tt.err), "error: %v", tt.err)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "error [not_found]: select: date 02-30-2020 not found in dataset",
		Describe(NewNotFound("02-30-2020")))
	assert.Equal(t, "error [error]: boom", Describe(fmt.Errorf("boom")))
	assert.Empty(t, Describe(nil))
}
