package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrUsage,
		ErrAlias,
		ErrSSH,
		ErrSync,
		ErrShip,
		ErrExec,
		ErrPartial,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "usage error",
			code:       ErrUsage,
			message:    `Direction must be either "to" or "from"`,
			suggestion: "Usage: wpx sync <source> <to|from> <target>",
		},
		{
			name:       "alias error",
			code:       ErrAlias,
			message:    "No targets resolved for @staging",
			suggestion: "Check the aliases in wp-cli.yml",
		},
		{
			name:       "ship error",
			code:       ErrShip,
			message:    "Build step failed",
			suggestion: "Run the build command manually to see what's happening",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestUsage(t *testing.T) {
	err := Usage("Valid target required", "Pass user@host or an @alias")

	assert.True(t, IsCode(err, ErrUsage))
	assert.Contains(t, err.Error(), "Valid target required")
}

func TestErrorFormatting(t *testing.T) {
	err := WrapWithCode(
		errors.New("exit status 23"),
		ErrSync,
		"Sync to @prod failed",
		"Check the rsync output above",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "✗"), "first line should start with failure symbol")
	assert.Contains(t, lines[0], "Sync to @prod failed")
	assert.Contains(t, err.Error(), "exit status 23")
	assert.Contains(t, err.Error(), "Check the rsync output above")
}

func TestWrap(t *testing.T) {
	cause := errors.New("broken pipe")
	wrapped := Wrap(cause, "wp failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrExec, wrapped.Code, "Wrap should default to ErrExec code")
	assert.Equal(t, cause, wrapped.Cause)
	assert.True(t, errors.Is(wrapped, cause))
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrSSH))
	assert.True(t, IsCode(fmt.Errorf("outer: %w", err), ErrConfig))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain error", err: errors.New("boom"), want: 1},
		{name: "structured without status", err: New(ErrUsage, "bad", ""), want: 1},
		{name: "structured with status", err: New(ErrShip, "zip failed", "").WithStatus(12), want: 12},
		{name: "wrapped structured", err: fmt.Errorf("ship: %w", New(ErrShip, "x", "").WithStatus(3)), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
