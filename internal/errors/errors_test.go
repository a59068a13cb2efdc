package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrTransport,
		ErrApplication,
		ErrMalformed,
		ErrRender,
		ErrExport,
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
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in pulse.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "transport error",
			code:       ErrTransport,
			message:    "Metrics endpoint unreachable",
			suggestion: "Check source.url",
		},
		{
			name:       "application error",
			code:       ErrApplication,
			message:    "Server reported an error",
			suggestion: "",
		},
		{
			name:       "malformed error",
			code:       ErrMalformed,
			message:    "Response is missing 'ram'",
			suggestion: "",
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

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name:          "basic error formatting",
			err:           New(ErrConfig, "Invalid configuration", "Check pulse.yaml syntax"),
			expectedParts: []string{"Invalid configuration", "Check pulse.yaml syntax"},
		},
		{
			name:          "error with failure symbol",
			err:           New(ErrTransport, "Fetch failed", "Try again"),
			expectedParts: []string{"✗", "Fetch failed"},
		},
		{
			name:          "error without suggestion",
			err:           New(ErrMalformed, "Bad response", ""),
			expectedParts: []string{"Bad response"},
			notExpected:   []string{"\n\n  \n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()
			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part)
			}
		})
	}
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"),
		ErrTransport,
		"Cannot reach the metrics endpoint",
		"Check that the server is running",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "✗"))
	assert.Contains(t, lines[0], "Cannot reach the metrics endpoint")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := Wrap(cause, "Fetch failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrTransport, wrapped.Code, "Wrap should default to ErrTransport code")
	assert.Equal(t, cause, wrapped.Cause)
	assert.True(t, errors.Is(wrapped, cause))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Server reported an error", New(ErrApplication, "Server reported an error", "hint").Summary())

	wrapped := WrapWithCode(errors.New("timeout"), ErrTransport, "Fetch failed", "")
	assert.Equal(t, "Fetch failed: timeout", wrapped.Summary())
}

func TestIsCodeAndCode(t *testing.T) {
	err := New(ErrMalformed, "bad", "")

	assert.True(t, IsCode(err, ErrMalformed))
	assert.False(t, IsCode(err, ErrTransport))
	assert.False(t, IsCode(errors.New("plain"), ErrMalformed))
	assert.False(t, IsCode(nil, ErrMalformed))

	assert.Equal(t, ErrMalformed, Code(err))
	assert.Equal(t, "", Code(errors.New("plain")))
}

func TestErrorsAs(t *testing.T) {
	var pErr *Error
	ok := errors.As(New(ErrConfig, "Config error", "Fix config"), &pErr)

	assert.True(t, ok)
	assert.Equal(t, ErrConfig, pErr.Code)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOk   bool
	}{
		{"ExitError returns code", NewExitError(2), 2, true},
		{"standard error returns false", errors.New("standard error"), 0, false},
		{"nil error returns false", nil, 0, false},
		{"structured Error returns false", New(ErrTransport, "test", ""), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := GetExitCode(tt.err)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}

	assert.Equal(t, "exit code 2", NewExitError(2).Error())
}
