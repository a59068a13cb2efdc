package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/pulsestation/pulse/internal/errors"
)

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "config not found", err: perrors.New(perrors.ErrConfig, "Config file not found", ""), code: ErrCodeConfigNotFound},
		{name: "config invalid", err: perrors.New(perrors.ErrConfig, "Invalid poll interval", ""), code: ErrCodeConfigInvalid},
		{name: "transport", err: perrors.New(perrors.ErrTransport, "down", ""), code: ErrCodeEndpointUnreachable},
		{name: "application", err: perrors.New(perrors.ErrApplication, "x", ""), code: ErrCodeEndpointError},
		{name: "malformed", err: perrors.New(perrors.ErrMalformed, "bad", ""), code: ErrCodeMalformedResponse},
		{name: "render", err: perrors.New(perrors.ErrRender, "png", ""), code: ErrCodeRenderFailed},
		{name: "export", err: perrors.New(perrors.ErrExport, "port", ""), code: ErrCodeExportFailed},
		{name: "plain", err: errors.New("boom"), code: ErrCodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorToJSON(tt.err).Code)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}

func TestErrorToJSON_CauseDetails(t *testing.T) {
	err := perrors.WrapWithCode(errors.New("dial tcp: refused"), perrors.ErrTransport,
		"Could not reach metrics endpoint", "Is the agent running?")

	je := ErrorToJSON(err)
	assert.Equal(t, "Could not reach metrics endpoint", je.Message)
	assert.Equal(t, "Is the agent running?", je.Suggestion)
	assert.Equal(t, map[string]interface{}{"cause": "dial tcp: refused"}, je.Details)
}

func TestWriteJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, map[string]int{"samples": 2}))
	assert.JSONEq(t, `{"success": true, "data": {"samples": 2}}`, buf.String())

	buf.Reset()
	require.NoError(t, WriteJSONFromError(&buf, perrors.New(perrors.ErrApplication, "x", "")))
	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, ErrCodeEndpointError, env.Error.Code)
	assert.Nil(t, env.Data)
}
