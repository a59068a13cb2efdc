package cli

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsestation/pulse/internal/doctor"
	perrors "github.com/pulsestation/pulse/internal/errors"
)

type doctorEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Categories []struct {
			Name    string `json:"name"`
			Results []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"results"`
		} `json:"categories"`
		Summary SummaryOutput `json:"summary"`
	} `json:"data"`
}

func TestDoctor_HealthyEndpoint(t *testing.T) {
	dir := isolate(t)
	srv := endpoint(t, http.StatusOK, metricsBody())

	out, err := execute(t, nil, "doctor", "--url", srv.URL, "--log-file", dir+"/pulse.log")
	require.NoError(t, err)

	assert.Contains(t, out, "pulse diagnostic report")
	assert.Contains(t, out, "CONFIG")
	assert.Contains(t, out, "ENDPOINT")
	assert.Contains(t, out, "OUTPUT")
	assert.Contains(t, out, "No config file found, using defaults")
	assert.Contains(t, out, "samples of 6 metrics")
	assert.Contains(t, out, "1 issue found")
}

func TestDoctor_JSON(t *testing.T) {
	dir := isolate(t)
	srv := endpoint(t, http.StatusOK, metricsBody())

	out, err := execute(t, nil, "doctor", "--json", "--url", srv.URL, "--log-file", dir+"/pulse.log")
	require.NoError(t, err)

	var env doctorEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	require.True(t, env.Success)

	var names []string
	for _, c := range env.Data.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, doctor.Categories, names)
	assert.Equal(t, 1, env.Data.Summary.Warn)
	assert.Zero(t, env.Data.Summary.Fail)
	assert.False(t, env.Data.Summary.AllClear)

	endpointResults := env.Data.Categories[1].Results
	require.Len(t, endpointResults, 3)
	assert.Equal(t, "endpoint_reachable", endpointResults[0].Name)
	assert.Equal(t, "pass", endpointResults[0].Status)
}

func TestDoctor_Failures(t *testing.T) {
	t.Run("application error", func(t *testing.T) {
		dir := isolate(t)
		srv := endpoint(t, http.StatusOK, `{"error": "sensor offline"}`)

		out, err := execute(t, nil, "doctor", "--url", srv.URL, "--log-file", dir+"/pulse.log")
		code, ok := perrors.GetExitCode(err)
		require.True(t, ok)
		assert.Equal(t, 1, code)
		assert.Contains(t, out, "sensor offline")
	})

	t.Run("invalid config skips endpoint checks", func(t *testing.T) {
		isolate(t)

		out, err := execute(t, nil, "doctor", "--interval", "10ms")
		_, ok := perrors.GetExitCode(err)
		require.True(t, ok)
		assert.Contains(t, out, "Schema error")
		assert.NotContains(t, out, "ENDPOINT")
	})
}
