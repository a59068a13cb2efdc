package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pulsestation/pulse/internal/ui"
)

func init() {
	ui.DisableColors()
}

var testNow = time.Now().UTC().Truncate(time.Second)

// isolate runs the test in an empty directory with an empty home so no
// real config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

// execute runs a fresh root command with args.
func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if ctx == nil {
		ctx = context.Background()
	}
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func metricsBody() string {
	return fmt.Sprintf(`{
		"timestamps": [%q, %q],
		"cpu_usage": [10, 20], "ram": [30, 40], "disk": [50, 60],
		"net_sent": [1.5, 2.25], "net_recv": [3, 4],
		"temperature": [60, 70], "temperature_limit": 65
	}`, testNow.Add(-5*time.Minute).Format(time.RFC3339), testNow.Format(time.RFC3339))
}

func endpoint(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, writeFileBytes(path, []byte(content)))
}

func writeFileBytes(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
