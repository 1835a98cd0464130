package six_cities_client_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/manifest-network/six-cities-client/cmd"
	sixcities "github.com/manifest-network/six-cities-client/cmd/six-cities-client"
	"github.com/manifest-network/six-cities-client/test_utils"
)

func TestMain(m *testing.M) {
	// cmd.Execute installs the log level hook on the real binary.
	sixcities.RootCmd.PersistentPreRunE = cmd.PreRunLogLevel
	os.Exit(m.Run())
}

// run executes the root command with the client flags reset to known values.
func run(t *testing.T, ctx context.Context, backend *test_utils.MockBackend, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	base := []string{
		"--base-url", backend.BaseURL(),
		"--timeout", "1s",
		"--token=",
		"--dedup-window", "5s",
		"--max-concurrency", "4",
		"--logLevel", "info",
	}
	// Per-test arguments come last so they override the defaults.
	full := append([]string{args[0]}, base...)
	sixcities.RootCmd.SetArgs(append(full, args[1:]...))
	// cobra only hands the root context to subcommands that have none, so a
	// context left over from an earlier run would otherwise win.
	for _, sub := range sixcities.RootCmd.Commands() {
		sub.SetContext(ctx)
	}
	sixcities.RootCmd.SetOut(&stdout)
	sixcities.RootCmd.SetErr(&stderr)
	_, err := sixcities.RootCmd.ExecuteContextC(ctx)
	return stdout.String(), stderr.String(), err
}

func notifications(stderr string) []string {
	var lines []string
	for _, line := range strings.Split(stderr, "\n") {
		if strings.Contains(line, `"notification":`) {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestGet(t *testing.T) {
	backend := test_utils.SetupMockBackend(t)

	stdout, stderr, err := run(t, context.Background(), backend, "get", "/hotels")
	require.NoError(t, err)
	require.Contains(t, stdout, "Amsterdam loft")
	require.Empty(t, notifications(stderr))
}

func TestGetToken(t *testing.T) {
	backend := test_utils.SetupMockBackend(t)

	stdout, _, err := run(t, context.Background(), backend, "get", "/login", "--token", "abc123")
	require.NoError(t, err)
	require.Contains(t, stdout, `"token":"abc123"`)

	stdout, _, err = run(t, context.Background(), backend, "get", "/login")
	require.NoError(t, err)
	require.Contains(t, stdout, `"token":""`)
	require.Empty(t, backend.Headers()[1].Values("x-token"))
}

func TestGetNotifiesAndFails(t *testing.T) {
	backend := test_utils.SetupMockBackend(t)

	stdout, stderr, err := run(t, context.Background(), backend, "get", "/hotels", "/missing")
	require.Error(t, err)
	require.ErrorContains(t, err, "GET /missing")
	require.Contains(t, stdout, "Amsterdam loft")

	notes := notifications(stderr)
	require.Len(t, notes, 1)
	require.Contains(t, notes[0], "Hotel id 42 does not exist")
	require.Contains(t, notes[0], backend.BaseURL())
}

func TestGetClientErrorsShareOneNotification(t *testing.T) {
	backend := test_utils.SetupMockBackend(t)

	_, stderr, err := run(t, context.Background(), backend, "get", "/missing", "/bad", "/missing")
	require.Error(t, err)
	require.Len(t, notifications(stderr), 1)
}

func TestGetServerErrorNotNotified(t *testing.T) {
	backend := test_utils.SetupMockBackend(t)

	_, stderr, err := run(t, context.Background(), backend, "get", "/boom")
	require.ErrorContains(t, err, "ERR_BAD_RESPONSE")
	require.Empty(t, notifications(stderr))
}

func TestGetTimeout(t *testing.T) {
	backend := test_utils.SetupMockBackend(t)

	_, stderr, err := run(t, context.Background(), backend, "get", "/slow", "--timeout", "100ms")
	require.ErrorContains(t, err, "ECONNABORTED")

	notes := notifications(stderr)
	require.Len(t, notes, 1)
	require.Contains(t, notes[0], "timeout of 100ms exceeded")
	require.Contains(t, notes[0], `"notification":"ECONNABORTED"`)
}

func TestGetInvalidConfig(t *testing.T) {
	backend := test_utils.SetupMockBackend(t)

	_, _, err := run(t, context.Background(), backend, "get", "/hotels", "--base-url", "ftp://example.com")
	require.ErrorContains(t, err, "expected http or https")

	_, _, err = run(t, context.Background(), backend, "get", "/hotels", "--logLevel", "verbose")
	require.ErrorContains(t, err, "invalid log level")

	_, _, err = run(t, context.Background(), backend, "get")
	require.Error(t, err)
}

func TestSend(t *testing.T) {
	backend := test_utils.SetupMockBackend(t)

	stdout, _, err := run(t, context.Background(), backend, "send", "post", "/comments/1", "-d", `{"comment":"Great view","rating":4}`)
	require.NoError(t, err)
	require.Contains(t, stdout, "Great view")
	require.Contains(t, backend.Headers()[0].Get("Content-Type"), "application/json")

	tests := []struct {
		name string
		args []string
		err  string
	}{
		{"invalid method", []string{"send", "TRACE", "/comments/1", "-d", ""}, "invalid method"},
		{"invalid body", []string{"send", "POST", "/comments/1", "-d", "{"}, "not valid JSON"},
		{"missing path", []string{"send", "POST"}, "accepts 2 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, context.Background(), backend, tt.args...)
			require.ErrorContains(t, err, tt.err)
		})
	}
}

func TestServeInvalidAddress(t *testing.T) {
	backend := test_utils.SetupMockBackend(t)

	tests := []struct {
		name string
		addr string
		err  string
	}{
		{"missing port", "localhost", "expected host:port"},
		{"invalid port", "localhost:port", "invalid port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, context.Background(), backend, "serve", "/hotels", "--listen-address", tt.addr)
			require.ErrorContains(t, err, tt.err)
		})
	}
}

func TestServe(t *testing.T) {
	backend := test_utils.SetupMockBackend(t)
	const addr = "127.0.0.1:29112"

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, _, err := run(t, ctx, backend, "serve", "/hotels", "/missing", "--listen-address", addr)
		errCh <- err
	}()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil || resp.StatusCode != http.StatusOK {
			return false
		}
		body = string(b)
		return true
	}, 5*time.Second, 50*time.Millisecond)

	require.Contains(t, body, `six_cities_endpoint_up{path="/hotels"} 1`)
	require.Contains(t, body, `six_cities_endpoint_up{path="/missing"} 0`)
	require.Contains(t, body, `six_cities_endpoint_status{path="/missing"} 404`)
	require.Contains(t, body, "six_cities_client_requests_total")

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
