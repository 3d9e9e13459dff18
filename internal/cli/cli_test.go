package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/rdrscript/internal/testutils"
	"github.com/aretw0/rdrscript/pkg/adapters/memory"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSamples(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"hello.json": `{
			"nrWindows": 1,
			"initialOps": [
				{"operation": "createPlainWindow", "title": "Hello"},
				{"operation": "load", "target": "plainwindow/0", "content": "hello.html"}
			]
		}`,
		"hello.html":  "<p>hello</p>",
		"broken.yaml": "nrWindows: 1\ninitialOps:\n  - operation: load\n    target: plainwindow/0\n",
	})
	return dir
}

func TestDial_Schemes(t *testing.T) {
	ctx := context.Background()
	logger := createDebugLogger(t)

	tr, err := Dial(ctx, "mem://", logger)
	require.NoError(t, err)
	_, isMem := tr.(*memory.Renderer)
	assert.True(t, isMem)
	tr.Close()

	_, err = Dial(ctx, "tcp://localhost:1", logger)
	assert.ErrorContains(t, err, `unsupported renderer scheme "tcp"`)

	_, err = Dial(ctx, "", logger)
	assert.Error(t, err)

	_, err = Dial(ctx, "unix://"+t.TempDir()+"/none.sock", logger)
	assert.Error(t, err)
}

func createDebugLogger(t *testing.T) *slog.Logger {
	t.Helper()
	logger, err := createLogger(LogOptions{Debug: true}, io.Discard)
	require.NoError(t, err)
	return logger
}

func TestCreateLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := createLogger(LogOptions{Format: "json", Level: "info"}, &buf)
	require.NoError(t, err)
	logger.Info("hello", "error", errors.New("x"))
	assert.Contains(t, buf.String(), `"err":"x"`)

	_, err = createLogger(LogOptions{Format: "xml"}, io.Discard)
	assert.Error(t, err)

	_, err = createLogger(LogOptions{Level: "loud"}, io.Discard)
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("RDRSCRIPT_RUNNER", "calc")
	t.Setenv("RDRSCRIPT_EXIT_WHEN_IDLE", "true")
	t.Setenv("RDRSCRIPT_LOCK_TTL", "5s")
	t.Setenv("RDRSCRIPT_LOG_FORMAT", "json")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "calc", env.Runner)
	assert.True(t, env.ExitWhenIdle)
	assert.Equal(t, 5*time.Second, env.LockTTL)
	assert.Equal(t, "json", env.LogFormat)

	// Unset variables keep their defaults
	assert.Equal(t, "warn", env.LogLevel)
	assert.Equal(t, ".", env.Dir)
	assert.Equal(t, DefaultRenderer, env.Renderer)
	assert.False(t, env.Quiet)
}

func TestLoadEnv_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"RDRSCRIPT_LOCK_TTL": "abc",
		"RDRSCRIPT_QUIET":    "maybe",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(fmt.Errorf("run: %w", context.Canceled)))
	assert.ErrorIs(t, handleExecutionError(domain.ErrConnectionLost), domain.ErrConnectionLost)
}

func TestRun_DryRunCompletes(t *testing.T) {
	// 1. Setup
	dir := writeSamples(t)
	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 2. Run against the loopback renderer
	err := Run(ctx, RunOptions{
		Runner:       "hello",
		Renderer:     "mem://",
		Dir:          dir,
		ExitWhenIdle: true,
		Stdout:       &out,
		Stderr:       io.Discard,
	})

	// 3. Verify
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Running 'hello' on mem://")
	assert.Contains(t, out.String(), "Session ended (completed).")
}

func TestRun_InvalidSampleFailsBeforeConnecting(t *testing.T) {
	dir := writeSamples(t)
	err := Run(context.Background(), RunOptions{
		Sample:   "broken",
		Renderer: "unix://" + t.TempDir() + "/none.sock",
		Dir:      dir,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidScript)
}

func TestRun_InterruptIsCleanExit(t *testing.T) {
	dir := writeSamples(t)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	var out bytes.Buffer
	err := Run(ctx, RunOptions{
		Sample:   "hello",
		Renderer: "mem://",
		Dir:      dir,
		Stdout:   &out,
		Stderr:   io.Discard,
	})
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Interrupted after 2 of 2 operations.")
}

func TestRun_ServesStatus(t *testing.T) {
	dir := writeSamples(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, RunOptions{
			Sample:      "hello",
			Renderer:    "mem://",
			Dir:         dir,
			MetricsAddr: addr,
			Stdout:      io.Discard,
			Stderr:      io.Discard,
		})
	}()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/status")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		body = string(b)
		return strings.Contains(body, `"state":"written"`)
	}, 3*time.Second, 20*time.Millisecond)
	assert.Contains(t, body, `"sample":"hello"`)

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(b), `rdrscript_requests_total{operation="load"} 1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestCatalog(t *testing.T) {
	dir := writeSamples(t)
	ctx := context.Background()
	src := SourceOptions{Dir: dir}

	var out bytes.Buffer
	require.NoError(t, List(ctx, src, &out))
	assert.Equal(t, "broken\nhello\n", out.String())

	out.Reset()
	require.NoError(t, Validate(ctx, src, "hello", &out))
	assert.Contains(t, out.String(), "Sample 'hello' is valid: 1 windows, 2 initial operations")

	err := Validate(ctx, src, "broken", io.Discard)
	assert.ErrorIs(t, err, domain.ErrInvalidScript)

	out.Reset()
	require.NoError(t, Describe(ctx, src, "hello", &out))
	assert.Contains(t, out.String(), "hello")
	assert.Contains(t, out.String(), "createPlainWindow")
}
