package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/food-gallery/internal/auth"
	"github.com/sakif/food-gallery/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd("1.2.3", "2026-10-01")
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "food-gallery 1.2.3 (2026-10-01)\n", out)
}

func TestTokenCommand_RoundTrip(t *testing.T) {
	const secret = "cli-test-secret-0123456789"

	out, err := run(t, "token", "--secret", secret, "--sub", "alice", "--email", "alice@example.com", "--name", "Alice")
	require.NoError(t, err)

	v, err := auth.NewLocalVerifier(secret)
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Subject)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.Equal(t, "Alice", id.DisplayName)
}

func TestTokenCommand_SecretFromEnv(t *testing.T) {
	t.Setenv("LOCAL_TOKEN_SECRET", "env-secret-0123456789")

	out, err := run(t, "token", "--sub", "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))
}

func TestTokenCommand_Errors(t *testing.T) {
	t.Setenv("LOCAL_TOKEN_SECRET", "")

	_, err := run(t, "token", "--sub", "bob")
	assert.ErrorContains(t, err, "no secret")

	_, err = run(t, "token", "--secret", "short", "--sub", "bob")
	assert.Error(t, err)

	_, err = run(t, "token", "--secret", "cli-test-secret-0123456789")
	assert.Error(t, err, "--sub is required")
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	t.Setenv("STORE_BACKEND", "nope")

	_, err := run(t, "serve")
	assert.ErrorContains(t, err, "STORE_BACKEND")
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, config.Config{LogFormat: "json"}).Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())

	buf.Reset()
	newLogger(&buf, config.Config{LogFormat: "text"}).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
