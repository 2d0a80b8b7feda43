package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtpkg "github.com/sidvishnoi/respec-github-apis/pkg/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestTokengen_MintsValidToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("admin:\n  signing_key: secret\n  issuer: ghmirror\n"), 0o600))

	token, err := run(t, "--config", path, "--sub", "ops")
	require.NoError(t, err)

	claims, err := jwtpkg.NewManager("secret", "ghmirror", 0).Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
}

func TestTokengen_RequiresSigningKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	_, err := run(t, "--config", path)
	assert.Error(t, err)
}

func TestTokengen_Keygen(t *testing.T) {
	a, err := run(t, "keygen")
	require.NoError(t, err)
	b, err := run(t, "keygen", "--bytes", "48")
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.Len(t, b, 64)
}
