package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidateDir(t *testing.T, dir string) (string, error) {
	t.Helper()
	old := validateConfigDir
	validateConfigDir = dir
	defer func() { validateConfigDir = old }()

	var out bytes.Buffer
	cmd := validateCmd
	cmd.SetOut(&out)
	err := runValidate(cmd, nil)
	return out.String(), err
}

func TestValidateValidDir(t *testing.T) {
	dir := t.TempDir()
	cfg := `
plugin: rest
resources:
  - path: /pets
    response:
      content: ok
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets-config.yaml"), []byte(cfg), 0o644))

	out, err := runValidateDir(t, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 configuration files valid")
}

func TestValidateInvalidDir(t *testing.T) {
	dir := t.TempDir()
	cfg := `
plugin: rest
resources:
  - path: /pets
    requestBody:
      jsonPath: $.a
      xPath: //a
      value: x
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets-config.yaml"), []byte(cfg), 0o644))

	_, err := runValidateDir(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 configuration files invalid")
}

func TestValidateEmptyDir(t *testing.T) {
	_, err := runValidateDir(t, t.TempDir())
	require.Error(t, err)
}
