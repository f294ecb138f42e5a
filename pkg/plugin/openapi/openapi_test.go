package openapi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwcastillo/imposter/pkg/config"
	"github.com/jwcastillo/imposter/pkg/logging"
	"github.com/jwcastillo/imposter/pkg/plugin"
	"github.com/jwcastillo/imposter/pkg/script"
	"github.com/jwcastillo/imposter/pkg/store"
	"github.com/jwcastillo/imposter/pkg/template"
)

const petstoreSpec = `
openapi: 3.0.0
info:
  title: Petstore
  version: "1.0"
paths:
  /pets:
    get:
      responses:
        "200":
          description: pet list
          content:
            application/json:
              example: [{"name": "Fluffy"}]
    post:
      responses:
        "201":
          description: created
  /pets/{petId}:
    get:
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: one pet
`

func testDeps() plugin.Deps {
	engine := script.NewExprEngine()
	scripts := script.NewRegistry(engine)
	scripts.Register(script.ExprExtension, engine)
	stores := store.NewInMemoryFactory()
	return plugin.Deps{
		Resolver: template.NewResolver(stores),
		Scripts:  scripts,
		Stores:   stores,
		Logger:   logging.Nop(),
	}
}

func writeSpec(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "petstore.yaml"), []byte(petstoreSpec), 0o644))
}

func TestNewDerivesResources(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir)

	p, err := New(&config.PluginConfig{Plugin: PluginName, SpecFile: "petstore.yaml", Dir: dir}, testDeps())
	require.NoError(t, err)

	resources := p.Resources()
	require.Len(t, resources, 3)

	assert.Equal(t, "/pets", resources[0].Path)
	assert.Equal(t, "GET", resources[0].Config.Method)
	require.NotNil(t, resources[0].Config.Response)
	assert.Equal(t, 200, resources[0].Config.Response.StatusCode)
	assert.JSONEq(t, `[{"name": "Fluffy"}]`, resources[0].Config.Response.Content)

	assert.Equal(t, "/pets", resources[1].Path)
	assert.Equal(t, "POST", resources[1].Config.Method)
	assert.Equal(t, 201, resources[1].Config.Response.StatusCode)
	assert.Empty(t, resources[1].Config.Response.Content)

	assert.Equal(t, "/pets/{petId}", resources[2].Path)
}

func TestNewKeepsExplicitResourcesFirst(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir)

	cfg := &config.PluginConfig{
		Plugin:   PluginName,
		SpecFile: "petstore.yaml",
		Dir:      dir,
		Resources: []*config.ResourceConfig{
			{Path: "/pets", Method: "GET", Response: &config.ResponseConfig{Content: "override"}},
		},
	}
	p, err := New(cfg, testDeps())
	require.NoError(t, err)

	resources := p.Resources()
	require.Len(t, resources, 4)
	assert.Equal(t, "override", resources[0].Config.Response.Content)
}

func TestNewRequiresSpecFile(t *testing.T) {
	_, err := New(&config.PluginConfig{Plugin: PluginName}, testDeps())
	require.ErrorIs(t, err, ErrNoSpecFile)
}

func TestNewRejectsMissingSpec(t *testing.T) {
	_, err := New(&config.PluginConfig{Plugin: PluginName, SpecFile: "nope.yaml", Dir: t.TempDir()}, testDeps())
	require.Error(t, err)
}
