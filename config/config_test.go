package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/meanval/config"
	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/holder"
	"github.com/katalvlaran/meanval/lambda"
	"github.com/katalvlaran/meanval/store"
)

func TestLoad_Defaults(t *testing.T) {
	v, err := config.New("")
	require.NoError(t, err)
	c, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 0, c.Workers)
	assert.Equal(t, store.KindMemory, c.Store.Kind)
	assert.False(t, c.Lambda.GridSearch)
	assert.Equal(t, lambda.DefaultGridPoints, c.Lambda.GridPoints)
	assert.Equal(t, holder.DefaultMaxIterations, c.Optimizer.MaxIterations)
	assert.Equal(t, holder.DefaultEpsilon, c.Optimizer.Epsilon)
	assert.Empty(t, c.LambdaOptions())
	assert.Len(t, c.HolderOptions(), 2)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meanval.toml")
	body := `
workers = 4

[store]
kind = "sqlite"
path = "bounds.db"

[lambda]
grid_search = true
grid_points = 16

[optimizer]
max_iterations = 500
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("MEANVAL_WORKERS", "8")
	t.Setenv("MEANVAL_LOG_JSON", "true")

	v, err := config.New(path)
	require.NoError(t, err)
	c, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 8, c.Workers, "env overrides file")
	assert.True(t, c.Log.JSON)
	assert.Equal(t, store.KindSQLite, c.Store.Kind)
	assert.Equal(t, "bounds.db", c.Store.Path)
	assert.True(t, c.Lambda.GridSearch)
	assert.Equal(t, 16, c.Lambda.GridPoints)
	assert.Equal(t, 500, c.Optimizer.MaxIterations)
	assert.Len(t, c.LambdaOptions(), 1)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meanval.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  kind: dir\n  path: tables\n"), 0o644))
	v, err := config.New(path)
	require.NoError(t, err)
	c, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, store.KindDir, c.Store.Kind)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := config.New(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	cases := map[string]func(c *config.Config){
		"unknown store":    func(c *config.Config) { c.Store.Kind = "redis" },
		"dir without path": func(c *config.Config) { c.Store.Kind = store.KindDir },
		"negative workers": func(c *config.Config) { c.Workers = -1 },
		"zero grid":        func(c *config.Config) { c.Lambda.GridSearch, c.Lambda.GridPoints = true, 0 },
		"zero iterations":  func(c *config.Config) { c.Optimizer.MaxIterations = 0 },
		"negative epsilon": func(c *config.Config) { c.Optimizer.Epsilon = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v, err := config.New("")
			require.NoError(t, err)
			c, err := config.Load(v)
			require.NoError(t, err)
			mutate(c)
			assert.ErrorIs(t, c.Validate(), errs.ErrInvalidParameter)
		})
	}
}

func TestOpenStore(t *testing.T) {
	c := &config.Config{Store: config.StoreConfig{Kind: store.KindDir, Path: t.TempDir()}}
	s, err := c.OpenStore()
	require.NoError(t, err)
	assert.IsType(t, &store.Dir{}, s)
}
