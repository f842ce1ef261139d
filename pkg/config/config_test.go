package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/config"
)

func writeProperties(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
	assert.Equal(t, []string{config.StoreMemory}, cfg.Stores())
	assert.Equal(t, config.DefaultExportDomain, cfg.ExportDomain)
	assert.NoError(t, cfg.Validate())
}

func TestLoadHomeFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeProperties(t, home, `
# persistence
store=postgres
postgresDsn=host=db user=taskana dbname=taskana
seed=42
`)

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "host=db user=taskana dbname=taskana", cfg.PostgresDSN)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.NoError(t, cfg.Validate())
}

func TestOverrides(t *testing.T) {
	path := writeProperties(t, t.TempDir(), "store=postgres\nseed=1\n")
	t.Setenv("TESTDATAGEN_POSTGRESDSN", "host=env")
	t.Setenv("TESTDATAGEN_EXPORTDOMAIN", "A")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(config.KeyStore, "", "")
	flags.Uint64(config.KeySeed, 0, "")
	require.NoError(t, flags.Parse([]string{"--seed", "7"}))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "host=env", cfg.PostgresDSN)
	assert.Equal(t, "A", cfg.ExportDomain)
	assert.Equal(t, uint64(7), cfg.Seed)
	// unchanged flags keep the file value
	assert.Equal(t, "postgres", cfg.Store)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.properties"), nil)
	require.ErrorIs(t, err, config.ErrConfiguration)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	t.Run("surrealdb needs credentials", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store = "surrealdb"
		cfg.SurrealURL = "ws://localhost:8000/rpc"

		err := cfg.Validate()
		var cErr *config.ConfigurationError
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, []string{config.KeyDBUserName, config.KeyDBPassword}, cErr.Missing)
		assert.ErrorContains(t, err, "missing dbUserName, dbPassword")
	})

	t.Run("every selected store is checked", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store = "memory, postgres,surrealdb,postgres"
		assert.Equal(t, []string{"memory", "postgres", "surrealdb"}, cfg.Stores())

		var cErr *config.ConfigurationError
		require.ErrorAs(t, cfg.Validate(), &cErr)
		assert.Equal(t, []string{config.KeyPostgresDSN, config.KeySurrealURL, config.KeyDBUserName, config.KeyDBPassword}, cErr.Missing)
	})

	t.Run("unknown store", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store = "db2"
		assert.ErrorIs(t, cfg.Validate(), config.ErrConfiguration)
	})

	t.Run("no store", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store = " , "
		var cErr *config.ConfigurationError
		require.ErrorAs(t, cfg.Validate(), &cErr)
		assert.Equal(t, []string{config.KeyStore}, cErr.Missing)
	})
}
