package config

import (
	"os"
	"path/filepath"
	"testing"

	"court-compare/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "court-snapshots", cfg.Storage.Bucket)
	assert.Equal(t, "local", cfg.Staging.Backend)
	assert.Equal(t, "uploaded_files", cfg.Staging.Dir)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, "reject", cfg.Compare.Duplicates)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "SERVER_PORT=9090\nSTAGING_BACKEND=s3\nSESSION_BACKEND=database\nDATABASE_DRIVER=sqlite\nCOMPARE_DUPLICATES=first\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))

	// Register cleanup so values loaded from the file do not leak into other tests.
	for _, key := range []string{"SERVER_PORT", "STAGING_BACKEND", "SESSION_BACKEND", "DATABASE_DRIVER", "COMPARE_DUPLICATES"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "s3", cfg.Staging.Backend)
	assert.Equal(t, "database", cfg.Session.Backend)
	assert.Equal(t, "sqlite", cfg.Database.Driver)

	opts, err := cfg.Compare.Options()
	require.NoError(t, err)
	assert.Equal(t, reconcile.DuplicatesFirst, opts.Duplicates)
}

func TestCompareConfig_Options(t *testing.T) {
	opts, err := CompareConfig{Duplicates: "reject"}.Options()
	require.NoError(t, err)
	assert.Equal(t, reconcile.DuplicatesReject, opts.Duplicates)

	_, err = CompareConfig{Duplicates: "last"}.Options()
	assert.Error(t, err)
}
