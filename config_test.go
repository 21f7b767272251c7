package persist_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/persist"
	"github.com/syssam/persist/dialect"
	"github.com/syssam/persist/internal/domain"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		cfg, err := persist.LoadConfig(writeConfig(t, "persist.yaml", `
driver: mysql
dsn: root:pass@tcp(localhost:3306)/shop
debug: true
slow_threshold: 200ms
`))
		require.NoError(t, err)
		assert.Equal(t, &persist.Config{
			Driver:        "mysql",
			DSN:           "root:pass@tcp(localhost:3306)/shop",
			Debug:         true,
			SlowThreshold: "200ms",
		}, cfg)
	})
	t.Run("JSONC", func(t *testing.T) {
		cfg, err := persist.LoadConfig(writeConfig(t, "persist.jsonc", `{
	// local database
	"driver": "pgx",
	"dsn": "postgres://localhost/shop",
	"dialect": "postgres", // trailing comma below
}`))
		require.NoError(t, err)
		assert.Equal(t, "pgx", cfg.Driver)
		assert.Equal(t, dialect.Postgres, cfg.Dialect)
	})
	t.Run("Missing", func(t *testing.T) {
		_, err := persist.LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     persist.Config
		wantErr string
	}{
		{name: "valid", cfg: persist.Config{Driver: "sqlite", DSN: "file:x.db"}},
		{name: "no driver", cfg: persist.Config{DSN: "file:x.db"}, wantErr: "driver is required"},
		{name: "no dsn", cfg: persist.Config{Driver: "sqlite"}, wantErr: "dsn is required"},
		{name: "unknown dialect", cfg: persist.Config{Driver: "oracle", DSN: "x"}, wantErr: "oracle"},
		{name: "dialect override", cfg: persist.Config{Driver: "odbc", DSN: "x", Dialect: dialect.H2}},
		{name: "bad mysql dsn", cfg: persist.Config{Driver: "mysql", DSN: "localhost"}, wantErr: "mysql dsn"},
		{name: "bad threshold", cfg: persist.Config{Driver: "sqlite", DSN: "x", SlowThreshold: "soon"}, wantErr: "slow_threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseConfig(t *testing.T) {
	_, err := persist.ParseConfig([]byte("driver: [sqlite"), ".yaml")
	require.ErrorContains(t, err, "invalid YAML")
	_, err = persist.ParseConfig([]byte(`{"driver": }`), ".json")
	require.ErrorContains(t, err, "invalid JSONC")
	_, err = persist.ParseConfig([]byte("driver: sqlite"), ".yml")
	require.ErrorContains(t, err, "dsn is required")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })

	em, err := persist.Open(&persist.Config{
		Driver:        "sqlite",
		DSN:           "file:" + filepath.Join(t.TempDir(), "open.db"),
		Debug:         true,
		SlowThreshold: "1h",
	})
	require.NoError(t, err)
	assert.Equal(t, dialect.SQLite, em.Dialect().Name())
	require.NoError(t, em.CreateTable(ctx, &domain.Person{}))
	require.NoError(t, em.Persist(ctx, domain.NewPerson("a", 1, "a@b.c")))
	require.NoError(t, em.Close())
	assert.Contains(t, buf.String(), "INSERT INTO users")

	em, err = persist.Open(&persist.Config{Driver: "sqlite", DSN: "file::memory:", Dialect: dialect.MySQL})
	require.NoError(t, err)
	assert.Equal(t, dialect.MySQL, em.Dialect().Name())
	require.NoError(t, em.Close())

	_, err = persist.Open(&persist.Config{Driver: "sqlite"})
	require.ErrorContains(t, err, "invalid config")
}
