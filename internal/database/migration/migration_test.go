package migration

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"securedoc/internal/logging"
)

func TestEnsureMigrated_UnknownDriver(t *testing.T) {
	err := EnsureMigrated(context.Background(), nil, "oracle", logging.Discard())
	assert.EqualError(t, err, `no migrations for driver "oracle"`)
}

func TestEnsureMigrated_UpError(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return errors.New("relation exists")
	}

	var buf bytes.Buffer
	err := EnsureMigrated(context.Background(), nil, "postgres", logging.New(&buf, time.UTC))

	assert.EqualError(t, err, "migrate: relation exists")
	assert.Equal(t, "postgres", gotDir)
	assert.Contains(t, buf.String(), `"msg":"db_migration_failed"`)
}

func TestEnsureMigrated_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, EnsureMigrated(ctx, db, "sqlite", logging.Discard()))
	// Second run is a no-op.
	require.NoError(t, EnsureMigrated(ctx, db, "sqlite", logging.Discard()))

	for _, table := range []string{"libro_pdf", "acceso_pdf", "operator_roles", "services", "products"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
}
