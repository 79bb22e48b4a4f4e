// Package databasetest opens migrated in-memory SQLite databases for repository tests.
package databasetest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/arena-server/internal/infrastructure/database"
	_ "github.com/janhq/arena-server/internal/infrastructure/database/dbschema"
)

// New returns a private in-memory database with the full schema.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(database.Config{
		Driver:   database.DriverSQLite,
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		LogLevel: gormlogger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite, zerolog.Nop()))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
