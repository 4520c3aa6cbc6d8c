// Package repotest поднимает Repository на SQLite в памяти для тестов.
package repotest

import (
	"testing"

	"weconnect/cmd/back/internal/app"
	"weconnect/cmd/back/internal/repo"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// New - чистая база на каждый вызов. Одно соединение: у каждого
// соединения с :memory: своя база.
func New(t testing.TB) (*repo.Repository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), repo.Config())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(app.Models()...))
	return repo.NewRepository(db), db
}
