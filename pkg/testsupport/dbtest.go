// Package testsupport opens throwaway databases for storage tests.
package testsupport

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// NewIsolatedSQLiteDB opens a named in-memory database so tables created by
// one test are invisible to the others. Foreign keys are enforced.
func NewIsolatedSQLiteDB() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	return sql.Open("sqlite3", dsn)
}
