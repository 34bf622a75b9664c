package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const sqliteDriverName = "sqlite3_unicode"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// SQLite's built-in lower() only folds ASCII.
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

// SQLiteDialector opens dsn through a driver whose lower() folds Unicode,
// matching the case folding applied to search terms.
func SQLiteDialector(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{
		DriverName: sqliteDriverName,
		DSN:        dsn,
	})
}

func unicodeLower(v interface{}) interface{} {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil {
			return nil
		}
		return strings.ToLower(string(s))
	default:
		return v
	}
}
