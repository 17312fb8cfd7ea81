package db

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenSQLite opens a file-backed SQLite database. Unique violations are translated to
// gorm.ErrDuplicatedKey.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := open(sqlite.Open(path+"?_busy_timeout=5000&_foreign_keys=on"), true)
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer at a time.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
