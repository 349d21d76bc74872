package db

import (
	"artfolio/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

func Init() {
	var err error
	var db *gorm.DB
	conf := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}
	if config.MYSQL_DSN != "" {
		db, err = gorm.Open(mysql.Open(config.MYSQL_DSN), conf)
	} else if config.SQLITE_FILE != "" {
		db, err = gorm.Open(sqlite.Open(config.SQLITE_FILE), conf)
	} else {
		panic("no database configured: set MYSQL_DSN or SQLITE_FILE")
	}
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}

// InitWith lets tests (and tools) provide their own connection
func InitWith(db *gorm.DB) {
	Instance = db
}
