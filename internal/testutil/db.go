// Package testutil opens throwaway databases for repository and router tests.
package testutil

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	orderDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/order"
	productDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/product"
	userDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/user"
)

// OpenSQLite returns an in-memory database with every table migrated. The pool is
// pinned to one connection because each sqlite :memory: connection is its own database.
func OpenSQLite() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userDatamodel.User{},
		&productDatamodel.Product{},
		&orderDatamodel.Order{},
		&orderDatamodel.TrackingEntry{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
