// Package testutil provides an isolated, migrated database for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shinyyama/overbid-backend/internal/config"
	"github.com/shinyyama/overbid-backend/internal/db"
	"gorm.io/gorm"
)

const ProgramID = "8y7t2oh2JyvYUBGKYKt5i1EGXtwEG17xPHJ3RmP9jHqi"

// NewDB opens a private in-memory SQLite database with every table migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	conn, err := db.Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
