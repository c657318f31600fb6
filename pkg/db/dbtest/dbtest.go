// Package dbtest opens a real Postgres connection for repository tests.
// Tests using it are skipped unless POULTRYGEAR_TEST_DB_DSN points at a
// disposable database with the migrations applied.
package dbtest

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const dsnEnv = "POULTRYGEAR_TEST_DB_DSN"

// Open returns a GORM handle to the test database or skips the test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("set %s to run repository tests", dsnEnv)
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrapping sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	return gdb
}

// Truncate empties the named tables between test cases.
func Truncate(t *testing.T, gdb *gorm.DB, tables ...string) {
	t.Helper()
	for _, table := range tables {
		if err := gdb.Exec("TRUNCATE TABLE " + table + " CASCADE").Error; err != nil {
			t.Fatalf("truncating %s: %v", table, err)
		}
	}
}
